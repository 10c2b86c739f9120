// Package api handles incoming HTTP requests, request validation, and
// response formatting. It acts as an adapter between external clients and
// the internal game and catalog services, translating HTTP concerns to
// business operations and mapping internal errors onto sanitized responses.
package api
