// Package service contains the application-specific use cases. It
// orchestrates interactions between domain objects, the catalog store and
// the extraction/generation ports to fulfill application features.
//
// The root package holds the source catalog service; subpackages hold the
// game orchestration service (game) and the session token service
// (session). Services receive their dependencies through constructor
// injection and depend only on interfaces, never on infrastructure
// implementations.
//
// Error handling follows one rule throughout: expected conditions surface
// as sentinel errors the API layer maps onto status codes, and unexpected
// failures are wrapped in service-specific error types that preserve the
// chain for errors.Is/errors.As.
package service
