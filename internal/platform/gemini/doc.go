// Package gemini provides an implementation of the generation.PairGenerator
// interface that uses Google's Gemini API to derive concept/meaning pairs
// from study material.
//
// This package is an infrastructure adapter in the hexagonal architecture,
// connecting the application's domain logic to Google's external generative
// service without exposing the details of that service to the core.
//
// Key behaviors:
//
//  1. Prompt management: a default prompt template is embedded in the binary
//     and can be overridden through configuration. Source material is capped
//     to a configured character limit before the prompt is assembled.
//
//  2. Credential fallback: the configured API keys form an ordered chain.
//     Each generation attempt walks the chain until a credential produces a
//     response, so a rate-limited or revoked key degrades service instead of
//     breaking it.
//
//  3. Retry policy: failed attempts are retried with exponential backoff and
//     jitter. Malformed model output is re-rolled the same way; safety blocks
//     are permanent and never retried.
//
//  4. Response processing: the model must answer with a JSON array of
//     concept/meaning objects. Parsing is all-or-nothing and a response that
//     repeats a concept or meaning key is rejected whole.
package gemini
