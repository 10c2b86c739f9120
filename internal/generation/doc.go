// Package generation defines the port for deriving concept/meaning pairs
// from study material with a language model. The rest of the application
// depends on the PairGenerator interface and the sentinel errors here; the
// Gemini-backed implementation lives in platform/gemini.
package generation
