package gemini

import "errors"

// ErrEmptySourceText is returned when the material to generate from is
// empty. The generator checks this before spending an API call.
var ErrEmptySourceText = errors.New("source text cannot be empty")
