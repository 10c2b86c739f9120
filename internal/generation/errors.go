package generation

import "errors"

// Sentinel errors for pair generation. Callers branch on these with
// errors.Is; the concrete generator wraps them with provider detail.
var (
	// ErrGenerationFailed covers failures with no more specific cause.
	ErrGenerationFailed = errors.New("failed to generate pairs from text")

	// ErrInvalidResponse means the model reply could not be parsed into
	// usable pairs.
	ErrInvalidResponse = errors.New("invalid response from language model")

	// ErrDuplicatePairs means the parsed reply repeats a concept or meaning
	// key. The whole reply is rejected, never silently deduplicated.
	ErrDuplicatePairs = errors.New("duplicate keys in generated pairs")

	// ErrContentBlocked means the provider refused the material on safety
	// grounds. Retrying the same material will not help.
	ErrContentBlocked = errors.New("generation blocked by safety filters")

	// ErrTransientFailure marks errors worth retrying, such as rate limits
	// or provider downtime.
	ErrTransientFailure = errors.New("transient error during pair generation")

	// ErrNoCredentials means no usable API key is configured.
	ErrNoCredentials = errors.New("no generation credentials configured")

	// ErrInvalidConfig means the generator was built with unusable settings.
	ErrInvalidConfig = errors.New("invalid generator configuration")
)
