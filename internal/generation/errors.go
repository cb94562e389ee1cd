package generation

import "errors"

// Common errors returned by the generation package
var (
	// ErrGenerationFailed is returned when dialogue generation fails for any general reason
	ErrGenerationFailed = errors.New("failed to generate dialogue")

	// ErrQuotaExceeded is returned when a credential's quota or rate limit was hit.
	// It is recoverable by rotating to the next credential in the pool and is
	// never surfaced past the generation loop.
	ErrQuotaExceeded = errors.New("credential quota exhausted")

	// ErrTransientFailure is returned for unexpected call failures (network,
	// malformed request, opaque API errors). These are not retried.
	ErrTransientFailure = errors.New("transient error during dialogue generation")

	// ErrEmptyResult is returned when the model never produced a parseable
	// record within the parse-retry budget, or when the credential pool was
	// exhausted under the skip policy.
	ErrEmptyResult = errors.New("no usable record from model")

	// ErrInvalidConfig is returned when the generator configuration is invalid
	ErrInvalidConfig = errors.New("invalid generator configuration")
)
