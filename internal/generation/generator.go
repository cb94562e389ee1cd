package generation

import (
	"context"
)

// ModelClient defines the interface for issuing a single generation request
// against the upstream model API. This interface serves as a boundary between
// the generation loop and the concrete Gemini client, so the loop can be
// exercised with fakes in tests.
//
// Implementations perform exactly one outbound call per invocation and never
// retry internally; all retry and rotation policy lives in the Loop.
//
// Failure modes:
//   - an error matching ErrQuotaExceeded when the credential's quota or rate
//     limit was hit (the caller should rotate credentials)
//   - an error matching ErrTransientFailure for any other call failure
type ModelClient interface {
	// Generate issues one request with the given prompts and credential and
	// returns the raw model text. The text may be empty or malformed; parsing
	// is the caller's concern.
	Generate(ctx context.Context, systemPrompt, userPrompt, credential string) (string, error)
}

// Task is one unit of generation work: a label for diagnostics plus the
// prompt pair sent to the model. Tasks are immutable once created and are
// consumed by exactly one Loop invocation.
type Task struct {
	// Label identifies the task in logs, e.g. "persona #7".
	Label string

	// SystemPrompt is the shared instruction prefix for the batch.
	SystemPrompt string

	// UserPrompt is the per-task request body.
	UserPrompt string
}
