// Package llm provides chat completion clients for the language models that
// back entity extraction, relationship scoring and content classification.
package llm

import "context"

// Client is a chat-style completion client. The system prompt sets the task
// and the user prompt carries the content under analysis.
type Client interface {
	// Complete sends the prompts and returns the raw completion text.
	Complete(ctx context.Context, system, user string) (string, error)

	// CompleteJSON sends the prompts and decodes the completion into out,
	// tolerating markdown code fences and array-for-string deviations in
	// the model output. out must be a pointer.
	CompleteJSON(ctx context.Context, system, user string, out any) error
}
