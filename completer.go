package antmaster

import "context"

// Completer is a knowledge backend: a text-generation service taking a
// system instruction and a user prompt.
type Completer interface {
	// Complete returns the generated text.
	// Returns EUNAVAILABLE if the backend is not configured.
	Complete(ctx context.Context, system, prompt string) (string, error)
}
