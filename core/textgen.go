package core

import "context"

// TextGenerator is an optional external text-generation collaborator.
// Implementations must bound the call (client timeout and/or ctx deadline);
// any error is treated by callers as "service unavailable", never surfaced
// to end users.
type TextGenerator interface {
	GenerateText(ctx context.Context, system, user string) (string, error)
}
