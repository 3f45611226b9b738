package ports

import "context"

// GenerateRequest is one call to the external model.
type GenerateRequest struct {
	// SessionID lets agents keep their own conversational memory.
	SessionID string
	Prompt    string
}

// Generator produces text for a prompt.
//
// Implementations return an error wrapping domain.ErrThrottled when the upstream
// service rate-limits the caller; the dispatcher turns that into a user-facing message.
type Generator interface {
	Generate(ctx context.Context, req GenerateRequest) (string, error)
}

// GeneratorFunc adapts a function to the Generator interface.
type GeneratorFunc func(ctx context.Context, req GenerateRequest) (string, error)

// Generate calls f.
func (f GeneratorFunc) Generate(ctx context.Context, req GenerateRequest) (string, error) {
	return f(ctx, req)
}
