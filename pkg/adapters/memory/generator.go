package memory

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/bahrain-bp/bqa-insight-ai/pkg/ports"
)

// Echo is an offline ports.Generator. It answers with the live question of the
// prompt, which is enough to drive the dialog without a model.
type Echo struct {
	mu    sync.Mutex
	calls []ports.GenerateRequest
}

// NewEcho creates an echo generator.
func NewEcho() *Echo {
	return &Echo{}
}

// Generate returns a canned answer built from the last "Question:" line of the prompt.
func (e *Echo) Generate(ctx context.Context, req ports.GenerateRequest) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	e.mu.Lock()
	e.calls = append(e.calls, req)
	e.mu.Unlock()

	return fmt.Sprintf("[offline answer] %s", lastQuestion(req.Prompt)), nil
}

// Calls returns the requests received so far.
func (e *Echo) Calls() []ports.GenerateRequest {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]ports.GenerateRequest(nil), e.calls...)
}

func lastQuestion(prompt string) string {
	lines := strings.Split(prompt, "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		line := strings.TrimSpace(lines[i])
		if q, ok := strings.CutPrefix(line, "Question:"); ok {
			return strings.TrimSpace(q)
		}
	}
	return strings.TrimSpace(prompt)
}
