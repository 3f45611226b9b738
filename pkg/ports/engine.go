package ports

import (
	"context"

	"github.com/bahrain-bp/bqa-insight-ai/pkg/domain"
)

// Fulfiller is the stateless core used by adapters (HTTP, Lambda, MCP, simulator).
// All dialog state travels inside the event and comes back in the response.
type Fulfiller interface {
	// Fulfill processes one dialog turn.
	Fulfill(ctx context.Context, ev *domain.Event) (*domain.Response, error)
}
