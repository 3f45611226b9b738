package ports

import (
	"context"

	"github.com/bahrain-bp/bqa-insight-ai/pkg/domain"
)

// StateStore defines the interface for persisting simulated conversations.
// In production the platform owns the session; the store only backs the local front door.
type StateStore interface {
	// Save persists the conversation for a given session ID.
	Save(ctx context.Context, sessionID string, conv *domain.Conversation) error

	// Load retrieves the conversation for a given session ID.
	// Returns domain.ErrSessionNotFound if the session does not exist.
	Load(ctx context.Context, sessionID string) (*domain.Conversation, error)

	// Delete removes the conversation for a given session ID.
	Delete(ctx context.Context, sessionID string) error

	// List returns the IDs of all stored sessions.
	List(ctx context.Context) ([]string, error)
}
