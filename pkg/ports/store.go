package ports

import (
	"context"

	"github.com/aretw0/picket/pkg/domain"
)

// StateStore defines the interface for persisting committed widget values.
// Session state is created on first use and evicted explicitly when the
// owning session ends — never an implicit global.
type StateStore interface {
	// Save persists the state for a given session ID.
	Save(ctx context.Context, sessionID string, state *domain.SessionState) error

	// Load retrieves the state for a given session ID.
	// Returns domain.ErrSessionNotFound if the session does not exist.
	Load(ctx context.Context, sessionID string) (*domain.SessionState, error)

	// Delete removes the state for a given session ID.
	Delete(ctx context.Context, sessionID string) error

	// List returns the IDs of all sessions with persisted state.
	List(ctx context.Context) ([]string, error)
}
