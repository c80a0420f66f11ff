package ports

import (
	"context"

	"github.com/aretw0/picket/pkg/domain"
)

// UpdateSink defines where the reconciler delivers value-update messages.
// Sends are fire-and-forget from the reconciler's perspective: no
// acknowledgement handshake exists at this layer, and ordering is the
// transport's responsibility.
type UpdateSink interface {
	Send(ctx context.Context, update domain.ValueUpdate) error
}

// UpdateSinkFunc adapts a function to the UpdateSink interface.
type UpdateSinkFunc func(ctx context.Context, update domain.ValueUpdate) error

// Send calls the wrapped function.
func (f UpdateSinkFunc) Send(ctx context.Context, update domain.ValueUpdate) error {
	return f(ctx, update)
}
