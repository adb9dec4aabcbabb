package grid

import (
	"context"

	"github.com/arthur-debert/dispatchgrid/types"
)

// PreferenceStore persists layouts by storage key.
// Load returns nil, nil when nothing is stored under key.
type PreferenceStore interface {
	Load(ctx context.Context, key string) (*types.LayoutState, error)
	Save(ctx context.Context, key string, state types.LayoutState) error
}

func (c *Controller[T]) loadLayout() {
	if c.store == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), c.storeTimeout)
	defer cancel()

	state, err := c.store.Load(ctx, c.storageKey)
	if err != nil {
		c.logger.Warn("layout load failed, using defaults", "key", c.storageKey, "error", err)
		return
	}
	c.layout.Apply(state)
}

// saveLayout is the layout manager's change hook. Failures are logged and
// the in-memory layout stays authoritative.
func (c *Controller[T]) saveLayout(state types.LayoutState) {
	if c.store == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), c.storeTimeout)
	defer cancel()

	if err := c.store.Save(ctx, c.storageKey, state); err != nil {
		c.logger.Warn("layout save failed", "key", c.storageKey, "error", err)
	}
}
