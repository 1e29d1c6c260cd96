package port

import (
	"context"

	"github.com/mixbar/kitstore/internal/core/domain"
)

type CartRepository interface {
	// Load returns the user's current cart, empty if none exists yet
	Load(ctx context.Context, user string) (domain.Cart, error)

	// AddItem atomically merges qty into the entry for kitID
	AddItem(ctx context.Context, user string, kitID int64, qty int) error

	// RemoveItem atomically decrements the entry, clamping at zero and
	// deleting emptied entries; removing a missing entry is a no-op
	RemoveItem(ctx context.Context, user string, kitID int64, qty int) error

	// Clear empties the cart; clearing an empty cart succeeds
	Clear(ctx context.Context, user string) error
}
