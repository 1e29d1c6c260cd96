package port

import (
	"context"

	"github.com/mixbar/kitstore/internal/core/domain"
)

// CustomKitStore holds user-composed kits between build and checkout so the
// cart can re-price them from their product refs.
type CustomKitStore interface {
	// PutKit stores a custom kit under its id
	PutKit(ctx context.Context, kit domain.Kit) error

	// GetKit retrieves a custom kit by id, (nil, nil) if absent or expired
	GetKit(ctx context.Context, id int64) (*domain.Kit, error)
}

// IDAllocator hands out ids from the custom kit id space. Allocation is
// atomic across concurrent builders; ids never repeat and never collide
// with catalog ids.
type IDAllocator interface {
	NextID(ctx context.Context) (int64, error)
}
