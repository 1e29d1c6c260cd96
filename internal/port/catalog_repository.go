package port

import (
	"context"

	"github.com/mixbar/kitstore/internal/core/domain"
)

type CatalogRepository interface {
	// GetProduct retrieves a product by id, (nil, nil) if absent
	GetProduct(ctx context.Context, id int64) (*domain.Product, error)

	// GetKit retrieves a catalog kit by id with ordered product refs, (nil, nil) if absent
	GetKit(ctx context.Context, id int64) (*domain.Kit, error)

	// ListProducts returns every product in the catalog
	ListProducts(ctx context.Context) ([]domain.Product, error)

	// SearchKits returns catalog kits whose name contains the given text, case-insensitive
	SearchKits(ctx context.Context, name string) ([]domain.Kit, error)
}
