package service

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/mixbar/kitstore/internal/core/domain"
	"github.com/mixbar/kitstore/internal/port"
)

// Resolver turns product id references into full product records. Lookups
// fan out in parallel and join before any result is returned; a single
// failed lookup aborts the whole resolution.
type Resolver struct {
	catalog port.CatalogRepository
}

func NewResolver(catalog port.CatalogRepository) *Resolver {
	return &Resolver{catalog: catalog}
}

// Hydrate resolves every product ref of the kit into a point-in-time
// snapshot. Result order matches ProductRefs regardless of which lookup
// completes first. The stored kit is never modified.
func (r *Resolver) Hydrate(ctx context.Context, kit domain.Kit) (domain.KitSnapshot, error) {
	products, err := r.resolveProducts(ctx, kit.ProductRefs)
	if err != nil {
		if resErr, ok := err.(*ResolutionError); ok {
			resErr.KitID = kit.ID
		}
		return domain.KitSnapshot{}, err
	}
	return domain.KitSnapshot{
		ID:       kit.ID,
		Name:     kit.Name,
		Price:    kit.Price,
		Quantity: kit.Quantity,
		Products: products,
	}, nil
}

// PriceOf sums the current catalog prices of the given products. It fails
// rather than compute a total from a partial set.
func (r *Resolver) PriceOf(ctx context.Context, productIDs []int64) (decimal.Decimal, error) {
	products, err := r.resolveProducts(ctx, productIDs)
	if err != nil {
		return decimal.Zero, err
	}
	total := decimal.Zero
	for _, p := range products {
		total = total.Add(p.Price)
	}
	return total, nil
}

func (r *Resolver) resolveProducts(ctx context.Context, ids []int64) ([]domain.Product, error) {
	products := make([]domain.Product, len(ids))

	var mu sync.Mutex
	var failed []int64

	g, gctx := errgroup.WithContext(ctx)
	for i, id := range ids {
		i, id := i, id
		g.Go(func() error {
			p, err := r.catalog.GetProduct(gctx, id)
			if err != nil {
				mu.Lock()
				failed = append(failed, id)
				mu.Unlock()
				return fmt.Errorf("get product %d: %w", id, err)
			}
			if p == nil {
				mu.Lock()
				failed = append(failed, id)
				mu.Unlock()
				return &NotFoundError{Resource: "product", ID: id}
			}
			products[i] = *p
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		mu.Lock()
		ids := append([]int64(nil), failed...)
		mu.Unlock()
		sort.Slice(ids, func(a, b int) bool { return ids[a] < ids[b] })
		return nil, &ResolutionError{IDs: ids, Err: err}
	}
	return products, nil
}
