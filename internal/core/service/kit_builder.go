package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/mixbar/kitstore/internal/core/domain"
	"github.com/mixbar/kitstore/internal/logger"
	"github.com/mixbar/kitstore/internal/port"
)

// defaultCustomKitQuantity is the display quantity a freshly built custom
// kit starts with.
const defaultCustomKitQuantity = 20

// KitBuilder assembles ad-hoc kits from user-chosen products. Pricing is
// computed server-side from current catalog prices; the result is stored
// transiently so checkout can re-price it by id.
type KitBuilder struct {
	resolver *Resolver
	alloc    port.IDAllocator
	kits     port.CustomKitStore
	log      *logger.Logger
}

func NewKitBuilder(resolver *Resolver, alloc port.IDAllocator, kits port.CustomKitStore, log *logger.Logger) *KitBuilder {
	return &KitBuilder{resolver: resolver, alloc: alloc, kits: kits, log: log}
}

// Build prices the given products, allocates an id from the custom id
// space, and stores the resulting kit. The price is the sum of current
// product prices rounded to cents with banker's rounding.
func (b *KitBuilder) Build(ctx context.Context, name string, productIDs []int64) (*domain.Kit, error) {
	if len(productIDs) == 0 {
		return nil, &ValidationError{Field: "product_ids", Reason: "must not be empty"}
	}

	price, err := b.resolver.PriceOf(ctx, productIDs)
	if err != nil {
		return nil, err
	}

	id, err := b.alloc.NextID(ctx)
	if err != nil {
		return nil, fmt.Errorf("allocate custom kit id: %w", err)
	}

	kit := domain.Kit{
		ID:          id,
		Name:        name,
		Price:       price.RoundBank(2),
		Quantity:    defaultCustomKitQuantity,
		ProductRefs: productIDs,
	}
	if err := b.kits.PutKit(ctx, kit); err != nil {
		return nil, fmt.Errorf("store custom kit: %w", err)
	}

	b.log.Info("built custom kit", "kit_id", kit.ID, "name", kit.Name, "price", kit.Price.String(), "products", len(productIDs))
	return &kit, nil
}

// BuildFromRaw builds a kit from the comma-separated id list the storefront
// form submits, e.g. "3, 7,12".
func (b *KitBuilder) BuildFromRaw(ctx context.Context, name, rawIDs string) (*domain.Kit, error) {
	ids, err := ParseProductIDs(rawIDs)
	if err != nil {
		return nil, err
	}
	return b.Build(ctx, name, ids)
}

// ParseProductIDs parses a comma-separated list of product ids, trimming
// whitespace around each entry.
func ParseProductIDs(raw string) ([]int64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, &ValidationError{Field: "product_ids", Reason: "must not be empty"}
	}

	parts := strings.Split(raw, ",")
	ids := make([]int64, 0, len(parts))
	for _, part := range parts {
		id, err := strconv.ParseInt(strings.TrimSpace(part), 10, 64)
		if err != nil {
			return nil, &ValidationError{Field: "product_ids", Reason: fmt.Sprintf("%q is not a valid id", strings.TrimSpace(part))}
		}
		ids = append(ids, id)
	}
	return ids, nil
}
