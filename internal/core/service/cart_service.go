package service

import (
	"context"
	"fmt"
	"hash/fnv"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/mixbar/kitstore/internal/core/domain"
	"github.com/mixbar/kitstore/internal/logger"
	"github.com/mixbar/kitstore/internal/port"
)

const cartLockStripes = 64

// CartService manages per-user pending purchases. Mutations for one user
// are serialized through striped locks so concurrent adds never lose
// updates; different users proceed independently.
type CartService struct {
	carts    port.CartRepository
	resolver *Resolver
	kits     kitSource
	log      *logger.Logger
	locks    [cartLockStripes]sync.Mutex
}

func NewCartService(carts port.CartRepository, catalog port.CatalogRepository, customKits port.CustomKitStore, resolver *Resolver, threshold int64, log *logger.Logger) *CartService {
	return &CartService{
		carts:    carts,
		resolver: resolver,
		kits:     kitSource{catalog: catalog, customKits: customKits, threshold: threshold},
		log:      log,
	}
}

func (s *CartService) userLock(user string) *sync.Mutex {
	h := fnv.New32a()
	h.Write([]byte(user))
	return &s.locks[h.Sum32()%cartLockStripes]
}

// withUserLock runs fn while holding the user's writer lock. Composite
// operations that must not interleave with cart mutations, like purchase's
// snapshot-then-clear, run through here too.
func (s *CartService) withUserLock(user string, fn func() error) error {
	mu := s.userLock(user)
	mu.Lock()
	defer mu.Unlock()
	return fn()
}

// clearLocked empties the cart without taking the user lock; the caller
// must already hold it.
func (s *CartService) clearLocked(ctx context.Context, user string) error {
	if err := s.carts.Clear(ctx, user); err != nil {
		return fmt.Errorf("clear cart: %w", err)
	}
	return nil
}

// Add merges qty of the given kit into the user's cart. The kit must exist
// in its id space; the catalog itself is left untouched.
func (s *CartService) Add(ctx context.Context, user string, kitID int64, qty int) error {
	if qty <= 0 {
		return &ValidationError{Field: "quantity", Reason: "must be positive"}
	}

	kit, err := s.kits.kitByID(ctx, kitID)
	if err != nil {
		return fmt.Errorf("lookup kit %d: %w", kitID, err)
	}
	if kit == nil {
		return &NotFoundError{Resource: "kit", ID: kitID}
	}

	return s.withUserLock(user, func() error {
		if err := s.carts.AddItem(ctx, user, kitID, qty); err != nil {
			return fmt.Errorf("add to cart: %w", err)
		}
		s.log.Debug("cart add", "user", user, "kit_id", kitID, "quantity", qty)
		return nil
	})
}

// Remove decrements the entry for the kit, clamping at zero: the entry is
// deleted rather than going negative, and removing more than is present is
// not an error.
func (s *CartService) Remove(ctx context.Context, user string, kitID int64, qty int) error {
	if qty <= 0 {
		return &ValidationError{Field: "quantity", Reason: "must be positive"}
	}

	return s.withUserLock(user, func() error {
		if err := s.carts.RemoveItem(ctx, user, kitID, qty); err != nil {
			return fmt.Errorf("remove from cart: %w", err)
		}
		s.log.Debug("cart remove", "user", user, "kit_id", kitID, "quantity", qty)
		return nil
	})
}

// Clear empties the user's cart. Clearing an already-empty cart is a no-op.
func (s *CartService) Clear(ctx context.Context, user string) error {
	return s.withUserLock(user, func() error {
		return s.clearLocked(ctx, user)
	})
}

// Get returns the user's current cart contents.
func (s *CartService) Get(ctx context.Context, user string) (domain.Cart, error) {
	cart, err := s.carts.Load(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("load cart: %w", err)
	}
	return cart, nil
}

// Total computes the cost of the cart at current prices. Catalog kits use
// their stored price; custom kits are re-priced from their product refs.
// Any unresolvable constituent aborts the computation: an unpriceable item
// never counts as free.
func (s *CartService) Total(ctx context.Context, user string) (decimal.Decimal, error) {
	cart, err := s.carts.Load(ctx, user)
	if err != nil {
		return decimal.Zero, fmt.Errorf("load cart: %w", err)
	}

	total := decimal.Zero
	for kitID, qty := range cart {
		price, err := s.kitPrice(ctx, kitID)
		if err != nil {
			return decimal.Zero, err
		}
		total = total.Add(price.Mul(decimal.NewFromInt(int64(qty))))
	}
	return total, nil
}

func (s *CartService) kitPrice(ctx context.Context, kitID int64) (decimal.Decimal, error) {
	kit, err := s.kits.kitByID(ctx, kitID)
	if err != nil {
		return decimal.Zero, fmt.Errorf("lookup kit %d: %w", kitID, err)
	}
	if kit == nil {
		return decimal.Zero, &ResolutionError{IDs: []int64{kitID}, Err: &NotFoundError{Resource: "kit", ID: kitID}}
	}
	if domain.IsCustomID(kitID, s.kits.threshold) {
		return s.resolver.PriceOf(ctx, kit.ProductRefs)
	}
	return kit.Price, nil
}
