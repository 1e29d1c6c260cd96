package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/mixbar/kitstore/internal/core/domain"
	"github.com/mixbar/kitstore/internal/logger"
	"github.com/mixbar/kitstore/internal/port"
)

// OrderService converts carts into immutable orders and serves order
// history queries.
type OrderService struct {
	orders   port.OrderRepository
	cart     *CartService
	resolver *Resolver
	kits     kitSource
	log      *logger.Logger
}

func NewOrderService(orders port.OrderRepository, cart *CartService, catalog port.CatalogRepository, customKits port.CustomKitStore, resolver *Resolver, threshold int64, log *logger.Logger) *OrderService {
	return &OrderService{
		orders:   orders,
		cart:     cart,
		resolver: resolver,
		kits:     kitSource{catalog: catalog, customKits: customKits, threshold: threshold},
		log:      log,
	}
}

// Purchase snapshots the user's cart into a new order, persists it, then
// clears the cart. An empty cart yields ErrEmptyCart and changes nothing.
// The whole snapshot-persist-clear sequence holds the user's cart writer
// lock: a concurrent add either lands before the snapshot or after the
// clear, never in between, and two simultaneous purchases cannot both
// snapshot the same cart. The clear only runs once the order is durable;
// if the clear itself fails the order is returned alongside an
// InconsistentStateError so the caller can retry the clear.
func (s *OrderService) Purchase(ctx context.Context, user string) (*domain.Order, error) {
	var saved *domain.Order
	err := s.cart.withUserLock(user, func() error {
		cart, err := s.cart.Get(ctx, user)
		if err != nil {
			return err
		}
		if cart.IsEmpty() {
			return ErrEmptyCart
		}

		snapshots, err := s.snapshotCart(ctx, cart)
		if err != nil {
			return err
		}

		order := &domain.Order{
			User:      user,
			Kits:      snapshots,
			CreatedAt: time.Now().UTC(),
		}
		saved, err = s.orders.SaveOrder(ctx, order)
		if err != nil {
			return fmt.Errorf("save order: %w", err)
		}

		if err := s.cart.clearLocked(ctx, user); err != nil {
			s.log.Error("cart clear failed after order save", "user", user, "order_id", saved.ID, "error", err)
			return &InconsistentStateError{OrderID: saved.ID, User: user, Err: err}
		}
		return nil
	})
	if err != nil {
		var inconsistent *InconsistentStateError
		if errors.As(err, &inconsistent) {
			return saved, err
		}
		return nil, err
	}

	s.log.Info("order placed", "user", user, "order_id", saved.ID, "kits", len(saved.Kits))
	return saved, nil
}

// snapshotCart hydrates every cart entry at current catalog state. An entry
// with quantity N contributes N snapshot entries, so the order records each
// purchased unit.
func (s *OrderService) snapshotCart(ctx context.Context, cart domain.Cart) ([]domain.KitSnapshot, error) {
	kitIDs := make([]int64, 0, len(cart))
	for id := range cart {
		kitIDs = append(kitIDs, id)
	}
	sort.Slice(kitIDs, func(a, b int) bool { return kitIDs[a] < kitIDs[b] })

	var snapshots []domain.KitSnapshot
	for _, kitID := range kitIDs {
		kit, err := s.kits.kitByID(ctx, kitID)
		if err != nil {
			return nil, fmt.Errorf("lookup kit %d: %w", kitID, err)
		}
		if kit == nil {
			return nil, &ResolutionError{IDs: []int64{kitID}, Err: &NotFoundError{Resource: "kit", ID: kitID}}
		}

		snapshot, err := s.resolver.Hydrate(ctx, *kit)
		if err != nil {
			return nil, err
		}
		for i := 0; i < cart[kitID]; i++ {
			snapshots = append(snapshots, snapshot)
		}
	}
	return snapshots, nil
}

// History returns the user's orders, most recent first.
func (s *OrderService) History(ctx context.Context, user string) ([]domain.Order, error) {
	orders, err := s.orders.ListOrders(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	return orders, nil
}

// Search returns the user's orders where at least one kit name contains
// term, case-insensitively. A blank term means "no query yet" and returns
// no orders rather than the full history.
func (s *OrderService) Search(ctx context.Context, user, term string) ([]domain.Order, error) {
	if strings.TrimSpace(term) == "" {
		return []domain.Order{}, nil
	}

	orders, err := s.History(ctx, user)
	if err != nil {
		return nil, err
	}

	matched := make([]domain.Order, 0, len(orders))
	for _, o := range orders {
		if o.ContainsMatchingKit(term) {
			matched = append(matched, o)
		}
	}
	return matched, nil
}

// Partition splits orders into catalog and custom buckets. One custom kit
// anywhere in an order puts the whole order in the custom bucket; no order
// appears in both.
func (s *OrderService) Partition(orders []domain.Order) (catalog, custom []domain.Order) {
	catalog = make([]domain.Order, 0, len(orders))
	custom = make([]domain.Order, 0)
	for _, o := range orders {
		if o.HasCustomKit(s.kits.threshold) {
			custom = append(custom, o)
		} else {
			catalog = append(catalog, o)
		}
	}
	return catalog, custom
}
