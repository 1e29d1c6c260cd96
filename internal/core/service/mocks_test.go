package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mixbar/kitstore/internal/core/domain"
	"github.com/mixbar/kitstore/internal/logger"
)

func price(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func loggerNop() *logger.Logger {
	return logger.NewNop()
}

// Mock CatalogRepository
type memCatalog struct {
	mu       sync.RWMutex
	products map[int64]domain.Product
	kits     map[int64]domain.Kit

	// delays lets tests scramble fan-out completion order
	delays map[int64]time.Duration
	// failProducts forces transient lookup errors for given ids
	failProducts map[int64]bool
}

func newMemCatalog() *memCatalog {
	return &memCatalog{
		products:     make(map[int64]domain.Product),
		kits:         make(map[int64]domain.Kit),
		delays:       make(map[int64]time.Duration),
		failProducts: make(map[int64]bool),
	}
}

func (c *memCatalog) GetProduct(ctx context.Context, id int64) (*domain.Product, error) {
	c.mu.RLock()
	delay := c.delays[id]
	fail := c.failProducts[id]
	p, ok := c.products[id]
	c.mu.RUnlock()

	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if fail {
		return nil, errors.New("catalog unavailable")
	}
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (c *memCatalog) GetKit(ctx context.Context, id int64) (*domain.Kit, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	k, ok := c.kits[id]
	if !ok {
		return nil, nil
	}
	return &k, nil
}

func (c *memCatalog) ListProducts(ctx context.Context) ([]domain.Product, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	products := make([]domain.Product, 0, len(c.products))
	for _, p := range c.products {
		products = append(products, p)
	}
	return products, nil
}

func (c *memCatalog) SearchKits(ctx context.Context, name string) ([]domain.Kit, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	var kits []domain.Kit
	for _, k := range c.kits {
		if strings.Contains(strings.ToLower(k.Name), strings.ToLower(name)) {
			kits = append(kits, k)
		}
	}
	return kits, nil
}

// Mock CartRepository
type memCartRepo struct {
	mu        sync.Mutex
	carts     map[string]domain.Cart
	failClear bool
}

func newMemCartRepo() *memCartRepo {
	return &memCartRepo{carts: make(map[string]domain.Cart)}
}

func (r *memCartRepo) Load(ctx context.Context, user string) (domain.Cart, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cart := make(domain.Cart, len(r.carts[user]))
	for id, qty := range r.carts[user] {
		cart[id] = qty
	}
	return cart, nil
}

func (r *memCartRepo) AddItem(ctx context.Context, user string, kitID int64, qty int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.carts[user] == nil {
		r.carts[user] = domain.Cart{}
	}
	r.carts[user].Add(kitID, qty)
	return nil
}

func (r *memCartRepo) RemoveItem(ctx context.Context, user string, kitID int64, qty int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.carts[user] != nil {
		r.carts[user].Remove(kitID, qty)
	}
	return nil
}

func (r *memCartRepo) Clear(ctx context.Context, user string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failClear {
		return errors.New("cart store unavailable")
	}
	delete(r.carts, user)
	return nil
}

// Mock OrderRepository
type memOrderRepo struct {
	mu       sync.Mutex
	orders   []domain.Order
	nextID   int64
	failSave bool

	// saveHook, when set, runs at the top of SaveOrder so tests can hold
	// a purchase mid-flight
	saveHook func()
}

func newMemOrderRepo() *memOrderRepo {
	return &memOrderRepo{nextID: 1}
}

func (r *memOrderRepo) SaveOrder(ctx context.Context, order *domain.Order) (*domain.Order, error) {
	if r.saveHook != nil {
		r.saveHook()
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failSave {
		return nil, errors.New("order store unavailable")
	}
	saved := *order
	saved.ID = r.nextID
	r.nextID++
	r.orders = append(r.orders, saved)
	return &saved, nil
}

func (r *memOrderRepo) ListOrders(ctx context.Context, user string) ([]domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var orders []domain.Order
	for i := len(r.orders) - 1; i >= 0; i-- {
		if r.orders[i].PurchasedBy(user) {
			orders = append(orders, r.orders[i])
		}
	}
	return orders, nil
}

// Mock CustomKitStore
type memKitStore struct {
	mu   sync.Mutex
	kits map[int64]domain.Kit
}

func newMemKitStore() *memKitStore {
	return &memKitStore{kits: make(map[int64]domain.Kit)}
}

func (s *memKitStore) PutKit(ctx context.Context, kit domain.Kit) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.kits[kit.ID] = kit
	return nil
}

func (s *memKitStore) GetKit(ctx context.Context, id int64) (*domain.Kit, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	k, ok := s.kits[id]
	if !ok {
		return nil, nil
	}
	return &k, nil
}

// Mock IDAllocator
type memAllocator struct {
	mu   sync.Mutex
	next int64
}

func newMemAllocator(threshold int64) *memAllocator {
	return &memAllocator{next: threshold}
}

func (a *memAllocator) NextID(ctx context.Context) (int64, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	id := a.next
	a.next++
	return id, nil
}

// engine bundles a fully wired core over in-memory stores.
type engine struct {
	catalog  *memCatalog
	carts    *memCartRepo
	orders   *memOrderRepo
	kitStore *memKitStore
	resolver *Resolver
	cart     *CartService
	builder  *KitBuilder
	order    *OrderService
}

func newEngine() *engine {
	catalog := newMemCatalog()
	carts := newMemCartRepo()
	orders := newMemOrderRepo()
	kitStore := newMemKitStore()
	alloc := newMemAllocator(domain.DefaultCustomIDThreshold)
	log := loggerNop()

	resolver := NewResolver(catalog)
	cart := NewCartService(carts, catalog, kitStore, resolver, domain.DefaultCustomIDThreshold, log)
	builder := NewKitBuilder(resolver, alloc, kitStore, log)
	order := NewOrderService(orders, cart, catalog, kitStore, resolver, domain.DefaultCustomIDThreshold, log)

	return &engine{
		catalog:  catalog,
		carts:    carts,
		orders:   orders,
		kitStore: kitStore,
		resolver: resolver,
		cart:     cart,
		builder:  builder,
		order:    order,
	}
}
