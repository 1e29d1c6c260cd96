package storage

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	"github.com/mixbar/kitstore/internal/core/domain"
)

func getRedisClient(t *testing.T) *redis.Client {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		addr = "localhost:6379"
	}

	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(context.Background()).Err(); err != nil {
		t.Skipf("Redis not available: %v", err)
	}
	return client
}

func newTestRedisAdapter(t *testing.T) (*RedisAdapter, *redis.Client) {
	client := getRedisClient(t)
	return NewRedisAdapter(client, domain.DefaultCustomIDThreshold, time.Hour), client
}

func TestCartAddAndLoad(t *testing.T) {
	adapter, client := newTestRedisAdapter(t)
	defer client.Close()
	ctx := context.Background()

	client.Del(ctx, "cart:test-user")

	if err := adapter.AddItem(ctx, "test-user", 3, 2); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := adapter.AddItem(ctx, "test-user", 3, 1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := adapter.AddItem(ctx, "test-user", 7, 5); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	cart, err := adapter.Load(ctx, "test-user")
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cart.Quantity(3) != 3 {
		t.Errorf("expected quantity 3 for kit 3, got %d", cart.Quantity(3))
	}
	if cart.Quantity(7) != 5 {
		t.Errorf("expected quantity 5 for kit 7, got %d", cart.Quantity(7))
	}
}

func TestCartRemove_ClampsAtZero(t *testing.T) {
	adapter, client := newTestRedisAdapter(t)
	defer client.Close()
	ctx := context.Background()

	client.Del(ctx, "cart:test-user")
	adapter.AddItem(ctx, "test-user", 3, 2)

	if err := adapter.RemoveItem(ctx, "test-user", 3, 10); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	cart, err := adapter.Load(ctx, "test-user")
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if _, present := cart[3]; present {
		t.Error("entry must be deleted once quantity reaches zero")
	}
}

func TestCartRemove_PartialAndMissing(t *testing.T) {
	adapter, client := newTestRedisAdapter(t)
	defer client.Close()
	ctx := context.Background()

	client.Del(ctx, "cart:test-user")
	adapter.AddItem(ctx, "test-user", 3, 5)

	if err := adapter.RemoveItem(ctx, "test-user", 3, 2); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// removing an entry that was never added must not fail
	if err := adapter.RemoveItem(ctx, "test-user", 99, 1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	cart, _ := adapter.Load(ctx, "test-user")
	if cart.Quantity(3) != 3 {
		t.Errorf("expected quantity 3, got %d", cart.Quantity(3))
	}
}

func TestCartClear_Idempotent(t *testing.T) {
	adapter, client := newTestRedisAdapter(t)
	defer client.Close()
	ctx := context.Background()

	adapter.AddItem(ctx, "test-user", 3, 1)

	if err := adapter.Clear(ctx, "test-user"); err != nil {
		t.Fatalf("first clear failed: %v", err)
	}
	if err := adapter.Clear(ctx, "test-user"); err != nil {
		t.Fatalf("second clear failed: %v", err)
	}

	cart, err := adapter.Load(ctx, "test-user")
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if !cart.IsEmpty() {
		t.Error("expected empty cart")
	}
}

func TestCustomKitRoundTrip(t *testing.T) {
	adapter, client := newTestRedisAdapter(t)
	defer client.Close()
	ctx := context.Background()

	kit := domain.Kit{
		ID:          1234,
		Name:        "Test Mix",
		Price:       decimal.RequireFromString("5.75"),
		Quantity:    20,
		ProductRefs: []int64{1, 2, 3},
	}
	client.Del(ctx, "customkit:1234")

	if err := adapter.PutKit(ctx, kit); err != nil {
		t.Fatalf("put failed: %v", err)
	}

	got, err := adapter.GetKit(ctx, 1234)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if got == nil {
		t.Fatal("expected kit, got nil")
	}
	if got.Name != kit.Name {
		t.Errorf("expected name %q, got %q", kit.Name, got.Name)
	}
	if !got.Price.Equal(kit.Price) {
		t.Errorf("expected price %s, got %s", kit.Price, got.Price)
	}
	if len(got.ProductRefs) != 3 || got.ProductRefs[0] != 1 || got.ProductRefs[2] != 3 {
		t.Errorf("product refs did not round-trip: %v", got.ProductRefs)
	}
}

func TestGetKit_MissingIsNil(t *testing.T) {
	adapter, client := newTestRedisAdapter(t)
	defer client.Close()

	got, err := adapter.GetKit(context.Background(), 999999)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != nil {
		t.Errorf("expected nil for missing kit, got %+v", got)
	}
}

func TestNextID_MonotonicAboveThreshold(t *testing.T) {
	adapter, client := newTestRedisAdapter(t)
	defer client.Close()
	ctx := context.Background()

	first, err := adapter.NextID(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := adapter.NextID(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if first < domain.DefaultCustomIDThreshold {
		t.Errorf("id %d below custom threshold", first)
	}
	if second <= first {
		t.Errorf("ids must be monotonic: %d then %d", first, second)
	}
}
