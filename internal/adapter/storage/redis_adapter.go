package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mixbar/kitstore/internal/core/domain"
)

const (
	cartKeyPrefix      = "cart:"
	customKitKeyPrefix = "customkit:"
	customKitIDCounter = "customkit:next_id"
)

// removeItemScript decrements a cart entry, clamping at zero. Entries that
// reach zero are deleted so a cart never holds zero or negative quantities.
var removeItemScript = redis.NewScript(`
local key = KEYS[1]
local field = ARGV[1]
local qty = tonumber(ARGV[2])

local current = redis.call('HGET', key, field)
if not current then
	return 0
end

local remaining = tonumber(current) - qty
if remaining > 0 then
	redis.call('HSET', key, field, remaining)
	return remaining
end

redis.call('HDEL', key, field)
return 0
`)

// RedisAdapter holds per-user carts as hashes of kit id to quantity,
// transient custom kit records, and the custom kit id counter.
type RedisAdapter struct {
	client       *redis.Client
	idThreshold  int64
	customKitTTL time.Duration
}

func NewRedisAdapter(client *redis.Client, idThreshold int64, customKitTTL time.Duration) *RedisAdapter {
	return &RedisAdapter{client: client, idThreshold: idThreshold, customKitTTL: customKitTTL}
}

func cartKey(user string) string {
	return cartKeyPrefix + user
}

func (r *RedisAdapter) Load(ctx context.Context, user string) (domain.Cart, error) {
	entries, err := r.client.HGetAll(ctx, cartKey(user)).Result()
	if err != nil {
		return nil, fmt.Errorf("load cart: %w", err)
	}

	cart := make(domain.Cart, len(entries))
	for field, value := range entries {
		kitID, err := strconv.ParseInt(field, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("corrupt cart field %q: %w", field, err)
		}
		qty, err := strconv.Atoi(value)
		if err != nil {
			return nil, fmt.Errorf("corrupt cart quantity %q: %w", value, err)
		}
		cart[kitID] = qty
	}
	return cart, nil
}

func (r *RedisAdapter) AddItem(ctx context.Context, user string, kitID int64, qty int) error {
	return r.client.HIncrBy(ctx, cartKey(user), strconv.FormatInt(kitID, 10), int64(qty)).Err()
}

func (r *RedisAdapter) RemoveItem(ctx context.Context, user string, kitID int64, qty int) error {
	return removeItemScript.Run(ctx, r.client, []string{cartKey(user)}, strconv.FormatInt(kitID, 10), qty).Err()
}

func (r *RedisAdapter) Clear(ctx context.Context, user string) error {
	return r.client.Del(ctx, cartKey(user)).Err()
}

func customKitKey(id int64) string {
	return customKitKeyPrefix + strconv.FormatInt(id, 10)
}

func (r *RedisAdapter) PutKit(ctx context.Context, kit domain.Kit) error {
	data, err := json.Marshal(kit)
	if err != nil {
		return fmt.Errorf("marshal custom kit: %w", err)
	}
	return r.client.Set(ctx, customKitKey(kit.ID), data, r.customKitTTL).Err()
}

func (r *RedisAdapter) GetKit(ctx context.Context, id int64) (*domain.Kit, error) {
	data, err := r.client.Get(ctx, customKitKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get custom kit: %w", err)
	}

	var kit domain.Kit
	if err := json.Unmarshal(data, &kit); err != nil {
		return nil, fmt.Errorf("unmarshal custom kit %d: %w", id, err)
	}
	return &kit, nil
}

// NextID allocates the next id in the custom kit space. The first id handed
// out equals the threshold, so custom ids can never collide with catalog ids.
func (r *RedisAdapter) NextID(ctx context.Context) (int64, error) {
	n, err := r.client.Incr(ctx, customKitIDCounter).Result()
	if err != nil {
		return 0, fmt.Errorf("allocate id: %w", err)
	}
	return r.idThreshold + n - 1, nil
}
