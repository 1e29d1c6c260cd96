package port

import (
	"context"

	"github.com/mixbar/kitstore/internal/core/domain"
)

type OrderRepository interface {
	// SaveOrder durably persists a new order and returns it with its assigned id
	SaveOrder(ctx context.Context, order *domain.Order) (*domain.Order, error)

	// ListOrders returns the user's orders, most recent first
	ListOrders(ctx context.Context, user string) ([]domain.Order, error)
}
