package history

import (
	"context"

	"github.com/davimluiz/copiacantinho-sub000/internal/models"
)

// OrderBook is the order history as kept by the order service
type OrderBook interface {
	Orders() []models.Order
	Order(id string) (models.Order, error)
	SetOrderStatus(ctx context.Context, id string, status models.OrderStatus) (models.Order, error)
	Reprint(ctx context.Context, id, requestID string) (models.Order, bool, error)
}
