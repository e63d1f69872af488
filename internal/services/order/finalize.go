package order

import (
	"time"

	"github.com/davimluiz/copiacantinho-sub000/internal/models"
)

// BuildOrder seals a draft into an Order. The delivery fee counts only for
// DELIVERY orders. An empty cart yields a total equal to the applied fee.
func BuildOrder(draft models.DraftOrder, now time.Time) models.Order {
	subtotal := draft.Subtotal()
	fee := draft.Customer.AppliedDeliveryFee()

	items := make([]models.CartItem, len(draft.Cart))
	for i, item := range draft.Cart {
		items[i] = item.Clone()
	}

	return models.Order{
		ID:          draft.ID,
		Customer:    draft.Customer.Clone(),
		Items:       items,
		Subtotal:    subtotal,
		DeliveryFee: fee,
		Total:       subtotal.Add(fee),
		CreatedAt:   now,
		Status:      models.StatusPending,
	}
}
