package configurator

import (
	"github.com/davimluiz/copiacantinho-sub000/internal/catalog"
	"github.com/davimluiz/copiacantinho-sub000/internal/models"
	"github.com/davimluiz/copiacantinho-sub000/internal/validation"
)

// ManualItem builds a free-text line item typed by the operator. It skips the
// ingredient and add-on machinery entirely.
func ManualItem(name, priceText string) (models.CartItem, error) {
	name, price, err := validation.ValidateManualItem(name, priceText)
	if err != nil {
		return models.CartItem{}, err
	}

	cartID := models.NewID()
	return models.CartItem{
		Product: models.Product{
			ID:         catalog.ManualCategoryID + "-" + cartID,
			CategoryID: catalog.ManualCategoryID,
			Name:       name,
			Price:      price,
		},
		CartID:   cartID,
		Quantity: 1,
	}, nil
}
