package configurator

import (
	"github.com/davimluiz/copiacantinho-sub000/internal/catalog"
	"github.com/davimluiz/copiacantinho-sub000/internal/models"
)

// Request is a complete set of choices for one product, as sent by the
// operator UI when the modal is confirmed.
type Request struct {
	ProductID          string            `json:"productId"`
	Quantity           int               `json:"quantity"`
	RemovedIngredients []string          `json:"removedIngredients"`
	Additions          []string          `json:"additions"`
	Observation        string            `json:"observation"`
	Packaging          *models.Packaging `json:"packaging"`
}

// Configure replays req on a fresh Selection and builds the cart item. The
// first rejected choice aborts the whole request.
func Configure(cat *catalog.Catalog, req Request) (models.CartItem, error) {
	s, err := New(cat, req.ProductID)
	if err != nil {
		return models.CartItem{}, err
	}

	if req.Quantity > 0 {
		s.SetQuantity(req.Quantity)
	}
	for _, ing := range req.RemovedIngredients {
		if !s.removed.Has(ing) {
			s.ToggleIngredient(ing)
		}
	}
	for _, name := range req.Additions {
		if s.additions.Has(name) {
			continue
		}
		if err := s.ToggleAddition(name); err != nil {
			return models.CartItem{}, err
		}
	}
	if req.Packaging != nil {
		if err := s.SetPackaging(*req.Packaging); err != nil {
			return models.CartItem{}, err
		}
	}
	s.SetObservation(req.Observation)

	return s.Build(), nil
}
