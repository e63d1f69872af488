// Package configurator turns a catalog product plus the operator's choices
// into a priced cart item.
package configurator

import (
	"errors"
	"fmt"

	"github.com/davimluiz/copiacantinho-sub000/internal/catalog"
	"github.com/davimluiz/copiacantinho-sub000/internal/models"
	"github.com/shopspring/decimal"
)

var (
	ErrUnknownProduct   = errors.New("product not found in catalog")
	ErrSideLimitReached = errors.New("side limit reached")
	ErrOptionNotAllowed = errors.New("option not offered for this product")
)

// Selection holds the in-progress configuration of one product.
type Selection struct {
	product     models.Product
	policy      catalog.Policy
	quantity    int
	removed     *models.NameSet
	additions   *models.NameSet
	observation string
	packaging   *models.Packaging
}

// New starts configuring productID with quantity 1 and the category's
// default packaging, if any.
func New(cat *catalog.Catalog, productID string) (*Selection, error) {
	product, ok := cat.Product(productID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownProduct, productID)
	}

	policy := cat.Policy(product.CategoryID)
	return &Selection{
		product:   product,
		policy:    policy,
		quantity:  1,
		removed:   models.NewNameSet(),
		additions: models.NewNameSet(),
		packaging: policy.DefaultPackaging(),
	}, nil
}

func (s *Selection) Product() models.Product {
	return s.product.Clone()
}

func (s *Selection) Policy() catalog.Policy {
	return s.policy
}

func (s *Selection) Quantity() int {
	return s.quantity
}

func (s *Selection) Increment() {
	s.quantity++
}

// Decrement lowers the quantity, never below 1
func (s *Selection) Decrement() {
	if s.quantity > 1 {
		s.quantity--
	}
}

func (s *Selection) SetQuantity(n int) {
	if n < 1 {
		n = 1
	}
	s.quantity = n
}

// ToggleIngredient marks an ingredient as removed or puts it back. It does
// nothing for categories without removal or for names the product lacks.
func (s *Selection) ToggleIngredient(name string) {
	if !s.policy.RemovableIngredients || !s.product.HasIngredient(name) {
		return
	}
	s.removed.Toggle(name)
}

// RemovedIngredients lists removed ingredients in the product's order
func (s *Selection) RemovedIngredients() []string {
	var out []string
	for _, ing := range s.product.Ingredients {
		if s.removed.Has(ing) {
			out = append(out, ing)
		}
	}
	return out
}

// ToggleAddition selects or deselects an add-on. Deselecting always works.
// Selecting a free side while the product's side limit is already used up
// returns ErrSideLimitReached and leaves the selection unchanged.
func (s *Selection) ToggleAddition(name string) error {
	if s.additions.Has(name) {
		s.additions.Remove(name)
		return nil
	}

	if !s.policy.Allows(name) {
		return fmt.Errorf("%w: %s", ErrOptionNotAllowed, name)
	}

	if s.policy.IsFreeSide(name) && s.product.MaxSides != nil && s.SelectedSides() >= *s.product.MaxSides {
		return ErrSideLimitReached
	}

	s.additions.Add(name)
	return nil
}

func (s *Selection) Additions() []string {
	return s.additions.Names()
}

// SelectedSides counts the free sides currently chosen
func (s *Selection) SelectedSides() int {
	n := 0
	for _, name := range s.additions.Names() {
		if s.policy.IsFreeSide(name) {
			n++
		}
	}
	return n
}

// SetPackaging picks one of the category's packaging options
func (s *Selection) SetPackaging(p models.Packaging) error {
	if !s.policy.OffersPackaging(p) {
		return fmt.Errorf("%w: packaging %s", ErrOptionNotAllowed, p)
	}
	s.packaging = &p
	return nil
}

func (s *Selection) Packaging() *models.Packaging {
	if s.packaging == nil {
		return nil
	}
	p := *s.packaging
	return &p
}

func (s *Selection) SetObservation(text string) {
	s.observation = text
}

// UnitPrice is the current price of one unit, extras included
func (s *Selection) UnitPrice() decimal.Decimal {
	return catalog.UnitPrice(s.policy, s.product, s.additions.Names())
}

// LineTotal is the unit price times quantity, as shown on the add button
func (s *Selection) LineTotal() decimal.Decimal {
	return s.UnitPrice().Mul(decimal.NewFromInt(int64(s.quantity)))
}

// Build produces a cart item from the current choices. Every call yields a
// fresh cart id, so building twice gives two distinct lines.
func (s *Selection) Build() models.CartItem {
	product := s.product.Clone()
	product.Price = s.UnitPrice()

	item := models.CartItem{
		Product:            product,
		CartID:             models.NewID(),
		Quantity:           s.quantity,
		RemovedIngredients: s.RemovedIngredients(),
		Additions:          s.additions.Names(),
		Observation:        s.observation,
	}
	if s.policy.HasPackaging() {
		item.Packaging = s.Packaging()
	}
	return item
}
