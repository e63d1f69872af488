package models

import (
	"slices"

	"github.com/shopspring/decimal"
)

// Category groups products on the menu screen
type Category struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Icon string `json:"icon"`
}

// Product is a sellable catalog entry
type Product struct {
	ID          string          `json:"id"`
	CategoryID  string          `json:"categoryId"`
	Name        string          `json:"name"`
	Price       decimal.Decimal `json:"price"`
	Description string          `json:"description,omitempty"`
	Ingredients []string        `json:"ingredients,omitempty"`
	MaxSides    *int            `json:"maxSides,omitempty"`
}

// HasIngredient reports whether name is part of the product's ingredient list
func (p Product) HasIngredient(name string) bool {
	return slices.Contains(p.Ingredients, name)
}

func (p Product) Clone() Product {
	out := p
	out.Ingredients = slices.Clone(p.Ingredients)
	if p.MaxSides != nil {
		n := *p.MaxSides
		out.MaxSides = &n
	}
	return out
}

// PricedOption is a named add-on. Free options carry a zero price.
type PricedOption struct {
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
}

// Packaging is the container an açaí is served in
type Packaging string
