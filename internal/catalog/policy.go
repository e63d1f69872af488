package catalog

import (
	"github.com/davimluiz/copiacantinho-sub000/internal/models"
	"github.com/shopspring/decimal"
)

// OptionGroup is a named list of add-ons offered for a category
type OptionGroup struct {
	ID      string                `json:"id"`
	Name    string                `json:"name"`
	Options []models.PricedOption `json:"options"`
}

// Find looks up an option by exact name
func (g *OptionGroup) Find(name string) (models.PricedOption, bool) {
	if g == nil {
		return models.PricedOption{}, false
	}
	for _, opt := range g.Options {
		if opt.Name == name {
			return opt, true
		}
	}
	return models.PricedOption{}, false
}

// Policy describes which configuration choices a category offers.
// The zero value allows nothing.
type Policy struct {
	RemovableIngredients bool               `json:"removableIngredients"`
	FreeSides            *OptionGroup       `json:"freeSides,omitempty"`
	PaidExtras           *OptionGroup       `json:"paidExtras,omitempty"`
	Packaging            []models.Packaging `json:"packaging,omitempty"`
	Complements          []OptionGroup      `json:"complements,omitempty"`
}

// IsFreeSide reports whether name belongs to the capped free-side group
func (p Policy) IsFreeSide(name string) bool {
	_, ok := p.FreeSides.Find(name)
	return ok
}

// Allows reports whether name is an addition offered by any group of the policy
func (p Policy) Allows(name string) bool {
	if _, ok := p.FreeSides.Find(name); ok {
		return true
	}
	if _, ok := p.PaidExtras.Find(name); ok {
		return true
	}
	for i := range p.Complements {
		if _, ok := p.Complements[i].Find(name); ok {
			return true
		}
	}
	return false
}

// Surcharge sums the prices of additions that match the paid-extra group.
// Each name counts once.
func (p Policy) Surcharge(additions []string) decimal.Decimal {
	total := decimal.Zero
	seen := make(map[string]bool, len(additions))
	for _, name := range additions {
		if seen[name] {
			continue
		}
		seen[name] = true
		if opt, ok := p.PaidExtras.Find(name); ok {
			total = total.Add(opt.Price)
		}
	}
	return total
}

func (p Policy) HasPackaging() bool {
	return len(p.Packaging) > 0
}

// DefaultPackaging returns the first packaging option, or nil when the
// category has none.
func (p Policy) DefaultPackaging() *models.Packaging {
	if !p.HasPackaging() {
		return nil
	}
	pkg := p.Packaging[0]
	return &pkg
}

func (p Policy) OffersPackaging(pkg models.Packaging) bool {
	for _, candidate := range p.Packaging {
		if candidate == pkg {
			return true
		}
	}
	return false
}

// UnitPrice is the pricing rule for a configured item: product price plus
// every selected paid extra. Free sides and complements never add cost.
func UnitPrice(policy Policy, product models.Product, additions []string) decimal.Decimal {
	return product.Price.Add(policy.Surcharge(additions))
}
