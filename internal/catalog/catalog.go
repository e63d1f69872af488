package catalog

import (
	"github.com/davimluiz/copiacantinho-sub000/internal/models"
)

// ManualCategoryID marks free-text line items typed in by the operator
const ManualCategoryID = "manual"

// Catalog is the read-only menu: categories, products and the per-category
// configuration policies.
type Catalog struct {
	categories []models.Category
	products   []models.Product
	byID       map[string]int
	policies   map[string]Policy
}

func New(categories []models.Category, products []models.Product, policies map[string]Policy) *Catalog {
	c := &Catalog{
		categories: categories,
		products:   products,
		byID:       make(map[string]int, len(products)),
		policies:   policies,
	}
	for i, p := range products {
		c.byID[p.ID] = i
	}
	return c
}

// Default returns the shop's menu
func Default() *Catalog {
	return New(defaultCategories(), defaultProducts(), defaultPolicies())
}

func (c *Catalog) Categories() []models.Category {
	out := make([]models.Category, len(c.categories))
	copy(out, c.categories)
	return out
}

func (c *Catalog) Category(id string) (models.Category, bool) {
	for _, cat := range c.categories {
		if cat.ID == id {
			return cat, true
		}
	}
	return models.Category{}, false
}

// Products returns every product in menu order
func (c *Catalog) Products() []models.Product {
	out := make([]models.Product, len(c.products))
	for i, p := range c.products {
		out[i] = p.Clone()
	}
	return out
}

// ProductsByCategory returns the products of one category in menu order
func (c *Catalog) ProductsByCategory(categoryID string) []models.Product {
	var out []models.Product
	for _, p := range c.products {
		if p.CategoryID == categoryID {
			out = append(out, p.Clone())
		}
	}
	return out
}

// Product returns a copy of the product with the given id
func (c *Catalog) Product(id string) (models.Product, bool) {
	i, ok := c.byID[id]
	if !ok {
		return models.Product{}, false
	}
	return c.products[i].Clone(), true
}

// Policy returns the configuration policy of a category. Unknown categories
// get the zero Policy.
func (c *Catalog) Policy(categoryID string) Policy {
	return c.policies[categoryID]
}

// View is the JSON shape served to the operator UI
type View struct {
	Categories []models.Category `json:"categories"`
	Products   []models.Product  `json:"products"`
	Policies   map[string]Policy `json:"policies"`
}

func (c *Catalog) View() View {
	policies := make(map[string]Policy, len(c.policies))
	for k, v := range c.policies {
		policies[k] = v
	}
	return View{
		Categories: c.Categories(),
		Products:   c.Products(),
		Policies:   policies,
	}
}
