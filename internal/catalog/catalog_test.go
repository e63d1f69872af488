package catalog

import (
	"testing"

	"github.com/davimluiz/copiacantinho-sub000/internal/models"
	"github.com/shopspring/decimal"
)

func TestDefaultCatalogIntegrity(t *testing.T) {
	cat := Default()

	seen := make(map[string]bool)
	for _, p := range cat.Products() {
		if seen[p.ID] {
			t.Errorf("duplicate product id %q", p.ID)
		}
		seen[p.ID] = true

		if _, ok := cat.Category(p.CategoryID); !ok {
			t.Errorf("product %q references unknown category %q", p.ID, p.CategoryID)
		}
		if p.Price.IsNegative() {
			t.Errorf("product %q has negative price", p.ID)
		}
		if p.CategoryID == Frango && p.MaxSides == nil {
			t.Errorf("fried chicken product %q has no side limit", p.ID)
		}
	}
}

func TestOptionNamesUniqueWithinPolicy(t *testing.T) {
	for id, policy := range defaultPolicies() {
		names := make(map[string]bool)
		groups := append([]OptionGroup{}, policy.Complements...)
		if policy.FreeSides != nil {
			groups = append(groups, *policy.FreeSides)
		}
		if policy.PaidExtras != nil {
			groups = append(groups, *policy.PaidExtras)
		}
		for _, g := range groups {
			for _, opt := range g.Options {
				if names[opt.Name] {
					t.Errorf("policy %s offers %q twice", id, opt.Name)
				}
				names[opt.Name] = true
			}
		}
	}
}

func TestPolicyTable(t *testing.T) {
	cat := Default()

	tests := []struct {
		category  string
		removable bool
		freeSides bool
		paid      bool
		packaging bool
	}{
		{Lanches, true, false, true, false},
		{Frango, false, true, false, false},
		{Acai, false, false, true, true},
		{Porcoes, false, false, false, false},
		{Bebidas, false, false, false, false},
		{ManualCategoryID, false, false, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.category, func(t *testing.T) {
			p := cat.Policy(tt.category)
			if p.RemovableIngredients != tt.removable {
				t.Errorf("RemovableIngredients = %v", p.RemovableIngredients)
			}
			if (p.FreeSides != nil) != tt.freeSides {
				t.Errorf("FreeSides = %v", p.FreeSides)
			}
			if (p.PaidExtras != nil) != tt.paid {
				t.Errorf("PaidExtras = %v", p.PaidExtras)
			}
			if p.HasPackaging() != tt.packaging {
				t.Errorf("HasPackaging() = %v", p.HasPackaging())
			}
		})
	}
}

func TestUnitPrice(t *testing.T) {
	cat := Default()
	misto, _ := cat.Product("misto-quente")
	lanches := cat.Policy(Lanches)

	tests := []struct {
		name      string
		additions []string
		want      string
	}{
		{"noAdditions", nil, "10.00"},
		{"onePaidExtra", []string{"Queijo Extra"}, "13.00"},
		{"twoPaidExtras", []string{"Queijo Extra", "Bacon"}, "17.00"},
		{"reversedOrder", []string{"Bacon", "Queijo Extra"}, "17.00"},
		{"unknownNameIgnored", []string{"Granola"}, "10.00"},
		{"duplicateCountsOnce", []string{"Bacon", "Bacon"}, "14.00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := UnitPrice(lanches, misto, tt.additions)
			if !got.Equal(decimal.RequireFromString(tt.want)) {
				t.Errorf("UnitPrice() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestFreeOptionsNeverAddCost(t *testing.T) {
	cat := Default()
	balde, _ := cat.Product("balde-g")
	frango := cat.Policy(Frango)

	got := UnitPrice(frango, balde, []string{"Farofa", "Arroz", "Vinagrete"})
	if !got.Equal(balde.Price) {
		t.Errorf("UnitPrice() = %s, want %s", got, balde.Price)
	}

	acai, _ := cat.Product("acai-500")
	got = UnitPrice(cat.Policy(Acai), acai, []string{"Granola", "Banana", "Nutella"})
	if want := decimal.RequireFromString("25.00"); !got.Equal(want) {
		t.Errorf("UnitPrice() = %s, want %s", got, want)
	}
}

func TestProductReturnsCopy(t *testing.T) {
	cat := Default()
	p, ok := cat.Product("x-burguer")
	if !ok {
		t.Fatal("x-burguer missing")
	}
	p.Ingredients[0] = "mutated"

	again, _ := cat.Product("x-burguer")
	if again.Ingredients[0] != "Pão" {
		t.Errorf("catalog data was mutated through a returned product: %v", again.Ingredients)
	}
}

func TestDefaultPackaging(t *testing.T) {
	cat := Default()
	if got := cat.Policy(Acai).DefaultPackaging(); got == nil || *got != models.Packaging("Copo 300ml") {
		t.Errorf("DefaultPackaging() = %v, want Copo 300ml", got)
	}
	if got := cat.Policy(Lanches).DefaultPackaging(); got != nil {
		t.Errorf("DefaultPackaging() for lanches = %v, want nil", *got)
	}
}

func TestProductsByCategoryPartitionsMenu(t *testing.T) {
	cat := Default()

	total := 0
	for _, c := range cat.Categories() {
		products := cat.ProductsByCategory(c.ID)
		if len(products) == 0 {
			t.Errorf("category %q has no products", c.ID)
		}
		for _, p := range products {
			if p.CategoryID != c.ID {
				t.Errorf("product %q listed under %q", p.ID, c.ID)
			}
		}
		total += len(products)
	}
	if total != len(cat.Products()) {
		t.Errorf("categories hold %d products, catalog has %d", total, len(cat.Products()))
	}
	if got := cat.ProductsByCategory("unknown"); len(got) != 0 {
		t.Errorf("unknown category returned %d products", len(got))
	}
}
