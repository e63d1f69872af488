package configurator

import (
	"errors"
	"slices"
	"testing"

	"github.com/davimluiz/copiacantinho-sub000/internal/catalog"
	"github.com/davimluiz/copiacantinho-sub000/internal/models"
	"github.com/davimluiz/copiacantinho-sub000/internal/validation"
	"github.com/shopspring/decimal"
)

func mustSelect(t *testing.T, productID string) *Selection {
	t.Helper()
	s, err := New(catalog.Default(), productID)
	if err != nil {
		t.Fatalf("New(%q) error = %v", productID, err)
	}
	return s
}

func TestNewUnknownProduct(t *testing.T) {
	_, err := New(catalog.Default(), "pizza")
	if !errors.Is(err, ErrUnknownProduct) {
		t.Errorf("New() error = %v, want ErrUnknownProduct", err)
	}
}

func TestPaidExtraPricing(t *testing.T) {
	s := mustSelect(t, "misto-quente")
	if err := s.ToggleAddition("Queijo Extra"); err != nil {
		t.Fatalf("ToggleAddition() error = %v", err)
	}
	s.Increment()

	item := s.Build()
	if !item.Price.Equal(decimal.RequireFromString("13.00")) {
		t.Errorf("unit price = %s, want 13.00", item.Price)
	}
	if !item.LineTotal().Equal(decimal.RequireFromString("26.00")) {
		t.Errorf("line total = %s, want 26.00", item.LineTotal())
	}
	if item.Quantity != 2 {
		t.Errorf("quantity = %d, want 2", item.Quantity)
	}
}

func TestPriceIndependentOfAdditionOrder(t *testing.T) {
	a := mustSelect(t, "x-bacon")
	b := mustSelect(t, "x-bacon")

	for _, name := range []string{"Ovo", "Cheddar", "Bacon"} {
		if err := a.ToggleAddition(name); err != nil {
			t.Fatal(err)
		}
	}
	for _, name := range []string{"Bacon", "Ovo", "Cheddar"} {
		if err := b.ToggleAddition(name); err != nil {
			t.Fatal(err)
		}
	}

	if !a.UnitPrice().Equal(b.UnitPrice()) {
		t.Errorf("prices differ: %s vs %s", a.UnitPrice(), b.UnitPrice())
	}
	if want := decimal.RequireFromString("32.50"); !a.UnitPrice().Equal(want) {
		t.Errorf("UnitPrice() = %s, want %s", a.UnitPrice(), want)
	}
}

func TestFreeSideLimit(t *testing.T) {
	s := mustSelect(t, "balde-m") // two sides

	for _, side := range []string{"Farofa", "Arroz"} {
		if err := s.ToggleAddition(side); err != nil {
			t.Fatalf("ToggleAddition(%q) error = %v", side, err)
		}
	}

	err := s.ToggleAddition("Vinagrete")
	if !errors.Is(err, ErrSideLimitReached) {
		t.Fatalf("third side error = %v, want ErrSideLimitReached", err)
	}
	if got := s.Additions(); !slices.Equal(got, []string{"Farofa", "Arroz"}) {
		t.Errorf("Additions() = %v, want unchanged", got)
	}

	// deselecting at the cap is always allowed
	if err := s.ToggleAddition("Farofa"); err != nil {
		t.Fatalf("deselect at cap error = %v", err)
	}
	if err := s.ToggleAddition("Vinagrete"); err != nil {
		t.Fatalf("select after deselect error = %v", err)
	}
	if got := s.Additions(); !slices.Equal(got, []string{"Arroz", "Vinagrete"}) {
		t.Errorf("Additions() = %v", got)
	}

	if !s.UnitPrice().Equal(decimal.RequireFromString("55.00")) {
		t.Errorf("free sides changed the price: %s", s.UnitPrice())
	}
}

func TestToggleSameSideTwiceIsEmpty(t *testing.T) {
	s := mustSelect(t, "balde-p")
	before := s.UnitPrice()

	_ = s.ToggleAddition("Farofa")
	_ = s.ToggleAddition("Farofa")

	if len(s.Additions()) != 0 {
		t.Errorf("Additions() = %v, want empty", s.Additions())
	}
	if !s.UnitPrice().Equal(before) {
		t.Errorf("price changed from %s to %s", before, s.UnitPrice())
	}
}

func TestPaidExtrasAreNotCapped(t *testing.T) {
	s := mustSelect(t, "acai-300")
	for _, name := range []string{"Nutella", "Creme de Ninho", "Bis", "Ovomaltine", "Granola", "Banana", "Mel"} {
		if err := s.ToggleAddition(name); err != nil {
			t.Fatalf("ToggleAddition(%q) error = %v", name, err)
		}
	}
	if want := decimal.RequireFromString("29.00"); !s.UnitPrice().Equal(want) {
		t.Errorf("UnitPrice() = %s, want %s", s.UnitPrice(), want)
	}
}

func TestOptionNotAllowed(t *testing.T) {
	tests := []struct {
		name    string
		product string
		option  string
	}{
		{"sideOnSandwich", "x-burguer", "Farofa"},
		{"extraOnChicken", "balde-p", "Bacon"},
		{"anythingOnDrink", "coca-lata", "Gelo"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := mustSelect(t, tt.product)
			if err := s.ToggleAddition(tt.option); !errors.Is(err, ErrOptionNotAllowed) {
				t.Errorf("ToggleAddition() error = %v, want ErrOptionNotAllowed", err)
			}
			if len(s.Additions()) != 0 {
				t.Errorf("Additions() = %v, want empty", s.Additions())
			}
		})
	}
}

func TestToggleIngredient(t *testing.T) {
	s := mustSelect(t, "x-salada")
	s.ToggleIngredient("Tomate")
	s.ToggleIngredient("Alface")
	s.ToggleIngredient("Abacaxi") // not in product

	if got := s.RemovedIngredients(); !slices.Equal(got, []string{"Alface", "Tomate"}) {
		t.Errorf("RemovedIngredients() = %v", got)
	}

	s.ToggleIngredient("Tomate")
	if got := s.RemovedIngredients(); !slices.Equal(got, []string{"Alface"}) {
		t.Errorf("RemovedIngredients() after re-toggle = %v", got)
	}
}

func TestToggleIngredientIgnoredWithoutRemoval(t *testing.T) {
	cat := catalog.New(
		[]models.Category{{ID: "porcoes"}},
		[]models.Product{{ID: "p1", CategoryID: "porcoes", Price: decimal.NewFromInt(5), Ingredients: []string{"Sal"}}},
		nil,
	)
	s, err := New(cat, "p1")
	if err != nil {
		t.Fatal(err)
	}
	s.ToggleIngredient("Sal")
	if got := s.RemovedIngredients(); len(got) != 0 {
		t.Errorf("RemovedIngredients() = %v, want empty", got)
	}
}

func TestQuantityClamp(t *testing.T) {
	s := mustSelect(t, "agua")
	s.Decrement()
	s.Decrement()
	if s.Quantity() != 1 {
		t.Errorf("Quantity() = %d, want 1", s.Quantity())
	}
	s.SetQuantity(-4)
	if s.Quantity() != 1 {
		t.Errorf("SetQuantity(-4) gave %d, want 1", s.Quantity())
	}
	s.SetQuantity(3)
	s.Increment()
	if s.Quantity() != 4 {
		t.Errorf("Quantity() = %d, want 4", s.Quantity())
	}
}

func TestPackaging(t *testing.T) {
	acai := mustSelect(t, "acai-500")
	if p := acai.Build().Packaging; p == nil || *p != "Copo 300ml" {
		t.Errorf("default packaging = %v, want Copo 300ml", p)
	}
	if err := acai.SetPackaging("Marmita 500ml"); err != nil {
		t.Fatalf("SetPackaging() error = %v", err)
	}
	if p := acai.Build().Packaging; p == nil || *p != "Marmita 500ml" {
		t.Errorf("packaging = %v, want Marmita 500ml", p)
	}
	if err := acai.SetPackaging("Balde"); !errors.Is(err, ErrOptionNotAllowed) {
		t.Errorf("SetPackaging(Balde) error = %v", err)
	}

	burger := mustSelect(t, "x-burguer")
	if err := burger.SetPackaging("Copo 300ml"); !errors.Is(err, ErrOptionNotAllowed) {
		t.Errorf("SetPackaging() on sandwich error = %v", err)
	}
	if p := burger.Build().Packaging; p != nil {
		t.Errorf("sandwich packaging = %v, want nil", *p)
	}
}

func TestBuildGivesFreshCartIDs(t *testing.T) {
	s := mustSelect(t, "x-tudo")
	s.SetObservation("bem passado")
	a := s.Build()
	b := s.Build()

	if a.CartID == "" || a.CartID == b.CartID {
		t.Errorf("cart ids %q and %q should be distinct and non-empty", a.CartID, b.CartID)
	}
	if a.Observation != "bem passado" {
		t.Errorf("Observation = %q", a.Observation)
	}
	if a.ID != "x-tudo" || a.CategoryID != catalog.Lanches {
		t.Errorf("product snapshot = %+v", a.Product)
	}
}

func TestManualItem(t *testing.T) {
	item, err := ManualItem("Pastel", "7,50")
	if err != nil {
		t.Fatalf("ManualItem() error = %v", err)
	}
	if item.CategoryID != catalog.ManualCategoryID {
		t.Errorf("CategoryID = %q", item.CategoryID)
	}
	if !item.Price.Equal(decimal.RequireFromString("7.50")) || item.Quantity != 1 {
		t.Errorf("item = %+v", item)
	}

	tests := []struct {
		name, itemName, price string
	}{
		{"emptyName", "   ", "5"},
		{"badPrice", "Pastel", "cinco"},
		{"negativePrice", "Pastel", "-5"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ManualItem(tt.itemName, tt.price)
			var ve validation.ValidationError
			if !errors.As(err, &ve) {
				t.Errorf("ManualItem() error = %v, want ValidationError", err)
			}
		})
	}
}
