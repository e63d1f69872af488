package validation

import (
	"errors"
	"strings"
	"testing"

	"github.com/davimluiz/copiacantinho-sub000/internal/models"
	"github.com/shopspring/decimal"
)

func TestValidateCustomer(t *testing.T) {
	negative := decimal.RequireFromString("-1")
	fee := decimal.RequireFromString("7")
	fraction := decimal.RequireFromString("7.005")

	tests := []struct {
		name     string
		customer models.CustomerInfo
		wantErr  bool
	}{
		{
			name:     "default customer",
			customer: models.DefaultCustomerInfo(),
			wantErr:  false,
		},
		{
			name: "delivery with fee",
			customer: models.CustomerInfo{
				Name: "Maria", OrderType: models.Delivery, PaymentMethod: models.PaymentCash, DeliveryFee: &fee,
			},
			wantErr: false,
		},
		{
			name:     "invalid order type",
			customer: models.CustomerInfo{OrderType: "TAKEOUT", PaymentMethod: models.PaymentPix},
			wantErr:  true,
		},
		{
			name:     "invalid payment method",
			customer: models.CustomerInfo{OrderType: models.Counter, PaymentMethod: "CHEQUE"},
			wantErr:  true,
		},
		{
			name:     "negative delivery fee",
			customer: models.CustomerInfo{OrderType: models.Delivery, PaymentMethod: models.PaymentPix, DeliveryFee: &negative},
			wantErr:  true,
		},
		{
			name:     "delivery fee below one centavo",
			customer: models.CustomerInfo{OrderType: models.Delivery, PaymentMethod: models.PaymentPix, DeliveryFee: &fraction},
			wantErr:  true,
		},
		{
			name:     "name too long",
			customer: models.CustomerInfo{Name: strings.Repeat("a", 101), OrderType: models.Counter, PaymentMethod: models.PaymentPix},
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateCustomer(tt.customer)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateCustomer() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateForSummary(t *testing.T) {
	tests := []struct {
		name      string
		customer  models.CustomerInfo
		wantField string
	}{
		{
			name:     "counter needs nothing",
			customer: models.DefaultCustomerInfo(),
		},
		{
			name:      "table without number",
			customer:  models.CustomerInfo{OrderType: models.Table, PaymentMethod: models.PaymentPix, TableNumber: "  "},
			wantField: "tableNumber",
		},
		{
			name:     "table with number",
			customer: models.CustomerInfo{OrderType: models.Table, PaymentMethod: models.PaymentPix, TableNumber: "4"},
		},
		{
			name:      "delivery without address",
			customer:  models.CustomerInfo{OrderType: models.Delivery, PaymentMethod: models.PaymentPix},
			wantField: "address",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateForSummary(tt.customer)
			if tt.wantField == "" {
				if err != nil {
					t.Fatalf("ValidateForSummary() error = %v", err)
				}
				return
			}
			var ve ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("ValidateForSummary() error = %v, want ValidationError", err)
			}
			if ve.Field != tt.wantField {
				t.Errorf("Field = %q, want %q", ve.Field, tt.wantField)
			}
		})
	}
}

func TestParsePrice(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"12.50", "12.50", false},
		{"12,50", "12.50", false},
		{"R$ 7,00", "7", false},
		{"1.234,56", "1234.56", false},
		{"0", "0", false},
		{"", "", true},
		{"   ", "", true},
		{"abc", "", true},
		{"-3", "", true},
		{"2.500", "2.5", false},
		{"2,005", "", true},
		{"1.234", "", true},
		{"1e1", "", true},
		{"1E-30", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParsePrice("price", tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParsePrice(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if !tt.wantErr && !got.Equal(decimal.RequireFromString(tt.want)) {
				t.Errorf("ParsePrice(%q) = %s, want %s", tt.in, got, tt.want)
			}
		})
	}
}

func TestValidateManualItem(t *testing.T) {
	tests := []struct {
		name      string
		itemName  string
		priceText string
		wantName  string
		wantPrice string
		wantField string
	}{
		{"trimmed", "  Pastel de Carne ", "8,00", "Pastel de Carne", "8", ""},
		{"empty name", "", "8,00", "", "", "name"},
		{"non-numeric price", "Pastel", "oito", "", "", "price"},
		{"sub-centavo price", "Pastel", "2,005", "", "", "price"},
		{"exponent price", "Pastel", "1e1", "", "", "price"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			name, price, err := ValidateManualItem(tt.itemName, tt.priceText)
			if tt.wantField != "" {
				var ve ValidationError
				if !errors.As(err, &ve) || ve.Field != tt.wantField {
					t.Fatalf("ValidateManualItem() error = %v, want field %q", err, tt.wantField)
				}
				return
			}
			if err != nil {
				t.Fatalf("ValidateManualItem() error = %v", err)
			}
			if name != tt.wantName {
				t.Errorf("name = %q, want %q", name, tt.wantName)
			}
			if !price.Equal(decimal.RequireFromString(tt.wantPrice)) {
				t.Errorf("price = %s, want %s", price, tt.wantPrice)
			}
		})
	}
}

func TestValidateCartItems(t *testing.T) {
	valid := models.CartItem{
		Product:  models.Product{Name: "X-Burguer", Price: decimal.NewFromInt(18)},
		CartID:   "c1",
		Quantity: 1,
	}

	tests := []struct {
		name    string
		items   []models.CartItem
		wantErr bool
	}{
		{"valid", []models.CartItem{valid}, false},
		{"empty", nil, true},
		{"zero quantity", []models.CartItem{func() models.CartItem { i := valid; i.Quantity = 0; return i }()}, true},
		{"missing cart id", []models.CartItem{func() models.CartItem { i := valid; i.CartID = ""; return i }()}, true},
		{"negative price", []models.CartItem{func() models.CartItem { i := valid; i.Price = decimal.NewFromInt(-1); return i }()}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateCartItems(tt.items)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateCartItems() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
