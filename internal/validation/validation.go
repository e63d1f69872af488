package validation

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/davimluiz/copiacantinho-sub000/internal/models"
	"github.com/shopspring/decimal"
)

type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateCustomer checks the fields that must hold whenever customer data is
// saved on a draft.
func ValidateCustomer(c models.CustomerInfo) error {
	if err := validateCustomerName(c.Name); err != nil {
		return err
	}

	if !c.OrderType.Valid() {
		return ValidationError{
			Field:   "orderType",
			Message: "invalid order type",
		}
	}

	if !c.PaymentMethod.Valid() {
		return ValidationError{
			Field:   "paymentMethod",
			Message: "invalid payment method",
		}
	}

	if c.DeliveryFee != nil {
		if c.DeliveryFee.IsNegative() {
			return ValidationError{
				Field:   "deliveryFee",
				Message: "delivery fee must not be negative",
			}
		}
		if !wholeCentavos(*c.DeliveryFee) {
			return ValidationError{
				Field:   "deliveryFee",
				Message: "delivery fee must have at most two decimal places",
			}
		}
	}
	return nil
}

// ValidateForSummary checks the order-type conditions that must hold before a
// draft can move from FORM to SUMMARY.
func ValidateForSummary(c models.CustomerInfo) error {
	if err := ValidateCustomer(c); err != nil {
		return err
	}

	if c.OrderType == models.Table && strings.TrimSpace(c.TableNumber) == "" {
		return ValidationError{
			Field:   "tableNumber",
			Message: "table number is required for table orders",
		}
	}

	if c.OrderType == models.Delivery && strings.TrimSpace(c.Address) == "" {
		return ValidationError{
			Field:   "address",
			Message: "address is required for delivery orders",
		}
	}
	return nil
}

func validateCustomerName(name string) error {
	if utf8.RuneCountInString(name) > 100 {
		return ValidationError{
			Field:   "name",
			Message: "customer name must be less than 100 characters",
		}
	}
	return nil
}

// ParsePrice reads an operator-typed amount. Both "12.50" and "12,50" are
// accepted, as is a leading "R$". Amounts finer than one centavo and
// exponent forms are rejected.
func ParsePrice(field, text string) (decimal.Decimal, error) {
	s := strings.TrimSpace(text)
	s = strings.TrimSpace(strings.TrimPrefix(s, "R$"))
	if s == "" {
		return decimal.Zero, ValidationError{
			Field:   field,
			Message: "price is required",
		}
	}

	if strings.ContainsAny(s, "eE") {
		return decimal.Zero, ValidationError{
			Field:   field,
			Message: "price must be a number",
		}
	}

	if strings.Contains(s, ",") {
		s = strings.ReplaceAll(s, ".", "")
		s = strings.Replace(s, ",", ".", 1)
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, ValidationError{
			Field:   field,
			Message: "price must be a number",
		}
	}

	if d.IsNegative() {
		return decimal.Zero, ValidationError{
			Field:   field,
			Message: "price must not be negative",
		}
	}

	if !wholeCentavos(d) {
		return decimal.Zero, ValidationError{
			Field:   field,
			Message: "price must have at most two decimal places",
		}
	}
	return d, nil
}

func wholeCentavos(d decimal.Decimal) bool {
	return d.Equal(d.Round(2))
}

// ValidateManualItem returns the trimmed name and parsed price of a
// free-text line item.
func ValidateManualItem(name, priceText string) (string, decimal.Decimal, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", decimal.Zero, ValidationError{
			Field:   "name",
			Message: "item name is required",
		}
	}

	if utf8.RuneCountInString(name) > 100 {
		return "", decimal.Zero, ValidationError{
			Field:   "name",
			Message: "item name must be less than 100 characters",
		}
	}

	price, err := ParsePrice("price", priceText)
	if err != nil {
		return "", decimal.Zero, err
	}
	return name, price, nil
}

func ValidateQuantity(quantity int) error {
	if quantity < 1 {
		return ValidationError{
			Field:   "quantity",
			Message: "quantity must be greater than 0",
		}
	}
	return nil
}

// ValidateCartItems checks items about to be appended to a cart
func ValidateCartItems(items []models.CartItem) error {
	if len(items) == 0 {
		return ValidationError{
			Field:   "items",
			Message: "items cannot be empty",
		}
	}

	for i, item := range items {
		if err := validateCartItem(item, i); err != nil {
			return err
		}
	}
	return nil
}

func validateCartItem(item models.CartItem, index int) error {
	if item.CartID == "" {
		return ValidationError{
			Field:   fmt.Sprintf("items[%d].cartId", index),
			Message: "cart id is required",
		}
	}

	if strings.TrimSpace(item.Name) == "" {
		return ValidationError{
			Field:   fmt.Sprintf("items[%d].name", index),
			Message: "item name is required",
		}
	}

	if item.Quantity < 1 {
		return ValidationError{
			Field:   fmt.Sprintf("items[%d].quantity", index),
			Message: "item quantity must be greater than 0",
		}
	}

	if item.Price.IsNegative() {
		return ValidationError{
			Field:   fmt.Sprintf("items[%d].price", index),
			Message: "item price must not be negative",
		}
	}
	return nil
}
