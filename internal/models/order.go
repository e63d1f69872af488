package models

import (
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderType represents how the order leaves the counter
type OrderType string

const (
	Counter  OrderType = "COUNTER"
	Table    OrderType = "TABLE"
	Delivery OrderType = "DELIVERY"
)

// Valid reports whether t is one of the known order types
func (t OrderType) Valid() bool {
	switch t {
	case Counter, Table, Delivery:
		return true
	}
	return false
}

// OrderStatus represents the lifecycle status of a finalized order
type OrderStatus string

const (
	StatusPending   OrderStatus = "PENDING"
	StatusCompleted OrderStatus = "COMPLETED"
	StatusCancelled OrderStatus = "CANCELLED"
)

func (s OrderStatus) Valid() bool {
	switch s {
	case StatusPending, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// PaymentMethod represents how the customer pays
type PaymentMethod string

const (
	PaymentPix    PaymentMethod = "PIX"
	PaymentCash   PaymentMethod = "CASH"
	PaymentCredit PaymentMethod = "CREDIT_CARD"
	PaymentDebit  PaymentMethod = "DEBIT_CARD"
)

// PaymentMethods lists the accepted methods; the first one is the default.
var PaymentMethods = []PaymentMethod{PaymentPix, PaymentCash, PaymentCredit, PaymentDebit}

func (m PaymentMethod) Valid() bool {
	return slices.Contains(PaymentMethods, m)
}

// Step is the wizard position of a draft order
type Step string

const (
	StepMenu    Step = "MENU"
	StepForm    Step = "FORM"
	StepSummary Step = "SUMMARY"
)

func (s Step) Valid() bool {
	switch s {
	case StepMenu, StepForm, StepSummary:
		return true
	}
	return false
}

// CartItem is a configured product snapshot in a cart.
// Price is the unit price including matched paid extras.
type CartItem struct {
	Product
	CartID             string     `json:"cartId"`
	Quantity           int        `json:"quantity"`
	RemovedIngredients []string   `json:"removedIngredients,omitempty"`
	Additions          []string   `json:"additions,omitempty"`
	Observation        string     `json:"observation,omitempty"`
	Packaging          *Packaging `json:"packaging,omitempty"`
}

// LineTotal returns Price multiplied by Quantity
func (i CartItem) LineTotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

func (i CartItem) Clone() CartItem {
	c := i
	c.Product = i.Product.Clone()
	c.RemovedIngredients = slices.Clone(i.RemovedIngredients)
	c.Additions = slices.Clone(i.Additions)
	if i.Packaging != nil {
		p := *i.Packaging
		c.Packaging = &p
	}
	return c
}

// Subtotal sums price times quantity over items. Both the draft view and the
// finalizer use it so the two never drift.
func Subtotal(items []CartItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.LineTotal())
	}
	return total
}

func cloneItems(items []CartItem) []CartItem {
	if items == nil {
		return nil
	}
	out := make([]CartItem, len(items))
	for i, item := range items {
		out[i] = item.Clone()
	}
	return out
}

// CustomerInfo holds the details collected in the FORM step
type CustomerInfo struct {
	Name          string           `json:"name"`
	Phone         string           `json:"phone"`
	Address       string           `json:"address"`
	AddressNumber string           `json:"addressNumber"`
	Reference     string           `json:"reference"`
	DeliveryFee   *decimal.Decimal `json:"deliveryFee,omitempty"`
	TableNumber   string           `json:"tableNumber"`
	OrderType     OrderType        `json:"orderType"`
	PaymentMethod PaymentMethod    `json:"paymentMethod"`
	Observation   string           `json:"observation,omitempty"`
}

// DefaultCustomerInfo returns the blank customer of a new draft
func DefaultCustomerInfo() CustomerInfo {
	return CustomerInfo{
		OrderType:     Counter,
		PaymentMethod: PaymentMethods[0],
	}
}

// AppliedDeliveryFee is the fee that counts toward the total: the entered fee
// for DELIVERY orders, zero otherwise.
func (c CustomerInfo) AppliedDeliveryFee() decimal.Decimal {
	if c.OrderType != Delivery || c.DeliveryFee == nil {
		return decimal.Zero
	}
	return *c.DeliveryFee
}

func (c CustomerInfo) Clone() CustomerInfo {
	out := c
	if c.DeliveryFee != nil {
		fee := *c.DeliveryFee
		out.DeliveryFee = &fee
	}
	return out
}

// DraftOrder is an in-progress order
type DraftOrder struct {
	ID        string       `json:"id"`
	Customer  CustomerInfo `json:"customer"`
	Cart      []CartItem   `json:"cart"`
	Step      Step         `json:"step"`
	UpdatedAt time.Time    `json:"updatedAt"`
}

func (d DraftOrder) Subtotal() decimal.Decimal {
	return Subtotal(d.Cart)
}

func (d DraftOrder) Clone() DraftOrder {
	out := d
	out.Customer = d.Customer.Clone()
	out.Cart = cloneItems(d.Cart)
	return out
}

// Order is a finalized, immutable order. Subtotal and DeliveryFee are stored
// so receipts never re-derive pricing.
type Order struct {
	ID          string          `json:"id"`
	Customer    CustomerInfo    `json:"customer"`
	Items       []CartItem      `json:"items"`
	Subtotal    decimal.Decimal `json:"subtotal"`
	DeliveryFee decimal.Decimal `json:"deliveryFee"`
	Total       decimal.Decimal `json:"total"`
	CreatedAt   time.Time       `json:"createdAt"`
	Status      OrderStatus     `json:"status"`
}

func (o Order) Clone() Order {
	out := o
	out.Customer = o.Customer.Clone()
	out.Items = cloneItems(o.Items)
	return out
}

// NewID returns a time-ordered identifier for drafts and cart lines
func NewID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}
