package models

import (
	"time"
)

// Bus topics
const (
	TopicReceipt     = "receipt.print"
	TopicPrintNotice = "notice.print"
)

// Print notice kinds
const (
	NoticeFallback = "fallback"
	NoticeFailed   = "failed"
)

// ReceiptMessage asks the print worker to print an order
type ReceiptMessage struct {
	Order       Order     `json:"order"`
	Reprint     bool      `json:"reprint"`
	RequestID   string    `json:"requestId"`
	RequestedAt time.Time `json:"requestedAt"`
}

// PrintNotice tells the operator that printing did not go as planned.
// It is informational: the order is already finalized.
type PrintNotice struct {
	OrderID   string    `json:"orderId"`
	Kind      string    `json:"kind"`
	Transport string    `json:"transport"`
	Reason    string    `json:"reason"`
	Timestamp time.Time `json:"timestamp"`
}

// NewReceiptMessage creates a ReceiptMessage carrying a copy of the order
func NewReceiptMessage(order Order, reprint bool, requestID string) *ReceiptMessage {
	return &ReceiptMessage{
		Order:       order.Clone(),
		Reprint:     reprint,
		RequestID:   requestID,
		RequestedAt: time.Now().UTC(),
	}
}

// NewPrintNotice creates a PrintNotice for the given order
func NewPrintNotice(orderID, kind, transport string, reason error) *PrintNotice {
	n := &PrintNotice{
		OrderID:   orderID,
		Kind:      kind,
		Transport: transport,
		Timestamp: time.Now().UTC(),
	}
	if reason != nil {
		n.Reason = reason.Error()
	}
	return n
}
