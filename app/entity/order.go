package entity

import "time"

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusPaid      OrderStatus = "paid"
	OrderStatusComplete  OrderStatus = "complete"
	OrderStatusRevoked   OrderStatus = "revoked"
	OrderStatusAbandoned OrderStatus = "abandoned"
	OrderStatusFailed    OrderStatus = "failed"
	OrderStatusRefunded  OrderStatus = "refunded"
)

// Paid reports whether the order has been settled. "complete" is the
// store-side terminal form of "paid" and counts the same way everywhere.
func (s OrderStatus) Paid() bool {
	return s == OrderStatusPaid || s == OrderStatusComplete
}

type Order struct {
	ID uint64

	Status OrderStatus

	// TransactionRef holds the merchant reference of the latest payment
	// attempt. Inbound callbacks must echo it exactly to be accepted.
	TransactionRef string

	AmountDue int64
	Currency  string

	CustomerName  string
	CustomerEmail string
	CustomerPhone string
	Channel       string

	CheckoutURL *string

	ExpiresAt time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}
