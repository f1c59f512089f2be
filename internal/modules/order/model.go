package order

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Order is a customer's purchase from one vendor. TotalAmount is fixed at
// creation from the snapshotted item prices.
type Order struct {
	ID          uuid.UUID       `json:"id"`
	VendorID    uuid.UUID       `json:"vendor_id"`
	CustomerID  uuid.UUID       `json:"customer_id"`
	Status      Status          `json:"status"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	Notes       string          `json:"notes,omitempty"`
	Items       []*OrderItem    `json:"items,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// OrderItem is a single line item. Price is the unit price captured when
// the order was placed.
type OrderItem struct {
	ID        uuid.UUID       `json:"id"`
	OrderID   uuid.UUID       `json:"order_id"`
	ProductID uuid.UUID       `json:"product_id"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
	CreatedAt time.Time       `json:"created_at"`
}

// LineTotal is Price × Quantity.
func (i *OrderItem) LineTotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// CartItem is one requested line of a new order.
type CartItem struct {
	ProductID uuid.UUID `json:"product_id"`
	Quantity  int       `json:"quantity"`
}

// CreateOrderRequest is the payload for creating a new order.
type CreateOrderRequest struct {
	Items []CartItem `json:"items"`
	Notes string     `json:"notes,omitempty"`
}

// OrderChanges lists the fields UpdateOrder should change; nil fields are
// left alone.
type OrderChanges struct {
	Status *Status `json:"status,omitempty"`
	Notes  *string `json:"notes,omitempty"`
}

// CancelOutcome tells how CancelOrder disposed of an order.
type CancelOutcome int

const (
	// OutcomeCancelled means the order was kept with status cancelled.
	OutcomeCancelled CancelOutcome = iota + 1
	// OutcomeDeleted means the order was removed.
	OutcomeDeleted
)
