package order

import (
	"context"

	"github.com/georgemunganga/marketplace-backend/internal/dbx"
	"github.com/google/uuid"
)

// ListFilter narrows ListOrders. Zero values match everything.
type ListFilter struct {
	CustomerID uuid.UUID
	Status     Status
}

// Repository defines data access for orders. It never opens transactions of
// its own; callers build it on the transaction they want it to join.
type Repository interface {
	// CreateOrder persists a new order and its items.
	CreateOrder(ctx context.Context, o *Order) error

	// GetOrderByID retrieves an order with its items.
	GetOrderByID(ctx context.Context, id uuid.UUID) (*Order, error)

	// ListOrders returns a vendor's orders, newest first, with their items.
	ListOrders(ctx context.Context, vendorID uuid.UUID, filter ListFilter) ([]*Order, error)

	UpdateStatus(ctx context.Context, id uuid.UUID, status Status) error
	UpdateNotes(ctx context.Context, id uuid.UUID, notes string) error

	// DeleteOrder removes the order and, by cascade, its items.
	DeleteOrder(ctx context.Context, id uuid.UUID) error
}

type RepositoryFactory func(db dbx.DBTX) Repository
