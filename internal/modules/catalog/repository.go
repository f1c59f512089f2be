package catalog

import (
	"context"

	"github.com/georgemunganga/marketplace-backend/internal/dbx"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Repository is the catalog data store.
type Repository interface {
	Create(ctx context.Context, p *Product) error
	Update(ctx context.Context, p *Product) error
	Delete(ctx context.Context, vendorID, id uuid.UUID) error
	GetByID(ctx context.Context, id uuid.UUID) (*Product, error)
	ListByVendor(ctx context.Context, vendorID uuid.UUID, activeOnly bool) ([]*Product, error)

	// ReserveStock decrements stock by qty if enough is available and
	// returns the current unit price. It fails with common.ErrInsufficientStock
	// without changing anything otherwise. Only inactive or missing products
	// yield common.ErrNotFound, and products of another vendor yield
	// common.ErrCrossVendorCart.
	ReserveStock(ctx context.Context, vendorID, id uuid.UUID, qty int) (decimal.Decimal, error)
	// ReleaseStock puts qty units back.
	ReleaseStock(ctx context.Context, id uuid.UUID, qty int) error
}

type RepositoryFactory func(db dbx.DBTX) Repository
