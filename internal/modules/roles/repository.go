package roles

import (
	"context"

	"github.com/georgemunganga/marketplace-backend/internal/dbx"
	"github.com/georgemunganga/marketplace-backend/internal/modules/policy"
	"github.com/google/uuid"
)

// Repository defines the interface for role assignment storage.
type Repository interface {
	// RoleOf returns policy.RoleNone with a nil error when the user has no
	// role on the vendor.
	RoleOf(ctx context.Context, userID, vendorID uuid.UUID) (policy.Role, error)
	// SetRole inserts or overwrites the user's role on the vendor.
	SetRole(ctx context.Context, userID, vendorID uuid.UUID, role policy.Role) (*UserVendorRole, error)
	GetRole(ctx context.Context, userID, vendorID uuid.UUID) (*UserVendorRole, error)
	ListByVendor(ctx context.Context, vendorID uuid.UUID) ([]*UserVendorRole, error)
	// VendorCreator returns the user that created the vendor.
	VendorCreator(ctx context.Context, vendorID uuid.UUID) (uuid.UUID, error)
}

// RepositoryFactory builds a Repository on top of a connection or transaction.
type RepositoryFactory func(db dbx.DBTX) Repository
