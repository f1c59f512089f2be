package roles

import (
	"time"

	"github.com/georgemunganga/marketplace-backend/internal/modules/policy"
	"github.com/google/uuid"
)

// UserVendorRole is the single role a user holds on a vendor.
type UserVendorRole struct {
	ID        uuid.UUID   `json:"id"`
	UserID    uuid.UUID   `json:"user_id"`
	VendorID  uuid.UUID   `json:"vendor_id"`
	Role      policy.Role `json:"role"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}
