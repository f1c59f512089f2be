package policy

import (
	"fmt"
	"strings"

	"github.com/georgemunganga/marketplace-backend/internal/common"
)

// Role is a user's relationship to one vendor.
type Role string

const (
	RoleNone     Role = ""
	RoleOwner    Role = "owner"
	RoleStaff    Role = "staff"
	RoleCustomer Role = "customer"
)

// Valid reports whether r is one of the assignable roles.
func (r Role) Valid() bool {
	switch r {
	case RoleOwner, RoleStaff, RoleCustomer:
		return true
	}
	return false
}

// ParseRole accepts a role name in any case.
func ParseRole(s string) (Role, error) {
	r := Role(strings.ToLower(strings.TrimSpace(s)))
	if !r.Valid() {
		return RoleNone, fmt.Errorf("%w: unknown role %q", common.ErrValidation, s)
	}
	return r, nil
}
