// Package policy is the single authorization decision point for vendor
// scoped actions. It performs no I/O: callers load the actor's role and the
// target resource's ownership facts and pass them in.
package policy

import (
	"fmt"

	"github.com/georgemunganga/marketplace-backend/internal/common"
	"github.com/google/uuid"
)

// Scope narrows what an allowed action may see or touch.
type Scope int

const (
	// ScopeVendor covers every resource of the vendor.
	ScopeVendor Scope = iota + 1
	// ScopeActive covers only active catalog entries.
	ScopeActive
	// ScopeOwn covers only resources the actor created.
	ScopeOwn
)

// Resource carries the ownership facts of an existing resource.
type Resource struct {
	VendorID uuid.UUID
	// CreatedBy is the customer that created the resource, uuid.Nil for
	// catalog entries.
	CreatedBy uuid.UUID
}

// Request is one authorization question.
type Request struct {
	Actor  uuid.UUID
	Vendor uuid.UUID
	// Role is the actor's role on Vendor, RoleNone when there is none.
	Role     Role
	Action   Action
	Resource *Resource
}

var matrix = map[Action]map[Role]Scope{
	ActionListProducts:      {RoleOwner: ScopeVendor, RoleStaff: ScopeVendor, RoleCustomer: ScopeActive},
	ActionRetrieveProduct:   {RoleOwner: ScopeVendor, RoleStaff: ScopeVendor, RoleCustomer: ScopeActive},
	ActionCreateProduct:     {RoleOwner: ScopeVendor, RoleStaff: ScopeVendor},
	ActionUpdateProduct:     {RoleOwner: ScopeVendor, RoleStaff: ScopeVendor},
	ActionDeleteProduct:     {RoleOwner: ScopeVendor},
	ActionListOrders:        {RoleOwner: ScopeVendor, RoleStaff: ScopeVendor, RoleCustomer: ScopeOwn},
	ActionRetrieveOrder:     {RoleOwner: ScopeVendor, RoleStaff: ScopeVendor, RoleCustomer: ScopeOwn},
	ActionCreateOrder:       {RoleCustomer: ScopeOwn},
	ActionUpdateOrderFields: {RoleOwner: ScopeVendor, RoleStaff: ScopeVendor, RoleCustomer: ScopeOwn},
	ActionUpdateOrderStatus: {RoleOwner: ScopeVendor, RoleStaff: ScopeVendor},
	ActionCancelOrder:       {RoleOwner: ScopeVendor, RoleStaff: ScopeVendor, RoleCustomer: ScopeOwn},
	ActionDeleteOrder:       {RoleOwner: ScopeVendor, RoleStaff: ScopeVendor},
	ActionListRoles:         {RoleOwner: ScopeVendor, RoleStaff: ScopeVendor},
	ActionAssignRole:        {RoleOwner: ScopeVendor},
}

// Authorize decides req. On success it returns the scope the caller must
// apply to queries; on denial it returns an error wrapping common.ErrNoRole
// or common.ErrForbidden.
func Authorize(req Request) (Scope, error) {
	if req.Role == RoleNone {
		return 0, fmt.Errorf("%w: %s", common.ErrNoRole, req.Action)
	}
	if !req.Role.Valid() {
		return 0, fmt.Errorf("%w: unknown role %q", common.ErrForbidden, req.Role)
	}

	// Tenant isolation holds regardless of role.
	if req.Resource != nil && req.Resource.VendorID != req.Vendor {
		return 0, fmt.Errorf("%w: resource belongs to another vendor", common.ErrForbidden)
	}

	scope, ok := matrix[req.Action][req.Role]
	if !ok {
		return 0, fmt.Errorf("%w: role %s may not %s", common.ErrForbidden, req.Role, req.Action)
	}

	if scope == ScopeOwn && req.Action.targetsExisting() {
		if req.Resource == nil || req.Resource.CreatedBy != req.Actor {
			return 0, fmt.Errorf("%w: %s is limited to own resources", common.ErrForbidden, req.Action)
		}
	}
	return scope, nil
}
