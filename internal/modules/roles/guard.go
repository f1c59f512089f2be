package roles

import (
	"context"

	"github.com/georgemunganga/marketplace-backend/internal/modules/policy"
	"github.com/google/uuid"
)

// Decision is the outcome of Authorize.
type Decision struct {
	Role  policy.Role
	Scope policy.Scope
}

// Authorize loads actor's role on vendor and asks the policy engine about
// action. A vendor that does not exist yields common.ErrNotFound rather
// than common.ErrNoRole.
func Authorize(ctx context.Context, repo Repository, actor, vendorID uuid.UUID, action policy.Action, res *policy.Resource) (Decision, error) {
	role, err := repo.RoleOf(ctx, actor, vendorID)
	if err != nil {
		return Decision{}, err
	}
	if role == policy.RoleNone {
		if _, err := repo.VendorCreator(ctx, vendorID); err != nil {
			return Decision{}, err
		}
	}

	scope, err := policy.Authorize(policy.Request{
		Actor:    actor,
		Vendor:   vendorID,
		Role:     role,
		Action:   action,
		Resource: res,
	})
	if err != nil {
		return Decision{Role: role}, err
	}
	return Decision{Role: role, Scope: scope}, nil
}
