package roles

import (
	"context"
	"fmt"

	"github.com/georgemunganga/marketplace-backend/internal/common"
	"github.com/georgemunganga/marketplace-backend/internal/dbx"
	"github.com/georgemunganga/marketplace-backend/internal/logging"
	"github.com/georgemunganga/marketplace-backend/internal/modules/policy"
	"github.com/georgemunganga/marketplace-backend/internal/modules/user"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("github.com/georgemunganga/marketplace-backend/internal/modules/roles")

// Service is the role assignment workflow.
type Service interface {
	// AssignRole gives targetUser the role on vendor, replacing any role
	// they held. Only the vendor's owners may call it.
	AssignRole(ctx context.Context, actor, vendorID, targetUser uuid.UUID, role policy.Role) (*UserVendorRole, error)
	ListVendorRoles(ctx context.Context, actor, vendorID uuid.UUID) ([]*UserVendorRole, error)
	GetMyRole(ctx context.Context, actor, vendorID uuid.UUID) (*UserVendorRole, error)
}

type service struct {
	tx    dbx.TxRunner
	roles RepositoryFactory
	users func(dbx.DBTX) user.Repository
	log   logging.Logger
}

// NewService creates a new role service.
func NewService(tx dbx.TxRunner, roles RepositoryFactory, users func(dbx.DBTX) user.Repository, log logging.Logger) Service {
	return &service{tx: tx, roles: roles, users: users, log: log.With("module", "roles")}
}

func (s *service) AssignRole(ctx context.Context, actor, vendorID, targetUser uuid.UUID, role policy.Role) (uvr *UserVendorRole, err error) {
	ctx, span := tracer.Start(ctx, "roles.AssignRole")
	span.SetAttributes(
		attribute.String("vendor.id", vendorID.String()),
		attribute.String("role", string(role)),
	)
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	if !role.Valid() {
		return nil, fmt.Errorf("%w: unknown role %q", common.ErrValidation, role)
	}

	err = s.tx.InTx(ctx, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.roles(tx)

		creator, err := repo.VendorCreator(ctx, vendorID)
		if err != nil {
			return err
		}
		if _, err := Authorize(ctx, repo, actor, vendorID, policy.ActionAssignRole, nil); err != nil {
			return err
		}
		if _, err := s.users(tx).GetUserByID(ctx, targetUser); err != nil {
			return err
		}
		if targetUser == creator && role != policy.RoleOwner {
			return fmt.Errorf("%w: the vendor creator must stay owner", common.ErrForbidden)
		}

		uvr, err = repo.SetRole(ctx, targetUser, vendorID, role)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.log.Info(ctx, "role assigned",
		"vendor_id", vendorID, "user_id", targetUser, "role", role, "assigned_by", actor)
	return uvr, nil
}

func (s *service) ListVendorRoles(ctx context.Context, actor, vendorID uuid.UUID) ([]*UserVendorRole, error) {
	repo := s.roles(s.tx.Conn())
	if _, err := Authorize(ctx, repo, actor, vendorID, policy.ActionListRoles, nil); err != nil {
		return nil, err
	}
	return repo.ListByVendor(ctx, vendorID)
}

func (s *service) GetMyRole(ctx context.Context, actor, vendorID uuid.UUID) (*UserVendorRole, error) {
	repo := s.roles(s.tx.Conn())
	if _, err := repo.VendorCreator(ctx, vendorID); err != nil {
		return nil, err
	}
	return repo.GetRole(ctx, actor, vendorID)
}
