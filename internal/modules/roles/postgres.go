package roles

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/georgemunganga/marketplace-backend/internal/common"
	"github.com/georgemunganga/marketplace-backend/internal/dbx"
	"github.com/georgemunganga/marketplace-backend/internal/modules/policy"
	"github.com/google/uuid"
)

type postgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository creates a new PostgreSQL role repository.
func NewPostgresRepository(db dbx.DBTX) Repository {
	return &postgresRepository{db: db}
}

func (r *postgresRepository) RoleOf(ctx context.Context, userID, vendorID uuid.UUID) (policy.Role, error) {
	query := `SELECT role FROM user_vendor_roles WHERE user_id = $1 AND vendor_id = $2`
	rows, err := r.db.QueryContext(ctx, query, userID, vendorID)
	if err != nil {
		return policy.RoleNone, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	found := make([]policy.Role, 0, 1)
	for rows.Next() {
		var role string
		if err := rows.Scan(&role); err != nil {
			return policy.RoleNone, fmt.Errorf("db error: %w", err)
		}
		found = append(found, policy.Role(role))
	}
	if err := rows.Err(); err != nil {
		return policy.RoleNone, fmt.Errorf("db error: %w", err)
	}

	switch len(found) {
	case 0:
		return policy.RoleNone, nil
	case 1:
		return found[0], nil
	}
	return policy.RoleNone, fmt.Errorf("user %s vendor %s: %w", userID, vendorID, common.ErrDuplicateRoleConflict)
}

func (r *postgresRepository) SetRole(ctx context.Context, userID, vendorID uuid.UUID, role policy.Role) (*UserVendorRole, error) {
	query := `
		INSERT INTO user_vendor_roles (id, user_id, vendor_id, role)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id, vendor_id)
		DO UPDATE SET role = EXCLUDED.role, updated_at = NOW()
		RETURNING id, created_at, updated_at
	`
	uvr := &UserVendorRole{UserID: userID, VendorID: vendorID, Role: role}
	err := r.db.QueryRowContext(ctx, query, uuid.New(), userID, vendorID, string(role)).
		Scan(&uvr.ID, &uvr.CreatedAt, &uvr.UpdatedAt)
	if err != nil {
		if dbx.IsForeignKeyViolation(err) {
			return nil, fmt.Errorf("user or vendor: %w", common.ErrNotFound)
		}
		if _, ok := dbx.IsUniqueViolation(err); ok {
			return nil, fmt.Errorf("user %s vendor %s: %w", userID, vendorID, common.ErrDuplicateRoleConflict)
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return uvr, nil
}

func (r *postgresRepository) GetRole(ctx context.Context, userID, vendorID uuid.UUID) (*UserVendorRole, error) {
	query := `
		SELECT id, user_id, vendor_id, role, created_at, updated_at
		FROM user_vendor_roles
		WHERE user_id = $1 AND vendor_id = $2
	`
	uvr, err := scanRole(r.db.QueryRowContext(ctx, query, userID, vendorID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("role: %w", common.ErrNoRole)
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return uvr, nil
}

func (r *postgresRepository) ListByVendor(ctx context.Context, vendorID uuid.UUID) ([]*UserVendorRole, error) {
	query := `
		SELECT id, user_id, vendor_id, role, created_at, updated_at
		FROM user_vendor_roles
		WHERE vendor_id = $1
		ORDER BY created_at
	`
	rows, err := r.db.QueryContext(ctx, query, vendorID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var out []*UserVendorRole
	for rows.Next() {
		uvr, err := scanRole(rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		out = append(out, uvr)
	}
	return out, rows.Err()
}

func (r *postgresRepository) VendorCreator(ctx context.Context, vendorID uuid.UUID) (uuid.UUID, error) {
	var ownerID uuid.UUID
	err := r.db.QueryRowContext(ctx, `SELECT owner_id FROM vendors WHERE id = $1`, vendorID).Scan(&ownerID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return uuid.Nil, fmt.Errorf("vendor: %w", common.ErrNotFound)
		}
		return uuid.Nil, fmt.Errorf("db error: %w", err)
	}
	return ownerID, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRole(s scanner) (*UserVendorRole, error) {
	uvr := &UserVendorRole{}
	var role string
	if err := s.Scan(&uvr.ID, &uvr.UserID, &uvr.VendorID, &role, &uvr.CreatedAt, &uvr.UpdatedAt); err != nil {
		return nil, err
	}
	uvr.Role = policy.Role(role)
	return uvr, nil
}
