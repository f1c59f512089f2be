// Package rolestest provides an in-memory roles.Repository for tests.
package rolestest

import (
	"context"
	"fmt"
	"maps"
	"sort"
	"sync"
	"time"

	"github.com/georgemunganga/marketplace-backend/internal/common"
	"github.com/georgemunganga/marketplace-backend/internal/dbx"
	"github.com/georgemunganga/marketplace-backend/internal/modules/policy"
	"github.com/georgemunganga/marketplace-backend/internal/modules/roles"
	"github.com/google/uuid"
)

type key struct {
	user, vendor uuid.UUID
}

// Store keeps vendors and role rows in maps. It is safe for concurrent use.
type Store struct {
	mu       sync.Mutex
	creators map[uuid.UUID]uuid.UUID
	rows     map[key]roles.UserVendorRole
}

var _ roles.Repository = (*Store)(nil)

func NewStore() *Store {
	return &Store{
		creators: make(map[uuid.UUID]uuid.UUID),
		rows:     make(map[key]roles.UserVendorRole),
	}
}

// Factory returns s regardless of the handle.
func (s *Store) Factory(dbx.DBTX) roles.Repository {
	return s
}

// AddVendor registers a vendor created by creator and makes creator its owner.
func (s *Store) AddVendor(vendorID, creator uuid.UUID) {
	s.RegisterVendor(vendorID, creator)
	s.Grant(creator, vendorID, policy.RoleOwner)
}

// RegisterVendor records the vendor without assigning any role.
func (s *Store) RegisterVendor(vendorID, creator uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.creators[vendorID] = creator
}

func (s *Store) Grant(userID, vendorID uuid.UUID, role policy.Role) {
	_, _ = s.SetRole(context.Background(), userID, vendorID, role)
}

func (s *Store) Snapshot() func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	creators := maps.Clone(s.creators)
	rows := maps.Clone(s.rows)
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.creators, s.rows = creators, rows
	}
}

func (s *Store) RoleOf(ctx context.Context, userID, vendorID uuid.UUID) (policy.Role, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rows[key{userID, vendorID}].Role, nil
}

func (s *Store) SetRole(ctx context.Context, userID, vendorID uuid.UUID, role policy.Role) (*roles.UserVendorRole, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.creators[vendorID]; !ok {
		return nil, fmt.Errorf("vendor: %w", common.ErrNotFound)
	}

	k := key{userID, vendorID}
	now := time.Now()
	row, ok := s.rows[k]
	if !ok {
		row = roles.UserVendorRole{ID: uuid.New(), UserID: userID, VendorID: vendorID, CreatedAt: now}
	}
	row.Role = role
	row.UpdatedAt = now
	s.rows[k] = row
	return &row, nil
}

func (s *Store) GetRole(ctx context.Context, userID, vendorID uuid.UUID) (*roles.UserVendorRole, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	row, ok := s.rows[key{userID, vendorID}]
	if !ok {
		return nil, fmt.Errorf("role: %w", common.ErrNoRole)
	}
	return &row, nil
}

func (s *Store) ListByVendor(ctx context.Context, vendorID uuid.UUID) ([]*roles.UserVendorRole, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*roles.UserVendorRole
	for k, row := range s.rows {
		if k.vendor == vendorID {
			out = append(out, &row)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (s *Store) VendorCreator(ctx context.Context, vendorID uuid.UUID) (uuid.UUID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	creator, ok := s.creators[vendorID]
	if !ok {
		return uuid.Nil, fmt.Errorf("vendor: %w", common.ErrNotFound)
	}
	return creator, nil
}
