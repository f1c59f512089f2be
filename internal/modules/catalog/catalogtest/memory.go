// Package catalogtest provides an in-memory catalog.Repository for tests.
package catalogtest

import (
	"context"
	"fmt"
	"maps"
	"sort"
	"sync"
	"time"

	"github.com/georgemunganga/marketplace-backend/internal/common"
	"github.com/georgemunganga/marketplace-backend/internal/dbx"
	"github.com/georgemunganga/marketplace-backend/internal/modules/catalog"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Store keeps products in a map and enforces the same constraints as the
// products table. It is safe for concurrent use.
type Store struct {
	mu       sync.Mutex
	products map[uuid.UUID]catalog.Product
	// InUse marks products referenced by order items.
	InUse map[uuid.UUID]bool
}

var _ catalog.Repository = (*Store)(nil)

func NewStore() *Store {
	return &Store{
		products: make(map[uuid.UUID]catalog.Product),
		InUse:    make(map[uuid.UUID]bool),
	}
}

func (s *Store) Factory(dbx.DBTX) catalog.Repository {
	return s
}

// Put stores p as is.
func (s *Store) Put(p catalog.Product) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.products[p.ID] = p
}

// Stock returns the current stock of id, -1 when it does not exist.
func (s *Store) Stock(id uuid.UUID) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.products[id]
	if !ok {
		return -1
	}
	return p.Stock
}

func (s *Store) Snapshot() func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	saved := maps.Clone(s.products)
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.products = saved
	}
}

func (s *Store) nameTaken(p *catalog.Product) bool {
	for id, other := range s.products {
		if id != p.ID && other.VendorID == p.VendorID && other.Name == p.Name {
			return true
		}
	}
	return false
}

func (s *Store) Create(ctx context.Context, p *catalog.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.nameTaken(p) {
		return fmt.Errorf("%q: %w", p.Name, common.ErrDuplicateProduct)
	}
	p.CreatedAt, p.UpdatedAt = time.Now(), time.Now()
	s.products[p.ID] = *p
	return nil
}

func (s *Store) Update(ctx context.Context, p *catalog.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur, ok := s.products[p.ID]
	if !ok || cur.VendorID != p.VendorID {
		return fmt.Errorf("product: %w", common.ErrNotFound)
	}
	if s.nameTaken(p) {
		return fmt.Errorf("%q: %w", p.Name, common.ErrDuplicateProduct)
	}
	p.UpdatedAt = time.Now()
	s.products[p.ID] = *p
	return nil
}

func (s *Store) Delete(ctx context.Context, vendorID, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.products[id]
	if !ok || p.VendorID != vendorID {
		return fmt.Errorf("product: %w", common.ErrNotFound)
	}
	if s.InUse[id] {
		return fmt.Errorf("product %s: %w", id, common.ErrProductInUse)
	}
	delete(s.products, id)
	return nil
}

func (s *Store) GetByID(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.products[id]
	if !ok {
		return nil, fmt.Errorf("product: %w", common.ErrNotFound)
	}
	return &p, nil
}

func (s *Store) ListByVendor(ctx context.Context, vendorID uuid.UUID, activeOnly bool) ([]*catalog.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*catalog.Product
	for _, p := range s.products {
		if p.VendorID == vendorID && (p.IsActive || !activeOnly) {
			out = append(out, &p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *Store) ReserveStock(ctx context.Context, vendorID, id uuid.UUID, qty int) (decimal.Decimal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if qty <= 0 {
		return decimal.Zero, fmt.Errorf("%w: quantity must be positive", common.ErrValidation)
	}
	p, ok := s.products[id]
	switch {
	case !ok:
		return decimal.Zero, fmt.Errorf("product %s: %w", id, common.ErrNotFound)
	case p.VendorID != vendorID:
		return decimal.Zero, fmt.Errorf("product %s: %w", id, common.ErrCrossVendorCart)
	case !p.IsActive:
		return decimal.Zero, fmt.Errorf("product %s is not available: %w", id, common.ErrNotFound)
	case p.Stock < qty:
		return decimal.Zero, fmt.Errorf("product %s: %w", id, common.ErrInsufficientStock)
	}
	p.Stock -= qty
	s.products[id] = p
	return p.Price, nil
}

func (s *Store) ReleaseStock(ctx context.Context, id uuid.UUID, qty int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.products[id]
	if !ok {
		return fmt.Errorf("product %s: %w", id, common.ErrNotFound)
	}
	p.Stock += qty
	s.products[id] = p
	return nil
}
