package catalog

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/georgemunganga/marketplace-backend/internal/common"
	"github.com/georgemunganga/marketplace-backend/internal/dbx"
	"github.com/georgemunganga/marketplace-backend/internal/logging"
	"github.com/georgemunganga/marketplace-backend/internal/modules/policy"
	"github.com/georgemunganga/marketplace-backend/internal/modules/roles"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Service defines catalog business logic. Every call takes the acting user
// explicitly and checks the user's role on the vendor first.
type Service interface {
	CreateProduct(ctx context.Context, actor, vendorID uuid.UUID, req CreateProductRequest) (*Product, error)
	UpdateProduct(ctx context.Context, actor, vendorID, productID uuid.UUID, req UpdateProductRequest) (*Product, error)
	DeleteProduct(ctx context.Context, actor, vendorID, productID uuid.UUID) error
	GetProduct(ctx context.Context, actor, vendorID, productID uuid.UUID) (*Product, error)
	// ListVisibleProducts returns every product to owners and staff and
	// only active ones to customers.
	ListVisibleProducts(ctx context.Context, actor, vendorID uuid.UUID) ([]*Product, error)
}

type service struct {
	tx       dbx.TxRunner
	products RepositoryFactory
	roles    roles.RepositoryFactory
	log      logging.Logger
}

func NewService(tx dbx.TxRunner, products RepositoryFactory, roles roles.RepositoryFactory, log logging.Logger) Service {
	return &service{tx: tx, products: products, roles: roles, log: log.With("module", "catalog")}
}

func (s *service) CreateProduct(ctx context.Context, actor, vendorID uuid.UUID, req CreateProductRequest) (*Product, error) {
	p := &Product{
		ID:          uuid.New(),
		VendorID:    vendorID,
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
		Price:       req.Price,
		Stock:       req.Stock,
		IsActive:    true,
	}
	if req.IsActive != nil {
		p.IsActive = *req.IsActive
	}
	if err := validate(p); err != nil {
		return nil, err
	}

	err := s.tx.InTx(ctx, func(ctx context.Context, tx dbx.DBTX) error {
		if _, err := roles.Authorize(ctx, s.roles(tx), actor, vendorID, policy.ActionCreateProduct, nil); err != nil {
			return err
		}
		return s.products(tx).Create(ctx, p)
	})
	if err != nil {
		return nil, err
	}

	s.log.Info(ctx, "product created", "product_id", p.ID, "vendor_id", vendorID, "actor", actor)
	return p, nil
}

func (s *service) UpdateProduct(ctx context.Context, actor, vendorID, productID uuid.UUID, req UpdateProductRequest) (*Product, error) {
	var p *Product
	err := s.tx.InTx(ctx, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.products(tx)

		var err error
		p, err = repo.GetByID(ctx, productID)
		if err != nil {
			return err
		}
		res := &policy.Resource{VendorID: p.VendorID}
		if _, err := roles.Authorize(ctx, s.roles(tx), actor, vendorID, policy.ActionUpdateProduct, res); err != nil {
			return err
		}

		if req.Name != nil {
			p.Name = strings.TrimSpace(*req.Name)
		}
		if req.Description != nil {
			p.Description = *req.Description
		}
		if req.Price != nil {
			p.Price = *req.Price
		}
		if req.Stock != nil {
			p.Stock = *req.Stock
		}
		if req.IsActive != nil {
			p.IsActive = *req.IsActive
		}
		if err := validate(p); err != nil {
			return err
		}
		return repo.Update(ctx, p)
	})
	if err != nil {
		return nil, err
	}

	s.log.Info(ctx, "product updated", "product_id", p.ID, "vendor_id", vendorID, "actor", actor)
	return p, nil
}

func (s *service) DeleteProduct(ctx context.Context, actor, vendorID, productID uuid.UUID) error {
	err := s.tx.InTx(ctx, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.products(tx)

		p, err := repo.GetByID(ctx, productID)
		if err != nil {
			return err
		}
		res := &policy.Resource{VendorID: p.VendorID}
		if _, err := roles.Authorize(ctx, s.roles(tx), actor, vendorID, policy.ActionDeleteProduct, res); err != nil {
			return err
		}
		return repo.Delete(ctx, vendorID, productID)
	})
	if err != nil {
		return err
	}

	s.log.Info(ctx, "product deleted", "product_id", productID, "vendor_id", vendorID, "actor", actor)
	return nil
}

func (s *service) GetProduct(ctx context.Context, actor, vendorID, productID uuid.UUID) (*Product, error) {
	conn := s.tx.Conn()
	p, err := s.products(conn).GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	res := &policy.Resource{VendorID: p.VendorID}
	d, err := roles.Authorize(ctx, s.roles(conn), actor, vendorID, policy.ActionRetrieveProduct, res)
	if err != nil {
		return nil, err
	}
	if d.Scope == policy.ScopeActive && !p.IsActive {
		return nil, fmt.Errorf("product: %w", common.ErrNotFound)
	}
	return p, nil
}

func (s *service) ListVisibleProducts(ctx context.Context, actor, vendorID uuid.UUID) ([]*Product, error) {
	conn := s.tx.Conn()
	d, err := roles.Authorize(ctx, s.roles(conn), actor, vendorID, policy.ActionListProducts, nil)
	if err != nil {
		return nil, err
	}
	return s.products(conn).ListByVendor(ctx, vendorID, d.Scope == policy.ScopeActive)
}

func validate(p *Product) error {
	switch {
	case p.Name == "":
		return fmt.Errorf("%w: product name is required", common.ErrValidation)
	case p.Price.IsNegative():
		return fmt.Errorf("%w: price must not be negative", common.ErrValidation)
	case !p.Price.Equal(p.Price.Round(2)):
		return fmt.Errorf("%w: price has more than two decimal places", common.ErrValidation)
	case p.Price.GreaterThanOrEqual(maxPrice):
		return fmt.Errorf("%w: price too large", common.ErrValidation)
	case p.Stock < 0:
		return fmt.Errorf("%w: stock must not be negative", common.ErrValidation)
	case p.Stock > math.MaxInt32:
		return fmt.Errorf("%w: stock must not exceed %d", common.ErrValidation, math.MaxInt32)
	}
	return nil
}

// maxPrice is the first value NUMERIC(10,2) cannot hold.
var maxPrice = decimal.New(1, 8)
