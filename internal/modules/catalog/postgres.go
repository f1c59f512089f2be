package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/georgemunganga/marketplace-backend/internal/common"
	"github.com/georgemunganga/marketplace-backend/internal/dbx"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const productColumns = `id, vendor_id, name, description, price, stock, is_active, created_at, updated_at`

type postgresRepo struct{ db dbx.DBTX }

func NewPostgresRepository(db dbx.DBTX) Repository { return &postgresRepo{db: db} }

func (r *postgresRepo) Create(ctx context.Context, p *Product) error {
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO products (id, vendor_id, name, description, price, stock, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at, updated_at`,
		p.ID, p.VendorID, p.Name, p.Description, p.Price, p.Stock, p.IsActive,
	).Scan(&p.CreatedAt, &p.UpdatedAt)
	return translate(err, p.Name)
}

func (r *postgresRepo) Update(ctx context.Context, p *Product) error {
	err := r.db.QueryRowContext(ctx, `
		UPDATE products
		SET name = $1, description = $2, price = $3, stock = $4, is_active = $5, updated_at = NOW()
		WHERE id = $6 AND vendor_id = $7
		RETURNING updated_at`,
		p.Name, p.Description, p.Price, p.Stock, p.IsActive, p.ID, p.VendorID,
	).Scan(&p.UpdatedAt)
	return translate(err, p.Name)
}

func (r *postgresRepo) Delete(ctx context.Context, vendorID, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM products WHERE id = $1 AND vendor_id = $2`, id, vendorID)
	if err != nil {
		if dbx.IsForeignKeyViolation(err) {
			return fmt.Errorf("product %s: %w", id, common.ErrProductInUse)
		}
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("product: %w", common.ErrNotFound)
	}
	return nil
}

func scanProduct(scan func(...interface{}) error) (*Product, error) {
	p := &Product{}
	err := scan(&p.ID, &p.VendorID, &p.Name, &p.Description, &p.Price, &p.Stock,
		&p.IsActive, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (r *postgresRepo) GetByID(ctx context.Context, id uuid.UUID) (*Product, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1`, id)
	p, err := scanProduct(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("product: %w", common.ErrNotFound)
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return p, nil
}

func (r *postgresRepo) ListByVendor(ctx context.Context, vendorID uuid.UUID, activeOnly bool) ([]*Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE vendor_id = $1`
	if activeOnly {
		query += ` AND is_active`
	}
	query += ` ORDER BY name`

	rows, err := r.db.QueryContext(ctx, query, vendorID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var products []*Product
	for rows.Next() {
		p, err := scanProduct(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

func (r *postgresRepo) ReserveStock(ctx context.Context, vendorID, id uuid.UUID, qty int) (decimal.Decimal, error) {
	if qty <= 0 {
		return decimal.Zero, fmt.Errorf("%w: quantity must be positive", common.ErrValidation)
	}

	var price decimal.Decimal
	err := r.db.QueryRowContext(ctx, `
		UPDATE products
		SET stock = stock - $1, updated_at = NOW()
		WHERE id = $2 AND vendor_id = $3 AND is_active AND stock >= $1
		RETURNING price`,
		qty, id, vendorID,
	).Scan(&price)
	if err == nil {
		return price, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return decimal.Zero, fmt.Errorf("db error: %w", err)
	}

	// Nothing was updated; find out why.
	var (
		owner  uuid.UUID
		stock  int
		active bool
	)
	err = r.db.QueryRowContext(ctx, `SELECT vendor_id, stock, is_active FROM products WHERE id = $1`, id).
		Scan(&owner, &stock, &active)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return decimal.Zero, fmt.Errorf("product %s: %w", id, common.ErrNotFound)
	case err != nil:
		return decimal.Zero, fmt.Errorf("db error: %w", err)
	case owner != vendorID:
		return decimal.Zero, fmt.Errorf("product %s: %w", id, common.ErrCrossVendorCart)
	case !active:
		return decimal.Zero, fmt.Errorf("product %s is not available: %w", id, common.ErrNotFound)
	}
	return decimal.Zero, fmt.Errorf("product %s: requested %d, available %d: %w", id, qty, stock, common.ErrInsufficientStock)
}

func (r *postgresRepo) ReleaseStock(ctx context.Context, id uuid.UUID, qty int) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE products SET stock = stock + $1, updated_at = NOW() WHERE id = $2`, qty, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("product %s: %w", id, common.ErrNotFound)
	}
	return nil
}

func translate(err error, name string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, sql.ErrNoRows):
		return fmt.Errorf("product: %w", common.ErrNotFound)
	}
	if constraint, ok := dbx.IsUniqueViolation(err); ok && constraint == "products_vendor_name_key" {
		return fmt.Errorf("%q: %w", name, common.ErrDuplicateProduct)
	}
	if dbx.IsForeignKeyViolation(err) {
		return fmt.Errorf("vendor: %w", common.ErrNotFound)
	}
	return fmt.Errorf("db error: %w", err)
}
