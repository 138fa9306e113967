package product

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"salon-system/database"

	"github.com/google/uuid"
)

const productColumns = `id, user_id, name, brand, category, barcode, price, cost, stock_quantity, min_stock_alert, created_at`

type scanner interface {
	Scan(dest ...any) error
}

func scanProduct(row scanner) (Product, error) {
	var p Product
	var brand, category, barcode sql.NullString
	var minStock int
	if err := row.Scan(&p.ID, &p.UserID, &p.Name, &brand, &category, &barcode, &p.Price, &p.Cost,
		&p.StockQuantity, &minStock, &p.CreatedAt); err != nil {
		return Product{}, err
	}
	p.Brand, p.Category, p.Barcode = brand.String, category.String, barcode.String
	p.MinStockAlert = &minStock
	return p, nil
}

func (a *Accessor) CreateProduct(ctx context.Context, userID uuid.UUID, p Product, now time.Time) (*Product, error) {
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("validate: %w", err)
	}

	threshold := p.Threshold()
	p.ID = uuid.New()
	p.UserID = userID
	p.MinStockAlert = &threshold
	p.CreatedAt = now

	query := `INSERT INTO products (` + productColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	if _, err := a.db.ExecContext(ctx, query, p.ID, userID, p.Name, database.NullString(p.Brand),
		database.NullString(p.Category), database.NullString(p.Barcode), p.Price, p.Cost,
		p.StockQuantity, threshold, now); err != nil {
		return nil, fmt.Errorf("exec context: %w", err)
	}
	return &p, nil
}

// UpdateProduct overwrites the editable fields, stock included. Returns
// (nil, nil) when the product does not exist.
func (a *Accessor) UpdateProduct(ctx context.Context, userID uuid.UUID, p Product) (*Product, error) {
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("validate: %w", err)
	}

	query := `UPDATE products SET name = $1, brand = $2, category = $3, barcode = $4, price = $5, cost = $6, stock_quantity = $7, min_stock_alert = $8 WHERE id = $9 AND user_id = $10`
	if _, err := a.db.ExecContext(ctx, query, p.Name, database.NullString(p.Brand), database.NullString(p.Category),
		database.NullString(p.Barcode), p.Price, p.Cost, p.StockQuantity, p.Threshold(), p.ID, userID); err != nil {
		return nil, fmt.Errorf("exec context: %w", err)
	}

	updated, err := a.GetProduct(ctx, userID, p.ID)
	if err != nil {
		return nil, fmt.Errorf("get product: %w", err)
	}
	return updated, nil
}

func (a *Accessor) GetProduct(ctx context.Context, userID, id uuid.UUID) (*Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1 AND user_id = $2`
	p, err := scanProduct(a.db.QueryRowContext(ctx, query, id, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan: %w", err)
	}
	return &p, nil
}

func (a *Accessor) ListProducts(ctx context.Context, userID uuid.UUID) ([]Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE user_id = $1 ORDER BY name`
	return a.list(ctx, query, userID)
}

// ListLowStock returns products at or below their alert threshold, lowest
// stock first.
func (a *Accessor) ListLowStock(ctx context.Context, userID uuid.UUID) ([]Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE user_id = $1 AND stock_quantity <= min_stock_alert ORDER BY stock_quantity, name`
	return a.list(ctx, query, userID)
}

func (a *Accessor) list(ctx context.Context, query string, args ...any) ([]Product, error) {
	rows, err := a.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query context: %w", err)
	}
	defer rows.Close()

	products := []Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

// AdjustStock adds delta (negative for usage or sale) to the stock. The
// update is refused when it would leave the stock negative; (nil, nil) means
// the product does not exist.
func (a *Accessor) AdjustStock(ctx context.Context, userID, id uuid.UUID, delta int) (*Product, error) {
	query := `UPDATE products SET stock_quantity = stock_quantity + $1 WHERE id = $2 AND user_id = $3 AND stock_quantity + $1 >= 0`
	res, err := a.db.ExecContext(ctx, query, delta, id, userID)
	if err != nil {
		return nil, fmt.Errorf("exec context: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("rows affected: %w", err)
	}

	p, err := a.GetProduct(ctx, userID, id)
	if err != nil {
		return nil, fmt.Errorf("get product: %w", err)
	}
	if p != nil && affected == 0 {
		return nil, ErrNegativeStock
	}
	return p, nil
}

func (a *Accessor) DeleteProduct(ctx context.Context, userID, id uuid.UUID) error {
	query := `DELETE FROM products WHERE id = $1 AND user_id = $2`
	if _, err := a.db.ExecContext(ctx, query, id, userID); err != nil {
		return fmt.Errorf("exec context: %w", err)
	}
	return nil
}
