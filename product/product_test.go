package product_test

import (
	"database/sql"
	"regexp"
	"salon-system/product"
	"salon-system/schedule"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var productCols = []string{"id", "user_id", "name", "brand", "category", "barcode", "price", "cost", "stock_quantity", "min_stock_alert", "created_at"}

const selectProduct = `SELECT id, user_id, name, brand, category, barcode, price, cost, stock_quantity, min_stock_alert, created_at FROM products WHERE id = $1 AND user_id = $2`

func TestLowStock(t *testing.T) {
	two := 2
	assert.True(t, product.Product{StockQuantity: 5}.LowStock())
	assert.False(t, product.Product{StockQuantity: 6}.LowStock())
	assert.True(t, product.Product{StockQuantity: 2, MinStockAlert: &two}.LowStock())
	assert.False(t, product.Product{StockQuantity: 3, MinStockAlert: &two}.LowStock())
}

func TestProduct(t *testing.T) {
	db, dbMock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	a := product.NewAccessor(db)
	userID := uuid.New()
	now := time.Now()

	t.Run("create product uses default threshold", func(t *testing.T) {
		insertQuery := `INSERT INTO products (id, user_id, name, brand, category, barcode, price, cost, stock_quantity, min_stock_alert, created_at) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
		dbMock.ExpectExec(regexp.QuoteMeta(insertQuery)).
			WithArgs(sqlmock.AnyArg(), userID, "Shampoo 1L", "Acme", nil, nil, "89.90", "40.00", 12, product.DefaultMinStockAlert, now).
			WillReturnResult(sqlmock.NewResult(1, 1))

		p, err := a.CreateProduct(t.Context(), userID, product.Product{
			Name:          "Shampoo 1L",
			Brand:         "Acme",
			Price:         8990,
			Cost:          4000,
			StockQuantity: 12,
		}, now)
		require.NoError(t, err)
		require.NotNil(t, p.MinStockAlert)
		assert.Equal(t, product.DefaultMinStockAlert, *p.MinStockAlert)

		require.NoError(t, dbMock.ExpectationsWereMet())
	})

	t.Run("create product validation", func(t *testing.T) {
		_, err := a.CreateProduct(t.Context(), userID, product.Product{Name: "Gel", StockQuantity: -1}, now)
		require.ErrorIs(t, err, product.ErrNegativeStock)
	})

	t.Run("list low stock", func(t *testing.T) {
		query := `SELECT id, user_id, name, brand, category, barcode, price, cost, stock_quantity, min_stock_alert, created_at FROM products WHERE user_id = $1 AND stock_quantity <= min_stock_alert ORDER BY stock_quantity, name`
		dbMock.ExpectQuery(regexp.QuoteMeta(query)).
			WithArgs(userID).
			WillReturnRows(sqlmock.NewRows(productCols).
				AddRow(uuid.NewString(), userID.String(), "Esmalte", nil, "Unhas", nil, "12.00", "4.50", 1, 5, now))

		products, err := a.ListLowStock(t.Context(), userID)
		require.NoError(t, err)
		require.Len(t, products, 1)
		assert.True(t, products[0].LowStock())
		assert.Equal(t, schedule.Money(450), products[0].Cost)

		require.NoError(t, dbMock.ExpectationsWereMet())
	})

	t.Run("adjust stock", func(t *testing.T) {
		id := uuid.New()
		updateQuery := `UPDATE products SET stock_quantity = stock_quantity + $1 WHERE id = $2 AND user_id = $3 AND stock_quantity + $1 >= 0`
		dbMock.ExpectExec(regexp.QuoteMeta(updateQuery)).
			WithArgs(-2, id, userID).
			WillReturnResult(sqlmock.NewResult(0, 1))
		dbMock.ExpectQuery(regexp.QuoteMeta(selectProduct)).
			WithArgs(id, userID).
			WillReturnRows(sqlmock.NewRows(productCols).
				AddRow(id.String(), userID.String(), "Gel", nil, nil, nil, "20.00", "0.00", 3, 5, now))

		p, err := a.AdjustStock(t.Context(), userID, id, -2)
		require.NoError(t, err)
		require.NotNil(t, p)
		assert.Equal(t, 3, p.StockQuantity)

		require.NoError(t, dbMock.ExpectationsWereMet())
	})

	t.Run("adjust stock below zero", func(t *testing.T) {
		id := uuid.New()
		updateQuery := `UPDATE products SET stock_quantity = stock_quantity + $1 WHERE id = $2 AND user_id = $3 AND stock_quantity + $1 >= 0`
		dbMock.ExpectExec(regexp.QuoteMeta(updateQuery)).
			WithArgs(-10, id, userID).
			WillReturnResult(sqlmock.NewResult(0, 0))
		dbMock.ExpectQuery(regexp.QuoteMeta(selectProduct)).
			WithArgs(id, userID).
			WillReturnRows(sqlmock.NewRows(productCols).
				AddRow(id.String(), userID.String(), "Gel", nil, nil, nil, "20.00", "0.00", 3, 5, now))

		_, err := a.AdjustStock(t.Context(), userID, id, -10)
		require.ErrorIs(t, err, product.ErrNegativeStock)

		require.NoError(t, dbMock.ExpectationsWereMet())
	})

	t.Run("adjust stock missing product", func(t *testing.T) {
		id := uuid.New()
		updateQuery := `UPDATE products SET stock_quantity = stock_quantity + $1 WHERE id = $2 AND user_id = $3 AND stock_quantity + $1 >= 0`
		dbMock.ExpectExec(regexp.QuoteMeta(updateQuery)).
			WithArgs(1, id, userID).
			WillReturnResult(sqlmock.NewResult(0, 0))
		dbMock.ExpectQuery(regexp.QuoteMeta(selectProduct)).
			WithArgs(id, userID).
			WillReturnError(sql.ErrNoRows)

		p, err := a.AdjustStock(t.Context(), userID, id, 1)
		require.NoError(t, err)
		assert.Nil(t, p)

		require.NoError(t, dbMock.ExpectationsWereMet())
	})

	t.Run("update product", func(t *testing.T) {
		id := uuid.New()
		ten := 10
		updateQuery := `UPDATE products SET name = $1, brand = $2, category = $3, barcode = $4, price = $5, cost = $6, stock_quantity = $7, min_stock_alert = $8 WHERE id = $9 AND user_id = $10`
		dbMock.ExpectExec(regexp.QuoteMeta(updateQuery)).
			WithArgs("Gel fixador", nil, "Cabelo", "7891000", "22.50", "9.00", 8, 10, id, userID).
			WillReturnResult(sqlmock.NewResult(0, 1))
		dbMock.ExpectQuery(regexp.QuoteMeta(selectProduct)).
			WithArgs(id, userID).
			WillReturnRows(sqlmock.NewRows(productCols).
				AddRow(id.String(), userID.String(), "Gel fixador", nil, "Cabelo", "7891000", "22.50", "9.00", 8, 10, now))

		p, err := a.UpdateProduct(t.Context(), userID, product.Product{
			ID:            id,
			Name:          "Gel fixador",
			Category:      "Cabelo",
			Barcode:       "7891000",
			Price:         2250,
			Cost:          900,
			StockQuantity: 8,
			MinStockAlert: &ten,
		})
		require.NoError(t, err)
		require.NotNil(t, p)
		assert.True(t, p.LowStock())

		require.NoError(t, dbMock.ExpectationsWereMet())
	})

	t.Run("update product validation", func(t *testing.T) {
		_, err := a.UpdateProduct(t.Context(), userID, product.Product{ID: uuid.New()})
		require.Error(t, err)
	})
}
