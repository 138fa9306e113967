package sale_test

import (
	"database/sql"
	"regexp"
	"salon-system/product"
	"salon-system/sale"
	"salon-system/schedule"
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	saleCols    = []string{"id", "user_id", "client_id", "employee_id", "appointment_id", "sale_date", "payment_method", "subtotal", "discount", "total", "notes", "created_at", "client_name", "employee_name"}
	itemCols    = []string{"id", "sale_id", "product_id", "service_id", "quantity", "unit_price", "total_price", "name"}
	productCols = []string{"id", "user_id", "name", "brand", "category", "barcode", "price", "cost", "stock_quantity", "min_stock_alert", "created_at"}
)

const (
	insertSale   = `INSERT INTO sales (id, user_id, client_id, employee_id, appointment_id, sale_date, payment_method, subtotal, discount, total, notes, created_at) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	insertItem   = `INSERT INTO sale_items (id, sale_id, product_id, service_id, position, quantity, unit_price, total_price) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	adjustStock  = `UPDATE products SET stock_quantity = stock_quantity + $1 WHERE id = $2 AND user_id = $3 AND stock_quantity + $1 >= 0`
	selectStock  = `FROM products WHERE id = $1 AND user_id = $2`
	ownedClient  = `SELECT EXISTS (SELECT 1 FROM clients WHERE id = $1 AND user_id = $2)`
	ownedService = `SELECT EXISTS (SELECT 1 FROM services WHERE id = $1 AND user_id = $2)`
	itemsQuery   = `FROM sale_items i .*WHERE i\.sale_id = ANY\(\$1::uuid\[\]\) ORDER BY i\.sale_id, i\.position$`
)

func valid(id uuid.UUID) uuid.NullUUID {
	return uuid.NullUUID{UUID: id, Valid: true}
}

func TestValidate(t *testing.T) {
	productID := uuid.New()
	base := func() sale.Sale {
		return sale.Sale{
			Date:          civil.Date{Year: 2025, Month: time.August, Day: 26},
			PaymentMethod: sale.PaymentCard,
			Discount:      500,
			Items: []sale.Item{
				{ProductID: valid(productID), Quantity: 3, UnitPrice: 1250},
				{ServiceID: valid(uuid.New()), Quantity: 1, UnitPrice: 5000},
			},
		}
	}

	t.Run("derives totals", func(t *testing.T) {
		s := base()
		s.Total = 1
		require.NoError(t, s.Validate())
		assert.Equal(t, schedule.Money(3750), s.Items[0].TotalPrice)
		assert.Equal(t, schedule.Money(8750), s.Subtotal)
		assert.Equal(t, schedule.Money(8250), s.Total)
	})

	t.Run("rejects", func(t *testing.T) {
		for name, mutate := range map[string]func(*sale.Sale){
			"no date":             func(s *sale.Sale) { s.Date = civil.Date{} },
			"unknown payment":     func(s *sale.Sale) { s.PaymentMethod = "cheque" },
			"no items":            func(s *sale.Sale) { s.Items = nil },
			"product and service": func(s *sale.Sale) { s.Items[0].ServiceID = valid(uuid.New()) },
			"neither":             func(s *sale.Sale) { s.Items[0].ProductID = uuid.NullUUID{} },
			"zero quantity":       func(s *sale.Sale) { s.Items[0].Quantity = 0 },
			"huge quantity":       func(s *sale.Sale) { s.Items[0].Quantity = sale.MaxQuantity + 1 },
			"negative price":      func(s *sale.Sale) { s.Items[1].UnitPrice = -1 },
			"subtotal too large":  func(s *sale.Sale) { s.Items[0].UnitPrice = sale.MaxAmount },
			"negative discount":   func(s *sale.Sale) { s.Discount = -1 },
			"discount over total": func(s *sale.Sale) { s.Discount = 8751 },
		} {
			s := base()
			mutate(&s)
			require.Error(t, s.Validate(), name)
		}
	})

	t.Run("defaults", func(t *testing.T) {
		s := sale.Sale{}
		s.Defaults(time.Date(2025, 8, 26, 18, 0, 0, 0, time.UTC))
		assert.Equal(t, sale.PaymentCash, s.PaymentMethod)
		assert.Equal(t, "2025-08-26", s.Date.String())
	})
}

func TestCreateSale(t *testing.T) {
	userID, clientID := uuid.New(), uuid.New()
	productID, serviceID := uuid.New(), uuid.New()
	now := time.Date(2025, 8, 26, 18, 0, 0, 0, time.UTC)

	setup := func(t *testing.T) (*sale.Accessor, sqlmock.Sqlmock) {
		t.Helper()
		db, dbMock, err := sqlmock.New()
		require.NoError(t, err)
		t.Cleanup(func() { _ = db.Close() })
		return sale.NewAccessor(db), dbMock
	}
	productRow := func(stock int) *sqlmock.Rows {
		return sqlmock.NewRows(productCols).
			AddRow(productID.String(), userID.String(), "Shampoo", nil, nil, nil, "45.00", "20.00", stock, 5, now)
	}

	t.Run("stores items and takes products out of stock", func(t *testing.T) {
		a, dbMock := setup(t)

		dbMock.ExpectBegin()
		dbMock.ExpectQuery(regexp.QuoteMeta(ownedClient)).
			WithArgs(clientID, userID).
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
		dbMock.ExpectQuery(regexp.QuoteMeta(ownedService)).
			WithArgs(serviceID, userID).
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
		dbMock.ExpectExec(regexp.QuoteMeta(insertSale)).
			WithArgs(sqlmock.AnyArg(), userID, clientID, nil, nil, "2025-08-26", "pix", "170.00", "10.00", "160.00", nil, now).
			WillReturnResult(sqlmock.NewResult(1, 1))
		dbMock.ExpectExec(regexp.QuoteMeta(adjustStock)).
			WithArgs(-2, productID, userID).
			WillReturnResult(sqlmock.NewResult(0, 1))
		dbMock.ExpectQuery(regexp.QuoteMeta(selectStock)).
			WithArgs(productID, userID).
			WillReturnRows(productRow(3))
		dbMock.ExpectExec(regexp.QuoteMeta(insertItem)).
			WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), productID, nil, 0, 2, "45.00", "90.00").
			WillReturnResult(sqlmock.NewResult(1, 1))
		dbMock.ExpectExec(regexp.QuoteMeta(insertItem)).
			WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), nil, serviceID, 1, 1, "80.00", "80.00").
			WillReturnResult(sqlmock.NewResult(1, 1))
		dbMock.ExpectCommit()

		s, err := a.CreateSale(t.Context(), userID, sale.Sale{
			ClientID:      valid(clientID),
			PaymentMethod: sale.PaymentPix,
			Discount:      1000,
			Items: []sale.Item{
				{ProductID: valid(productID), Quantity: 2, UnitPrice: 4500},
				{ServiceID: valid(serviceID), Quantity: 1, UnitPrice: 8000},
			},
		}, now)
		require.NoError(t, err)
		assert.NotEqual(t, uuid.Nil, s.ID)
		assert.Equal(t, schedule.Money(16000), s.Total)
		assert.Equal(t, "Shampoo", s.Items[0].Name)
		assert.Equal(t, "2025-08-26", s.Date.String())

		require.NoError(t, dbMock.ExpectationsWereMet())
	})

	t.Run("out of stock rolls back", func(t *testing.T) {
		a, dbMock := setup(t)

		dbMock.ExpectBegin()
		dbMock.ExpectExec(regexp.QuoteMeta(insertSale)).
			WillReturnResult(sqlmock.NewResult(1, 1))
		dbMock.ExpectExec(regexp.QuoteMeta(adjustStock)).
			WithArgs(-5, productID, userID).
			WillReturnResult(sqlmock.NewResult(0, 0))
		dbMock.ExpectQuery(regexp.QuoteMeta(selectStock)).
			WithArgs(productID, userID).
			WillReturnRows(productRow(1))
		dbMock.ExpectRollback()

		_, err := a.CreateSale(t.Context(), userID, sale.Sale{
			Items: []sale.Item{{ProductID: valid(productID), Quantity: 5, UnitPrice: 4500}},
		}, now)
		require.ErrorIs(t, err, product.ErrNegativeStock)

		require.NoError(t, dbMock.ExpectationsWereMet())
	})

	t.Run("unknown product", func(t *testing.T) {
		a, dbMock := setup(t)

		dbMock.ExpectBegin()
		dbMock.ExpectExec(regexp.QuoteMeta(insertSale)).
			WillReturnResult(sqlmock.NewResult(1, 1))
		dbMock.ExpectExec(regexp.QuoteMeta(adjustStock)).
			WillReturnResult(sqlmock.NewResult(0, 0))
		dbMock.ExpectQuery(regexp.QuoteMeta(selectStock)).
			WillReturnError(sql.ErrNoRows)
		dbMock.ExpectRollback()

		_, err := a.CreateSale(t.Context(), userID, sale.Sale{
			Items: []sale.Item{{ProductID: valid(productID), Quantity: 1, UnitPrice: 4500}},
		}, now)
		require.ErrorIs(t, err, sale.ErrUnknownProduct)

		require.NoError(t, dbMock.ExpectationsWereMet())
	})

	t.Run("rejects a client of another user", func(t *testing.T) {
		a, dbMock := setup(t)

		dbMock.ExpectBegin()
		dbMock.ExpectQuery(regexp.QuoteMeta(ownedClient)).
			WithArgs(clientID, userID).
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
		dbMock.ExpectRollback()

		_, err := a.CreateSale(t.Context(), userID, sale.Sale{
			ClientID: valid(clientID),
			Items:    []sale.Item{{ServiceID: valid(serviceID), Quantity: 1, UnitPrice: 8000}},
		}, now)
		require.ErrorIs(t, err, sale.ErrUnknownClient)

		require.NoError(t, dbMock.ExpectationsWereMet())
	})

	t.Run("validation", func(t *testing.T) {
		a, _ := setup(t)
		_, err := a.CreateSale(t.Context(), userID, sale.Sale{}, now)
		require.Error(t, err)
	})
}

func TestReadSales(t *testing.T) {
	db, dbMock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	a := sale.NewAccessor(db)
	userID, clientID := uuid.New(), uuid.New()
	first, second := uuid.New(), uuid.New()
	now := time.Now()

	t.Run("get sale with items", func(t *testing.T) {
		dbMock.ExpectQuery(`FROM sales s .*WHERE s\.id = \$1 AND s\.user_id = \$2$`).
			WithArgs(first, userID).
			WillReturnRows(sqlmock.NewRows(saleCols).
				AddRow(first.String(), userID.String(), clientID.String(), nil, nil, time.Date(2025, 8, 26, 0, 0, 0, 0, time.UTC),
					"card", "90.00", "0.00", "90.00", nil, now, "Maria", ""))
		dbMock.ExpectQuery(itemsQuery).
			WithArgs(sqlmock.AnyArg()).
			WillReturnRows(sqlmock.NewRows(itemCols).
				AddRow(uuid.NewString(), first.String(), uuid.NewString(), nil, 2, "45.00", "90.00", "Shampoo"))

		s, err := a.GetSale(t.Context(), userID, first)
		require.NoError(t, err)
		require.NotNil(t, s)
		assert.Equal(t, sale.PaymentCard, s.PaymentMethod)
		assert.True(t, s.ClientID.Valid)
		assert.False(t, s.EmployeeID.Valid)
		assert.Equal(t, "Maria", s.ClientName)
		require.Len(t, s.Items, 1)
		assert.Equal(t, "Shampoo", s.Items[0].Name)
		assert.False(t, s.Items[0].ServiceID.Valid)

		require.NoError(t, dbMock.ExpectationsWereMet())
	})

	t.Run("get sale - no rows", func(t *testing.T) {
		dbMock.ExpectQuery(`FROM sales s .*WHERE s\.id = \$1 AND s\.user_id = \$2$`).
			WithArgs(first, userID).
			WillReturnError(sql.ErrNoRows)

		s, err := a.GetSale(t.Context(), userID, first)
		require.NoError(t, err)
		assert.Nil(t, s)
	})

	t.Run("list by client groups items per sale", func(t *testing.T) {
		dbMock.ExpectQuery(`WHERE s\.user_id = \$1 AND s\.client_id = \$2 ORDER BY s\.sale_date DESC, s\.created_at DESC$`).
			WithArgs(userID, clientID).
			WillReturnRows(sqlmock.NewRows(saleCols).
				AddRow(second.String(), userID.String(), clientID.String(), nil, nil, time.Date(2025, 8, 27, 0, 0, 0, 0, time.UTC),
					"pix", "80.00", "0.00", "80.00", nil, now, "Maria", "").
				AddRow(first.String(), userID.String(), clientID.String(), nil, nil, time.Date(2025, 8, 26, 0, 0, 0, 0, time.UTC),
					"cash", "90.00", "10.00", "80.00", "troco", now, "Maria", ""))
		dbMock.ExpectQuery(itemsQuery).
			WithArgs(sqlmock.AnyArg()).
			WillReturnRows(sqlmock.NewRows(itemCols).
				AddRow(uuid.NewString(), first.String(), uuid.NewString(), nil, 2, "45.00", "90.00", "Shampoo").
				AddRow(uuid.NewString(), second.String(), nil, uuid.NewString(), 1, "80.00", "80.00", "Coloração"))

		sales, err := a.ListByClient(t.Context(), userID, clientID)
		require.NoError(t, err)
		require.Len(t, sales, 2)
		assert.Equal(t, second, sales[0].ID)
		require.Len(t, sales[0].Items, 1)
		assert.Equal(t, "Coloração", sales[0].Items[0].Name)
		require.Len(t, sales[1].Items, 1)
		assert.Equal(t, "troco", sales[1].Notes)

		require.NoError(t, dbMock.ExpectationsWereMet())
	})

	t.Run("list sales without results skips items", func(t *testing.T) {
		dbMock.ExpectQuery(`WHERE s\.user_id = \$1 AND s\.sale_date BETWEEN \$2 AND \$3 ORDER BY s\.sale_date, s\.created_at$`).
			WithArgs(userID, "2025-08-01", "2025-08-31").
			WillReturnRows(sqlmock.NewRows(saleCols))

		sales, err := a.ListSales(t.Context(), userID,
			civil.Date{Year: 2025, Month: time.August, Day: 1}, civil.Date{Year: 2025, Month: time.August, Day: 31})
		require.NoError(t, err)
		assert.Empty(t, sales)
		require.NoError(t, dbMock.ExpectationsWereMet())

		_, err = a.ListSales(t.Context(), userID,
			civil.Date{Year: 2025, Month: time.August, Day: 31}, civil.Date{Year: 2025, Month: time.August, Day: 1})
		require.ErrorIs(t, err, sale.ErrInvalidRange)
	})
}

func TestSummarize(t *testing.T) {
	s := sale.Summarize([]sale.Sale{
		{PaymentMethod: sale.PaymentPix, Subtotal: 9000, Discount: 1000, Total: 8000},
		{PaymentMethod: sale.PaymentPix, Subtotal: 5000, Total: 5000},
		{PaymentMethod: sale.PaymentCash, Subtotal: 2000, Total: 2000},
	})
	assert.Equal(t, 3, s.Count)
	assert.Equal(t, schedule.Money(16000), s.Subtotal)
	assert.Equal(t, schedule.Money(1000), s.Discounts)
	assert.Equal(t, schedule.Money(15000), s.Total)
	assert.Equal(t, schedule.Money(13000), s.ByPaymentMethod[sale.PaymentPix])
	assert.Equal(t, schedule.Money(2000), s.ByPaymentMethod[sale.PaymentCash])

	empty := sale.Summarize(nil)
	assert.Zero(t, empty.Total)
	assert.Empty(t, empty.ByPaymentMethod)
}
