package sale

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"salon-system/database"
	"salon-system/product"

	"cloud.google.com/go/civil"
	"github.com/google/uuid"
	"github.com/lib/pq"
)

const selectSales = `SELECT s.id, s.user_id, s.client_id, s.employee_id, s.appointment_id, s.sale_date, s.payment_method, ` +
	`s.subtotal, s.discount, s.total, s.notes, s.created_at, COALESCE(c.name, ''), COALESCE(e.name, '') ` +
	`FROM sales s ` +
	`LEFT JOIN clients c ON c.id = s.client_id ` +
	`LEFT JOIN employees e ON e.id = s.employee_id `

const selectItems = `SELECT i.id, i.sale_id, i.product_id, i.service_id, i.quantity, i.unit_price, i.total_price, COALESCE(p.name, sv.name, '') ` +
	`FROM sale_items i ` +
	`LEFT JOIN products p ON p.id = i.product_id ` +
	`LEFT JOIN services sv ON sv.id = i.service_id ` +
	`WHERE i.sale_id = ANY($1::uuid[]) ORDER BY i.sale_id, i.position`

type scanner interface {
	Scan(dest ...any) error
}

func scanSale(row scanner) (Sale, error) {
	var s Sale
	var date time.Time
	var notes sql.NullString
	if err := row.Scan(&s.ID, &s.UserID, &s.ClientID, &s.EmployeeID, &s.AppointmentID, &date, &s.PaymentMethod,
		&s.Subtotal, &s.Discount, &s.Total, &notes, &s.CreatedAt, &s.ClientName, &s.EmployeeName); err != nil {
		return Sale{}, err
	}
	s.Date = civil.DateOf(date)
	s.Notes = notes.String
	s.Items = []Item{}
	return s, nil
}

type reference struct {
	id    uuid.NullUUID
	table string
	err   error
}

// checkOwnership makes sure every referenced row belongs to userID.
func checkOwnership(ctx context.Context, tx *sql.Tx, userID uuid.UUID, s *Sale) error {
	refs := []reference{
		{s.ClientID, database.Clients, ErrUnknownClient},
		{s.EmployeeID, database.Employees, ErrUnknownEmployee},
		{s.AppointmentID, database.Appointments, ErrUnknownAppointment},
	}
	for _, item := range s.Items {
		refs = append(refs, reference{item.ServiceID, database.Services, ErrUnknownService})
	}

	for _, ref := range refs {
		if !ref.id.Valid {
			continue
		}
		owned, err := database.OwnedBy(ctx, tx, ref.table, ref.id.UUID, userID)
		if err != nil {
			return err
		}
		if !owned {
			return fmt.Errorf("%w: %s", ref.err, ref.id.UUID)
		}
	}
	return nil
}

// CreateSale records a sale and its items in one transaction. Every product
// line takes its quantity out of stock; a line that would leave the stock
// negative fails the whole sale.
func (a *Accessor) CreateSale(ctx context.Context, userID uuid.UUID, s Sale, now time.Time) (*Sale, error) {
	s.Defaults(now)
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("validate: %w", err)
	}

	s.ID = uuid.New()
	s.UserID = userID
	s.CreatedAt = now

	tx, err := a.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := checkOwnership(ctx, tx, userID, &s); err != nil {
		return nil, err
	}

	query := `INSERT INTO sales (id, user_id, client_id, employee_id, appointment_id, sale_date, payment_method, subtotal, discount, total, notes, created_at) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	if _, err := tx.ExecContext(ctx, query, s.ID, userID, s.ClientID, s.EmployeeID, s.AppointmentID, s.Date.String(),
		string(s.PaymentMethod), s.Subtotal, s.Discount, s.Total, database.NullString(s.Notes), now); err != nil {
		return nil, fmt.Errorf("exec context: %w", err)
	}

	stock := product.NewAccessor(tx)
	itemQuery := `INSERT INTO sale_items (id, sale_id, product_id, service_id, position, quantity, unit_price, total_price) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	for i := range s.Items {
		item := &s.Items[i]
		item.ID = uuid.New()
		if item.ProductID.Valid {
			p, err := stock.AdjustStock(ctx, userID, item.ProductID.UUID, -item.Quantity)
			if err != nil {
				return nil, fmt.Errorf("item %d: %w", i+1, err)
			}
			if p == nil {
				return nil, fmt.Errorf("%w: %s", ErrUnknownProduct, item.ProductID.UUID)
			}
			item.Name = p.Name
		}
		if _, err := tx.ExecContext(ctx, itemQuery, item.ID, s.ID, item.ProductID, item.ServiceID, i,
			item.Quantity, item.UnitPrice, item.TotalPrice); err != nil {
			return nil, fmt.Errorf("insert item %d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return &s, nil
}

func (a *Accessor) GetSale(ctx context.Context, userID, id uuid.UUID) (*Sale, error) {
	query := selectSales + `WHERE s.id = $1 AND s.user_id = $2`
	s, err := scanSale(a.db.QueryRowContext(ctx, query, id, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan: %w", err)
	}

	sales := []Sale{s}
	if err := a.attachItems(ctx, sales); err != nil {
		return nil, err
	}
	return &sales[0], nil
}

// ListSales returns the sales between from and to inclusive, oldest first.
func (a *Accessor) ListSales(ctx context.Context, userID uuid.UUID, from, to civil.Date) ([]Sale, error) {
	if to.Before(from) {
		return nil, fmt.Errorf("%w: %s > %s", ErrInvalidRange, from, to)
	}
	query := selectSales + `WHERE s.user_id = $1 AND s.sale_date BETWEEN $2 AND $3 ORDER BY s.sale_date, s.created_at`
	return a.list(ctx, query, userID, from.String(), to.String())
}

// ListByClient returns every sale made to one client, most recent first.
func (a *Accessor) ListByClient(ctx context.Context, userID, clientID uuid.UUID) ([]Sale, error) {
	query := selectSales + `WHERE s.user_id = $1 AND s.client_id = $2 ORDER BY s.sale_date DESC, s.created_at DESC`
	return a.list(ctx, query, userID, clientID)
}

func (a *Accessor) list(ctx context.Context, query string, args ...any) ([]Sale, error) {
	rows, err := a.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query context: %w", err)
	}
	defer rows.Close()

	sales := []Sale{}
	for rows.Next() {
		s, err := scanSale(rows)
		if err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		sales = append(sales, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}

	if err := a.attachItems(ctx, sales); err != nil {
		return nil, err
	}
	return sales, nil
}

// attachItems loads the items of every sale in one query.
func (a *Accessor) attachItems(ctx context.Context, sales []Sale) error {
	if len(sales) == 0 {
		return nil
	}
	index := make(map[uuid.UUID]int, len(sales))
	ids := make(pq.StringArray, 0, len(sales))
	for i, s := range sales {
		index[s.ID] = i
		ids = append(ids, s.ID.String())
	}

	rows, err := a.db.QueryContext(ctx, selectItems, ids)
	if err != nil {
		return fmt.Errorf("query items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var item Item
		var saleID uuid.UUID
		if err := rows.Scan(&item.ID, &saleID, &item.ProductID, &item.ServiceID, &item.Quantity,
			&item.UnitPrice, &item.TotalPrice, &item.Name); err != nil {
			return fmt.Errorf("scan item: %w", err)
		}
		if i, ok := index[saleID]; ok {
			sales[i].Items = append(sales[i].Items, item)
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("rows: %w", err)
	}
	return nil
}
