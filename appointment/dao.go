package appointment

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"salon-system/database"
	"salon-system/schedule"

	"cloud.google.com/go/civil"
	"github.com/google/uuid"
	"github.com/lib/pq"
)

const selectAppointments = `SELECT a.id, a.user_id, a.client_id, a.employee_id, a.appointment_date, a.start_time, a.end_time, a.status, a.price, a.notes, a.created_at, ` +
	`c.name, e.name, s.name, ` +
	`ARRAY(SELECT x.service_id::text FROM appointment_services x WHERE x.appointment_id = a.id ORDER BY x.position) ` +
	`FROM appointments a ` +
	`JOIN clients c ON c.id = a.client_id ` +
	`JOIN employees e ON e.id = a.employee_id ` +
	`JOIN services s ON s.id = a.service_id `

type scanner interface {
	Scan(dest ...any) error
}

func scanAppointment(row scanner) (Appointment, error) {
	var a Appointment
	var date time.Time
	var price, notes sql.NullString
	var serviceIDs pq.StringArray
	if err := row.Scan(&a.ID, &a.UserID, &a.ClientID, &a.EmployeeID, &date, &a.StartTime, &a.EndTime, &a.Status,
		&price, &notes, &a.CreatedAt, &a.ClientName, &a.EmployeeName, &a.ServiceName, &serviceIDs); err != nil {
		return Appointment{}, err
	}

	a.Date = civil.DateOf(date)
	a.Notes = notes.String
	if price.Valid {
		p, err := schedule.ParseMoney(price.String)
		if err != nil {
			return Appointment{}, fmt.Errorf("price: %w", err)
		}
		a.Price = &p
	}
	a.ServiceIDs = make([]uuid.UUID, 0, len(serviceIDs))
	for _, raw := range serviceIDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			return Appointment{}, fmt.Errorf("service id: %w", err)
		}
		a.ServiceIDs = append(a.ServiceIDs, id)
	}
	return a, nil
}

// Quote prices and times a selection without persisting anything. Unknown
// services are ignored so the form stays usable while the catalog loads.
func (a *Accessor) Quote(ctx context.Context, userID uuid.UUID, start schedule.TimeOfDay, serviceIDs []uuid.UUID) (schedule.Quote, error) {
	catalog, err := a.catalog.GetCatalog(ctx, userID)
	if err != nil {
		return schedule.Quote{}, fmt.Errorf("get catalog: %w", err)
	}
	return schedule.NewQuote(start, idStrings(dedupIDs(serviceIDs)), catalog)
}

// prepare validates appt and derives its end time and, when no override is
// given, its price from the selected services.
func (a *Accessor) prepare(ctx context.Context, userID uuid.UUID, appt *Appointment) error {
	appt.ServiceIDs = dedupIDs(appt.ServiceIDs)
	if err := appt.Validate(); err != nil {
		return fmt.Errorf("validate: %w", err)
	}

	catalog, err := a.catalog.GetCatalog(ctx, userID)
	if err != nil {
		return fmt.Errorf("get catalog: %w", err)
	}
	ids := idStrings(appt.ServiceIDs)
	for _, id := range ids {
		if _, ok := catalog[id]; !ok {
			return fmt.Errorf("%w: %s", ErrUnknownServices, id)
		}
	}

	quote, err := schedule.NewQuote(appt.StartTime, ids, catalog)
	if err != nil {
		return fmt.Errorf("quote: %w", err)
	}
	if quote.EndTime == nil {
		return ErrUnknownServices
	}
	if quote.CrossesMidnight {
		return fmt.Errorf("%w: %s + %d minutes", ErrCrossesMidnight, appt.StartTime, quote.TotalDurationMinutes)
	}

	appt.EndTime = *quote.EndTime
	if appt.Price == nil {
		total := quote.TotalPrice
		appt.Price = &total
	}
	return nil
}

// checkOwnership makes sure the client and employee belong to userID.
func checkOwnership(ctx context.Context, tx *sql.Tx, userID uuid.UUID, appt *Appointment) error {
	owned, err := database.OwnedBy(ctx, tx, database.Clients, appt.ClientID, userID)
	if err != nil {
		return err
	}
	if !owned {
		return fmt.Errorf("%w: %s", ErrUnknownClient, appt.ClientID)
	}
	owned, err = database.OwnedBy(ctx, tx, database.Employees, appt.EmployeeID, userID)
	if err != nil {
		return err
	}
	if !owned {
		return fmt.Errorf("%w: %s", ErrUnknownEmployee, appt.EmployeeID)
	}
	return nil
}

func insertServices(ctx context.Context, tx *sql.Tx, appointmentID uuid.UUID, serviceIDs []uuid.UUID) error {
	query := `INSERT INTO appointment_services (appointment_id, service_id, position) VALUES ($1, $2, $3)`
	for i, id := range serviceIDs {
		if _, err := tx.ExecContext(ctx, query, appointmentID, id, i); err != nil {
			return fmt.Errorf("insert service %s: %w", id, err)
		}
	}
	return nil
}

// CreateAppointment stores a new scheduled appointment together with every
// selected service. The first service is kept as the primary one.
func (a *Accessor) CreateAppointment(ctx context.Context, userID uuid.UUID, appt Appointment, now time.Time) (*Appointment, error) {
	appt.Status = schedule.StatusScheduled
	if err := a.prepare(ctx, userID, &appt); err != nil {
		return nil, err
	}

	appt.ID = uuid.New()
	appt.UserID = userID
	appt.CreatedAt = now

	tx, err := a.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := checkOwnership(ctx, tx, userID, &appt); err != nil {
		return nil, err
	}

	query := `INSERT INTO appointments (id, user_id, client_id, employee_id, service_id, appointment_date, start_time, end_time, status, price, notes, created_at) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	if _, err := tx.ExecContext(ctx, query, appt.ID, userID, appt.ClientID, appt.EmployeeID, appt.ServiceIDs[0],
		appt.Date.String(), appt.StartTime, appt.EndTime, string(appt.Status), *appt.Price,
		database.NullString(appt.Notes), now); err != nil {
		return nil, fmt.Errorf("exec context: %w", err)
	}
	if err := insertServices(ctx, tx, appt.ID, appt.ServiceIDs); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}

	return &appt, nil
}

// UpdateAppointment reschedules a scheduled appointment, recomputing its end
// time from the new selection. Returns (nil, nil) when it does not exist.
func (a *Accessor) UpdateAppointment(ctx context.Context, userID uuid.UUID, appt Appointment) (*Appointment, error) {
	current, err := a.GetAppointment(ctx, userID, appt.ID)
	if err != nil {
		return nil, fmt.Errorf("get appointment: %w", err)
	}
	if current == nil {
		return nil, nil
	}
	if current.Status != schedule.StatusScheduled {
		return nil, fmt.Errorf("%w: appointment is %s", ErrNotScheduled, current.Status)
	}

	appt.Status = current.Status
	if err := a.prepare(ctx, userID, &appt); err != nil {
		return nil, err
	}

	tx, err := a.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := checkOwnership(ctx, tx, userID, &appt); err != nil {
		return nil, err
	}

	// A completion or cancellation racing this edit leaves no row to update.
	query := `UPDATE appointments SET client_id = $1, employee_id = $2, service_id = $3, appointment_date = $4, start_time = $5, end_time = $6, price = $7, notes = $8 WHERE id = $9 AND user_id = $10 AND status = $11`
	res, err := tx.ExecContext(ctx, query, appt.ClientID, appt.EmployeeID, appt.ServiceIDs[0], appt.Date.String(),
		appt.StartTime, appt.EndTime, *appt.Price, database.NullString(appt.Notes), appt.ID, userID, string(schedule.StatusScheduled))
	if err != nil {
		return nil, fmt.Errorf("exec context: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return nil, fmt.Errorf("%w: status changed concurrently", ErrNotScheduled)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM appointment_services WHERE appointment_id = $1`, appt.ID); err != nil {
		return nil, fmt.Errorf("clear services: %w", err)
	}
	if err := insertServices(ctx, tx, appt.ID, appt.ServiceIDs); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}

	updated, err := a.GetAppointment(ctx, userID, appt.ID)
	if err != nil {
		return nil, fmt.Errorf("get appointment: %w", err)
	}
	return updated, nil
}

func (a *Accessor) GetAppointment(ctx context.Context, userID, id uuid.UUID) (*Appointment, error) {
	query := selectAppointments + `WHERE a.id = $1 AND a.user_id = $2`
	appt, err := scanAppointment(a.db.QueryRowContext(ctx, query, id, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan: %w", err)
	}
	return &appt, nil
}

// ListAppointments returns the appointments between from and to inclusive,
// ordered by date and start time.
func (a *Accessor) ListAppointments(ctx context.Context, userID uuid.UUID, from, to civil.Date) ([]Appointment, error) {
	if to.Before(from) {
		return nil, fmt.Errorf("%w: %s > %s", ErrInvalidRange, from, to)
	}
	query := selectAppointments + `WHERE a.user_id = $1 AND a.appointment_date BETWEEN $2 AND $3 ORDER BY a.appointment_date, a.start_time`
	return a.list(ctx, query, userID, from.String(), to.String())
}

// ListUpcoming returns the next scheduled appointments from today on.
func (a *Accessor) ListUpcoming(ctx context.Context, userID uuid.UUID, today civil.Date, limit int) ([]Appointment, error) {
	query := selectAppointments + `WHERE a.user_id = $1 AND a.appointment_date >= $2 AND a.status = $3 ORDER BY a.appointment_date, a.start_time LIMIT $4`
	return a.list(ctx, query, userID, today.String(), string(schedule.StatusScheduled), limit)
}

// ListByClient returns every appointment of one client, most recent first.
func (a *Accessor) ListByClient(ctx context.Context, userID, clientID uuid.UUID) ([]Appointment, error) {
	query := selectAppointments + `WHERE a.user_id = $1 AND a.client_id = $2 ORDER BY a.appointment_date DESC, a.start_time DESC`
	return a.list(ctx, query, userID, clientID)
}

func (a *Accessor) list(ctx context.Context, query string, args ...any) ([]Appointment, error) {
	rows, err := a.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query context: %w", err)
	}
	defer rows.Close()

	appointments := []Appointment{}
	for rows.Next() {
		appt, err := scanAppointment(rows)
		if err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		appointments = append(appointments, appt)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return appointments, nil
}

// UpdateStatus moves a scheduled appointment to completed or cancelled. The
// update is conditional on the status read, so two racing transitions cannot
// both win. Returns (nil, nil) when the appointment does not exist.
func (a *Accessor) UpdateStatus(ctx context.Context, userID, id uuid.UUID, next schedule.Status) (*Appointment, error) {
	current, err := a.GetAppointment(ctx, userID, id)
	if err != nil {
		return nil, fmt.Errorf("get appointment: %w", err)
	}
	if current == nil {
		return nil, nil
	}

	status, err := current.Status.Transition(next)
	if err != nil {
		return nil, err
	}

	query := `UPDATE appointments SET status = $1 WHERE id = $2 AND user_id = $3 AND status = $4`
	res, err := a.db.ExecContext(ctx, query, string(status), id, userID, string(current.Status))
	if err != nil {
		return nil, fmt.Errorf("exec context: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return nil, fmt.Errorf("%w: status changed concurrently", schedule.ErrInvalidTransition)
	}

	current.Status = status
	return current, nil
}

// DeleteAppointment removes the appointment; its service rows go with it.
func (a *Accessor) DeleteAppointment(ctx context.Context, userID, id uuid.UUID) error {
	query := `DELETE FROM appointments WHERE id = $1 AND user_id = $2`
	if _, err := a.db.ExecContext(ctx, query, id, userID); err != nil {
		return fmt.Errorf("exec context: %w", err)
	}
	return nil
}
