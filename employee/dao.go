package employee

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"salon-system/database"

	"cloud.google.com/go/civil"
	"github.com/google/uuid"
)

const employeeColumns = `id, user_id, name, role, email, phone, commission_percentage, status, hire_date, created_at`

type scanner interface {
	Scan(dest ...any) error
}

func scanEmployee(row scanner) (Employee, error) {
	var e Employee
	var email, phone sql.NullString
	var hired time.Time
	if err := row.Scan(&e.ID, &e.UserID, &e.Name, &e.Role, &email, &phone, &e.CommissionPercentage, &e.Status, &hired, &e.CreatedAt); err != nil {
		return Employee{}, err
	}
	e.Email, e.Phone = email.String, phone.String
	e.HireDate = civil.DateOf(hired)
	return e, nil
}

func (a *Accessor) CreateEmployee(ctx context.Context, userID uuid.UUID, e Employee, now time.Time) (*Employee, error) {
	e.Defaults(now)
	if err := e.Validate(); err != nil {
		return nil, fmt.Errorf("validate: %w", err)
	}

	e.ID = uuid.New()
	e.UserID = userID
	e.CreatedAt = now

	query := `INSERT INTO employees (` + employeeColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	if _, err := a.db.ExecContext(ctx, query, e.ID, userID, e.Name, e.Role, database.NullString(e.Email),
		database.NullString(e.Phone), e.CommissionPercentage, string(e.Status), e.HireDate.String(), now); err != nil {
		return nil, fmt.Errorf("exec context: %w", err)
	}
	return &e, nil
}

func (a *Accessor) UpdateEmployee(ctx context.Context, userID uuid.UUID, e Employee) (*Employee, error) {
	if err := e.Validate(); err != nil {
		return nil, fmt.Errorf("validate: %w", err)
	}

	query := `UPDATE employees SET name = $1, role = $2, email = $3, phone = $4, commission_percentage = $5, status = $6, hire_date = $7 WHERE id = $8 AND user_id = $9`
	if _, err := a.db.ExecContext(ctx, query, e.Name, e.Role, database.NullString(e.Email), database.NullString(e.Phone),
		e.CommissionPercentage, string(e.Status), e.HireDate.String(), e.ID, userID); err != nil {
		return nil, fmt.Errorf("exec context: %w", err)
	}

	updated, err := a.GetEmployee(ctx, userID, e.ID)
	if err != nil {
		return nil, fmt.Errorf("get employee: %w", err)
	}
	return updated, nil
}

func (a *Accessor) GetEmployee(ctx context.Context, userID, id uuid.UUID) (*Employee, error) {
	query := `SELECT ` + employeeColumns + ` FROM employees WHERE id = $1 AND user_id = $2`
	e, err := scanEmployee(a.db.QueryRowContext(ctx, query, id, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan: %w", err)
	}
	return &e, nil
}

func (a *Accessor) ListEmployees(ctx context.Context, userID uuid.UUID) ([]Employee, error) {
	query := `SELECT ` + employeeColumns + ` FROM employees WHERE user_id = $1 ORDER BY name`
	rows, err := a.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("query context: %w", err)
	}
	defer rows.Close()

	employees := []Employee{}
	for rows.Next() {
		e, err := scanEmployee(rows)
		if err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		employees = append(employees, e)
	}
	return employees, rows.Err()
}

func (a *Accessor) DeleteEmployee(ctx context.Context, userID, id uuid.UUID) error {
	query := `DELETE FROM employees WHERE id = $1 AND user_id = $2`
	if _, err := a.db.ExecContext(ctx, query, id, userID); err != nil {
		return fmt.Errorf("exec context: %w", err)
	}
	return nil
}
