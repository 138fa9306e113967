package employee_test

import (
	"regexp"
	"salon-system/employee"
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmployee(t *testing.T) {
	db, dbMock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	a := employee.NewAccessor(db)
	userID := uuid.New()
	now := time.Date(2025, 8, 26, 10, 0, 0, 0, time.UTC)

	t.Run("create employee with defaults", func(t *testing.T) {
		insertQuery := `INSERT INTO employees (id, user_id, name, role, email, phone, commission_percentage, status, hire_date, created_at) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
		dbMock.ExpectExec(regexp.QuoteMeta(insertQuery)).
			WithArgs(sqlmock.AnyArg(), userID, "Joana", "Cabeleireira", nil, nil, 30.0, "active", "2025-08-26", now).
			WillReturnResult(sqlmock.NewResult(1, 1))

		e, err := a.CreateEmployee(t.Context(), userID, employee.Employee{
			Name:                 "Joana",
			Role:                 "Cabeleireira",
			CommissionPercentage: 30,
		}, now)
		require.NoError(t, err)
		assert.Equal(t, employee.StatusActive, e.Status)
		assert.Equal(t, civil.Date{Year: 2025, Month: time.August, Day: 26}, e.HireDate)

		require.NoError(t, dbMock.ExpectationsWereMet())
	})

	t.Run("create employee validation", func(t *testing.T) {
		for _, bad := range []employee.Employee{
			{Role: "Manicure"},
			{Name: "Rita"},
			{Name: "Rita", Role: "Manicure", CommissionPercentage: 120},
			{Name: "Rita", Role: "Manicure", Status: "on-leave"},
		} {
			_, err := a.CreateEmployee(t.Context(), userID, bad, now)
			require.Error(t, err)
		}
	})

	t.Run("get employee", func(t *testing.T) {
		id := uuid.New()
		selectQuery := `SELECT id, user_id, name, role, email, phone, commission_percentage, status, hire_date, created_at FROM employees WHERE id = $1 AND user_id = $2`
		dbMock.ExpectQuery(regexp.QuoteMeta(selectQuery)).
			WithArgs(id, userID).
			WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "name", "role", "email", "phone", "commission_percentage", "status", "hire_date", "created_at"}).
				AddRow(id.String(), userID.String(), "Joana", "Cabeleireira", "joana@example.com", nil, 30.0, "inactive", time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), now))

		e, err := a.GetEmployee(t.Context(), userID, id)
		require.NoError(t, err)
		require.NotNil(t, e)
		assert.Equal(t, employee.StatusInactive, e.Status)
		assert.Equal(t, "2024-03-01", e.HireDate.String())
		assert.Equal(t, "joana@example.com", e.Email)

		require.NoError(t, dbMock.ExpectationsWereMet())
	})

	t.Run("update employee", func(t *testing.T) {
		id := uuid.New()
		updateQuery := `UPDATE employees SET name = $1, role = $2, email = $3, phone = $4, commission_percentage = $5, status = $6, hire_date = $7 WHERE id = $8 AND user_id = $9`
		dbMock.ExpectExec(regexp.QuoteMeta(updateQuery)).
			WithArgs("Joana", "Colorista", nil, nil, 35.0, "inactive", "2024-03-01", id, userID).
			WillReturnResult(sqlmock.NewResult(0, 1))
		selectQuery := `SELECT id, user_id, name, role, email, phone, commission_percentage, status, hire_date, created_at FROM employees WHERE id = $1 AND user_id = $2`
		dbMock.ExpectQuery(regexp.QuoteMeta(selectQuery)).
			WithArgs(id, userID).
			WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "name", "role", "email", "phone", "commission_percentage", "status", "hire_date", "created_at"}).
				AddRow(id.String(), userID.String(), "Joana", "Colorista", nil, nil, 35.0, "inactive", time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), now))

		e, err := a.UpdateEmployee(t.Context(), userID, employee.Employee{
			ID:                   id,
			Name:                 "Joana",
			Role:                 "Colorista",
			CommissionPercentage: 35,
			Status:               employee.StatusInactive,
			HireDate:             civil.Date{Year: 2024, Month: time.March, Day: 1},
		})
		require.NoError(t, err)
		require.NotNil(t, e)
		assert.Equal(t, "Colorista", e.Role)
		assert.Equal(t, employee.StatusInactive, e.Status)

		require.NoError(t, dbMock.ExpectationsWereMet())
	})

	t.Run("update employee validation", func(t *testing.T) {
		_, err := a.UpdateEmployee(t.Context(), userID, employee.Employee{ID: uuid.New(), Name: "Joana", Role: "Colorista"})
		require.Error(t, err)
	})
}
