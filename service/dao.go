package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"salon-system/database"
	"salon-system/schedule"

	"github.com/google/uuid"
)

const serviceColumns = `id, user_id, name, category, description, price, duration_minutes, created_at`

type scanner interface {
	Scan(dest ...any) error
}

func scanService(row scanner) (Service, error) {
	var s Service
	var category, description sql.NullString
	if err := row.Scan(&s.ID, &s.UserID, &s.Name, &category, &description, &s.Price, &s.DurationMinutes, &s.CreatedAt); err != nil {
		return Service{}, err
	}
	s.Category = category.String
	s.Description = description.String
	return s, nil
}

func (a *Accessor) CreateService(ctx context.Context, userID uuid.UUID, svc Service, now time.Time) (*Service, error) {
	if err := svc.Validate(); err != nil {
		return nil, fmt.Errorf("validate: %w", err)
	}

	svc.ID = uuid.New()
	svc.UserID = userID
	svc.CreatedAt = now

	query := `INSERT INTO services (` + serviceColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	if _, err := a.db.ExecContext(ctx, query, svc.ID, userID, svc.Name, database.NullString(svc.Category),
		database.NullString(svc.Description), svc.Price, svc.DurationMinutes, now); err != nil {
		return nil, fmt.Errorf("exec context: %w", err)
	}

	return &svc, nil
}

func (a *Accessor) UpdateService(ctx context.Context, userID uuid.UUID, svc Service) (*Service, error) {
	if err := svc.Validate(); err != nil {
		return nil, fmt.Errorf("validate: %w", err)
	}

	// user_id and created_at never change.
	query := `UPDATE services SET name = $1, category = $2, description = $3, price = $4, duration_minutes = $5 WHERE id = $6 AND user_id = $7`
	if _, err := a.db.ExecContext(ctx, query, svc.Name, database.NullString(svc.Category),
		database.NullString(svc.Description), svc.Price, svc.DurationMinutes, svc.ID, userID); err != nil {
		return nil, fmt.Errorf("exec context: %w", err)
	}

	updated, err := a.GetService(ctx, userID, svc.ID)
	if err != nil {
		return nil, fmt.Errorf("get service: %w", err)
	}
	return updated, nil
}

func (a *Accessor) GetService(ctx context.Context, userID, id uuid.UUID) (*Service, error) {
	query := `SELECT ` + serviceColumns + ` FROM services WHERE id = $1 AND user_id = $2`
	s, err := scanService(a.db.QueryRowContext(ctx, query, id, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan: %w", err)
	}
	return &s, nil
}

func (a *Accessor) ListServices(ctx context.Context, userID uuid.UUID) ([]Service, error) {
	query := `SELECT ` + serviceColumns + ` FROM services WHERE user_id = $1 ORDER BY name`
	rows, err := a.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("query context: %w", err)
	}
	defer rows.Close()

	services := []Service{}
	for rows.Next() {
		s, err := scanService(rows)
		if err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		services = append(services, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return services, nil
}

func (a *Accessor) DeleteService(ctx context.Context, userID, id uuid.UUID) error {
	query := `DELETE FROM services WHERE id = $1 AND user_id = $2`
	if _, err := a.db.ExecContext(ctx, query, id, userID); err != nil {
		return fmt.Errorf("exec context: %w", err)
	}
	return nil
}

// GetCatalog loads the account's services keyed by id for duration and
// price aggregation.
func (a *Accessor) GetCatalog(ctx context.Context, userID uuid.UUID) (schedule.Catalog, error) {
	services, err := a.ListServices(ctx, userID)
	if err != nil {
		return nil, err
	}
	entries := make([]schedule.Service, len(services))
	for i, s := range services {
		entries[i] = s.CatalogEntry()
	}
	return schedule.NewCatalog(entries...), nil
}
