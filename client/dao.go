package client

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

const clientColumns = `id, user_id, name, email, phone, birthdate, address, notes, created_at`

type scanner interface {
	Scan(dest ...any) error
}

func scanClient(row scanner) (Client, error) {
	var c Client
	var email, phone, address, notes sql.NullString
	var birthdate sql.NullTime
	if err := row.Scan(&c.ID, &c.UserID, &c.Name, &email, &phone, &birthdate, &address, &notes, &c.CreatedAt); err != nil {
		return Client{}, err
	}
	if birthdate.Valid {
		d := civil.DateOf(birthdate.Time)
		c.Birthdate = &d
	}
	c.Email, c.Phone, c.Address, c.Notes = email.String, phone.String, address.String, notes.String
	return c, nil
}

func (a *Accessor) CreateClient(ctx context.Context, userID uuid.UUID, c Client, now time.Time) (*Client, error) {
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate: %w", err)
	}

	c.ID = uuid.New()
	c.UserID = userID
	c.CreatedAt = now

	query := `INSERT INTO clients (` + clientColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	if _, err := a.db.ExecContext(ctx, query, c.ID, userID, c.Name, database.NullString(c.Email),
		database.NullString(c.Phone), c.birthdateArg(), database.NullString(c.Address), database.NullString(c.Notes), now); err != nil {
		return nil, fmt.Errorf("exec context: %w", err)
	}
	return &c, nil
}

// UpdateClient overwrites the contact fields. Returns (nil, nil) when the
// client does not exist.
func (a *Accessor) UpdateClient(ctx context.Context, userID uuid.UUID, c Client) (*Client, error) {
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate: %w", err)
	}

	query := `UPDATE clients SET name = $1, email = $2, phone = $3, birthdate = $4, address = $5, notes = $6 WHERE id = $7 AND user_id = $8`
	if _, err := a.db.ExecContext(ctx, query, c.Name, database.NullString(c.Email), database.NullString(c.Phone),
		c.birthdateArg(), database.NullString(c.Address), database.NullString(c.Notes), c.ID, userID); err != nil {
		return nil, fmt.Errorf("exec context: %w", err)
	}

	updated, err := a.GetClient(ctx, userID, c.ID)
	if err != nil {
		return nil, fmt.Errorf("get client: %w", err)
	}
	return updated, nil
}

func (a *Accessor) GetClient(ctx context.Context, userID, id uuid.UUID) (*Client, error) {
	query := `SELECT ` + clientColumns + ` FROM clients WHERE id = $1 AND user_id = $2`
	c, err := scanClient(a.db.QueryRowContext(ctx, query, id, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan: %w", err)
	}
	return &c, nil
}

func (a *Accessor) ListClients(ctx context.Context, userID uuid.UUID) ([]Client, error) {
	query := `SELECT ` + clientColumns + ` FROM clients WHERE user_id = $1 ORDER BY name`
	rows, err := a.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("query context: %w", err)
	}
	defer rows.Close()

	clients := []Client{}
	for rows.Next() {
		c, err := scanClient(rows)
		if err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		clients = append(clients, c)
	}
	return clients, rows.Err()
}

func (a *Accessor) DeleteClient(ctx context.Context, userID, id uuid.UUID) error {
	query := `DELETE FROM clients WHERE id = $1 AND user_id = $2`
	if _, err := a.db.ExecContext(ctx, query, id, userID); err != nil {
		return fmt.Errorf("exec context: %w", err)
	}
	return nil
}
