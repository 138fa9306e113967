package client

import (
	"errors"
	"net/mail"
	"time"

	"cloud.google.com/go/civil"
	"github.com/google/uuid"
)

type Client struct {
	ID        uuid.UUID   `json:"id"`
	UserID    uuid.UUID   `json:"user_id"`
	Name      string      `json:"name"`
	Email     string      `json:"email,omitempty"`
	Phone     string      `json:"phone,omitempty"`
	Birthdate *civil.Date `json:"birthdate,omitempty"`
	Address   string      `json:"address,omitempty"`
	Notes     string      `json:"notes,omitempty"`
	CreatedAt time.Time   `json:"created_at"`
}

func (c *Client) Validate() error {
	if c.Name == "" {
		return errors.New("name is required")
	}
	if c.Email != "" {
		if _, err := mail.ParseAddress(c.Email); err != nil {
			return errors.New("email is invalid")
		}
	}
	if c.Birthdate != nil && !c.Birthdate.IsValid() {
		return errors.New("birthdate is invalid")
	}
	return nil
}

// birthdateArg maps an unset birthdate to NULL.
func (c *Client) birthdateArg() any {
	if c.Birthdate == nil {
		return nil
	}
	return c.Birthdate.String()
}
