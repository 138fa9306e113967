package employee

import (
	"errors"
	"time"

	"cloud.google.com/go/civil"
	"github.com/google/uuid"
)

type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
)

type Employee struct {
	ID                   uuid.UUID  `json:"id"`
	UserID               uuid.UUID  `json:"user_id"`
	Name                 string     `json:"name"`
	Role                 string     `json:"role"`
	Email                string     `json:"email,omitempty"`
	Phone                string     `json:"phone,omitempty"`
	CommissionPercentage float64    `json:"commission_percentage"`
	Status               Status     `json:"status"`
	HireDate             civil.Date `json:"hire_date"`
	CreatedAt            time.Time  `json:"created_at"`
}

// Defaults sets an empty status to active and an unset hire date to the day
// of now.
func (e *Employee) Defaults(now time.Time) {
	if e.Status == "" {
		e.Status = StatusActive
	}
	if e.HireDate == (civil.Date{}) {
		e.HireDate = civil.DateOf(now)
	}
}

func (e *Employee) Validate() error {
	if e.Name == "" {
		return errors.New("name is required")
	}
	if e.Role == "" {
		return errors.New("role is required")
	}
	if e.CommissionPercentage < 0 || e.CommissionPercentage > 100 {
		return errors.New("commission percentage must be between 0 and 100")
	}
	switch e.Status {
	case StatusActive, StatusInactive:
	default:
		return errors.New("status must be active or inactive")
	}
	if !e.HireDate.IsValid() {
		return errors.New("hire date is required")
	}
	return nil
}
