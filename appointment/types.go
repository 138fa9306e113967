package appointment

import (
	"errors"
	"fmt"
	"time"

	"salon-system/schedule"

	"cloud.google.com/go/civil"
	"github.com/google/uuid"
)

var (
	ErrUnknownServices = errors.New("selected services are not in the catalog")
	ErrCrossesMidnight = errors.New("appointment must end on the day it starts")
	ErrNotScheduled    = errors.New("only scheduled appointments can be changed")
	ErrInvalidRange    = errors.New("range start is after range end")
	ErrUnknownClient   = errors.New("client does not exist")
	ErrUnknownEmployee = errors.New("employee does not exist")
)

type Appointment struct {
	ID         uuid.UUID          `json:"id"`
	UserID     uuid.UUID          `json:"user_id"`
	ClientID   uuid.UUID          `json:"client_id"`
	EmployeeID uuid.UUID          `json:"employee_id"`
	ServiceIDs []uuid.UUID        `json:"service_ids"`
	Date       civil.Date         `json:"date"`
	StartTime  schedule.TimeOfDay `json:"start_time"`
	EndTime    schedule.TimeOfDay `json:"end_time"`
	Status     schedule.Status    `json:"status"`
	Price      *schedule.Money    `json:"price,omitempty"`
	Notes      string             `json:"notes,omitempty"`
	CreatedAt  time.Time          `json:"created_at"`

	ClientName   string `json:"client_name,omitempty"`
	EmployeeName string `json:"employee_name,omitempty"`
	ServiceName  string `json:"service_name,omitempty"`
}

func (a *Appointment) Validate() error {
	if a.ClientID == uuid.Nil {
		return errors.New("client ID is required")
	}
	if a.EmployeeID == uuid.Nil {
		return errors.New("employee ID is required")
	}
	if len(a.ServiceIDs) == 0 {
		return errors.New("at least one service is required")
	}
	for _, id := range a.ServiceIDs {
		if id == uuid.Nil {
			return errors.New("service ID is required")
		}
	}
	if !a.Date.IsValid() {
		return errors.New("date is required")
	}
	if !a.StartTime.IsValid() {
		return fmt.Errorf("start time %s is out of range", a.StartTime)
	}
	if a.Price != nil && *a.Price < 0 {
		return errors.New("price must not be negative")
	}
	if _, err := schedule.ParseStatus(string(a.Status)); err != nil {
		return err
	}
	return nil
}

// View is the calendar read model. The start is always a full date-time so
// the grid can place it without a pre-filtered day.
func (a Appointment) View() schedule.AppointmentView {
	start := civil.DateTime{
		Date: a.Date,
		Time: civil.Time{Hour: a.StartTime.Hour, Minute: a.StartTime.Minute},
	}
	return schedule.AppointmentView{
		ID:          a.ID.String(),
		StartTime:   start.String(),
		EndTime:     a.EndTime.String(),
		ClientName:  a.ClientName,
		ServiceName: a.ServiceName,
		Status:      a.Status,
	}
}

func Views(appointments []Appointment) []schedule.AppointmentView {
	views := make([]schedule.AppointmentView, len(appointments))
	for i, a := range appointments {
		views[i] = a.View()
	}
	return views
}

// dedupIDs keeps the first occurrence of every service.
func dedupIDs(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func idStrings(ids []uuid.UUID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id.String()
	}
	return out
}
