package service

import (
	"errors"
	"time"

	"salon-system/schedule"

	"github.com/google/uuid"
)

const maxDurationMinutes = 24*60 - 1

// Service is an entry of the salon's catalog.
type Service struct {
	ID              uuid.UUID      `json:"id"`
	UserID          uuid.UUID      `json:"user_id"`
	Name            string         `json:"name"`
	Category        string         `json:"category,omitempty"`
	Description     string         `json:"description,omitempty"`
	Price           schedule.Money `json:"price"`
	DurationMinutes int            `json:"duration_minutes"`
	CreatedAt       time.Time      `json:"created_at"`
}

func (s *Service) Validate() error {
	if s.Name == "" {
		return errors.New("name is required")
	}
	if s.Price < 0 {
		return errors.New("price must not be negative")
	}
	if s.DurationMinutes <= 0 {
		return errors.New("duration minutes must be greater than 0")
	}
	if s.DurationMinutes > maxDurationMinutes {
		return errors.New("duration must be shorter than a day")
	}
	return nil
}

// CatalogEntry is the scheduler's view of the service.
func (s Service) CatalogEntry() schedule.Service {
	return schedule.Service{
		ID:              s.ID.String(),
		Name:            s.Name,
		Price:           s.Price,
		DurationMinutes: s.DurationMinutes,
	}
}
