package sale

import (
	"errors"
	"fmt"
	"time"

	"salon-system/schedule"

	"cloud.google.com/go/civil"
	"github.com/google/uuid"
)

// Limits of the NUMERIC(10,2) amount columns and of a single line.
const (
	MaxAmount   schedule.Money = 9_999_999_999
	MaxQuantity                = 10_000
)

var (
	ErrUnknownClient      = errors.New("client does not exist")
	ErrUnknownEmployee    = errors.New("employee does not exist")
	ErrUnknownAppointment = errors.New("appointment does not exist")
	ErrUnknownProduct     = errors.New("product does not exist")
	ErrUnknownService     = errors.New("service does not exist")
	ErrInvalidRange       = errors.New("range start is after range end")
)

type PaymentMethod string

const (
	PaymentCash     PaymentMethod = "cash"
	PaymentCard     PaymentMethod = "card"
	PaymentPix      PaymentMethod = "pix"
	PaymentTransfer PaymentMethod = "transfer"
)

func (p PaymentMethod) IsValid() bool {
	switch p {
	case PaymentCash, PaymentCard, PaymentPix, PaymentTransfer:
		return true
	}
	return false
}

// Item is one sold line: a product taken from stock or a service rendered.
type Item struct {
	ID         uuid.UUID      `json:"id"`
	ProductID  uuid.NullUUID  `json:"product_id"`
	ServiceID  uuid.NullUUID  `json:"service_id"`
	Quantity   int            `json:"quantity"`
	UnitPrice  schedule.Money `json:"unit_price"`
	TotalPrice schedule.Money `json:"total_price"`
	Name       string         `json:"name,omitempty"`
}

type Sale struct {
	ID            uuid.UUID      `json:"id"`
	UserID        uuid.UUID      `json:"user_id"`
	ClientID      uuid.NullUUID  `json:"client_id"`
	EmployeeID    uuid.NullUUID  `json:"employee_id"`
	AppointmentID uuid.NullUUID  `json:"appointment_id"`
	Date          civil.Date     `json:"sale_date"`
	PaymentMethod PaymentMethod  `json:"payment_method"`
	Subtotal      schedule.Money `json:"subtotal"`
	Discount      schedule.Money `json:"discount"`
	Total         schedule.Money `json:"total"`
	Notes         string         `json:"notes,omitempty"`
	Items         []Item         `json:"items"`
	CreatedAt     time.Time      `json:"created_at"`

	ClientName   string `json:"client_name,omitempty"`
	EmployeeName string `json:"employee_name,omitempty"`
}

// Defaults pays in cash on the day of now unless told otherwise.
func (s *Sale) Defaults(now time.Time) {
	if s.PaymentMethod == "" {
		s.PaymentMethod = PaymentCash
	}
	if s.Date == (civil.Date{}) {
		s.Date = civil.DateOf(now)
	}
}

// Validate checks the sale and its lines, then derives the line totals, the
// subtotal and the total. Client-sent totals are ignored.
func (s *Sale) Validate() error {
	if !s.Date.IsValid() {
		return errors.New("sale date is required")
	}
	if !s.PaymentMethod.IsValid() {
		return fmt.Errorf("payment method %q is not one of cash, card, pix, transfer", s.PaymentMethod)
	}
	if len(s.Items) == 0 {
		return errors.New("at least one item is required")
	}

	var subtotal schedule.Money
	for i := range s.Items {
		item := &s.Items[i]
		if item.ProductID.Valid == item.ServiceID.Valid {
			return fmt.Errorf("item %d: exactly one of product or service is required", i+1)
		}
		if item.Quantity < 1 || item.Quantity > MaxQuantity {
			return fmt.Errorf("item %d: quantity must be between 1 and %d", i+1, MaxQuantity)
		}
		if item.UnitPrice < 0 || item.UnitPrice > MaxAmount {
			return fmt.Errorf("item %d: unit price is out of range", i+1)
		}
		item.TotalPrice = item.UnitPrice * schedule.Money(item.Quantity)
		subtotal += item.TotalPrice
	}
	if subtotal > MaxAmount {
		return fmt.Errorf("subtotal %s is out of range", subtotal)
	}
	if s.Discount < 0 {
		return errors.New("discount must not be negative")
	}
	if s.Discount > subtotal {
		return fmt.Errorf("discount %s exceeds subtotal %s", s.Discount, subtotal)
	}

	s.Subtotal = subtotal
	s.Total = subtotal - s.Discount
	return nil
}
