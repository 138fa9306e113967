package product

import (
	"errors"
	"time"

	"salon-system/schedule"

	"github.com/google/uuid"
)

const DefaultMinStockAlert = 5

var ErrNegativeStock = errors.New("stock cannot go below zero")

type Product struct {
	ID            uuid.UUID      `json:"id"`
	UserID        uuid.UUID      `json:"user_id"`
	Name          string         `json:"name"`
	Brand         string         `json:"brand,omitempty"`
	Category      string         `json:"category,omitempty"`
	Barcode       string         `json:"barcode,omitempty"`
	Price         schedule.Money `json:"price"`
	Cost          schedule.Money `json:"cost"`
	StockQuantity int            `json:"stock_quantity"`
	MinStockAlert *int           `json:"min_stock_alert,omitempty"`
	CreatedAt     time.Time      `json:"created_at"`
}

func (p *Product) Validate() error {
	if p.Name == "" {
		return errors.New("name is required")
	}
	if p.Price < 0 || p.Cost < 0 {
		return errors.New("price and cost must not be negative")
	}
	if p.StockQuantity < 0 {
		return ErrNegativeStock
	}
	if p.MinStockAlert != nil && *p.MinStockAlert < 0 {
		return errors.New("min stock alert must not be negative")
	}
	return nil
}

// Threshold is the stock level at or below which the product is flagged.
func (p Product) Threshold() int {
	if p.MinStockAlert == nil {
		return DefaultMinStockAlert
	}
	return *p.MinStockAlert
}

func (p Product) LowStock() bool {
	return p.StockQuantity <= p.Threshold()
}
