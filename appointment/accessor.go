package appointment

import (
	"context"
	"database/sql"

	"salon-system/schedule"

	"github.com/google/uuid"
)

// CatalogSource provides the service catalog used to time and price
// appointments.
type CatalogSource interface {
	GetCatalog(ctx context.Context, userID uuid.UUID) (schedule.Catalog, error)
}

type Accessor struct {
	db      *sql.DB
	catalog CatalogSource
}

func NewAccessor(db *sql.DB, catalog CatalogSource) *Accessor {
	return &Accessor{
		db:      db,
		catalog: catalog,
	}
}
