package product

import "salon-system/database"

type Accessor struct {
	db database.DBTX
}

// NewAccessor accepts a *sql.DB or a *sql.Tx.
func NewAccessor(db database.DBTX) *Accessor {
	return &Accessor{db: db}
}
