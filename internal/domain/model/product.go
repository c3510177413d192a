package model

import "time"

// Product is a catalog entry offered by a seller. Price is in minor currency units.
type Product struct {
	ID        int64
	SellerID  int64
	Title     string
	Price     int64
	Stock     int
	CreatedAt time.Time
	UpdatedAt time.Time
}
