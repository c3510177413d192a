package dto

import "time"

// CreateProductRequest describes a new listing; price is in minor currency units.
type CreateProductRequest struct {
	Title string `json:"title"`
	Price int64  `json:"price"`
	Stock int    `json:"stock"`
}

// UpdateProductRequest is a partial edit; omitted fields are kept.
type UpdateProductRequest struct {
	Title *string `json:"title"`
	Price *int64  `json:"price"`
	Stock *int    `json:"stock"`
}

type ProductResponse struct {
	ID        int64     `json:"id"`
	SellerID  int64     `json:"sellerId"`
	Title     string    `json:"title"`
	Price     int64     `json:"price"`
	Stock     int       `json:"stock"`
	CreatedAt time.Time `json:"createdAt"`
}
