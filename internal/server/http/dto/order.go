package dto

import "time"

type ShippingAddress struct {
	Street     string `json:"street"`
	City       string `json:"city"`
	PostalCode string `json:"postalCode"`
	Country    string `json:"country"`
}

// CreateOrderRequest describes checkout payload.
type CreateOrderRequest struct {
	ProductID       int64           `json:"productId"`
	Quantity        int             `json:"quantity"`
	ShippingAddress ShippingAddress `json:"shippingAddress"`
	PaymentMethod   string          `json:"paymentMethod"`
}

// UpdateStatusRequest asks for a lifecycle transition.
type UpdateStatusRequest struct {
	Status string `json:"status"`
}

type StatusEntryResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	UpdatedBy *int64    `json:"updatedBy,omitempty"`
}

type OrderResponse struct {
	ID              string                `json:"id"`
	BuyerID         int64                 `json:"buyerId"`
	SellerID        int64                 `json:"sellerId"`
	ProductID       int64                 `json:"productId"`
	Quantity        int                   `json:"quantity"`
	TotalPrice      int64                 `json:"totalPrice"`
	PaymentMethod   string                `json:"paymentMethod"`
	CurrentStatus   string                `json:"currentStatus"`
	StatusHistory   []StatusEntryResponse `json:"statusHistory"`
	ShippingAddress ShippingAddress       `json:"shippingAddress"`
	CreatedAt       time.Time             `json:"createdAt"`
	UpdatedAt       time.Time             `json:"updatedAt"`
}

// TransitionsResponse lists statuses the caller may request next.
type TransitionsResponse struct {
	Current string   `json:"current"`
	Allowed []string `json:"allowed"`
}
