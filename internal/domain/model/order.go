package model

import (
	"strings"
	"time"
)

// OrderStatus describes order fulfilment lifecycle.
type OrderStatus string

const (
	OrderStatusPendingApproval OrderStatus = "Pending Approval"
	OrderStatusProcessing      OrderStatus = "Processing"
	OrderStatusOutForDelivery  OrderStatus = "Out for Delivery"
	OrderStatusCompleted       OrderStatus = "Completed"
	OrderStatusRejected        OrderStatus = "Rejected"
	OrderStatusCancelled       OrderStatus = "Cancelled"
)

// OrderStatuses lists every known status in lifecycle order.
var OrderStatuses = []OrderStatus{
	OrderStatusPendingApproval,
	OrderStatusProcessing,
	OrderStatusOutForDelivery,
	OrderStatusCompleted,
	OrderStatusRejected,
	OrderStatusCancelled,
}

// ParseOrderStatus validates textual status representation.
func ParseOrderStatus(s string) (OrderStatus, bool) {
	for _, st := range OrderStatuses {
		if string(st) == s {
			return st, true
		}
	}
	return "", false
}

// PaymentMethod is an opaque payment label; no payment is processed.
type PaymentMethod string

const (
	PaymentCashOnDelivery PaymentMethod = "Cash on Delivery"
	PaymentBkash          PaymentMethod = "Bkash"
)

// ParsePaymentMethod validates payment label. Empty input selects cash on delivery.
func ParsePaymentMethod(s string) (PaymentMethod, bool) {
	switch pm := PaymentMethod(s); pm {
	case "":
		return PaymentCashOnDelivery, true
	case PaymentCashOnDelivery, PaymentBkash:
		return pm, true
	}
	return "", false
}

// ShippingAddress is captured at checkout and never changes afterwards.
type ShippingAddress struct {
	Street     string
	City       string
	PostalCode string
	Country    string
}

// MissingFields returns names of blank address fields.
func (a ShippingAddress) MissingFields() []string {
	var missing []string
	for _, f := range []struct {
		name  string
		value string
	}{
		{"street", a.Street},
		{"city", a.City},
		{"postalCode", a.PostalCode},
		{"country", a.Country},
	} {
		if strings.TrimSpace(f.value) == "" {
			missing = append(missing, f.name)
		}
	}
	return missing
}

// StatusEntry is one audit record of the order status history.
type StatusEntry struct {
	Status    OrderStatus
	Timestamp time.Time
	UpdatedBy *int64
}

// Order is a buyer's purchase of a single product from one seller.
//
// SellerID and TotalPrice are snapshots taken from the product at creation time;
// later product changes never touch existing orders.
type Order struct {
	ID              string
	BuyerID         int64
	SellerID        int64
	ProductID       int64
	Quantity        int
	TotalPrice      int64
	PaymentMethod   PaymentMethod
	CurrentStatus   OrderStatus
	StatusHistory   []StatusEntry
	ShippingAddress ShippingAddress
	Version         int64
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// NewOrder builds an order awaiting seller approval.
func NewOrder(id string, buyerID int64, product *Product, quantity int, address ShippingAddress, payment PaymentMethod, now time.Time) *Order {
	return &Order{
		ID:              id,
		BuyerID:         buyerID,
		SellerID:        product.SellerID,
		ProductID:       product.ID,
		Quantity:        quantity,
		TotalPrice:      product.Price * int64(quantity),
		PaymentMethod:   payment,
		CurrentStatus:   OrderStatusPendingApproval,
		StatusHistory:   []StatusEntry{{Status: OrderStatusPendingApproval, Timestamp: now}},
		ShippingAddress: address,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

// AppendStatus records a new status. Policy checks are the caller's job.
func (o *Order) AppendStatus(entry StatusEntry) {
	o.StatusHistory = append(o.StatusHistory, entry)
	o.CurrentStatus = entry.Status
	o.UpdatedAt = entry.Timestamp
}

// LastEntry returns the most recent history record.
func (o *Order) LastEntry() (StatusEntry, bool) {
	if len(o.StatusHistory) == 0 {
		return StatusEntry{}, false
	}
	return o.StatusHistory[len(o.StatusHistory)-1], true
}

// InvariantsHold reports whether the order is internally consistent.
func (o *Order) InvariantsHold() bool {
	last, ok := o.LastEntry()
	if !ok || last.Status != o.CurrentStatus {
		return false
	}
	return o.Quantity >= 1 && o.TotalPrice >= 0
}

// Clone returns a deep copy so callers cannot alias history slices.
func (o *Order) Clone() *Order {
	c := *o
	c.StatusHistory = make([]StatusEntry, len(o.StatusHistory))
	for i, e := range o.StatusHistory {
		c.StatusHistory[i] = e
		if e.UpdatedBy != nil {
			id := *e.UpdatedBy
			c.StatusHistory[i].UpdatedBy = &id
		}
	}
	return &c
}
