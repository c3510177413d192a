package model

import "time"

// OrderEventType names facts published about orders.
type OrderEventType string

const (
	OrderEventCreated       OrderEventType = "order.created"
	OrderEventStatusChanged OrderEventType = "order.status_changed"
)

// OrderEvent is an outbox record describing an order fact.
type OrderEvent struct {
	ID          int64
	EventID     string
	Type        OrderEventType
	OrderID     string
	BuyerID     int64
	SellerID    int64
	FromStatus  OrderStatus
	Status      OrderStatus
	ActorID     *int64
	OccurredAt  time.Time
	PublishedAt *time.Time
}

// NewCreatedEvent describes freshly placed order.
func NewCreatedEvent(eventID string, o *Order) OrderEvent {
	buyer := o.BuyerID
	return OrderEvent{
		EventID:    eventID,
		Type:       OrderEventCreated,
		OrderID:    o.ID,
		BuyerID:    o.BuyerID,
		SellerID:   o.SellerID,
		Status:     o.CurrentStatus,
		ActorID:    &buyer,
		OccurredAt: o.CreatedAt,
	}
}

// NewStatusChangedEvent describes an applied transition.
func NewStatusChangedEvent(eventID string, o *Order, from OrderStatus, entry StatusEntry) OrderEvent {
	return OrderEvent{
		EventID:    eventID,
		Type:       OrderEventStatusChanged,
		OrderID:    o.ID,
		BuyerID:    o.BuyerID,
		SellerID:   o.SellerID,
		FromStatus: from,
		Status:     entry.Status,
		ActorID:    entry.UpdatedBy,
		OccurredAt: entry.Timestamp,
	}
}
