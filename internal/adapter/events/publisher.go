// Package events delivers order outbox records to downstream consumers.
package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/polkiloo/marketplace/internal/domain/model"
)

// Publisher delivers one outbox event. Implementations must be safe for
// concurrent use by relay workers.
type Publisher interface {
	Publish(ctx context.Context, event model.OrderEvent) error
	Close() error
}

// message is the wire representation of an order event.
type message struct {
	EventID    string    `json:"eventId"`
	Type       string    `json:"type"`
	OrderID    string    `json:"orderId"`
	BuyerID    int64     `json:"buyerId"`
	SellerID   int64     `json:"sellerId"`
	FromStatus string    `json:"fromStatus,omitempty"`
	Status     string    `json:"status"`
	ActorID    *int64    `json:"actorId,omitempty"`
	OccurredAt time.Time `json:"occurredAt"`
}

func encode(e model.OrderEvent) ([]byte, error) {
	return json.Marshal(message{
		EventID:    e.EventID,
		Type:       string(e.Type),
		OrderID:    e.OrderID,
		BuyerID:    e.BuyerID,
		SellerID:   e.SellerID,
		FromStatus: string(e.FromStatus),
		Status:     string(e.Status),
		ActorID:    e.ActorID,
		OccurredAt: e.OccurredAt.UTC(),
	})
}
