package repository

import (
	"context"

	"github.com/polkiloo/marketplace/internal/domain/model"
)

// EventRepository exposes the order events outbox.
type EventRepository interface {
	ClaimPending(ctx context.Context, limit int) ([]model.OrderEvent, error)
	MarkPublished(ctx context.Context, id int64) error
}
