package repository

import (
	"context"

	"github.com/polkiloo/marketplace/internal/domain/model"
)

// TransitionFunc inspects the locked order and returns the history entry to append.
// Returning an error aborts the update without side effects.
type TransitionFunc func(order *model.Order) (model.StatusEntry, error)

// OrderRepository describes persistence operations with orders.
type OrderRepository interface {
	Create(ctx context.Context, order *model.Order) (*model.Order, error)
	GetByID(ctx context.Context, id string) (*model.Order, error)
	ListByBuyer(ctx context.Context, buyerID int64) ([]model.Order, error)
	ListBySeller(ctx context.Context, sellerID int64) ([]model.Order, error)
	ListAll(ctx context.Context) ([]model.Order, error)
	// UpdateStatus serializes status changes per order: fn runs while the order is
	// exclusively held and its entry is persisted atomically with the new status.
	UpdateStatus(ctx context.Context, id string, fn TransitionFunc) (*model.Order, error)
}
