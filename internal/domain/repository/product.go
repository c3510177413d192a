package repository

import (
	"context"

	"github.com/polkiloo/marketplace/internal/domain/model"
)

// ProductRepository provides access to the catalog.
type ProductRepository interface {
	Create(ctx context.Context, product *model.Product) (*model.Product, error)
	GetByID(ctx context.Context, id int64) (*model.Product, error)
	List(ctx context.Context, sellerID *int64) ([]model.Product, error)
	Update(ctx context.Context, product *model.Product) (*model.Product, error)
	// Delete fails with ErrConflict while orders still reference the product.
	Delete(ctx context.Context, id int64) error
}
