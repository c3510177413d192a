package usecase

import (
	"context"
	"strings"

	domainErrors "github.com/polkiloo/marketplace/internal/domain/errors"
	"github.com/polkiloo/marketplace/internal/domain/model"
	"github.com/polkiloo/marketplace/internal/domain/repository"
)

// ProductLookup resolves catalog entries for order placement.
type ProductLookup interface {
	Lookup(ctx context.Context, id int64) (*model.Product, error)
}

// CreateProductInput carries listing data from a seller.
type CreateProductInput struct {
	Title string
	Price int64
	Stock int
}

// UpdateProductInput carries a partial edit; nil fields keep their value.
type UpdateProductInput struct {
	Title *string
	Price *int64
	Stock *int
}

// ProductUseCase manages the minimal catalog.
type ProductUseCase struct {
	products repository.ProductRepository
}

// NewProductUseCase constructs ProductUseCase.
func NewProductUseCase(products repository.ProductRepository) *ProductUseCase {
	return &ProductUseCase{products: products}
}

// Create lists a product owned by the acting seller.
func (u *ProductUseCase) Create(ctx context.Context, actor model.Principal, in CreateProductInput) (*model.Product, error) {
	if err := requireRole(actor, model.RoleSeller); err != nil {
		return nil, err
	}

	title := strings.TrimSpace(in.Title)
	if err := validateProduct(title, in.Price, in.Stock); err != nil {
		return nil, err
	}

	product, err := u.products.Create(ctx, &model.Product{
		SellerID: actor.ID,
		Title:    title,
		Price:    in.Price,
		Stock:    in.Stock,
	})
	if err != nil {
		return nil, domainErrors.Service(err)
	}
	return product, nil
}

// Lookup returns the product or ErrNotFound.
func (u *ProductUseCase) Lookup(ctx context.Context, id int64) (*model.Product, error) {
	if id <= 0 {
		return nil, domainErrors.ErrNotFound
	}
	product, err := u.products.GetByID(ctx, id)
	if err != nil {
		return nil, domainErrors.Service(err)
	}
	return product, nil
}

// List returns catalog entries, optionally restricted to one seller.
func (u *ProductUseCase) List(ctx context.Context, sellerID *int64) ([]model.Product, error) {
	products, err := u.products.List(ctx, sellerID)
	if err != nil {
		return nil, domainErrors.Service(err)
	}
	return products, nil
}

// Update edits a product owned by the acting seller. Existing orders keep
// the seller and price they captured at checkout.
func (u *ProductUseCase) Update(ctx context.Context, actor model.Principal, id int64, in UpdateProductInput) (*model.Product, error) {
	product, err := u.owned(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	if in.Title != nil {
		product.Title = strings.TrimSpace(*in.Title)
	}
	if in.Price != nil {
		product.Price = *in.Price
	}
	if in.Stock != nil {
		product.Stock = *in.Stock
	}
	if err := validateProduct(product.Title, product.Price, product.Stock); err != nil {
		return nil, err
	}

	updated, err := u.products.Update(ctx, product)
	if err != nil {
		return nil, domainErrors.Service(err)
	}
	return updated, nil
}

// Delete removes a product owned by the acting seller. Products that
// orders reference cannot be removed.
func (u *ProductUseCase) Delete(ctx context.Context, actor model.Principal, id int64) error {
	if _, err := u.owned(ctx, actor, id); err != nil {
		return err
	}
	return domainErrors.Service(u.products.Delete(ctx, id))
}

func (u *ProductUseCase) owned(ctx context.Context, actor model.Principal, id int64) (*model.Product, error) {
	if err := requireRole(actor, model.RoleSeller); err != nil {
		return nil, err
	}
	product, err := u.Lookup(ctx, id)
	if err != nil {
		return nil, err
	}
	if product.SellerID != actor.ID {
		return nil, domainErrors.ErrForbidden
	}
	return product, nil
}

func validateProduct(title string, price int64, stock int) error {
	switch {
	case title == "":
		return domainErrors.Validation("title is required")
	case price < 0:
		return domainErrors.Validation("price must not be negative")
	case stock < 0:
		return domainErrors.Validation("stock must not be negative")
	}
	return nil
}
