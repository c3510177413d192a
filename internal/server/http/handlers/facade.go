package handlers

import (
	"context"

	"github.com/polkiloo/marketplace/internal/domain/model"
	"github.com/polkiloo/marketplace/internal/server/http/middleware"
	"github.com/polkiloo/marketplace/internal/usecase"
)

// AuthFacade describes account capabilities required by handlers.
type AuthFacade interface {
	Register(ctx context.Context, in usecase.RegisterInput) (*model.User, string, error)
	Authenticate(ctx context.Context, email, password string) (*model.User, string, error)
}

// OrderFacade encapsulates order operations exposed via HTTP.
type OrderFacade interface {
	PlaceOrder(ctx context.Context, actor model.Principal, in usecase.CreateOrderInput) (*model.Order, error)
	Order(ctx context.Context, actor model.Principal, id string) (*model.Order, error)
	BuyerOrders(ctx context.Context, actor model.Principal) ([]model.Order, error)
	SellerOrders(ctx context.Context, actor model.Principal) ([]model.Order, error)
	AllOrders(ctx context.Context, actor model.Principal) ([]model.Order, error)
	ChangeOrderStatus(ctx context.Context, actor model.Principal, id, status string) (*model.Order, error)
	OrderTransitions(ctx context.Context, actor model.Principal, id string) (*model.Order, []model.OrderStatus, error)
}

// ProductFacade provides catalog operations.
type ProductFacade interface {
	CreateProduct(ctx context.Context, actor model.Principal, in usecase.CreateProductInput) (*model.Product, error)
	UpdateProduct(ctx context.Context, actor model.Principal, id int64, in usecase.UpdateProductInput) (*model.Product, error)
	DeleteProduct(ctx context.Context, actor model.Principal, id int64) error
	Product(ctx context.Context, id int64) (*model.Product, error)
	Products(ctx context.Context, sellerID *int64) ([]model.Product, error)
}

// AdminFacade provides account management.
type AdminFacade interface {
	Users(ctx context.Context, actor model.Principal) ([]model.User, error)
	User(ctx context.Context, actor model.Principal, id int64) (*model.User, error)
	SetUserActive(ctx context.Context, actor model.Principal, id int64, active bool) (*model.User, error)
}

type HealthFacade interface {
	Health(ctx context.Context) error
}

// MarketplaceFacade aggregates the full set of operations used across handlers.
type MarketplaceFacade interface {
	middleware.PrincipalResolver
	AuthFacade
	OrderFacade
	ProductFacade
	AdminFacade
	HealthFacade
}
