package app

import (
	"context"

	"github.com/polkiloo/marketplace/internal/domain/model"
	"github.com/polkiloo/marketplace/internal/usecase"
)

// HealthChecker reports whether backing storage is reachable.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// MarketplaceFacade is the single entry point the HTTP layer talks to.
type MarketplaceFacade struct {
	auth     *usecase.AuthUseCase
	users    *usecase.UserUseCase
	products *usecase.ProductUseCase
	orders   *usecase.OrderUseCase
	health   HealthChecker
}

func NewMarketplaceFacade(auth *usecase.AuthUseCase, users *usecase.UserUseCase, products *usecase.ProductUseCase, orders *usecase.OrderUseCase, health HealthChecker) *MarketplaceFacade {
	return &MarketplaceFacade{auth: auth, users: users, products: products, orders: orders, health: health}
}

func (f *MarketplaceFacade) Register(ctx context.Context, in usecase.RegisterInput) (*model.User, string, error) {
	return f.auth.Register(ctx, in)
}

func (f *MarketplaceFacade) Authenticate(ctx context.Context, email, password string) (*model.User, string, error) {
	return f.auth.Authenticate(ctx, email, password)
}

func (f *MarketplaceFacade) ResolvePrincipal(ctx context.Context, token string) (model.Principal, error) {
	return f.auth.ResolvePrincipal(ctx, token)
}

func (f *MarketplaceFacade) PlaceOrder(ctx context.Context, actor model.Principal, in usecase.CreateOrderInput) (*model.Order, error) {
	return f.orders.Create(ctx, actor, in)
}

func (f *MarketplaceFacade) Order(ctx context.Context, actor model.Principal, id string) (*model.Order, error) {
	return f.orders.Get(ctx, actor, id)
}

func (f *MarketplaceFacade) BuyerOrders(ctx context.Context, actor model.Principal) ([]model.Order, error) {
	return f.orders.ListForBuyer(ctx, actor)
}

func (f *MarketplaceFacade) SellerOrders(ctx context.Context, actor model.Principal) ([]model.Order, error) {
	return f.orders.ListForSeller(ctx, actor)
}

func (f *MarketplaceFacade) AllOrders(ctx context.Context, actor model.Principal) ([]model.Order, error) {
	return f.orders.ListAll(ctx, actor)
}

func (f *MarketplaceFacade) ChangeOrderStatus(ctx context.Context, actor model.Principal, id, status string) (*model.Order, error) {
	return f.orders.UpdateStatus(ctx, actor, id, status)
}

func (f *MarketplaceFacade) OrderTransitions(ctx context.Context, actor model.Principal, id string) (*model.Order, []model.OrderStatus, error) {
	return f.orders.AllowedTransitions(ctx, actor, id)
}

func (f *MarketplaceFacade) CreateProduct(ctx context.Context, actor model.Principal, in usecase.CreateProductInput) (*model.Product, error) {
	return f.products.Create(ctx, actor, in)
}

func (f *MarketplaceFacade) UpdateProduct(ctx context.Context, actor model.Principal, id int64, in usecase.UpdateProductInput) (*model.Product, error) {
	return f.products.Update(ctx, actor, id, in)
}

func (f *MarketplaceFacade) DeleteProduct(ctx context.Context, actor model.Principal, id int64) error {
	return f.products.Delete(ctx, actor, id)
}

func (f *MarketplaceFacade) Product(ctx context.Context, id int64) (*model.Product, error) {
	return f.products.Lookup(ctx, id)
}

func (f *MarketplaceFacade) Products(ctx context.Context, sellerID *int64) ([]model.Product, error) {
	return f.products.List(ctx, sellerID)
}

func (f *MarketplaceFacade) Users(ctx context.Context, actor model.Principal) ([]model.User, error) {
	return f.users.List(ctx, actor)
}

func (f *MarketplaceFacade) User(ctx context.Context, actor model.Principal, id int64) (*model.User, error) {
	return f.users.Get(ctx, actor, id)
}

func (f *MarketplaceFacade) SetUserActive(ctx context.Context, actor model.Principal, id int64, active bool) (*model.User, error) {
	return f.users.SetActive(ctx, actor, id, active)
}

func (f *MarketplaceFacade) Health(ctx context.Context) error {
	return f.health.HealthCheck(ctx)
}
