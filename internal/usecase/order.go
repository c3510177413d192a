package usecase

import (
	"context"
	"log/slog"
	"math"
	"time"

	"github.com/google/uuid"

	domainErrors "github.com/polkiloo/marketplace/internal/domain/errors"
	"github.com/polkiloo/marketplace/internal/domain/lifecycle"
	"github.com/polkiloo/marketplace/internal/domain/model"
	"github.com/polkiloo/marketplace/internal/domain/repository"
	"github.com/polkiloo/marketplace/internal/pkg/metrics"
)

// OrderUseCase places orders and drives them through the status lifecycle.
type OrderUseCase struct {
	orders   repository.OrderRepository
	products ProductLookup
	metrics  *metrics.Metrics
	logger   *slog.Logger

	now   func() time.Time
	newID func() string
}

// NewOrderUseCase constructs OrderUseCase.
func NewOrderUseCase(orders repository.OrderRepository, products ProductLookup, m *metrics.Metrics, logger *slog.Logger) *OrderUseCase {
	return &OrderUseCase{
		orders:   orders,
		products: products,
		metrics:  m,
		logger:   logger,
		now:      time.Now,
		newID:    uuid.NewString,
	}
}

// Create places an order for a single product on behalf of a buyer.
// Seller and price are copied from the product at this moment.
func (u *OrderUseCase) Create(ctx context.Context, actor model.Principal, in CreateOrderInput) (*model.Order, error) {
	if err := requireRole(actor, model.RoleBuyer); err != nil {
		return nil, err
	}

	payment, err := validateCreateOrder(in)
	if err != nil {
		return nil, err
	}

	product, err := u.products.Lookup(ctx, in.ProductID)
	if err != nil {
		return nil, domainErrors.Service(err)
	}
	if product.Price > 0 && int64(in.Quantity) > math.MaxInt64/product.Price {
		return nil, domainErrors.Validation("order total exceeds the supported amount")
	}

	order := model.NewOrder(u.newID(), actor.ID, product, in.Quantity, normalizeAddress(in.ShippingAddress), payment, u.now().UTC())

	created, err := u.orders.Create(ctx, order)
	if err != nil {
		return nil, domainErrors.Service(err)
	}

	u.metrics.OrdersCreated.Inc()
	u.logger.InfoContext(ctx, "order created",
		"order_id", created.ID,
		"buyer_id", created.BuyerID,
		"seller_id", created.SellerID,
		"total_price", created.TotalPrice,
	)
	return created, nil
}

// Get returns an order visible to the actor: its buyer, its seller or any admin.
func (u *OrderUseCase) Get(ctx context.Context, actor model.Principal, id string) (*model.Order, error) {
	if err := requirePrincipal(actor); err != nil {
		return nil, err
	}
	if _, err := uuid.Parse(id); err != nil {
		return nil, domainErrors.ErrNotFound
	}

	order, err := u.orders.GetByID(ctx, id)
	if err != nil {
		return nil, domainErrors.Service(err)
	}
	if !canAccess(actor, order) {
		return nil, domainErrors.ErrForbidden
	}
	return order, nil
}

// ListForBuyer returns orders the actor placed, newest first.
func (u *OrderUseCase) ListForBuyer(ctx context.Context, actor model.Principal) ([]model.Order, error) {
	if err := requireRole(actor, model.RoleBuyer); err != nil {
		return nil, err
	}
	orders, err := u.orders.ListByBuyer(ctx, actor.ID)
	if err != nil {
		return nil, domainErrors.Service(err)
	}
	return orders, nil
}

// ListForSeller returns orders placed against the actor's products, newest first.
func (u *OrderUseCase) ListForSeller(ctx context.Context, actor model.Principal) ([]model.Order, error) {
	if err := requireRole(actor, model.RoleSeller); err != nil {
		return nil, err
	}
	orders, err := u.orders.ListBySeller(ctx, actor.ID)
	if err != nil {
		return nil, domainErrors.Service(err)
	}
	return orders, nil
}

// ListAll returns every order. Admin only.
func (u *OrderUseCase) ListAll(ctx context.Context, actor model.Principal) ([]model.Order, error) {
	if err := requireRole(actor, model.RoleAdmin); err != nil {
		return nil, err
	}
	orders, err := u.orders.ListAll(ctx)
	if err != nil {
		return nil, domainErrors.Service(err)
	}
	return orders, nil
}

// UpdateStatus moves an order to requested if the lifecycle policy allows it.
// Concurrent calls for one order are serialized by the repository, so the
// policy always sees the latest committed status.
func (u *OrderUseCase) UpdateStatus(ctx context.Context, actor model.Principal, id string, requested string) (*model.Order, error) {
	if err := requirePrincipal(actor); err != nil {
		return nil, err
	}
	next, ok := model.ParseOrderStatus(requested)
	if !ok {
		return nil, domainErrors.Validation("unknown status %q", requested)
	}
	if _, err := uuid.Parse(id); err != nil {
		return nil, domainErrors.ErrNotFound
	}

	var from model.OrderStatus
	updated, err := u.orders.UpdateStatus(ctx, id, func(o *model.Order) (model.StatusEntry, error) {
		if !canAccess(actor, o) {
			return model.StatusEntry{}, domainErrors.ErrForbidden
		}
		if !lifecycle.CanTransition(o.CurrentStatus, next, actor.Role) {
			u.metrics.RejectedChanges.WithLabelValues(string(o.CurrentStatus), string(next), string(actor.Role)).Inc()
			return model.StatusEntry{}, &domainErrors.TransitionError{
				From: string(o.CurrentStatus),
				To:   string(next),
				Role: string(actor.Role),
			}
		}
		from = o.CurrentStatus
		by := actor.ID
		return model.StatusEntry{Status: next, Timestamp: u.now().UTC(), UpdatedBy: &by}, nil
	})
	if err != nil {
		return nil, domainErrors.Service(err)
	}

	u.metrics.Transitions.WithLabelValues(string(from), string(next), string(actor.Role)).Inc()
	u.logger.InfoContext(ctx, "order status changed",
		"order_id", updated.ID,
		"from", from,
		"to", next,
		"actor_id", actor.ID,
		"role", actor.Role,
	)
	return updated, nil
}

// AllowedTransitions returns the order together with the statuses the actor
// may request for it, both taken from the same read.
func (u *OrderUseCase) AllowedTransitions(ctx context.Context, actor model.Principal, id string) (*model.Order, []model.OrderStatus, error) {
	order, err := u.Get(ctx, actor, id)
	if err != nil {
		return nil, nil, err
	}
	return order, lifecycle.AllowedTransitions(order.CurrentStatus, actor.Role), nil
}

func canAccess(actor model.Principal, o *model.Order) bool {
	switch actor.Role {
	case model.RoleAdmin:
		return true
	case model.RoleSeller:
		return o.SellerID == actor.ID
	case model.RoleBuyer:
		return o.BuyerID == actor.ID
	}
	return false
}
