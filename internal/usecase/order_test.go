package usecase

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	domainErrors "github.com/polkiloo/marketplace/internal/domain/errors"
	"github.com/polkiloo/marketplace/internal/domain/model"
	"github.com/polkiloo/marketplace/internal/pkg/metrics"
	testhelpers "github.com/polkiloo/marketplace/internal/test"
)

var (
	buyer    = model.Principal{ID: 1, Role: model.RoleBuyer, Active: true}
	seller   = model.Principal{ID: 2, Role: model.RoleSeller, Active: true}
	admin    = model.Principal{ID: 3, Role: model.RoleAdmin, Active: true}
	stranger = model.Principal{ID: 4, Role: model.RoleBuyer, Active: true}
	rival    = model.Principal{ID: 5, Role: model.RoleSeller, Active: true}
)

type orderFixture struct {
	uc       *OrderUseCase
	orders   *testhelpers.OrderRepositoryStub
	products *ProductUseCase
	metrics  *metrics.Metrics
	now      time.Time
}

func newOrderFixture(t *testing.T) *orderFixture {
	t.Helper()
	products := NewProductUseCase(testhelpers.NewProductRepositoryStub(
		model.Product{ID: 10, SellerID: seller.ID, Title: "Tea set", Price: 1299, Stock: 5},
		model.Product{ID: 11, SellerID: seller.ID, Title: "Gold bar", Price: math.MaxInt64 / 2, Stock: 5},
	))
	orders := testhelpers.NewOrderRepositoryStub()
	m := metrics.New()
	uc := NewOrderUseCase(orders, products, m, testhelpers.DiscardLogger())

	f := &orderFixture{uc: uc, orders: orders, products: products, metrics: m, now: time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)}
	var seq int
	uc.now = func() time.Time {
		f.now = f.now.Add(time.Second)
		return f.now
	}
	uc.newID = func() string {
		seq++
		return fmt.Sprintf("00000000-0000-4000-8000-%012d", seq)
	}
	return f
}

func (f *orderFixture) place(t *testing.T, quantity int) *model.Order {
	t.Helper()
	order, err := f.uc.Create(context.Background(), buyer, CreateOrderInput{
		ProductID:       10,
		Quantity:        quantity,
		ShippingAddress: validAddress(),
	})
	if err != nil {
		t.Fatalf("create order: %v", err)
	}
	return order
}

func (f *orderFixture) advance(t *testing.T, id string, actor model.Principal, statuses ...model.OrderStatus) *model.Order {
	t.Helper()
	var order *model.Order
	for _, st := range statuses {
		var err error
		order, err = f.uc.UpdateStatus(context.Background(), actor, id, string(st))
		if err != nil {
			t.Fatalf("advance to %s: %v", st, err)
		}
	}
	return order
}

func TestCreateOrderInitialState(t *testing.T) {
	f := newOrderFixture(t)
	order := f.place(t, 3)

	if order.TotalPrice != 3897 {
		t.Fatalf("expected total 3897, got %d", order.TotalPrice)
	}
	if order.CurrentStatus != model.OrderStatusPendingApproval || len(order.StatusHistory) != 1 {
		t.Fatalf("unexpected initial state %+v", order)
	}
	if order.StatusHistory[0].UpdatedBy != nil {
		t.Fatal("initial history entry must not carry an actor")
	}
	if order.SellerID != seller.ID || order.BuyerID != buyer.ID {
		t.Fatalf("unexpected parties %d/%d", order.BuyerID, order.SellerID)
	}
	if order.PaymentMethod != model.PaymentCashOnDelivery {
		t.Fatalf("expected default payment method, got %q", order.PaymentMethod)
	}
	if got := testutil.ToFloat64(f.metrics.OrdersCreated); got != 1 {
		t.Fatalf("expected orders created counter 1, got %v", got)
	}
	events := f.orders.RecordedEvents()
	if len(events) != 1 || events[0].Type != model.OrderEventCreated {
		t.Fatalf("expected created event, got %+v", events)
	}
}

func TestOrderKeepsSnapshotAfterProductChange(t *testing.T) {
	f := newOrderFixture(t)
	ctx := context.Background()
	order := f.place(t, 3)

	price := int64(4999)
	if _, err := f.products.Update(ctx, seller, 10, UpdateProductInput{Price: &price}); err != nil {
		t.Fatalf("update product: %v", err)
	}
	if p, _ := f.products.Lookup(ctx, 10); p.Price != 4999 {
		t.Fatalf("expected product price to change, got %d", p.Price)
	}

	stored, err := f.uc.Get(ctx, buyer, order.ID)
	if err != nil {
		t.Fatalf("get order: %v", err)
	}
	if stored.TotalPrice != 3897 || stored.SellerID != seller.ID || stored.ProductID != 10 {
		t.Fatalf("order must keep its snapshot, got %+v", stored)
	}

	next := f.place(t, 1)
	if next.TotalPrice != 4999 {
		t.Fatalf("new orders must use the current price, got %d", next.TotalPrice)
	}
}

func TestCreateOrderRejections(t *testing.T) {
	f := newOrderFixture(t)
	ctx := context.Background()
	in := CreateOrderInput{ProductID: 10, Quantity: 1, ShippingAddress: validAddress()}

	cases := []struct {
		name  string
		actor model.Principal
		in    CreateOrderInput
		want  error
	}{
		{"seller cannot buy", seller, in, domainErrors.ErrForbidden},
		{"admin cannot buy", admin, in, domainErrors.ErrForbidden},
		{"anonymous", model.Principal{}, in, domainErrors.ErrUnauthenticated},
		{"inactive", model.Principal{ID: 1, Role: model.RoleBuyer}, in, domainErrors.ErrInactiveAccount},
		{"unknown product", buyer, CreateOrderInput{ProductID: 99, Quantity: 1, ShippingAddress: validAddress()}, domainErrors.ErrNotFound},
		{"zero quantity", buyer, CreateOrderInput{ProductID: 10, ShippingAddress: validAddress()}, domainErrors.ErrValidation},
		{"missing address", buyer, CreateOrderInput{ProductID: 10, Quantity: 1}, domainErrors.ErrValidation},
		{"quantity above cap", buyer, CreateOrderInput{ProductID: 10, Quantity: math.MaxInt64/1299 + 1, ShippingAddress: validAddress()}, domainErrors.ErrValidation},
		{"total overflows", buyer, CreateOrderInput{ProductID: 11, Quantity: 3, ShippingAddress: validAddress()}, domainErrors.ErrValidation},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := f.uc.Create(ctx, tc.actor, tc.in); !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
	if events := f.orders.RecordedEvents(); len(events) != 0 {
		t.Fatalf("rejected creations must not emit events, got %d", len(events))
	}
}

func TestSellerMovesOrderToProcessing(t *testing.T) {
	f := newOrderFixture(t)
	order := f.place(t, 1)

	updated, err := f.uc.UpdateStatus(context.Background(), seller, order.ID, "Processing")
	if err != nil {
		t.Fatalf("update status: %v", err)
	}
	if len(updated.StatusHistory) != 2 {
		t.Fatalf("expected 2 history entries, got %d", len(updated.StatusHistory))
	}
	last, _ := updated.LastEntry()
	if last.Status != model.OrderStatusProcessing || updated.CurrentStatus != model.OrderStatusProcessing {
		t.Fatalf("unexpected last entry %+v", last)
	}
	if last.UpdatedBy == nil || *last.UpdatedBy != seller.ID {
		t.Fatalf("expected entry attributed to seller, got %v", last.UpdatedBy)
	}
	if !updated.InvariantsHold() {
		t.Fatal("invariants violated")
	}
	if got := testutil.ToFloat64(f.metrics.Transitions.WithLabelValues("Pending Approval", "Processing", "seller")); got != 1 {
		t.Fatalf("expected transition counter 1, got %v", got)
	}
}

func TestBuyerCannotCompleteDelivery(t *testing.T) {
	f := newOrderFixture(t)
	order := f.place(t, 1)
	f.advance(t, order.ID, seller, model.OrderStatusProcessing, model.OrderStatusOutForDelivery)

	_, err := f.uc.UpdateStatus(context.Background(), buyer, order.ID, "Completed")
	if !errors.Is(err, domainErrors.ErrInvalidTransition) {
		t.Fatalf("expected invalid transition, got %v", err)
	}
	var te *domainErrors.TransitionError
	if !errors.As(err, &te) || te.From != "Out for Delivery" || te.Role != "buyer" {
		t.Fatalf("unexpected transition error %#v", err)
	}

	stored, _ := f.orders.GetByID(context.Background(), order.ID)
	if len(stored.StatusHistory) != 3 || stored.CurrentStatus != model.OrderStatusOutForDelivery {
		t.Fatalf("rejected change must not mutate order: %+v", stored)
	}
	if got := testutil.ToFloat64(f.metrics.RejectedChanges.WithLabelValues("Out for Delivery", "Completed", "buyer")); got != 1 {
		t.Fatalf("expected rejected counter 1, got %v", got)
	}
}

func TestRepeatedInvalidTransitionLeavesOrderUntouched(t *testing.T) {
	f := newOrderFixture(t)
	ctx := context.Background()
	order := f.place(t, 1)
	f.advance(t, order.ID, seller, model.OrderStatusProcessing)

	for i := 0; i < 2; i++ {
		_, err := f.uc.UpdateStatus(ctx, buyer, order.ID, "Cancelled")
		if !errors.Is(err, domainErrors.ErrInvalidTransition) {
			t.Fatalf("attempt %d: expected invalid transition, got %v", i+1, err)
		}
		stored, err := f.uc.Get(ctx, buyer, order.ID)
		if err != nil {
			t.Fatalf("attempt %d: get order: %v", i+1, err)
		}
		if len(stored.StatusHistory) != 2 || stored.CurrentStatus != model.OrderStatusProcessing {
			t.Fatalf("attempt %d: rejected change mutated order: %+v", i+1, stored)
		}
	}
	if got := testutil.ToFloat64(f.metrics.RejectedChanges.WithLabelValues("Processing", "Cancelled", "buyer")); got != 2 {
		t.Fatalf("expected rejected counter 2, got %v", got)
	}
}

func TestStatusHistoryEntriesAreNeverRewritten(t *testing.T) {
	f := newOrderFixture(t)
	ctx := context.Background()
	order := f.place(t, 1)
	processing := f.advance(t, order.ID, seller, model.OrderStatusProcessing)
	before := processing.Clone().StatusHistory

	f.advance(t, order.ID, admin, model.OrderStatusOutForDelivery, model.OrderStatusCompleted)
	if _, err := f.uc.UpdateStatus(ctx, seller, order.ID, "Cancelled"); !errors.Is(err, domainErrors.ErrInvalidTransition) {
		t.Fatalf("expected invalid transition, got %v", err)
	}

	stored, err := f.uc.Get(ctx, admin, order.ID)
	if err != nil {
		t.Fatalf("get order: %v", err)
	}
	if len(stored.StatusHistory) != 4 {
		t.Fatalf("expected 4 history entries, got %d", len(stored.StatusHistory))
	}
	for i, want := range before {
		got := stored.StatusHistory[i]
		if got.Status != want.Status || !got.Timestamp.Equal(want.Timestamp) {
			t.Fatalf("entry %d rewritten: %+v -> %+v", i, want, got)
		}
		if (got.UpdatedBy == nil) != (want.UpdatedBy == nil) || (got.UpdatedBy != nil && *got.UpdatedBy != *want.UpdatedBy) {
			t.Fatalf("entry %d actor rewritten: %v -> %v", i, want.UpdatedBy, got.UpdatedBy)
		}
	}
	last, _ := stored.LastEntry()
	if last.UpdatedBy == nil || *last.UpdatedBy != admin.ID {
		t.Fatalf("expected last entry attributed to admin, got %v", last.UpdatedBy)
	}
}

func TestTerminalOrderRejectsEveryTarget(t *testing.T) {
	f := newOrderFixture(t)
	order := f.place(t, 1)
	f.advance(t, order.ID, seller, model.OrderStatusProcessing, model.OrderStatusOutForDelivery, model.OrderStatusCompleted)

	for _, st := range model.OrderStatuses {
		_, err := f.uc.UpdateStatus(context.Background(), admin, order.ID, string(st))
		if !errors.Is(err, domainErrors.ErrInvalidTransition) {
			t.Fatalf("target %s: expected invalid transition, got %v", st, err)
		}
	}
}

func TestGetOrderAccess(t *testing.T) {
	f := newOrderFixture(t)
	order := f.place(t, 2)
	ctx := context.Background()

	for _, p := range []model.Principal{buyer, seller, admin} {
		got, err := f.uc.Get(ctx, p, order.ID)
		if err != nil || got.ID != order.ID {
			t.Fatalf("principal %+v: unexpected result %v, %v", p, got, err)
		}
	}
	for _, p := range []model.Principal{stranger, rival} {
		if _, err := f.uc.Get(ctx, p, order.ID); !errors.Is(err, domainErrors.ErrForbidden) {
			t.Fatalf("principal %+v: expected forbidden, got %v", p, err)
		}
	}
	if _, err := f.uc.Get(ctx, admin, "not-a-uuid"); !errors.Is(err, domainErrors.ErrNotFound) {
		t.Fatalf("expected not found for malformed id, got %v", err)
	}
	if _, err := f.uc.Get(ctx, admin, "00000000-0000-4000-8000-999999999999"); !errors.Is(err, domainErrors.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestUpdateStatusRejections(t *testing.T) {
	f := newOrderFixture(t)
	order := f.place(t, 1)
	ctx := context.Background()

	if _, err := f.uc.UpdateStatus(ctx, seller, order.ID, "Shipped"); !errors.Is(err, domainErrors.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if _, err := f.uc.UpdateStatus(ctx, rival, order.ID, "Processing"); !errors.Is(err, domainErrors.ErrForbidden) {
		t.Fatalf("expected forbidden for foreign seller, got %v", err)
	}
	if _, err := f.uc.UpdateStatus(ctx, stranger, order.ID, "Cancelled"); !errors.Is(err, domainErrors.ErrForbidden) {
		t.Fatalf("expected forbidden for foreign buyer, got %v", err)
	}
	if _, err := f.uc.UpdateStatus(ctx, buyer, order.ID, "Processing"); !errors.Is(err, domainErrors.ErrInvalidTransition) {
		t.Fatalf("expected invalid transition for buyer, got %v", err)
	}
	if _, err := f.uc.UpdateStatus(ctx, seller, "bad-id", "Processing"); !errors.Is(err, domainErrors.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}

	cancelled, err := f.uc.UpdateStatus(ctx, buyer, order.ID, "Cancelled")
	if err != nil {
		t.Fatalf("buyer should cancel pending order: %v", err)
	}
	if cancelled.CurrentStatus != model.OrderStatusCancelled {
		t.Fatalf("unexpected status %s", cancelled.CurrentStatus)
	}
}

func TestUpdateStatusWrapsInfrastructureErrors(t *testing.T) {
	f := newOrderFixture(t)
	order := f.place(t, 1)
	f.orders.Err = errors.New("connection refused")

	_, err := f.uc.UpdateStatus(context.Background(), seller, order.ID, "Processing")
	if !errors.Is(err, domainErrors.ErrService) {
		t.Fatalf("expected service error, got %v", err)
	}
}

func TestConcurrentStatusChangesAreSerialized(t *testing.T) {
	f := newOrderFixture(t)
	order := f.place(t, 1)

	const workers = 16
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		success  int
		rejected int
	)
	targets := []model.OrderStatus{model.OrderStatusProcessing, model.OrderStatusRejected, model.OrderStatusCancelled}
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(target model.OrderStatus) {
			defer wg.Done()
			_, err := f.uc.UpdateStatus(context.Background(), seller, order.ID, string(target))
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				success++
			case errors.Is(err, domainErrors.ErrInvalidTransition):
				rejected++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}(targets[i%len(targets)])
	}
	wg.Wait()

	stored, _ := f.orders.GetByID(context.Background(), order.ID)
	if !stored.InvariantsHold() {
		t.Fatalf("invariants violated: %+v", stored)
	}
	for i := 1; i < len(stored.StatusHistory); i++ {
		prev, next := stored.StatusHistory[i-1].Status, stored.StatusHistory[i].Status
		allowed := false
		for _, st := range []model.OrderStatus{model.OrderStatusProcessing, model.OrderStatusRejected, model.OrderStatusCancelled} {
			if prev == model.OrderStatusPendingApproval && next == st {
				allowed = true
			}
		}
		if prev == model.OrderStatusProcessing && next == model.OrderStatusCancelled {
			allowed = true
		}
		if !allowed {
			t.Fatalf("history contains illegal step %s -> %s", prev, next)
		}
	}
	if success+rejected != workers || success != len(stored.StatusHistory)-1 {
		t.Fatalf("success=%d rejected=%d history=%d", success, rejected, len(stored.StatusHistory))
	}
}

func TestListings(t *testing.T) {
	f := newOrderFixture(t)
	first := f.place(t, 1)
	second := f.place(t, 2)
	ctx := context.Background()

	mine, err := f.uc.ListForBuyer(ctx, buyer)
	if err != nil || len(mine) != 2 || mine[0].ID != second.ID || mine[1].ID != first.ID {
		t.Fatalf("unexpected buyer listing %v, %v", mine, err)
	}
	selling, err := f.uc.ListForSeller(ctx, seller)
	if err != nil || len(selling) != 2 {
		t.Fatalf("unexpected seller listing %v, %v", selling, err)
	}
	empty, err := f.uc.ListForSeller(ctx, rival)
	if err != nil || len(empty) != 0 {
		t.Fatalf("expected empty listing, got %v, %v", empty, err)
	}
	all, err := f.uc.ListAll(ctx, admin)
	if err != nil || len(all) != 2 {
		t.Fatalf("unexpected admin listing %v, %v", all, err)
	}

	if _, err := f.uc.ListForBuyer(ctx, seller); !errors.Is(err, domainErrors.ErrForbidden) {
		t.Fatalf("expected forbidden, got %v", err)
	}
	if _, err := f.uc.ListForSeller(ctx, buyer); !errors.Is(err, domainErrors.ErrForbidden) {
		t.Fatalf("expected forbidden, got %v", err)
	}
	if _, err := f.uc.ListAll(ctx, seller); !errors.Is(err, domainErrors.ErrForbidden) {
		t.Fatalf("expected forbidden, got %v", err)
	}
}

func TestAllowedTransitionsForActor(t *testing.T) {
	f := newOrderFixture(t)
	order := f.place(t, 1)
	ctx := context.Background()

	current, got, err := f.uc.AllowedTransitions(ctx, buyer, order.ID)
	if err != nil || len(got) != 1 || got[0] != model.OrderStatusCancelled {
		t.Fatalf("unexpected buyer transitions %v, %v", got, err)
	}
	if current.ID != order.ID || current.CurrentStatus != model.OrderStatusPendingApproval {
		t.Fatalf("unexpected order %+v", current)
	}

	f.advance(t, order.ID, seller, model.OrderStatusProcessing)
	current, got, err = f.uc.AllowedTransitions(ctx, seller, order.ID)
	if err != nil || current.CurrentStatus != model.OrderStatusProcessing || len(got) != 2 {
		t.Fatalf("unexpected seller transitions from %+v: %v, %v", current, got, err)
	}
	if _, _, err := f.uc.AllowedTransitions(ctx, stranger, order.ID); !errors.Is(err, domainErrors.ErrForbidden) {
		t.Fatalf("expected forbidden, got %v", err)
	}
}
