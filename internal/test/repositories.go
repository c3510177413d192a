package test

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	domainErrors "github.com/polkiloo/marketplace/internal/domain/errors"
	"github.com/polkiloo/marketplace/internal/domain/model"
	"github.com/polkiloo/marketplace/internal/domain/repository"
)

// UserRepositoryStub stores users in-memory for tests.
type UserRepositoryStub struct {
	mu      sync.Mutex
	ByEmail map[string]*model.User
	ByID    map[int64]*model.User
	Next    int64
	Err     error
}

// NewUserRepositoryStub constructs stub repository with initialized maps.
func NewUserRepositoryStub() *UserRepositoryStub {
	return &UserRepositoryStub{
		ByEmail: make(map[string]*model.User),
		ByID:    make(map[int64]*model.User),
		Next:    1,
	}
}

// Create registers user unless the email is taken or stub has explicit error.
func (s *UserRepositoryStub) Create(ctx context.Context, user *model.User) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	if _, exists := s.ByEmail[user.Email]; exists {
		return nil, domainErrors.ErrAlreadyExists
	}
	stored := *user
	stored.ID = s.Next
	s.Next++
	stored.CreatedAt = time.Now().UTC()
	stored.UpdatedAt = stored.CreatedAt
	s.ByEmail[stored.Email] = &stored
	s.ByID[stored.ID] = &stored
	out := stored
	return &out, nil
}

// Seed inserts user as is, keeping its identifier.
func (s *UserRepositoryStub) Seed(user model.User) *model.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored := user
	s.ByEmail[stored.Email] = &stored
	s.ByID[stored.ID] = &stored
	if stored.ID >= s.Next {
		s.Next = stored.ID + 1
	}
	return &stored
}

// GetByEmail fetches user by email or returns not found.
func (s *UserRepositoryStub) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	if user, ok := s.ByEmail[email]; ok {
		out := *user
		return &out, nil
	}
	return nil, domainErrors.ErrNotFound
}

// GetByID fetches user by identifier or returns not found.
func (s *UserRepositoryStub) GetByID(ctx context.Context, id int64) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	if user, ok := s.ByID[id]; ok {
		out := *user
		return &out, nil
	}
	return nil, domainErrors.ErrNotFound
}

// List returns users ordered by identifier.
func (s *UserRepositoryStub) List(ctx context.Context) ([]model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	users := make([]model.User, 0, len(s.ByID))
	for _, u := range s.ByID {
		users = append(users, *u)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	return users, nil
}

// SetActive flips account activity flag.
func (s *UserRepositoryStub) SetActive(ctx context.Context, id int64, active bool) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	user, ok := s.ByID[id]
	if !ok {
		return nil, domainErrors.ErrNotFound
	}
	user.Active = active
	out := *user
	return &out, nil
}

// ProductRepositoryStub keeps catalog entries in memory.
type ProductRepositoryStub struct {
	mu       sync.Mutex
	Products map[int64]*model.Product
	Next     int64
	Err      error

	// Ordered marks products that orders reference; deleting them conflicts.
	Ordered map[int64]bool
}

// NewProductRepositoryStub constructs an empty catalog.
func NewProductRepositoryStub(products ...model.Product) *ProductRepositoryStub {
	s := &ProductRepositoryStub{Products: make(map[int64]*model.Product), Next: 1}
	for _, p := range products {
		p := p
		s.Products[p.ID] = &p
		if p.ID >= s.Next {
			s.Next = p.ID + 1
		}
	}
	return s
}

// Create stores product and assigns identifier.
func (s *ProductRepositoryStub) Create(ctx context.Context, product *model.Product) (*model.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	stored := *product
	stored.ID = s.Next
	s.Next++
	s.Products[stored.ID] = &stored
	out := stored
	return &out, nil
}

// GetByID returns product or not found.
func (s *ProductRepositoryStub) GetByID(ctx context.Context, id int64) (*model.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	if p, ok := s.Products[id]; ok {
		out := *p
		return &out, nil
	}
	return nil, domainErrors.ErrNotFound
}

// List returns products, optionally filtered by seller.
func (s *ProductRepositoryStub) List(ctx context.Context, sellerID *int64) ([]model.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	var out []model.Product
	for _, p := range s.Products {
		if sellerID != nil && p.SellerID != *sellerID {
			continue
		}
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// Update overwrites mutable product fields.
func (s *ProductRepositoryStub) Update(ctx context.Context, product *model.Product) (*model.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	stored, ok := s.Products[product.ID]
	if !ok {
		return nil, domainErrors.ErrNotFound
	}
	stored.Title = product.Title
	stored.Price = product.Price
	stored.Stock = product.Stock
	stored.UpdatedAt = time.Now().UTC()
	out := *stored
	return &out, nil
}

// Delete removes a product unless it is marked as ordered.
func (s *ProductRepositoryStub) Delete(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	if _, ok := s.Products[id]; !ok {
		return domainErrors.ErrNotFound
	}
	if s.Ordered[id] {
		return fmt.Errorf("product is referenced by orders: %w", domainErrors.ErrConflict)
	}
	delete(s.Products, id)
	return nil
}

// OrderRepositoryStub is an in-memory order store. A single mutex makes
// UpdateStatus atomic, matching the row lock taken by the database.
type OrderRepositoryStub struct {
	mu     sync.Mutex
	Orders map[string]*model.Order
	Events []model.OrderEvent
	Err    error
}

// NewOrderRepositoryStub constructs an empty store.
func NewOrderRepositoryStub() *OrderRepositoryStub {
	return &OrderRepositoryStub{Orders: make(map[string]*model.Order)}
}

// Create stores a clone of order and records a created event.
func (s *OrderRepositoryStub) Create(ctx context.Context, order *model.Order) (*model.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	if _, exists := s.Orders[order.ID]; exists {
		return nil, domainErrors.ErrAlreadyExists
	}
	stored := order.Clone()
	stored.Version = 1
	s.Orders[stored.ID] = stored
	s.Events = append(s.Events, model.NewCreatedEvent(s.nextEventID(), stored))
	return stored.Clone(), nil
}

// GetByID returns a clone of stored order.
func (s *OrderRepositoryStub) GetByID(ctx context.Context, id string) (*model.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	if o, ok := s.Orders[id]; ok {
		return o.Clone(), nil
	}
	return nil, domainErrors.ErrNotFound
}

// ListByBuyer returns buyer's orders newest first.
func (s *OrderRepositoryStub) ListByBuyer(ctx context.Context, buyerID int64) ([]model.Order, error) {
	return s.list(func(o *model.Order) bool { return o.BuyerID == buyerID })
}

// ListBySeller returns seller's orders newest first.
func (s *OrderRepositoryStub) ListBySeller(ctx context.Context, sellerID int64) ([]model.Order, error) {
	return s.list(func(o *model.Order) bool { return o.SellerID == sellerID })
}

// ListAll returns every order newest first.
func (s *OrderRepositoryStub) ListAll(ctx context.Context) ([]model.Order, error) {
	return s.list(func(*model.Order) bool { return true })
}

// UpdateStatus applies fn under the store lock.
func (s *OrderRepositoryStub) UpdateStatus(ctx context.Context, id string, fn repository.TransitionFunc) (*model.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	stored, ok := s.Orders[id]
	if !ok {
		return nil, domainErrors.ErrNotFound
	}
	working := stored.Clone()
	entry, err := fn(working)
	if err != nil {
		return nil, err
	}
	from := working.CurrentStatus
	working.AppendStatus(entry)
	working.Version++
	s.Orders[id] = working
	s.Events = append(s.Events, model.NewStatusChangedEvent(s.nextEventID(), working, from, entry))
	return working.Clone(), nil
}

// RecordedEvents returns a snapshot of outbox entries written so far.
func (s *OrderRepositoryStub) RecordedEvents() []model.OrderEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.OrderEvent(nil), s.Events...)
}

func (s *OrderRepositoryStub) list(keep func(*model.Order) bool) ([]model.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	out := make([]model.Order, 0)
	for _, o := range s.Orders {
		if keep(o) {
			out = append(out, *o.Clone())
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (s *OrderRepositoryStub) nextEventID() string {
	return uuid.NewString()
}

// EventRepositoryStub lets tests script the outbox.
type EventRepositoryStub struct {
	mu        sync.Mutex
	Pending   []model.OrderEvent
	Published []int64
	ClaimErr  error
	MarkErr   error
}

// ClaimPending hands out up to limit pending events.
func (s *EventRepositoryStub) ClaimPending(ctx context.Context, limit int) ([]model.OrderEvent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ClaimErr != nil {
		return nil, s.ClaimErr
	}
	if limit > len(s.Pending) {
		limit = len(s.Pending)
	}
	batch := append([]model.OrderEvent(nil), s.Pending[:limit]...)
	s.Pending = s.Pending[limit:]
	return batch, nil
}

// MarkPublished records acknowledged event identifiers.
func (s *EventRepositoryStub) MarkPublished(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.MarkErr != nil {
		return s.MarkErr
	}
	s.Published = append(s.Published, id)
	return nil
}

// PublishedIDs returns a snapshot of acknowledged identifiers.
func (s *EventRepositoryStub) PublishedIDs() []int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]int64(nil), s.Published...)
}

var (
	_ repository.UserRepository    = (*UserRepositoryStub)(nil)
	_ repository.ProductRepository = (*ProductRepositoryStub)(nil)
	_ repository.OrderRepository   = (*OrderRepositoryStub)(nil)
	_ repository.EventRepository   = (*EventRepositoryStub)(nil)
)
