package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	domainErrors "github.com/polkiloo/marketplace/internal/domain/errors"
	"github.com/polkiloo/marketplace/internal/domain/model"
	"github.com/polkiloo/marketplace/internal/domain/repository"
)

type orderRepository struct {
	storage *Storage
}

var newEventID = uuid.NewString

const orderColumns = `id, buyer_id, seller_id, product_id, quantity, total_price, payment_method, current_status,
                      street, city, postal_code, country, version, created_at, updated_at`

// querier is satisfied by both the pool and a transaction.
type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

func scanOrder(row pgx.Row) (*model.Order, error) {
	var o model.Order
	err := row.Scan(
		&o.ID, &o.BuyerID, &o.SellerID, &o.ProductID, &o.Quantity, &o.TotalPrice, &o.PaymentMethod, &o.CurrentStatus,
		&o.ShippingAddress.Street, &o.ShippingAddress.City, &o.ShippingAddress.PostalCode, &o.ShippingAddress.Country,
		&o.Version, &o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *orderRepository) Create(ctx context.Context, order *model.Order) (*model.Order, error) {
	const insertOrder = `INSERT INTO orders (id, buyer_id, seller_id, product_id, quantity, total_price, payment_method,
                         current_status, street, city, postal_code, country, version, created_at, updated_at)
                         VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, 1, $13, $14)`

	created := order.Clone()
	created.Version = 1

	err := r.storage.WithinTransaction(ctx, func(tx pgx.Tx) error {
		a := created.ShippingAddress
		if _, err := tx.Exec(ctx, insertOrder,
			created.ID, created.BuyerID, created.SellerID, created.ProductID, created.Quantity, created.TotalPrice,
			string(created.PaymentMethod), string(created.CurrentStatus),
			a.Street, a.City, a.PostalCode, a.Country, created.CreatedAt, created.UpdatedAt,
		); err != nil {
			return mapError(err)
		}
		for i, entry := range created.StatusHistory {
			if err := insertHistory(ctx, tx, created.ID, i+1, entry); err != nil {
				return err
			}
		}
		return insertEvent(ctx, tx, model.NewCreatedEvent(newEventID(), created))
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (r *orderRepository) GetByID(ctx context.Context, id string) (*model.Order, error) {
	const query = `SELECT ` + orderColumns + ` FROM orders WHERE id=$1`
	order, err := scanOrder(r.storage.pool.QueryRow(ctx, query, id))
	if err != nil {
		return nil, mapError(err)
	}
	if err := loadHistory(ctx, r.storage.pool, []*model.Order{order}); err != nil {
		return nil, err
	}
	return order, nil
}

func (r *orderRepository) ListByBuyer(ctx context.Context, buyerID int64) ([]model.Order, error) {
	const query = `SELECT ` + orderColumns + ` FROM orders WHERE buyer_id=$1 ORDER BY created_at DESC, id DESC`
	return r.list(ctx, query, buyerID)
}

func (r *orderRepository) ListBySeller(ctx context.Context, sellerID int64) ([]model.Order, error) {
	const query = `SELECT ` + orderColumns + ` FROM orders WHERE seller_id=$1 ORDER BY created_at DESC, id DESC`
	return r.list(ctx, query, sellerID)
}

func (r *orderRepository) ListAll(ctx context.Context) ([]model.Order, error) {
	const query = `SELECT ` + orderColumns + ` FROM orders ORDER BY created_at DESC, id DESC`
	return r.list(ctx, query)
}

func (r *orderRepository) list(ctx context.Context, query string, args ...any) ([]model.Order, error) {
	rows, err := r.storage.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []*model.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	rows.Close()

	if err := loadHistory(ctx, r.storage.pool, orders); err != nil {
		return nil, err
	}

	result := make([]model.Order, 0, len(orders))
	for _, o := range orders {
		result = append(result, *o)
	}
	return result, nil
}

// UpdateStatus locks the order row, lets fn decide on the locked state and
// persists the new entry, the status change and an outbox event in one
// transaction. The version check guards against writers that bypass the lock.
func (r *orderRepository) UpdateStatus(ctx context.Context, id string, fn repository.TransitionFunc) (*model.Order, error) {
	const (
		lockQuery   = `SELECT ` + orderColumns + ` FROM orders WHERE id=$1 FOR UPDATE`
		updateQuery = `UPDATE orders SET current_status=$1, updated_at=$2, version=version+1
                       WHERE id=$3 AND version=$4`
	)

	var result *model.Order
	err := r.storage.WithinTransaction(ctx, func(tx pgx.Tx) error {
		order, err := scanOrder(tx.QueryRow(ctx, lockQuery, id))
		if err != nil {
			return mapError(err)
		}
		if err := loadHistory(ctx, tx, []*model.Order{order}); err != nil {
			return err
		}

		entry, err := fn(order.Clone())
		if err != nil {
			return err
		}

		from := order.CurrentStatus
		order.AppendStatus(entry)

		tag, err := tx.Exec(ctx, updateQuery, string(entry.Status), entry.Timestamp, order.ID, order.Version)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return domainErrors.ErrConflict
		}
		order.Version++

		if err := insertHistory(ctx, tx, order.ID, len(order.StatusHistory), entry); err != nil {
			return err
		}
		if err := insertEvent(ctx, tx, model.NewStatusChangedEvent(newEventID(), order, from, entry)); err != nil {
			return err
		}

		result = order
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func insertHistory(ctx context.Context, tx pgx.Tx, orderID string, seq int, entry model.StatusEntry) error {
	const query = `INSERT INTO order_status_history (order_id, seq, status, changed_at, updated_by)
                   VALUES ($1, $2, $3, $4, $5)`
	_, err := tx.Exec(ctx, query, orderID, seq, string(entry.Status), entry.Timestamp, entry.UpdatedBy)
	return err
}

func loadHistory(ctx context.Context, q querier, orders []*model.Order) error {
	if len(orders) == 0 {
		return nil
	}
	const query = `SELECT order_id, status, changed_at, updated_by
                   FROM order_status_history WHERE order_id = ANY($1) ORDER BY order_id, seq`

	ids := make([]string, 0, len(orders))
	byID := make(map[string]*model.Order, len(orders))
	for _, o := range orders {
		ids = append(ids, o.ID)
		byID[o.ID] = o
		o.StatusHistory = nil
	}

	rows, err := q.Query(ctx, query, ids)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			orderID string
			entry   model.StatusEntry
		)
		if err := rows.Scan(&orderID, &entry.Status, &entry.Timestamp, &entry.UpdatedBy); err != nil {
			return err
		}
		if o, ok := byID[orderID]; ok {
			o.StatusHistory = append(o.StatusHistory, entry)
		}
	}
	return rows.Err()
}
