package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/polkiloo/marketplace/internal/domain/model"
)

type eventRepository struct {
	storage *Storage
}

func insertEvent(ctx context.Context, tx pgx.Tx, e model.OrderEvent) error {
	const query = `INSERT INTO order_events (event_id, event_type, order_id, buyer_id, seller_id, from_status, status, actor_id, occurred_at)
                   VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := tx.Exec(ctx, query,
		e.EventID, string(e.Type), e.OrderID, e.BuyerID, e.SellerID, string(e.FromStatus), string(e.Status), e.ActorID, e.OccurredAt,
	)
	return err
}

// ClaimPending leases up to limit unpublished events. Rows locked by another
// relay are skipped; a lease older than a minute is considered abandoned.
func (r *eventRepository) ClaimPending(ctx context.Context, limit int) ([]model.OrderEvent, error) {
	const (
		selectQuery = `SELECT id, event_id, event_type, order_id, buyer_id, seller_id, from_status, status, actor_id, occurred_at
                       FROM order_events
                       WHERE published_at IS NULL AND (claimed_at IS NULL OR claimed_at < NOW() - INTERVAL '1 minute')
                       ORDER BY id
                       LIMIT $1
                       FOR UPDATE SKIP LOCKED`
		claimQuery = `UPDATE order_events SET claimed_at=NOW() WHERE id = ANY($1)`
	)

	var events []model.OrderEvent
	err := r.storage.WithinTransaction(ctx, func(tx pgx.Tx) error {
		rows, err := tx.Query(ctx, selectQuery, limit)
		if err != nil {
			return err
		}
		defer rows.Close()

		var ids []int64
		for rows.Next() {
			var e model.OrderEvent
			if err := rows.Scan(&e.ID, &e.EventID, &e.Type, &e.OrderID, &e.BuyerID, &e.SellerID, &e.FromStatus, &e.Status, &e.ActorID, &e.OccurredAt); err != nil {
				return err
			}
			ids = append(ids, e.ID)
			events = append(events, e)
		}
		if err := rows.Err(); err != nil {
			return err
		}
		rows.Close()

		if len(ids) == 0 {
			return nil
		}
		_, err = tx.Exec(ctx, claimQuery, ids)
		return err
	})
	if err != nil {
		return nil, err
	}
	return events, nil
}

func (r *eventRepository) MarkPublished(ctx context.Context, id int64) error {
	const query = `UPDATE order_events SET published_at=NOW() WHERE id=$1`
	_, err := r.storage.pool.Exec(ctx, query, id)
	return err
}
