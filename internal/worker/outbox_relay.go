package worker

import (
	"context"
	"hash/fnv"
	"log/slog"
	"sync"
	"time"

	"github.com/polkiloo/marketplace/internal/domain/model"
	"github.com/polkiloo/marketplace/internal/domain/repository"
	"github.com/polkiloo/marketplace/internal/pkg/metrics"
)

// EventPublisher is the subset of the events adapter used by the relay.
type EventPublisher interface {
	Publish(ctx context.Context, event model.OrderEvent) error
}

// OutboxRelay polls the order event outbox and publishes events concurrently.
// Events of one order always go to the same worker, so they leave in commit
// order. Once an event fails, later events of the same order in that batch are
// held back and retried with it after the lease expires.
type OutboxRelay struct {
	events       repository.EventRepository
	publisher    EventPublisher
	metrics      *metrics.Metrics
	pollInterval time.Duration
	batchSize    int
	workers      int
	logger       *slog.Logger

	jobs   []chan []model.OrderEvent
	wg     sync.WaitGroup
	cancel context.CancelFunc
	mu     sync.Mutex
}

// NewOutboxRelay constructs the relay worker pool.
func NewOutboxRelay(events repository.EventRepository, publisher EventPublisher, m *metrics.Metrics, pollInterval time.Duration, batchSize, workers int, logger *slog.Logger) *OutboxRelay {
	if workers <= 0 {
		workers = 1
	}
	if batchSize <= 0 {
		batchSize = 1
	}
	jobs := make([]chan []model.OrderEvent, workers)
	for i := range jobs {
		jobs[i] = make(chan []model.OrderEvent, 1)
	}
	return &OutboxRelay{
		events:       events,
		publisher:    publisher,
		metrics:      m,
		pollInterval: pollInterval,
		batchSize:    batchSize,
		workers:      workers,
		logger:       logger,
		jobs:         jobs,
	}
}

// Start launches background publishing.
func (r *OutboxRelay) Start(ctx context.Context) {
	r.mu.Lock()
	defer r.mu.Unlock()

	runCtx, cancel := context.WithCancel(ctx)
	r.cancel = cancel

	for i := 0; i < r.workers; i++ {
		r.wg.Add(1)
		go r.worker(runCtx, r.jobs[i])
	}

	r.wg.Add(1)
	go r.dispatch(runCtx)
}

// Stop waits for all workers to finish.
func (r *OutboxRelay) Stop() {
	r.mu.Lock()
	if r.cancel != nil {
		r.cancel()
		r.cancel = nil
	}
	r.mu.Unlock()

	r.wg.Wait()
}

func (r *OutboxRelay) dispatch(ctx context.Context) {
	defer r.wg.Done()
	defer func() {
		for _, ch := range r.jobs {
			close(ch)
		}
	}()
	ticker := time.NewTicker(r.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.fetchAndDispatch(ctx)
		}
	}
}

func (r *OutboxRelay) fetchAndDispatch(ctx context.Context) {
	batch, err := r.events.ClaimPending(ctx, r.batchSize)
	if err != nil {
		r.logger.Error("claim outbox events failed", slog.String("error", err.Error()))
		return
	}
	shards := make([][]model.OrderEvent, r.workers)
	for _, event := range batch {
		i := r.shard(event.OrderID)
		shards[i] = append(shards[i], event)
	}
	for i, events := range shards {
		if len(events) == 0 {
			continue
		}
		select {
		case <-ctx.Done():
			return
		case r.jobs[i] <- events:
		}
	}
}

func (r *OutboxRelay) shard(orderID string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(orderID))
	return int(h.Sum32() % uint32(r.workers))
}

func (r *OutboxRelay) worker(ctx context.Context, jobs <-chan []model.OrderEvent) {
	defer r.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case events, ok := <-jobs:
			if !ok {
				return
			}
			r.handleBatch(ctx, events)
		}
	}
}

// handleBatch publishes events in claim order. An order whose event failed
// gets no further events from this batch.
func (r *OutboxRelay) handleBatch(ctx context.Context, events []model.OrderEvent) {
	blocked := make(map[string]struct{})
	for _, event := range events {
		if ctx.Err() != nil {
			return
		}
		if _, ok := blocked[event.OrderID]; ok {
			r.metrics.EventsPublished.WithLabelValues("deferred").Inc()
			continue
		}
		if !r.handleEvent(ctx, event) {
			blocked[event.OrderID] = struct{}{}
		}
	}
}

// handleEvent publishes and acknowledges one event. On failure the event keeps
// its lease and is claimed again once the lease expires.
func (r *OutboxRelay) handleEvent(ctx context.Context, event model.OrderEvent) bool {
	if err := r.publisher.Publish(ctx, event); err != nil {
		r.metrics.EventsPublished.WithLabelValues("failed").Inc()
		r.logger.Error("publish order event failed",
			slog.String("event_id", event.EventID),
			slog.String("order_id", event.OrderID),
			slog.String("error", err.Error()),
		)
		return false
	}
	if err := r.events.MarkPublished(ctx, event.ID); err != nil {
		r.metrics.EventsPublished.WithLabelValues("unacknowledged").Inc()
		r.logger.Error("mark order event published failed", slog.Int64("id", event.ID), slog.String("error", err.Error()))
		return true
	}
	r.metrics.EventsPublished.WithLabelValues("published").Inc()
	r.logger.Debug("order event published", slog.String("event_id", event.EventID), slog.String("type", string(event.Type)))
	return true
}
