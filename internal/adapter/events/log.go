package events

import (
	"context"
	"log/slog"

	"github.com/polkiloo/marketplace/internal/domain/model"
)

// LogPublisher records events in the service log. Used when no brokers are configured.
type LogPublisher struct {
	logger *slog.Logger
}

func NewLogPublisher(logger *slog.Logger) *LogPublisher {
	return &LogPublisher{logger: logger}
}

func (p *LogPublisher) Publish(ctx context.Context, event model.OrderEvent) error {
	data, err := encode(event)
	if err != nil {
		return err
	}
	p.logger.InfoContext(ctx, "order event",
		slog.String("event_type", string(event.Type)),
		slog.String("order_id", event.OrderID),
		slog.String("payload", string(data)),
	)
	return nil
}

func (p *LogPublisher) Close() error { return nil }
