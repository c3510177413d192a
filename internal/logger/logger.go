package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"go.uber.org/fx"

	"github.com/polkiloo/marketplace/internal/config"
)

// Module wires slog logger for dependency injection and reports the
// effective configuration once the graph is built.
var Module = fx.Options(
	fx.Provide(New),
	fx.Invoke(logConfig),
)

// New creates a preconfigured slog.Logger.
func New(cfg *config.Config) *slog.Logger {
	return newWithWriter(os.Stdout, cfg.LogLevel)
}

func newWithWriter(w io.Writer, level string) *slog.Logger {
	handler := slog.NewJSONHandler(w, &slog.HandlerOptions{Level: parseLevel(level)})
	return slog.New(handler).With(slog.String("service", "marketplace"))
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// logConfig reports non-secret settings at startup.
func logConfig(cfg *config.Config, logger *slog.Logger) {
	logger.Info("configuration loaded",
		slog.String("addr", cfg.RunAddress),
		slog.String("token_strategy", cfg.TokenStrategy),
		slog.Duration("token_ttl", cfg.TokenTTL),
		slog.Int("kafka_brokers", len(cfg.KafkaBrokers)),
		slog.String("kafka_topic", cfg.KafkaTopic),
		slog.Duration("outbox_poll_interval", cfg.OutboxPollInterval),
		slog.Int("outbox_batch_size", cfg.OutboxBatchSize),
		slog.Int("worker_pool_size", cfg.WorkerPoolSize),
		slog.String("log_level", cfg.LogLevel),
	)
}
