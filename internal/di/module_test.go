package di

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"

	"github.com/polkiloo/marketplace/internal/adapter/events"
	"github.com/polkiloo/marketplace/internal/app"
	"github.com/polkiloo/marketplace/internal/config"
	"github.com/polkiloo/marketplace/internal/domain/repository"
	"github.com/polkiloo/marketplace/internal/storage/postgres"
	"github.com/polkiloo/marketplace/internal/test"
	"github.com/polkiloo/marketplace/internal/worker"
)

type healthStub struct{}

func (healthStub) HealthCheck(context.Context) error { return nil }

func TestModuleComposesGraphWithReplacements(t *testing.T) {
	cfg := &config.Config{
		RunAddress:         ":0",
		DatabaseURI:        "postgres://stub",
		JWTSecret:          "secret",
		TokenStrategy:      "jwt",
		TokenTTL:           time.Hour,
		KafkaTopic:         "orders",
		OutboxPollInterval: time.Millisecond,
		OutboxBatchSize:    1,
		WorkerPoolSize:     1,
		ShutdownTimeout:    time.Millisecond,
		LogLevel:           "info",
	}
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))

	var (
		facade    *app.MarketplaceFacade
		engine    *gin.Engine
		relay     *worker.OutboxRelay
		publisher events.Publisher
	)
	fxApp := fx.New(
		fx.NopLogger,
		fx.Supply(context.Background()),
		Module(
			fx.Replace(cfg),
			fx.Replace(logger),
			fx.Replace(&postgres.Storage{}),
			fx.Replace(fx.Annotate(healthStub{}, fx.As(new(app.HealthChecker)))),
			fx.Replace(fx.Annotate(test.NewUserRepositoryStub(), fx.As(new(repository.UserRepository)))),
			fx.Replace(fx.Annotate(test.NewProductRepositoryStub(), fx.As(new(repository.ProductRepository)))),
			fx.Replace(fx.Annotate(test.NewOrderRepositoryStub(), fx.As(new(repository.OrderRepository)))),
			fx.Replace(fx.Annotate(&test.EventRepositoryStub{}, fx.As(new(repository.EventRepository)))),
		),
		fx.Populate(&facade, &engine, &relay, &publisher),
	)

	if err := fxApp.Err(); err != nil {
		t.Fatalf("fx app returned error: %v", err)
	}
	t.Cleanup(func() { _ = fxApp.Stop(context.Background()) })
	if facade == nil || engine == nil || relay == nil {
		t.Fatal("expected facade, router and relay instances")
	}
	if _, ok := publisher.(*events.LogPublisher); !ok {
		t.Fatalf("expected log publisher without brokers, got %T", publisher)
	}

	resp := httptest.NewRecorder()
	engine.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if resp.Code != http.StatusOK {
		t.Fatalf("expected healthy service, got %d", resp.Code)
	}
}
