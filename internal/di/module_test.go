package di

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"

	"github.com/polkiloo/detta3d-orders/internal/app"
	"github.com/polkiloo/detta3d-orders/internal/config"
	"github.com/polkiloo/detta3d-orders/internal/domain/repository"
	"github.com/polkiloo/detta3d-orders/internal/test"
)

func TestModuleComposesGraphWithReplacements(t *testing.T) {
	cfg := &config.Config{
		RunAddress:         ":0",
		StoreDriver:        config.DriverXata,
		XataAPIKey:         "xau_stub",
		XataBaseURL:        "http://localhost/db/orders:main",
		CORSAllowedOrigins: []string{"http://localhost:3000"},
		LogLevel:           slog.LevelInfo,
		ShutdownTimeout:    time.Millisecond,
		StoreTimeout:       time.Second,
		ServiceName:        "detta3d-orders",
	}
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	store := test.NewOrderStoreStub()

	var (
		facade *app.OrdersFacade
		engine *gin.Engine
	)
	fxApp := fx.New(
		fx.NopLogger,
		fx.Provide(func() context.Context { return context.Background() }),
		Module(
			fx.Replace(cfg),
			fx.Replace(logger),
			fx.Decorate(func(repository.OrderStore) repository.OrderStore { return store }),
		),
		fx.Populate(&facade, &engine),
	)

	if err := fxApp.Err(); err != nil {
		t.Fatalf("fx app returned error: %v", err)
	}
	t.Cleanup(func() { _ = fxApp.Stop(context.Background()) })
	if facade == nil {
		t.Fatal("expected orders facade instance")
	}

	store.PingFn = func(context.Context) error { return errors.New("stub store down") }
	resp := httptest.NewRecorder()
	engine.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if resp.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected healthz to reach the replaced store, got %d", resp.Code)
	}

	resp = httptest.NewRecorder()
	engine.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/orders/", nil))
	if resp.Code != http.StatusOK || resp.Body.String() != "[]" {
		t.Fatalf("expected empty list from the replaced store, got %d %q", resp.Code, resp.Body.String())
	}
	if len(store.Queries) != 1 {
		t.Fatalf("expected one query against the replaced store, got %d", len(store.Queries))
	}
}
