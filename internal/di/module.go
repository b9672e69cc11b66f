package di

import (
	"go.uber.org/fx"

	"github.com/polkiloo/detta3d-orders/internal/app"
	"github.com/polkiloo/detta3d-orders/internal/config"
	"github.com/polkiloo/detta3d-orders/internal/logger"
	"github.com/polkiloo/detta3d-orders/internal/metrics"
	"github.com/polkiloo/detta3d-orders/internal/server/http/handlers"
	"github.com/polkiloo/detta3d-orders/internal/server/http/router"
	"github.com/polkiloo/detta3d-orders/internal/storage"
	"github.com/polkiloo/detta3d-orders/internal/telemetry"
	"github.com/polkiloo/detta3d-orders/internal/usecase"
)

func Module(opts ...fx.Option) fx.Option {
	modules := []fx.Option{
		config.Module,
		logger.Module,
		telemetry.Module,
		metrics.Module,
		storage.Module,
		usecase.Module,
		fx.Provide(func(f *app.OrdersFacade) handlers.OrdersFacade { return f }),
		router.Module,
		app.Module,
	}
	modules = append(modules, opts...)
	return fx.Options(modules...)
}
