package storage

import (
	"context"
	"fmt"
	"log/slog"

	"go.uber.org/fx"

	"github.com/polkiloo/detta3d-orders/internal/config"
	"github.com/polkiloo/detta3d-orders/internal/domain/repository"
	"github.com/polkiloo/detta3d-orders/internal/storage/mongo"
	"github.com/polkiloo/detta3d-orders/internal/storage/postgres"
	"github.com/polkiloo/detta3d-orders/internal/storage/xata"
)

// Module wires the order store selected by configuration.
var Module = fx.Provide(newOrderStore)

type storeParams struct {
	fx.In

	Ctx       context.Context
	Lifecycle fx.Lifecycle
	Config    *config.Config
	Logger    *slog.Logger
}

var (
	openXata = func(cfg *config.Config, logger *slog.Logger) (repository.OrderStore, error) {
		return xata.New(cfg.XataDatabaseURL(), cfg.XataAPIKey, cfg.StoreTimeout, logger)
	}
	openPostgres = func(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*postgres.Storage, error) {
		return postgres.New(ctx, cfg.DatabaseURI, cfg.StoreTimeout, logger)
	}
	openMongo = func(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*mongo.Store, error) {
		return mongo.Connect(ctx, cfg.MongoURI, cfg.MongoDBName, cfg.StoreTimeout, logger)
	}
)

func newOrderStore(p storeParams) (repository.OrderStore, error) {
	logger := p.Logger.With(slog.String("store", p.Config.StoreDriver))

	switch p.Config.StoreDriver {
	case config.DriverXata:
		return openXata(p.Config, logger)
	case config.DriverPostgres:
		storage, err := openPostgres(p.Ctx, p.Config, logger)
		if err != nil {
			return nil, err
		}
		p.Lifecycle.Append(fx.Hook{
			OnStop: func(context.Context) error {
				storage.Close()
				return nil
			},
		})
		return storage, nil
	case config.DriverMongo:
		store, err := openMongo(p.Ctx, p.Config, logger)
		if err != nil {
			return nil, err
		}
		p.Lifecycle.Append(fx.Hook{
			OnStop: store.Close,
		})
		return store, nil
	default:
		return nil, fmt.Errorf("unknown store driver %q", p.Config.StoreDriver)
	}
}
