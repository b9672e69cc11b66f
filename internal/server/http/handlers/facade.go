package handlers

import (
	"context"

	"github.com/polkiloo/detta3d-orders/internal/domain/model"
)

// OrdersFacade encapsulates order operations exposed via HTTP.
type OrdersFacade interface {
	CreateOrder(ctx context.Context, payload map[string]any) (*model.Order, error)
	Orders(ctx context.Context) ([]model.Order, error)
	Order(ctx context.Context, id string) (*model.Order, error)
	UpdateOrder(ctx context.Context, id string, payload map[string]any) (*model.Order, error)
	CompletedOrders(ctx context.Context) ([]model.Order, error)
	Ping(ctx context.Context) error
}
