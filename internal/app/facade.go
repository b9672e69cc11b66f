package app

import (
	"context"
	"time"

	"github.com/polkiloo/detta3d-orders/internal/domain/model"
	"github.com/polkiloo/detta3d-orders/internal/usecase"
)

// OrdersFacade is the entry point used by HTTP handlers. It validates raw
// payloads before any store interaction.
type OrdersFacade struct {
	orders *usecase.OrderUseCase
	now    func() time.Time
}

func NewOrdersFacade(orders *usecase.OrderUseCase) *OrdersFacade {
	return &OrdersFacade{orders: orders, now: time.Now}
}

func (f *OrdersFacade) CreateOrder(ctx context.Context, payload map[string]any) (*model.Order, error) {
	in, err := usecase.ValidateCreate(payload, f.now())
	if err != nil {
		return nil, err
	}
	return f.orders.Create(ctx, in)
}

func (f *OrdersFacade) Orders(ctx context.Context) ([]model.Order, error) {
	return f.orders.List(ctx)
}

func (f *OrdersFacade) Order(ctx context.Context, id string) (*model.Order, error) {
	return f.orders.Get(ctx, id)
}

func (f *OrdersFacade) UpdateOrder(ctx context.Context, id string, payload map[string]any) (*model.Order, error) {
	upd, err := usecase.ValidateUpdate(payload)
	if err != nil {
		return nil, err
	}
	return f.orders.Update(ctx, id, upd)
}

func (f *OrdersFacade) CompletedOrders(ctx context.Context) ([]model.Order, error) {
	return f.orders.ListCompleted(ctx)
}

func (f *OrdersFacade) Ping(ctx context.Context) error {
	return f.orders.Ping(ctx)
}
