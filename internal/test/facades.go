package test

import (
	"context"
	"sync"
	"time"

	"github.com/polkiloo/detta3d-orders/internal/domain/model"
)

// FacadeUpdateCall records UpdateOrder invocations.
type FacadeUpdateCall struct {
	ID      string
	Payload map[string]any
}

// OrdersFacadeStub provides controllable behaviour for order endpoints.
type OrdersFacadeStub struct {
	CreateFn    func(context.Context, map[string]any) (*model.Order, error)
	OrdersFn    func(context.Context) ([]model.Order, error)
	OrderFn     func(context.Context, string) (*model.Order, error)
	UpdateFn    func(context.Context, string, map[string]any) (*model.Order, error)
	CompletedFn func(context.Context) ([]model.Order, error)
	PingFn      func(context.Context) error

	mu       sync.Mutex
	Created  []map[string]any
	Updated  []FacadeUpdateCall
	Requests []string
}

func (s *OrdersFacadeStub) record(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Requests = append(s.Requests, id)
}

// CreateOrder delegates to CreateFn or echoes the payload back as an order.
func (s *OrdersFacadeStub) CreateOrder(ctx context.Context, payload map[string]any) (*model.Order, error) {
	s.mu.Lock()
	s.Created = append(s.Created, payload)
	s.mu.Unlock()
	if s.CreateFn != nil {
		return s.CreateFn(ctx, payload)
	}
	user, _ := payload["user_id"].(string)
	product, _ := payload["product"].(string)
	return &model.Order{ID: "rec_1", UserID: user, Product: product, Price: 1, CreatedAt: time.Unix(0, 0).UTC()}, nil
}

// Orders returns predefined orders.
func (s *OrdersFacadeStub) Orders(ctx context.Context) ([]model.Order, error) {
	s.record("list")
	if s.OrdersFn != nil {
		return s.OrdersFn(ctx)
	}
	return []model.Order{}, nil
}

// Order returns an order carrying the requested id.
func (s *OrdersFacadeStub) Order(ctx context.Context, id string) (*model.Order, error) {
	s.record("get:" + id)
	if s.OrderFn != nil {
		return s.OrderFn(ctx, id)
	}
	return &model.Order{ID: id}, nil
}

// UpdateOrder records the call and delegates to UpdateFn.
func (s *OrdersFacadeStub) UpdateOrder(ctx context.Context, id string, payload map[string]any) (*model.Order, error) {
	s.mu.Lock()
	s.Updated = append(s.Updated, FacadeUpdateCall{ID: id, Payload: payload})
	s.mu.Unlock()
	if s.UpdateFn != nil {
		return s.UpdateFn(ctx, id, payload)
	}
	return &model.Order{ID: id}, nil
}

// CompletedOrders returns predefined completed orders.
func (s *OrdersFacadeStub) CompletedOrders(ctx context.Context) ([]model.Order, error) {
	s.record("completed")
	if s.CompletedFn != nil {
		return s.CompletedFn(ctx)
	}
	return []model.Order{}, nil
}

// Ping reports the configured error, if any.
func (s *OrdersFacadeStub) Ping(ctx context.Context) error {
	if s.PingFn != nil {
		return s.PingFn(ctx)
	}
	return nil
}
