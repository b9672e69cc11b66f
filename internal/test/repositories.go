package test

import (
	"context"
	"fmt"
	"sync"

	domainErrors "github.com/polkiloo/detta3d-orders/internal/domain/errors"
	"github.com/polkiloo/detta3d-orders/internal/domain/model"
	"github.com/polkiloo/detta3d-orders/internal/domain/repository"
)

// UpdateCall stores information about Update invocations.
type UpdateCall struct {
	ID     string
	Fields repository.Fields
}

// QueryCall stores information about Query invocations.
type QueryCall struct {
	Filter   repository.Filter
	PageSize int
}

// OrderStoreStub keeps orders in memory. Fn overrides replace the default behaviour.
type OrderStoreStub struct {
	InsertFn func(context.Context, model.Order) (string, error)
	GetFn    func(context.Context, string) (*model.Order, error)
	UpdateFn func(context.Context, string, repository.Fields) (*model.Order, error)
	QueryFn  func(context.Context, repository.Filter, int) ([]model.Order, error)
	PingFn   func(context.Context) error

	Inserted []model.Order
	Gets     []string
	Updates  []UpdateCall
	Queries  []QueryCall

	mu     sync.Mutex
	orders map[string]model.Order
	order  []string
	next   int
}

// NewOrderStoreStub returns a stub seeded with the given orders.
func NewOrderStoreStub(seed ...model.Order) *OrderStoreStub {
	s := &OrderStoreStub{}
	for _, o := range seed {
		s.put(o)
	}
	return s
}

func (s *OrderStoreStub) put(o model.Order) {
	if s.orders == nil {
		s.orders = make(map[string]model.Order)
	}
	if _, exists := s.orders[o.ID]; !exists {
		s.order = append(s.order, o.ID)
	}
	s.orders[o.ID] = o
}

// Insert stores the order under a generated id.
func (s *OrderStoreStub) Insert(ctx context.Context, order model.Order) (string, error) {
	s.mu.Lock()
	s.Inserted = append(s.Inserted, order)
	s.mu.Unlock()
	if s.InsertFn != nil {
		return s.InsertFn(ctx, order)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.next++
	order.ID = fmt.Sprintf("rec_%d", s.next)
	s.put(order)
	return order.ID, nil
}

// Get returns a copy of the stored order or ErrNotFound.
func (s *OrderStoreStub) Get(ctx context.Context, id string) (*model.Order, error) {
	s.mu.Lock()
	s.Gets = append(s.Gets, id)
	s.mu.Unlock()
	if s.GetFn != nil {
		return s.GetFn(ctx, id)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.orders[id]
	if !ok {
		return nil, domainErrors.ErrNotFound
	}
	return &o, nil
}

// Update merges fields into the stored order.
func (s *OrderStoreStub) Update(ctx context.Context, id string, fields repository.Fields) (*model.Order, error) {
	s.mu.Lock()
	s.Updates = append(s.Updates, UpdateCall{ID: id, Fields: fields})
	s.mu.Unlock()
	if s.UpdateFn != nil {
		return s.UpdateFn(ctx, id, fields)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.orders[id]
	if !ok {
		return nil, domainErrors.ErrNotFound
	}
	if err := fields.Apply(&o); err != nil {
		return nil, err
	}
	s.put(o)
	return &o, nil
}

// Query returns stored orders matching every filter predicate, in insertion order.
func (s *OrderStoreStub) Query(ctx context.Context, filter repository.Filter, pageSize int) ([]model.Order, error) {
	s.mu.Lock()
	s.Queries = append(s.Queries, QueryCall{Filter: filter, PageSize: pageSize})
	s.mu.Unlock()
	if s.QueryFn != nil {
		return s.QueryFn(ctx, filter, pageSize)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	var result []model.Order
	for _, id := range s.order {
		o := s.orders[id]
		if !filter.Match(o) {
			continue
		}
		result = append(result, o)
		if pageSize > 0 && len(result) == pageSize {
			break
		}
	}
	return result, nil
}

// Ping reports the configured error, if any.
func (s *OrderStoreStub) Ping(ctx context.Context) error {
	if s.PingFn != nil {
		return s.PingFn(ctx)
	}
	return nil
}

// WriteCalls reports how many mutating calls reached the stub.
func (s *OrderStoreStub) WriteCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.Inserted) + len(s.Updates)
}

var _ repository.OrderStore = (*OrderStoreStub)(nil)
