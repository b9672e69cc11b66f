package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	domainErrors "github.com/polkiloo/detta3d-orders/internal/domain/errors"
	"github.com/polkiloo/detta3d-orders/internal/domain/model"
	"github.com/polkiloo/detta3d-orders/internal/domain/repository"
)

// PageSize caps listings. Only the first page is ever returned.
const PageSize = 100

// OrderUseCase maps validated payloads onto the order store and translates its outcomes.
type OrderUseCase struct {
	store  repository.OrderStore
	logger *slog.Logger
	tracer trace.Tracer
	now    func() time.Time
}

// NewOrderUseCase constructs OrderUseCase.
func NewOrderUseCase(store repository.OrderStore, logger *slog.Logger) *OrderUseCase {
	return &OrderUseCase{
		store:  store,
		logger: logger,
		tracer: otel.Tracer("github.com/polkiloo/detta3d-orders/internal/usecase"),
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// Create inserts the order and returns the stored representation fetched back by id.
func (u *OrderUseCase) Create(ctx context.Context, in model.OrderCreate) (*model.Order, error) {
	ctx, span := u.tracer.Start(ctx, "orders.create")
	defer span.End()

	order := in.Order()
	if order.CreatedAt.IsZero() {
		order.CreatedAt = u.now()
	}
	order.UpdatedAt = order.CreatedAt

	u.logger.InfoContext(ctx, "creating order", slog.String("user_id", order.UserID), slog.String("product", order.Product))
	id, err := u.store.Insert(ctx, order)
	if err != nil {
		u.logger.ErrorContext(ctx, "insert order failed", slog.String("error", err.Error()))
		return nil, fail(span, fmt.Errorf("%w: %v", domainErrors.ErrStoreWrite, err))
	}
	if id == "" {
		u.logger.ErrorContext(ctx, "store returned no id for created order")
		return nil, fail(span, fmt.Errorf("%w: store returned no id", domainErrors.ErrStoreWrite))
	}
	span.SetAttributes(attribute.String("order.id", id))

	stored, err := u.store.Get(ctx, id)
	if err != nil {
		u.logger.ErrorContext(ctx, "created order could not be fetched back",
			slog.String("order_id", id), slog.String("error", err.Error()))
		return nil, fail(span, fmt.Errorf("%w: order %s persisted but not confirmed: %v", domainErrors.ErrStoreRead, id, err))
	}

	u.logger.InfoContext(ctx, "order created", slog.String("order_id", id))
	return stored, nil
}

// List returns the first page of orders.
func (u *OrderUseCase) List(ctx context.Context) ([]model.Order, error) {
	ctx, span := u.tracer.Start(ctx, "orders.list")
	defer span.End()

	u.logger.InfoContext(ctx, "fetching orders")
	orders, err := u.store.Query(ctx, nil, PageSize)
	if err != nil {
		u.logger.ErrorContext(ctx, "query orders failed", slog.String("error", err.Error()))
		return nil, fail(span, fmt.Errorf("%w: %v", domainErrors.ErrStoreRead, err))
	}
	if orders == nil {
		orders = []model.Order{}
	}

	u.logger.InfoContext(ctx, "orders fetched", slog.Int("count", len(orders)))
	return orders, nil
}

// Get returns the order with the given id.
func (u *OrderUseCase) Get(ctx context.Context, id string) (*model.Order, error) {
	ctx, span := u.tracer.Start(ctx, "orders.get", trace.WithAttributes(attribute.String("order.id", id)))
	defer span.End()

	u.logger.InfoContext(ctx, "fetching order", slog.String("order_id", id))
	order, err := u.fetch(ctx, id)
	if err != nil {
		return nil, fail(span, err)
	}
	return order, nil
}

// Update applies the present fields of upd to an existing order.
// The existence check runs first so unknown ids never become implicit creates.
func (u *OrderUseCase) Update(ctx context.Context, id string, upd model.OrderUpdate) (*model.Order, error) {
	ctx, span := u.tracer.Start(ctx, "orders.update", trace.WithAttributes(attribute.String("order.id", id)))
	defer span.End()

	if upd.Empty() {
		u.logger.WarnContext(ctx, "no update data provided", slog.String("order_id", id))
		return nil, fail(span, domainErrors.NewEmptyUpdateError())
	}

	u.logger.InfoContext(ctx, "updating order", slog.String("order_id", id))
	existing, err := u.fetch(ctx, id)
	if err != nil {
		return nil, fail(span, err)
	}

	now := u.now()
	fields := repository.Fields(upd.Fields())
	fields["updated_at"] = now

	updated, err := u.store.Update(ctx, id, fields)
	if err != nil {
		if errors.Is(err, domainErrors.ErrNotFound) {
			u.logger.WarnContext(ctx, "order disappeared before update", slog.String("order_id", id))
			return nil, fail(span, fmt.Errorf("%w: %s", domainErrors.ErrNotFound, id))
		}
		u.logger.ErrorContext(ctx, "update order failed", slog.String("order_id", id), slog.String("error", err.Error()))
		return nil, fail(span, fmt.Errorf("%w: %v", domainErrors.ErrStoreWrite, err))
	}
	if updated == nil {
		upd.Apply(existing)
		existing.UpdatedAt = now
		updated = existing
	}

	u.logger.InfoContext(ctx, "order updated", slog.String("order_id", id))
	return updated, nil
}

// ListCompleted returns orders shipped to an address, the operational meaning of completed.
func (u *OrderUseCase) ListCompleted(ctx context.Context) ([]model.Order, error) {
	ctx, span := u.tracer.Start(ctx, "orders.list_completed")
	defer span.End()

	u.logger.InfoContext(ctx, "fetching completed orders")
	filter := repository.Filter{"status": string(model.CompletedStatus)}
	orders, err := u.store.Query(ctx, filter, PageSize)
	if err != nil {
		u.logger.ErrorContext(ctx, "query completed orders failed", slog.String("error", err.Error()))
		return nil, fail(span, fmt.Errorf("%w: %v", domainErrors.ErrStoreRead, err))
	}

	completed := make([]model.Order, 0, len(orders))
	for _, o := range orders {
		if o.IsCompleted() {
			completed = append(completed, o)
		}
	}

	u.logger.InfoContext(ctx, "completed orders fetched", slog.Int("count", len(completed)))
	return completed, nil
}

// Ping checks that the store is reachable.
func (u *OrderUseCase) Ping(ctx context.Context) error {
	if err := u.store.Ping(ctx); err != nil {
		return fmt.Errorf("%w: %v", domainErrors.ErrStoreRead, err)
	}
	return nil
}

func (u *OrderUseCase) fetch(ctx context.Context, id string) (*model.Order, error) {
	if strings.TrimSpace(id) == "" {
		return nil, domainErrors.ErrNotFound
	}
	order, err := u.store.Get(ctx, id)
	if err != nil {
		if errors.Is(err, domainErrors.ErrNotFound) {
			u.logger.WarnContext(ctx, "order not found", slog.String("order_id", id))
			return nil, fmt.Errorf("%w: %s", domainErrors.ErrNotFound, id)
		}
		u.logger.ErrorContext(ctx, "fetch order failed", slog.String("order_id", id), slog.String("error", err.Error()))
		return nil, fmt.Errorf("%w: %v", domainErrors.ErrStoreRead, err)
	}
	return order, nil
}

func fail(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	return err
}
