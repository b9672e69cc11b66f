package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	domainErrors "github.com/polkiloo/detta3d-orders/internal/domain/errors"
	"github.com/polkiloo/detta3d-orders/internal/domain/model"
	"github.com/polkiloo/detta3d-orders/internal/domain/repository"
)

type pgxPool interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Ping(ctx context.Context) error
	Close()
}

var newPgxPool = func(ctx context.Context, cfg *pgxpool.Config) (pgxPool, error) {
	return pgxpool.NewWithConfig(ctx, cfg)
}

const selectColumns = `id, user_id, product, price, status, payment_status, address, notes, created_at, updated_at`

// Storage implements repository.OrderStore backed by PostgreSQL.
type Storage struct {
	pool    pgxPool
	logger  *slog.Logger
	timeout time.Duration
	newID   func() string
}

// New creates storage with schema initialization.
func New(ctx context.Context, dsn string, timeout time.Duration, logger *slog.Logger) (*Storage, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}

	pool, err := newPgxPool(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect db: %w", err)
	}

	storage := &Storage{pool: pool, logger: logger, timeout: timeout, newID: uuid.NewString}
	if err := storage.initSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return storage, nil
}

// Close releases database resources.
func (s *Storage) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

func (s *Storage) initSchema(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS orders (
            id TEXT PRIMARY KEY,
            user_id TEXT NOT NULL,
            product TEXT NOT NULL,
            price DOUBLE PRECISION NOT NULL,
            status TEXT NOT NULL DEFAULT '',
            payment_status TEXT NOT NULL DEFAULT '',
            address TEXT NOT NULL DEFAULT '',
            notes TEXT NOT NULL DEFAULT '',
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
            updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
		`CREATE INDEX IF NOT EXISTS idx_orders_status ON orders(status)`,
		`CREATE INDEX IF NOT EXISTS idx_orders_created ON orders(created_at)`,
	}

	for _, stmt := range statements {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: %w", err)
		}
	}

	return nil
}

func (s *Storage) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, s.timeout)
}

// Insert stores the order under a freshly generated id.
func (s *Storage) Insert(ctx context.Context, order model.Order) (string, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	const query = `INSERT INTO orders (id, user_id, product, price, status, payment_status, address, notes, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	id := s.newID()
	_, err := s.pool.Exec(ctx, query,
		id, order.UserID, order.Product, order.Price,
		string(order.Status), string(order.PaymentStatus), order.Address, order.Notes,
		order.CreatedAt, order.UpdatedAt,
	)
	if err != nil {
		return "", fmt.Errorf("insert order: %w", err)
	}
	return id, nil
}

// Get returns the order with the given id.
func (s *Storage) Get(ctx context.Context, id string) (*model.Order, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	query := `SELECT ` + selectColumns + ` FROM orders WHERE id=$1`
	order, err := scanOrder(s.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, fmt.Errorf("get order: %w", err)
	}
	return order, nil
}

// Update writes the given columns and returns the updated row.
func (s *Storage) Update(ctx context.Context, id string, fields repository.Fields) (*model.Order, error) {
	if err := fields.Valid(); err != nil {
		return nil, err
	}
	if len(fields) == 0 {
		return nil, fmt.Errorf("update order: no columns")
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	columns := make([]string, 0, len(fields))
	for column := range fields {
		columns = append(columns, column)
	}
	slices.Sort(columns)

	assignments := make([]string, 0, len(columns))
	args := make([]any, 0, len(columns)+1)
	for i, column := range columns {
		assignments = append(assignments, fmt.Sprintf("%s=$%d", column, i+1))
		args = append(args, fields[column])
	}
	args = append(args, id)

	query := fmt.Sprintf(`UPDATE orders SET %s WHERE id=$%d RETURNING %s`,
		strings.Join(assignments, ", "), len(args), selectColumns)

	order, err := scanOrder(s.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, fmt.Errorf("update order: %w", err)
	}
	return order, nil
}

// Query lists orders matching the filter, oldest first.
func (s *Storage) Query(ctx context.Context, filter repository.Filter, pageSize int) ([]model.Order, error) {
	if err := filter.Valid(); err != nil {
		return nil, err
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	columns := make([]string, 0, len(filter))
	for column := range filter {
		columns = append(columns, column)
	}
	slices.Sort(columns)

	var (
		conditions []string
		args       []any
	)
	for _, column := range columns {
		args = append(args, filter[column])
		conditions = append(conditions, fmt.Sprintf("%s=$%d", column, len(args)))
	}

	query := `SELECT ` + selectColumns + ` FROM orders`
	if len(conditions) > 0 {
		query += ` WHERE ` + strings.Join(conditions, " AND ")
	}
	query += ` ORDER BY created_at, id`
	if pageSize > 0 {
		args = append(args, pageSize)
		query += fmt.Sprintf(` LIMIT $%d`, len(args))
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query orders: %w", err)
	}
	defer rows.Close()

	var orders []model.Order
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, *order)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return orders, nil
}

// Ping verifies database connectivity.
func (s *Storage) Ping(ctx context.Context) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	if err := s.pool.Ping(ctx); err != nil {
		s.logger.WarnContext(ctx, "postgres ping failed", slog.String("error", err.Error()))
		return err
	}
	return nil
}

func scanOrder(row pgx.Row) (*model.Order, error) {
	var (
		o             model.Order
		status        string
		paymentStatus string
	)
	if err := row.Scan(&o.ID, &o.UserID, &o.Product, &o.Price, &status, &paymentStatus,
		&o.Address, &o.Notes, &o.CreatedAt, &o.UpdatedAt); err != nil {
		return nil, err
	}
	o.Status = model.DeliveryMethod(status)
	o.PaymentStatus = model.PaymentChannel(paymentStatus)
	return &o, nil
}

var _ repository.OrderStore = (*Storage)(nil)
