package repository

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/polkiloo/detta3d-orders/internal/domain/model"
)

// OrdersTable is the collection holding order records.
const OrdersTable = "orders"

// Fields maps stored column names to new values for a partial update.
type Fields map[string]any

// Filter holds column equality predicates. An empty filter matches every record.
type Filter map[string]string

// OrderStore describes the document store operations the order facade relies on.
// Get and Update return domain errors.ErrNotFound when the record does not exist.
type OrderStore interface {
	Insert(ctx context.Context, order model.Order) (string, error)
	Get(ctx context.Context, id string) (*model.Order, error)
	Update(ctx context.Context, id string, fields Fields) (*model.Order, error)
	Query(ctx context.Context, filter Filter, pageSize int) ([]model.Order, error)
	Ping(ctx context.Context) error
}

// Columns lists the stored fields a partial update may touch.
var Columns = []string{"user_id", "product", "price", "status", "payment_status", "address", "notes", "updated_at"}

// FilterColumns lists the text columns a Filter may constrain.
var FilterColumns = []string{"user_id", "product", "status", "payment_status", "address", "notes"}

// Valid reports whether every key is an updatable column.
func (f Fields) Valid() error {
	for key := range f {
		if !slices.Contains(Columns, key) {
			return fmt.Errorf("unknown column %q", key)
		}
	}
	return nil
}

// Apply merges the fields into order.
func (f Fields) Apply(order *model.Order) error {
	for key, value := range f {
		var ok bool
		switch key {
		case "user_id":
			order.UserID, ok = value.(string)
		case "product":
			order.Product, ok = value.(string)
		case "price":
			order.Price, ok = value.(float64)
		case "status":
			var s string
			s, ok = value.(string)
			order.Status = model.DeliveryMethod(s)
		case "payment_status":
			var s string
			s, ok = value.(string)
			order.PaymentStatus = model.PaymentChannel(s)
		case "address":
			order.Address, ok = value.(string)
		case "notes":
			order.Notes, ok = value.(string)
		case "updated_at":
			order.UpdatedAt, ok = value.(time.Time)
		default:
			return fmt.Errorf("unknown column %q", key)
		}
		if !ok {
			return fmt.Errorf("column %q: unexpected value type %T", key, value)
		}
	}
	return nil
}

// Valid reports whether every key is a filterable column.
func (f Filter) Valid() error {
	for key := range f {
		if !slices.Contains(FilterColumns, key) {
			return fmt.Errorf("column %q cannot be filtered", key)
		}
	}
	return nil
}

// Match reports whether order satisfies every equality predicate.
// Only text columns can be filtered on.
func (f Filter) Match(order model.Order) bool {
	for key, want := range f {
		var got string
		switch key {
		case "user_id":
			got = order.UserID
		case "product":
			got = order.Product
		case "status":
			got = string(order.Status)
		case "payment_status":
			got = string(order.PaymentStatus)
		case "address":
			got = order.Address
		case "notes":
			got = order.Notes
		default:
			return false
		}
		if got != want {
			return false
		}
	}
	return true
}
