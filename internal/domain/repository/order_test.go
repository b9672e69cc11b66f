package repository

import (
	"testing"
	"time"

	"github.com/polkiloo/detta3d-orders/internal/domain/model"
)

func TestFieldsApply(t *testing.T) {
	now := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	order := model.Order{ID: "rec_1", UserID: "u", Product: "p", Price: 1, Notes: "keep"}
	fields := Fields{
		"price":          250.5,
		"status":         string(model.DeliveryShipping),
		"payment_status": string(model.PaymentWhatsapp),
		"updated_at":     now,
	}
	if err := fields.Valid(); err != nil {
		t.Fatalf("unexpected validity error: %v", err)
	}
	if err := fields.Apply(&order); err != nil {
		t.Fatalf("unexpected apply error: %v", err)
	}
	if order.Price != 250.5 || order.Status != model.DeliveryShipping || order.PaymentStatus != model.PaymentWhatsapp {
		t.Fatalf("fields not applied: %+v", order)
	}
	if !order.UpdatedAt.Equal(now) || order.Notes != "keep" || order.ID != "rec_1" {
		t.Fatalf("unexpected order state: %+v", order)
	}
}

func TestFieldsRejectUnknownColumns(t *testing.T) {
	for _, fields := range []Fields{{"id": "rec_2"}, {"created_at": time.Now()}, {"drop table": 1}} {
		if err := fields.Valid(); err == nil {
			t.Fatalf("expected %v to be invalid", fields)
		}
		var order model.Order
		if err := fields.Apply(&order); err == nil {
			t.Fatalf("expected apply of %v to fail", fields)
		}
	}

	var order model.Order
	if err := (Fields{"price": "100"}).Apply(&order); err == nil {
		t.Fatal("expected type mismatch error")
	}
}

func TestFilterMatch(t *testing.T) {
	shipped := model.Order{Status: model.DeliveryShipping, UserID: "a"}
	pickup := model.Order{Status: model.DeliveryInPerson, UserID: "a"}

	if !(Filter{}).Match(pickup) || !Filter(nil).Match(shipped) {
		t.Fatal("empty filter must match everything")
	}

	completed := Filter{"status": string(model.CompletedStatus)}
	if !completed.Match(shipped) {
		t.Fatal("expected shipped order to match")
	}
	if completed.Match(pickup) {
		t.Fatal("pickup order must not match")
	}
	if (Filter{"status": string(model.CompletedStatus), "user_id": "b"}).Match(shipped) {
		t.Fatal("all predicates must hold")
	}
	if (Filter{"price": "1"}).Match(shipped) {
		t.Fatal("non-text columns are not filterable")
	}
}

func TestFilterValid(t *testing.T) {
	if err := (Filter{"status": "x", "user_id": "y"}).Valid(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := (Filter{"price": "1"}).Valid(); err == nil {
		t.Fatal("expected price to be rejected")
	}
	if err := (Filter{"status = '' OR 1=1 --": "x"}).Valid(); err == nil {
		t.Fatal("expected unknown column to be rejected")
	}
}
