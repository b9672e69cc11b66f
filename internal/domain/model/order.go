package model

import (
	"strings"
	"time"
)

// DeliveryMethod describes how an order reaches the customer.
type DeliveryMethod string

const (
	DeliveryInPerson   DeliveryMethod = "Retira en persona"
	DeliveryShipping   DeliveryMethod = "Envío a domicilio"
	DeliveryPostOffice DeliveryMethod = "Retiro en correo"
	DeliveryUnsure     DeliveryMethod = "No estoy seguro"
)

// CompletedStatus is the delivery method that marks an order as completed.
const CompletedStatus = DeliveryShipping

var deliveryTokens = map[string]DeliveryMethod{
	"in_person":   DeliveryInPerson,
	"delivery":    DeliveryShipping,
	"post_office": DeliveryPostOffice,
	"unsure":      DeliveryUnsure,
}

// DeliveryMethods lists accepted delivery methods in declaration order.
func DeliveryMethods() []DeliveryMethod {
	return []DeliveryMethod{DeliveryInPerson, DeliveryShipping, DeliveryPostOffice, DeliveryUnsure}
}

// ParseDeliveryMethod resolves either the canonical value or its token.
func ParseDeliveryMethod(raw string) (DeliveryMethod, bool) {
	for _, m := range DeliveryMethods() {
		if raw == string(m) {
			return m, true
		}
	}
	m, ok := deliveryTokens[strings.ToLower(strings.TrimSpace(raw))]
	return m, ok
}

// PaymentChannel describes the platform the sale came through.
type PaymentChannel string

const (
	PaymentInstagram    PaymentChannel = "Instagram"
	PaymentWhatsapp     PaymentChannel = "Whatsapp"
	PaymentMercadolibre PaymentChannel = "Mercadolibre"
	PaymentOnlineStore  PaymentChannel = "Tienda online"
)

var paymentTokens = map[string]PaymentChannel{
	"instagram":    PaymentInstagram,
	"whatsapp":     PaymentWhatsapp,
	"mercadolibre": PaymentMercadolibre,
	"online_store": PaymentOnlineStore,
}

// PaymentChannels lists accepted payment channels in declaration order.
func PaymentChannels() []PaymentChannel {
	return []PaymentChannel{PaymentInstagram, PaymentWhatsapp, PaymentMercadolibre, PaymentOnlineStore}
}

// ParsePaymentChannel resolves either the canonical value or its token.
func ParsePaymentChannel(raw string) (PaymentChannel, bool) {
	for _, c := range PaymentChannels() {
		if raw == string(c) {
			return c, true
		}
	}
	c, ok := paymentTokens[strings.ToLower(strings.TrimSpace(raw))]
	return c, ok
}

// Order is a single customer purchase record.
type Order struct {
	ID            string         `json:"id,omitempty" bson:"_id,omitempty"`
	UserID        string         `json:"user_id" bson:"user_id"`
	Product       string         `json:"product" bson:"product"`
	Price         float64        `json:"price" bson:"price"`
	Status        DeliveryMethod `json:"status,omitempty" bson:"status,omitempty"`
	PaymentStatus PaymentChannel `json:"payment_status,omitempty" bson:"payment_status,omitempty"`
	Address       string         `json:"address,omitempty" bson:"address,omitempty"`
	Notes         string         `json:"notes,omitempty" bson:"notes,omitempty"`
	CreatedAt     time.Time      `json:"created_at" bson:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at" bson:"updated_at"`
}

// IsCompleted reports whether the order was shipped to an address.
func (o Order) IsCompleted() bool {
	return o.Status == CompletedStatus
}

// OrderCreate is a validated payload for a new order.
type OrderCreate struct {
	UserID        string         `json:"user_id" validate:"required"`
	Product       string         `json:"product" validate:"required"`
	Price         float64        `json:"price" validate:"gt=0"`
	Status        DeliveryMethod `json:"status" validate:"omitempty,delivery_method"`
	PaymentStatus PaymentChannel `json:"payment_status" validate:"omitempty,payment_channel"`
	Address       string         `json:"address"`
	Notes         string         `json:"notes"`
	CreatedAt     time.Time      `json:"created_at"`
}

// Order converts the payload into a record ready for insertion.
func (c OrderCreate) Order() Order {
	return Order{
		UserID:        c.UserID,
		Product:       c.Product,
		Price:         c.Price,
		Status:        c.Status,
		PaymentStatus: c.PaymentStatus,
		Address:       c.Address,
		Notes:         c.Notes,
		CreatedAt:     c.CreatedAt,
		UpdatedAt:     c.CreatedAt,
	}
}

// OrderUpdate is a validated partial update. Nil fields are left unchanged.
type OrderUpdate struct {
	UserID        *string         `json:"user_id" validate:"omitempty,min=1"`
	Product       *string         `json:"product" validate:"omitempty,min=1"`
	Price         *float64        `json:"price" validate:"omitempty,gt=0"`
	Status        *DeliveryMethod `json:"status" validate:"omitempty,delivery_method"`
	PaymentStatus *PaymentChannel `json:"payment_status" validate:"omitempty,payment_channel"`
	Address       *string         `json:"address"`
	Notes         *string         `json:"notes"`
}

// Empty reports whether the update carries no fields.
func (u OrderUpdate) Empty() bool {
	return len(u.Fields()) == 0
}

// Fields returns present fields keyed by their stored column name.
func (u OrderUpdate) Fields() map[string]any {
	fields := make(map[string]any, 7)
	if u.UserID != nil {
		fields["user_id"] = *u.UserID
	}
	if u.Product != nil {
		fields["product"] = *u.Product
	}
	if u.Price != nil {
		fields["price"] = *u.Price
	}
	if u.Status != nil {
		fields["status"] = string(*u.Status)
	}
	if u.PaymentStatus != nil {
		fields["payment_status"] = string(*u.PaymentStatus)
	}
	if u.Address != nil {
		fields["address"] = *u.Address
	}
	if u.Notes != nil {
		fields["notes"] = *u.Notes
	}
	return fields
}

// Apply copies present fields onto order.
func (u OrderUpdate) Apply(order *Order) {
	if u.UserID != nil {
		order.UserID = *u.UserID
	}
	if u.Product != nil {
		order.Product = *u.Product
	}
	if u.Price != nil {
		order.Price = *u.Price
	}
	if u.Status != nil {
		order.Status = *u.Status
	}
	if u.PaymentStatus != nil {
		order.PaymentStatus = *u.PaymentStatus
	}
	if u.Address != nil {
		order.Address = *u.Address
	}
	if u.Notes != nil {
		order.Notes = *u.Notes
	}
}
