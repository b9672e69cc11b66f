package dto

import "time"

// OrderResponse is the wire representation of a stored order.
type OrderResponse struct {
	ID            string     `json:"id"`
	UserID        string     `json:"user_id"`
	Product       string     `json:"product"`
	Price         float64    `json:"price"`
	Status        string     `json:"status,omitempty"`
	PaymentStatus string     `json:"payment_status,omitempty"`
	Address       string     `json:"address,omitempty"`
	Notes         string     `json:"notes,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     *time.Time `json:"updated_at,omitempty"`
}
