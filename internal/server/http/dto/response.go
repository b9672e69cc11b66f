package dto

import domainErrors "github.com/polkiloo/detta3d-orders/internal/domain/errors"

// ErrorResponse is returned for every failed request.
type ErrorResponse struct {
	Error  string                    `json:"error"`
	Fields []domainErrors.FieldError `json:"fields,omitempty"`
}

// MessageResponse carries a plain informational message.
type MessageResponse struct {
	Message string `json:"message"`
}

// HealthResponse reports store reachability.
type HealthResponse struct {
	Status string `json:"status"`
}
