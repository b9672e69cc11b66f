package xata

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"

	domainErrors "github.com/polkiloo/detta3d-orders/internal/domain/errors"
	"github.com/polkiloo/detta3d-orders/internal/domain/model"
	"github.com/polkiloo/detta3d-orders/internal/domain/repository"
)

const (
	recordsPath = "/tables/" + repository.OrdersTable + "/data"
	recordPath  = recordsPath + "/{id}"
	queryPath   = "/tables/" + repository.OrdersTable + "/query"
)

// Store implements repository.OrderStore on top of the Xata REST API.
type Store struct {
	client *resty.Client
	logger *slog.Logger
}

type insertResponse struct {
	ID string `json:"id"`
}

type queryRequest struct {
	Filter repository.Filter `json:"filter,omitempty"`
	Page   queryPage         `json:"page"`
}

type queryPage struct {
	Size int `json:"size"`
}

type queryResponse struct {
	Records []model.Order `json:"records"`
}

type apiError struct {
	Message string `json:"message"`
}

// New creates a Store for the database branch at baseURL.
func New(baseURL, apiKey string, timeout time.Duration, logger *slog.Logger) (*Store, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("xata url must be provided")
	}
	client := resty.New().
		SetBaseURL(baseURL).
		SetAuthToken(apiKey).
		SetTimeout(timeout).
		SetHeader("Accept", "application/json").
		SetHeader("Content-Type", "application/json").
		SetError(&apiError{})

	return &Store{client: client, logger: logger}, nil
}

// Insert creates a record and returns the id assigned by Xata.
func (s *Store) Insert(ctx context.Context, order model.Order) (string, error) {
	order.ID = ""
	var out insertResponse
	resp, err := s.client.R().
		SetContext(ctx).
		SetBody(order).
		SetResult(&out).
		Post(recordsPath)
	if err != nil {
		return "", fmt.Errorf("insert record: %w", err)
	}
	if resp.IsError() {
		return "", s.failure(ctx, "insert record", resp)
	}
	return out.ID, nil
}

// Get fetches a record by id.
func (s *Store) Get(ctx context.Context, id string) (*model.Order, error) {
	var out model.Order
	resp, err := s.client.R().
		SetContext(ctx).
		SetPathParam("id", id).
		SetResult(&out).
		Get(recordPath)
	if err != nil {
		return nil, fmt.Errorf("get record: %w", err)
	}
	if resp.StatusCode() == http.StatusNotFound {
		return nil, domainErrors.ErrNotFound
	}
	if resp.IsError() {
		return nil, s.failure(ctx, "get record", resp)
	}
	return &out, nil
}

// Update patches the given columns and returns the full updated record.
func (s *Store) Update(ctx context.Context, id string, fields repository.Fields) (*model.Order, error) {
	if err := fields.Valid(); err != nil {
		return nil, err
	}
	var out model.Order
	resp, err := s.client.R().
		SetContext(ctx).
		SetPathParam("id", id).
		SetQueryParam("columns", "*").
		SetBody(map[string]any(fields)).
		SetResult(&out).
		Patch(recordPath)
	if err != nil {
		return nil, fmt.Errorf("update record: %w", err)
	}
	if resp.StatusCode() == http.StatusNotFound {
		return nil, domainErrors.ErrNotFound
	}
	if resp.IsError() {
		return nil, s.failure(ctx, "update record", resp)
	}
	if out.ID == "" {
		return nil, nil
	}
	return &out, nil
}

// Query returns up to pageSize records matching every filter predicate.
func (s *Store) Query(ctx context.Context, filter repository.Filter, pageSize int) ([]model.Order, error) {
	var out queryResponse
	resp, err := s.client.R().
		SetContext(ctx).
		SetBody(queryRequest{Filter: filter, Page: queryPage{Size: pageSize}}).
		SetResult(&out).
		Post(queryPath)
	if err != nil {
		return nil, fmt.Errorf("query records: %w", err)
	}
	if resp.IsError() {
		return nil, s.failure(ctx, "query records", resp)
	}
	return out.Records, nil
}

// Ping requests the branch details.
func (s *Store) Ping(ctx context.Context) error {
	resp, err := s.client.R().SetContext(ctx).Get("/")
	if err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	if resp.IsError() {
		return s.failure(ctx, "ping", resp)
	}
	return nil
}

func (s *Store) failure(ctx context.Context, op string, resp *resty.Response) error {
	message := ""
	if e, ok := resp.Error().(*apiError); ok && e != nil {
		message = e.Message
	}
	s.logger.ErrorContext(ctx, "xata request failed",
		slog.String("op", op),
		slog.Int("status", resp.StatusCode()),
		slog.String("message", message),
	)
	return fmt.Errorf("%s: xata responded %s", op, resp.Status())
}

var _ repository.OrderStore = (*Store)(nil)
