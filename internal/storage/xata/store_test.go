package xata

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"go.opentelemetry.io/otel/trace"

	domainErrors "github.com/polkiloo/detta3d-orders/internal/domain/errors"
	"github.com/polkiloo/detta3d-orders/internal/domain/model"
	"github.com/polkiloo/detta3d-orders/internal/domain/repository"
)

const testKey = "xau_test"

func testLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func newTestStore(t *testing.T, handler http.HandlerFunc) *Store {
	t.Helper()
	return newTestStoreWithLogger(t, testLogger(), handler)
}

func newTestStoreWithLogger(t *testing.T, logger *slog.Logger, handler http.HandlerFunc) *Store {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer "+testKey {
			writeJSON(w, http.StatusUnauthorized, `{"message":"invalid API key"}`)
			return
		}
		handler(w, r)
	}))
	t.Cleanup(srv.Close)

	store, err := New(srv.URL+"/db/orders:main", testKey, time.Second, logger)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	return store
}

func writeJSON(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(body))
}

func decodeBody(t *testing.T, r *http.Request) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		t.Errorf("decode request body: %v", err)
	}
	return body
}

func TestNewRequiresURL(t *testing.T) {
	if _, err := New("", testKey, time.Second, testLogger()); err == nil {
		t.Fatal("expected error for empty url")
	}
}

func TestInsertPostsRecordWithoutID(t *testing.T) {
	created := time.Date(2024, 11, 5, 18, 30, 0, 0, time.UTC)
	store := newTestStore(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/db/orders:main/tables/orders/data" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		body := decodeBody(t, r)
		if _, ok := body["id"]; ok {
			t.Errorf("id must not be sent, got %v", body)
		}
		if body["user_id"] != "Mateo" || body["price"] != 7500.0 || body["status"] != "Retira en persona" {
			t.Errorf("unexpected body %v", body)
		}
		if body["created_at"] != "2024-11-05T18:30:00Z" {
			t.Errorf("unexpected created_at %v", body["created_at"])
		}
		writeJSON(w, http.StatusCreated, `{"id":"rec_abc","xata":{"version":0}}`)
	})

	id, err := store.Insert(context.Background(), model.Order{
		ID: "client-id", UserID: "Mateo", Product: "Mate", Price: 7500,
		Status: model.DeliveryInPerson, CreatedAt: created, UpdatedAt: created,
	})
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	if id != "rec_abc" {
		t.Fatalf("expected rec_abc, got %q", id)
	}
}

func TestInsertFailure(t *testing.T) {
	store := newTestStore(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusBadRequest, `{"message":"column [price]: invalid value"}`)
	})

	_, err := store.Insert(context.Background(), model.Order{UserID: "u", Product: "p", Price: 1})
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "400") || strings.Contains(err.Error(), "column [price]") {
		t.Fatalf("unexpected error %q", err)
	}
}

type recordedLog struct {
	msg     string
	traceID string
}

type recordingHandler struct {
	mu   sync.Mutex
	logs []recordedLog
}

func (h *recordingHandler) Enabled(context.Context, slog.Level) bool { return true }

func (h *recordingHandler) Handle(ctx context.Context, r slog.Record) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	entry := recordedLog{msg: r.Message}
	if sc := trace.SpanContextFromContext(ctx); sc.IsValid() {
		entry.traceID = sc.TraceID().String()
	}
	h.logs = append(h.logs, entry)
	return nil
}

func (h *recordingHandler) WithAttrs([]slog.Attr) slog.Handler { return h }
func (h *recordingHandler) WithGroup(string) slog.Handler      { return h }

func TestFailureLogsWithRequestContext(t *testing.T) {
	handler := &recordingHandler{}
	store := newTestStoreWithLogger(t, slog.New(handler), func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusInternalServerError, `{"message":"boom"}`)
	})

	sc := trace.NewSpanContext(trace.SpanContextConfig{
		TraceID:    trace.TraceID{0x01, 0x02},
		SpanID:     trace.SpanID{0x03},
		TraceFlags: trace.FlagsSampled,
	})
	ctx := trace.ContextWithSpanContext(context.Background(), sc)

	if _, err := store.Query(ctx, nil, 10); err == nil {
		t.Fatal("expected error")
	}
	if len(handler.logs) != 1 {
		t.Fatalf("expected one log entry, got %v", handler.logs)
	}
	if got := handler.logs[0]; got.msg != "xata request failed" || got.traceID != sc.TraceID().String() {
		t.Fatalf("expected failure logged with trace context, got %+v", got)
	}
}

func TestGet(t *testing.T) {
	store := newTestStore(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Errorf("unexpected method %s", r.Method)
		}
		switch r.URL.Path {
		case "/db/orders:main/tables/orders/data/rec_abc":
			writeJSON(w, http.StatusOK, `{
				"id":"rec_abc","user_id":"Mateo","product":"Mate","price":7500,
				"status":"Retira en persona","payment_status":"Instagram",
				"address":null,"created_at":"2024-11-05T18:30:00Z",
				"xata":{"version":0,"createdAt":"2024-11-05T18:30:00.1Z"}
			}`)
		default:
			writeJSON(w, http.StatusNotFound, `{"message":"record not found"}`)
		}
	})

	order, err := store.Get(context.Background(), "rec_abc")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if order.ID != "rec_abc" || order.Price != 7500 || order.Address != "" {
		t.Fatalf("unexpected order %+v", order)
	}
	if order.Status != model.DeliveryInPerson || order.PaymentStatus != model.PaymentInstagram {
		t.Fatalf("unexpected enums %+v", order)
	}
	if !order.CreatedAt.Equal(time.Date(2024, 11, 5, 18, 30, 0, 0, time.UTC)) {
		t.Fatalf("unexpected created_at %v", order.CreatedAt)
	}

	if _, err := store.Get(context.Background(), "rec_missing"); !errors.Is(err, domainErrors.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestGetServerError(t *testing.T) {
	store := newTestStore(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusServiceUnavailable, `{"message":"try later"}`)
	})

	_, err := store.Get(context.Background(), "rec_abc")
	if err == nil || errors.Is(err, domainErrors.ErrNotFound) {
		t.Fatalf("expected non not-found error, got %v", err)
	}
}

func TestUpdatePatchesColumns(t *testing.T) {
	store := newTestStore(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPatch || r.URL.Path != "/db/orders:main/tables/orders/data/rec_abc" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if r.URL.Query().Get("columns") != "*" {
			t.Errorf("expected columns=*, got %q", r.URL.RawQuery)
		}
		body := decodeBody(t, r)
		if len(body) != 2 || body["price"] != 8000.0 {
			t.Errorf("unexpected body %v", body)
		}
		writeJSON(w, http.StatusOK, `{"id":"rec_abc","user_id":"Mateo","product":"Mate","price":8000}`)
	})

	order, err := store.Update(context.Background(), "rec_abc", repository.Fields{
		"price":      8000.0,
		"updated_at": time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if order.Price != 8000 {
		t.Fatalf("unexpected price %v", order.Price)
	}
}

func TestUpdateEmptyRecordBody(t *testing.T) {
	store := newTestStore(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, `{}`)
	})

	order, err := store.Update(context.Background(), "rec_abc", repository.Fields{"notes": "x"})
	if err != nil || order != nil {
		t.Fatalf("expected nil order without error, got %+v, %v", order, err)
	}
}

func TestUpdateErrors(t *testing.T) {
	calls := 0
	store := newTestStore(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		writeJSON(w, http.StatusNotFound, `{"message":"record not found"}`)
	})

	if _, err := store.Update(context.Background(), "rec_abc", repository.Fields{"notes": "x"}); !errors.Is(err, domainErrors.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := store.Update(context.Background(), "rec_abc", repository.Fields{"id": "other"}); err == nil {
		t.Fatal("expected error for invalid column")
	}
	if calls != 1 {
		t.Fatalf("invalid columns must not reach the API, got %d calls", calls)
	}
}

func TestQuerySendsFilterAndPage(t *testing.T) {
	store := newTestStore(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/db/orders:main/tables/orders/query" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		var body struct {
			Filter map[string]string `json:"filter"`
			Page   struct {
				Size int `json:"size"`
			} `json:"page"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode: %v", err)
		}
		if body.Page.Size != 100 || len(body.Filter) != 1 || body.Filter["status"] != "Envío a domicilio" {
			t.Errorf("unexpected query %+v", body)
		}
		writeJSON(w, http.StatusOK, `{"records":[
			{"id":"rec_1","user_id":"a","product":"p","price":1,"status":"Envío a domicilio"},
			{"id":"rec_2","user_id":"b","product":"q","price":2,"status":"Envío a domicilio"}
		],"meta":{"page":{"more":false}}}`)
	})

	orders, err := store.Query(context.Background(), repository.Filter{"status": string(model.CompletedStatus)}, 100)
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(orders) != 2 || orders[0].ID != "rec_1" || orders[1].Status != model.DeliveryShipping {
		t.Fatalf("unexpected orders %+v", orders)
	}
}

func TestQueryOmitsEmptyFilter(t *testing.T) {
	store := newTestStore(t, func(w http.ResponseWriter, r *http.Request) {
		if _, ok := decodeBody(t, r)["filter"]; ok {
			t.Error("empty filter must be omitted")
		}
		writeJSON(w, http.StatusOK, `{"records":[]}`)
	})

	orders, err := store.Query(context.Background(), nil, 100)
	if err != nil || len(orders) != 0 {
		t.Fatalf("expected no orders, got %v, %v", orders, err)
	}
}

func TestPing(t *testing.T) {
	healthy := true
	store := newTestStore(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/db/orders:main/" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if healthy {
			writeJSON(w, http.StatusOK, `{"databaseName":"orders","branchName":"main"}`)
			return
		}
		writeJSON(w, http.StatusInternalServerError, `{"message":"boom"}`)
	})

	if err := store.Ping(context.Background()); err != nil {
		t.Fatalf("ping: %v", err)
	}
	healthy = false
	if err := store.Ping(context.Background()); err == nil {
		t.Fatal("expected ping failure")
	}
}

func TestUnauthorized(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusUnauthorized, `{"message":"invalid API key"}`)
	}))
	defer srv.Close()

	store, err := New(srv.URL, "wrong", time.Second, testLogger())
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	if _, err := store.Query(context.Background(), nil, 10); err == nil {
		t.Fatal("expected error")
	}
}
