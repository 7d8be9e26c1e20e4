package services

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/hienmauto/internal/models"
)

type webhookCall struct {
	method string
	body   []map[string]any
}

type webhookRecorder struct {
	mu    sync.Mutex
	calls []webhookCall
}

func (r *webhookRecorder) handler() http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		raw, _ := io.ReadAll(req.Body)
		var body []map[string]any
		_ = json.Unmarshal(raw, &body)

		r.mu.Lock()
		r.calls = append(r.calls, webhookCall{method: req.Method, body: body})
		r.mu.Unlock()
	}
}

func (r *webhookRecorder) recorded() []webhookCall {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]webhookCall, len(r.calls))
	copy(out, r.calls)
	return out
}

func TestNotifyOrdersDeletedUsesDeleteMethod(t *testing.T) {
	rec := &webhookRecorder{}
	server := httptest.NewServer(rec.handler())
	defer server.Close()

	svc := NewN8NService(N8NEndpoints{Delete: server.URL}, NewSheetCodec(nil), time.Second)

	err := svc.NotifyOrdersDeleted([]models.Order{{ID: "DH001", CustomerName: "A"}})
	require.NoError(t, err)

	calls := rec.recorded()
	require.Len(t, calls, 1)
	assert.Equal(t, http.MethodDelete, calls[0].method, "the delete workflow expects DELETE with a JSON body")
	require.Len(t, calls[0].body, 1)
	assert.Equal(t, "DH001", calls[0].body[0]["Mã đơn hàng"])
}

func TestNotifyOrderUpdatedWrapsInArray(t *testing.T) {
	rec := &webhookRecorder{}
	server := httptest.NewServer(rec.handler())
	defer server.Close()

	svc := NewN8NService(N8NEndpoints{UpdateOne: server.URL}, NewSheetCodec(nil), time.Second)

	require.NoError(t, svc.NotifyOrderUpdated(models.Order{ID: "DH002"}))

	calls := rec.recorded()
	require.Len(t, calls, 1)
	assert.Equal(t, http.MethodPost, calls[0].method)
	assert.Len(t, calls[0].body, 1, "a single update still travels as an array")
}

func TestNotifyEmptyURLIsNoop(t *testing.T) {
	svc := NewN8NService(N8NEndpoints{}, NewSheetCodec(nil), time.Second)
	assert.NoError(t, svc.NotifyOrdersCreated([]models.Order{{ID: "DH003"}}))
}

func TestNotifyNon2xxIsError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer server.Close()

	svc := NewN8NService(N8NEndpoints{Add: server.URL}, NewSheetCodec(nil), time.Second)
	assert.Error(t, svc.NotifyOrdersCreated([]models.Order{{ID: "DH004"}}))
}

func TestFetchStatsShapes(t *testing.T) {
	cases := []struct {
		name string
		body string
		want int
	}{
		{"bare array", `[{"status":"sent"},{"status":"returned"}]`, 2},
		{"data wrapper", `{"data":[{"status":"sent"}]}`, 1},
		{"orders wrapper", `{"orders":[{"status":"sent"},{"status":"sent"},{"status":"sent"}]}`, 3},
		{"empty object", `{}`, 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				io.WriteString(w, tc.body)
			}))
			defer server.Close()

			svc := NewN8NService(N8NEndpoints{Stats: server.URL}, NewSheetCodec(nil), time.Second)
			records, err := svc.FetchStats(context.Background())
			require.NoError(t, err)
			assert.Len(t, records, tc.want)
		})
	}
}

func TestFetchStatsUnconfigured(t *testing.T) {
	svc := NewN8NService(N8NEndpoints{}, NewSheetCodec(nil), time.Second)
	records, err := svc.FetchStats(context.Background())
	assert.NoError(t, err)
	assert.Nil(t, records)
}

func TestFetchStatsHTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	svc := NewN8NService(N8NEndpoints{Stats: server.URL}, NewSheetCodec(nil), time.Second)
	_, err := svc.FetchStats(context.Background())
	assert.Error(t, err)
}
