package telemetry

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/gamehaven/telemetry/pkg/db"
	"github.com/gamehaven/telemetry/pkg/models"
)

func newTestCollector(t *testing.T) (*Collector, *db.MemStore) {
	t.Helper()

	store := db.NewMemStore(64)

	collector, err := NewCollector(store, models.CollectorConfig{})
	require.NoError(t, err)

	return collector, store
}

func doRequest(collector *Collector, handler http.Handler, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	collector.Middleware(handler).ServeHTTP(w, req)
	collector.Flush()

	return w
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestMiddlewareRecordsExactlyOneRecord(t *testing.T) {
	collector, store := newTestCollector(t)

	req := httptest.NewRequest(http.MethodGet, "/api/genres?sort=name", nil)
	w := doRequest(collector, okHandler(), req)

	assert.Equal(t, http.StatusOK, w.Code)

	records, err := store.RecentRecords(0)
	require.NoError(t, err)
	require.Len(t, records, 1)

	record := records[0]
	assert.Equal(t, "/api/genres?sort=name", record.Endpoint)
	assert.Equal(t, http.MethodGet, record.Method)
	assert.Equal(t, http.StatusOK, record.StatusCode)
	assert.GreaterOrEqual(t, record.Duration, int64(0))
	assert.False(t, record.Timestamp.IsZero())
	assert.NotNil(t, record.MemoryUsage)
}

func TestWrapFuncMeasuresSingleHandler(t *testing.T) {
	collector, store := newTestCollector(t)

	wrapped := collector.WrapFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusCreated)
	})

	req := httptest.NewRequest(http.MethodPost, "/api/register", nil)
	w := httptest.NewRecorder()
	wrapped(w, req)
	collector.Flush()

	assert.Equal(t, http.StatusCreated, w.Code)

	records, err := store.RecentRecords(0)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, http.StatusCreated, records[0].StatusCode)
}

func TestMiddlewareSkipsReportingEndpoint(t *testing.T) {
	collector, store := newTestCollector(t)

	for _, path := range []string{"/api/performance", "/api/performance/clear"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		w := doRequest(collector, okHandler(), req)
		assert.Equal(t, http.StatusOK, w.Code)
	}

	records, err := store.RecentRecords(0)
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestMiddlewarePanicBecomes500(t *testing.T) {
	collector, store := newTestCollector(t)

	panicking := http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	})

	req := httptest.NewRequest(http.MethodPost, "/api/promotions", nil)
	w := doRequest(collector, panicking, req)

	// The caller sees a generic 500, never the panic itself.
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "boom")

	records, err := store.RecentRecords(0)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, http.StatusInternalServerError, records[0].StatusCode)
}

func TestMiddlewareStatusFromHandler(t *testing.T) {
	collector, store := newTestCollector(t)

	notFound := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "not found", http.StatusNotFound)
	})

	req := httptest.NewRequest(http.MethodGet, "/api/games/999", nil)
	w := doRequest(collector, notFound, req)

	assert.Equal(t, http.StatusNotFound, w.Code)

	records, err := store.RecentRecords(0)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, http.StatusNotFound, records[0].StatusCode)
}

func TestMiddlewareSessionIdentity(t *testing.T) {
	tests := []struct {
		name     string
		cookies  map[string]string
		wantID   string
		wantRole string
	}{
		{
			name: "complete session",
			cookies: map[string]string{
				CookieUserID:    "42",
				CookieUserEmail: "player@gamehaven.test",
				CookieUserRole:  "customer",
			},
			wantID:   "42",
			wantRole: "customer",
		},
		{
			name:    "no cookies",
			cookies: nil,
		},
		{
			name: "partial cookies",
			cookies: map[string]string{
				CookieUserID: "42",
			},
		},
		{
			name: "explicit guest role",
			cookies: map[string]string{
				CookieUserID:    "42",
				CookieUserEmail: "player@gamehaven.test",
				CookieUserRole:  GuestRole,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			collector, store := newTestCollector(t)

			req := httptest.NewRequest(http.MethodGet, "/api/recommendations", nil)
			for name, value := range tt.cookies {
				req.AddCookie(&http.Cookie{Name: name, Value: value})
			}

			doRequest(collector, okHandler(), req)

			records, err := store.RecentRecords(0)
			require.NoError(t, err)
			require.Len(t, records, 1)

			record := records[0]
			assert.Equal(t, tt.wantID, record.UserID)
			assert.Equal(t, tt.wantRole, record.UserRole)

			if tt.wantID == "" {
				// Guests never get placeholder identity values.
				assert.Empty(t, record.UserEmail)
			}
		})
	}
}

func TestMiddlewareAppendFailureIsInvisible(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockStore := db.NewMockService(ctrl)
	mockStore.EXPECT().
		AppendRecord(gomock.Any()).
		Return(errors.New("store unreachable"))

	collector, err := NewCollector(mockStore, models.CollectorConfig{})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/users", nil)
	w := doRequest(collector, okHandler(), req)

	// The response is unaffected by the telemetry-write fault.
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestMiddlewareCollectsByDefault(t *testing.T) {
	store := db.NewMemStore(8)

	// An omitted collector block in the config must not turn measurement off.
	collector, err := NewCollector(store, models.CollectorConfig{})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/games", nil)
	w := doRequest(collector, okHandler(), req)
	assert.Equal(t, http.StatusOK, w.Code)

	records, err := store.RecentRecords(0)
	require.NoError(t, err)
	assert.Len(t, records, 1)
}

func TestMiddlewareDisabled(t *testing.T) {
	store := db.NewMemStore(8)

	collector, err := NewCollector(store, models.CollectorConfig{Disabled: true})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/games", nil)
	w := doRequest(collector, okHandler(), req)
	assert.Equal(t, http.StatusOK, w.Code)

	records, err := store.RecentRecords(0)
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestNewCollectorNilStore(t *testing.T) {
	_, err := NewCollector(nil, models.CollectorConfig{})
	assert.ErrorIs(t, err, ErrNilStore)
}

func TestClientIP(t *testing.T) {
	tests := []struct {
		name       string
		remoteAddr string
		forwarded  string
		want       string
	}{
		{"ipv4 peer", "198.51.100.7:54321", "", "198.51.100.7"},
		{"ipv6 peer", "[2001:db8::1]:443", "", "2001:db8::1"},
		{"ipv6 loopback peer", "[::1]:54321", "", "::1"},
		{"peer without port", "198.51.100.7", "", "198.51.100.7"},
		{"forwarded single hop", "10.0.0.1:80", "203.0.113.9", "203.0.113.9"},
		{"forwarded first hop wins", "10.0.0.1:80", "203.0.113.9, 10.0.0.1", "203.0.113.9"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remoteAddr

			if tt.forwarded != "" {
				req.Header.Set("X-Forwarded-For", tt.forwarded)
			}

			assert.Equal(t, tt.want, clientIP(req))
		})
	}
}
