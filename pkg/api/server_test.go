package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/gamehaven/telemetry/pkg/db"
	"github.com/gamehaven/telemetry/pkg/models"
	"github.com/gamehaven/telemetry/pkg/telemetry"
)

const testAPIKey = "test-admin-key"

func newTestServer(t *testing.T, store db.Service) *APIServer {
	t.Helper()

	aggregator, err := telemetry.NewAggregator(store, 0)
	require.NoError(t, err)

	return NewAPIServer(store, aggregator, testAPIKey, 0)
}

func adminCookies(req *http.Request) {
	req.AddCookie(&http.Cookie{Name: telemetry.CookieUserID, Value: "1"})
	req.AddCookie(&http.Cookie{Name: telemetry.CookieUserEmail, Value: "admin@gamehaven.test"})
	req.AddCookie(&http.Cookie{Name: telemetry.CookieUserRole, Value: "admin"})
}

func seedStore(t *testing.T, store db.Service) {
	t.Helper()

	now := time.Now()
	seed := []models.MetricRecord{
		{Endpoint: "/api/games?page=1", Method: "GET", Duration: 100, StatusCode: 200,
			Timestamp: now.Add(-time.Minute)},
		{Endpoint: "/api/login", Method: "POST", Duration: 300, StatusCode: 500,
			UserID: "7", UserEmail: "p@gamehaven.test", UserRole: "customer",
			Timestamp: now.Add(-2 * time.Minute)},
	}

	for i := range seed {
		require.NoError(t, store.AppendRecord(&seed[i]))
	}
}

func TestGetPerformanceRequiresAdmin(t *testing.T) {
	server := newTestServer(t, db.NewMemStore(16))

	tests := []struct {
		name     string
		decorate func(*http.Request)
		want     int
	}{
		{
			name:     "no credentials",
			decorate: func(*http.Request) {},
			want:     http.StatusForbidden,
		},
		{
			name: "customer session",
			decorate: func(req *http.Request) {
				req.AddCookie(&http.Cookie{Name: telemetry.CookieUserID, Value: "7"})
				req.AddCookie(&http.Cookie{Name: telemetry.CookieUserEmail, Value: "p@gamehaven.test"})
				req.AddCookie(&http.Cookie{Name: telemetry.CookieUserRole, Value: "customer"})
			},
			want: http.StatusForbidden,
		},
		{
			name:     "admin session",
			decorate: adminCookies,
			want:     http.StatusOK,
		},
		{
			name: "api key",
			decorate: func(req *http.Request) {
				req.Header.Set("Authorization", "Bearer "+testAPIKey)
			},
			want: http.StatusOK,
		},
		{
			name: "wrong api key",
			decorate: func(req *http.Request) {
				req.Header.Set("Authorization", "Bearer nope")
			},
			want: http.StatusForbidden,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/performance", nil)
			tt.decorate(req)

			w := httptest.NewRecorder()
			server.Router().ServeHTTP(w, req)

			assert.Equal(t, tt.want, w.Code)
		})
	}
}

func TestGetPerformanceSummary(t *testing.T) {
	store := db.NewMemStore(16)
	seedStore(t, store)
	server := newTestServer(t, store)

	req := httptest.NewRequest(http.MethodGet, "/api/performance?timeframe=5m", nil)
	adminCookies(req)

	w := httptest.NewRecorder()
	server.Router().ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	var summary models.PerformanceSummary
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &summary))

	assert.Equal(t, 2, summary.TotalRequests)
	assert.InDelta(t, 200.0, summary.AverageResponseTime, 0.001)
	assert.InDelta(t, 50.0, summary.ErrorRate, 0.001)
	assert.NotZero(t, summary.MemoryStats.TotalBytes)
	assert.False(t, summary.LastUpdated.IsZero())
}

func TestGetPerformanceUnknownTimeframeFallsBack(t *testing.T) {
	store := db.NewMemStore(16)
	server := newTestServer(t, store)

	// Inside the 1h fallback window but outside 5m.
	require.NoError(t, store.AppendRecord(&models.MetricRecord{
		Endpoint: "/api/genres", Method: "GET", Duration: 10, StatusCode: 200,
		Timestamp: time.Now().Add(-30 * time.Minute),
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/performance?timeframe=bogus", nil)
	adminCookies(req)

	w := httptest.NewRecorder()
	server.Router().ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var summary models.PerformanceSummary
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &summary))
	assert.Equal(t, 1, summary.TotalRequests)
}

func TestGetPerformanceEndpointFilter(t *testing.T) {
	store := db.NewMemStore(16)
	seedStore(t, store)
	server := newTestServer(t, store)

	req := httptest.NewRequest(http.MethodGet, "/api/performance?endpoint=login", nil)
	adminCookies(req)

	w := httptest.NewRecorder()
	server.Router().ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var summary models.PerformanceSummary
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &summary))
	assert.Equal(t, 1, summary.TotalRequests)
	assert.InDelta(t, 100.0, summary.ErrorRate, 0.001)
}

func TestClearThenReport(t *testing.T) {
	store := db.NewMemStore(16)
	seedStore(t, store)
	server := newTestServer(t, store)

	req := httptest.NewRequest(http.MethodDelete, "/api/performance/clear", nil)
	adminCookies(req)

	w := httptest.NewRecorder()
	server.Router().ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var confirmation map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &confirmation))
	assert.NotEmpty(t, confirmation["message"])

	// Any timeframe reports an all-zero summary afterwards.
	req = httptest.NewRequest(http.MethodGet, "/api/performance?timeframe=7d", nil)
	adminCookies(req)

	w = httptest.NewRecorder()
	server.Router().ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var summary models.PerformanceSummary
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &summary))
	assert.Equal(t, 0, summary.TotalRequests)
	assert.Equal(t, 0.0, summary.AverageResponseTime)
	assert.Equal(t, 0.0, summary.ErrorRate)
	assert.Empty(t, summary.SlowestRequests)
}

func TestGetRecordsFilters(t *testing.T) {
	store := db.NewMemStore(16)
	seedStore(t, store)
	server := newTestServer(t, store)

	tests := []struct {
		name  string
		query string
		want  int
	}{
		{"by user", "user=7", 1},
		{"by role", "role=customer", 1},
		{"by endpoint", "endpoint=games", 1},
		{"recent default", "", 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/performance/records?"+tt.query, nil)
			adminCookies(req)

			w := httptest.NewRecorder()
			server.Router().ServeHTTP(w, req)

			require.Equal(t, http.StatusOK, w.Code)

			var records []models.MetricRecord
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &records))
			assert.Len(t, records, tt.want)
		})
	}
}

func TestGetRecordsBadSince(t *testing.T) {
	server := newTestServer(t, db.NewMemStore(16))

	req := httptest.NewRequest(http.MethodGet, "/api/performance/records?since=yesterday", nil)
	adminCookies(req)

	w := httptest.NewRecorder()
	server.Router().ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetPerformanceStoreFaultIsGeneric(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockStore := db.NewMockService(ctrl)
	mockStore.EXPECT().
		RecentRecords(gomock.Any()).
		Return(nil, assert.AnError)

	server := newTestServer(t, mockStore)

	req := httptest.NewRequest(http.MethodGet, "/api/performance", nil)
	adminCookies(req)

	w := httptest.NewRecorder()
	server.Router().ServeHTTP(w, req)

	require.Equal(t, http.StatusInternalServerError, w.Code)

	// No internal error detail leaks to the client.
	assert.NotContains(t, w.Body.String(), assert.AnError.Error())
}

func TestLiveMetricsStream(t *testing.T) {
	store := db.NewMemStore(16)
	seedStore(t, store)

	aggregator, err := telemetry.NewAggregator(store, 0)
	require.NoError(t, err)

	server := NewAPIServer(store, aggregator, testAPIKey, 10*time.Millisecond)

	ts := httptest.NewServer(server.Router())
	defer ts.Close()

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/api/performance/live"
	header := http.Header{"Authorization": []string{"Bearer " + testAPIKey}}

	conn, resp, err := websocket.DefaultDialer.Dial(wsURL, header)
	require.NoError(t, err)

	defer func() {
		_ = conn.Close()
		_ = resp.Body.Close()
	}()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))

	var summary models.PerformanceSummary
	require.NoError(t, conn.ReadJSON(&summary))
	assert.Equal(t, 2, summary.TotalRequests)
}

func TestNewAPIServerLiveInterval(t *testing.T) {
	store := db.NewMemStore(4)
	aggregator, err := telemetry.NewAggregator(store, 0)
	require.NoError(t, err)

	assert.Equal(t, defaultLiveInterval, NewAPIServer(store, aggregator, "", 0).liveInterval)
	assert.Equal(t, time.Second, NewAPIServer(store, aggregator, "", time.Second).liveInterval)
}
