package console

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sowlstudios/admin-console/internal/api"
	"github.com/sowlstudios/admin-console/internal/bookings"
	"github.com/sowlstudios/admin-console/internal/health"
	"github.com/sowlstudios/admin-console/internal/metrics"
	"github.com/sowlstudios/admin-console/internal/model"
	"github.com/sowlstudios/admin-console/internal/session"
	"github.com/sowlstudios/admin-console/internal/sse"
)

// upstream fakes the booking API and actuator for route tests.
func upstream(t *testing.T) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/auth/login":
			w.Write([]byte(`{"success":true,"data":{"token":"jwt-token","username":"admin","fullName":"Studio Admin"}}`))
		case r.URL.Path == "/auth/logout":
			w.Write([]byte(`{"success":true}`))
		case r.URL.Path == "/admin/stats":
			w.Write([]byte(`{"success":true,"data":{"totalBookings":42,"pendingBookings":5}}`))
		case r.URL.Path == "/admin/sales":
			w.Write([]byte(`{"data":{"totalSales":450}}`))
		case r.URL.Path == "/admin/bookings" && r.Method == http.MethodGet:
			page := model.Page{
				Content: []model.Booking{{
					ID:        7,
					FirstName: "Ama",
					Status:    model.BookingStatusPending,
					Amount:    450,
					CreatedAt: time.Date(2025, 1, 5, 10, 0, 0, 0, time.UTC),
				}},
				TotalElements: 1,
				TotalPages:    1,
				Size:          10,
			}
			data, _ := json.Marshal(page)
			json.NewEncoder(w).Encode(model.Envelope{Success: true, Data: data})
		case r.URL.Path == "/admin/bookings/7" && r.Method == http.MethodGet:
			data, _ := json.Marshal(model.Booking{ID: 7, Status: model.BookingStatusPending})
			json.NewEncoder(w).Encode(model.Envelope{Success: true, Data: data})
		case r.URL.Path == "/admin/bookings/7/status":
			w.Write([]byte(`{"success":true}`))
		case r.URL.Path == "/admin/bookings/7" && r.Method == http.MethodDelete:
			w.WriteHeader(http.StatusNoContent)
		case r.URL.Path == "/actuator/health":
			w.Write([]byte(`{"status":"UP"}`))
		case r.URL.Path == "/actuator/metrics":
			w.Write([]byte(`{"names":[]}`))
		case strings.HasPrefix(r.URL.Path, "/actuator/"):
			w.Write([]byte(`{}`))
		case r.URL.Path == "/health":
			w.Write([]byte(`{"success":true,"data":{"status":"UP"}}`))
		case r.URL.Path == "/info":
			w.Write([]byte(`{"success":true,"data":{"application":"Sowl Studios API"}}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(server.Close)
	return server
}

func newTestServer(t *testing.T, authenticated bool) (*httptest.Server, *session.Store) {
	t.Helper()

	backend := upstream(t)
	store := session.NewStore(filepath.Join(t.TempDir(), "session.json"))
	if authenticated {
		require.NoError(t, store.Set("jwt-token", model.AdminUser{Username: "admin"}))
	}

	client := api.NewClient(backend.URL, backend.URL+"/actuator", 5*time.Second, store)
	broker := sse.NewBroker()
	t.Cleanup(broker.Close)

	server := NewServer(
		session.NewAuth(client, store),
		store,
		bookings.NewManager(client),
		metrics.NewAggregator(client),
		health.NewPoller(client, time.Hour),
		broker,
	)

	ts := httptest.NewServer(server.Routes())
	t.Cleanup(ts.Close)
	return ts, store
}

func TestProtectedRoutesRequireSession(t *testing.T) {
	ts, _ := newTestServer(t, false)

	paths := []string{"/session", "/dashboard/stats", "/bookings/", "/system/snapshot"}
	for _, path := range paths {
		t.Run(path, func(t *testing.T) {
			resp, err := http.Get(ts.URL + path)
			require.NoError(t, err)
			defer resp.Body.Close()
			assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		})
	}
}

func TestLoginThenSession(t *testing.T) {
	ts, store := newTestServer(t, false)

	resp, err := http.Post(ts.URL+"/login", "application/json",
		strings.NewReader(`{"username":"admin","password":"secret"}`))
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "jwt-token", store.Token())

	sessResp, err := http.Get(ts.URL + "/session")
	require.NoError(t, err)
	defer sessResp.Body.Close()

	require.Equal(t, http.StatusOK, sessResp.StatusCode)
	var user model.AdminUser
	require.NoError(t, json.NewDecoder(sessResp.Body).Decode(&user))
	assert.Equal(t, "admin", user.Username)
}

func TestLoginRejectsMissingCredentials(t *testing.T) {
	ts, _ := newTestServer(t, false)

	resp, err := http.Post(ts.URL+"/login", "application/json",
		strings.NewReader(`{"username":"admin"}`))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestLogoutClearsSession(t *testing.T) {
	ts, store := newTestServer(t, true)

	resp, err := http.Post(ts.URL+"/logout", "application/json", nil)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.False(t, store.Authenticated())
}

func TestStatsEndpoint(t *testing.T) {
	ts, _ := newTestServer(t, true)

	resp, err := http.Get(ts.URL + "/dashboard/stats")
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	var stats model.DashboardStats
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&stats))
	assert.Equal(t, int64(42), stats.TotalBookings)
}

func TestSalesEndpointValidatesStatus(t *testing.T) {
	ts, _ := newTestServer(t, true)

	resp, err := http.Get(ts.URL + "/dashboard/sales?status=SHIPPED")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestBookingListEndpoint(t *testing.T) {
	ts, _ := newTestServer(t, true)

	resp, err := http.Get(ts.URL + "/bookings/?status=PENDING&size=25")
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	var page model.Page
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&page))
	require.Len(t, page.Content, 1)
	assert.Equal(t, int64(7), page.Content[0].ID)
}

func TestBookingStatusUpdateEndpoint(t *testing.T) {
	ts, _ := newTestServer(t, true)

	req, err := http.NewRequest(http.MethodPut, ts.URL+"/bookings/7/status?status=CONFIRMED", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestBookingDeleteRequiresConfirmFlag(t *testing.T) {
	ts, _ := newTestServer(t, true)

	req, err := http.NewRequest(http.MethodDelete, ts.URL+"/bookings/7", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	req, err = http.NewRequest(http.MethodDelete, ts.URL+"/bookings/7?confirm=true", nil)
	require.NoError(t, err)
	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestBookingIDValidation(t *testing.T) {
	ts, _ := newTestServer(t, true)

	resp, err := http.Get(ts.URL + "/bookings/abc")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestSnapshotEndpointRunsFirstCycleOnDemand(t *testing.T) {
	ts, _ := newTestServer(t, true)

	resp, err := http.Get(ts.URL + "/system/snapshot")
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	var snapshot model.HealthSnapshot
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&snapshot))
	assert.Equal(t, "UP", snapshot.OverallStatus())
	assert.False(t, snapshot.LastUpdated.IsZero())
}

func TestUpstreamErrorStatusPassesThrough(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte(`{"message":"Maintenance window"}`))
	}))
	t.Cleanup(backend.Close)

	store := session.NewStore(filepath.Join(t.TempDir(), "session.json"))
	require.NoError(t, store.Set("jwt-token", model.AdminUser{Username: "admin"}))

	client := api.NewClient(backend.URL, backend.URL, 5*time.Second, store)
	broker := sse.NewBroker()
	t.Cleanup(broker.Close)

	server := NewServer(
		session.NewAuth(client, store),
		store,
		bookings.NewManager(client),
		metrics.NewAggregator(client),
		health.NewPoller(client, time.Hour),
		broker,
	)
	ts := httptest.NewServer(server.Routes())
	t.Cleanup(ts.Close)

	resp, err := http.Get(ts.URL + "/dashboard/stats")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)

	var body struct {
		Error string `json:"error"`
		Code  string `json:"code"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "Maintenance window", body.Error)
	assert.Equal(t, "UPSTREAM_ERROR", body.Code)
}
