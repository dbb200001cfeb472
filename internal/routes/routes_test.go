package routes

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"admin-dashboard-api/internal/auth"
	"admin-dashboard-api/internal/board"
	"admin-dashboard-api/internal/cache"
	"admin-dashboard-api/internal/kanban"
	"admin-dashboard-api/internal/middleware"
	"admin-dashboard-api/internal/realtime"
	"admin-dashboard-api/internal/testutil"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func newRouter(t *testing.T, limiter *middleware.RateLimiter) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	db, err := testutil.NewInMemoryDB()
	require.NoError(t, err)

	hub := realtime.NewHub()
	svc := kanban.NewService(kanban.NewStore(db), cache.NewMemory(), time.Minute, hub)
	return SetupRoutes(Deps{Kanban: svc, Hub: hub, Limiter: limiter, PersistTimeout: time.Second})
}

func TestHealth(t *testing.T) {
	r := newRouter(t, nil)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
}

func TestMetricsExposed(t *testing.T) {
	r := newRouter(t, nil)
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/health", nil))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "admin_dashboard_http_requests_total")
}

func TestKanbanRequiresAuth(t *testing.T) {
	r := newRouter(t, nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/kanban", nil))
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestSeedThenFetch(t *testing.T) {
	r := newRouter(t, nil)
	token, err := auth.GenerateToken("u-1", "alice", "User")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/kanban/seed", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	req = httptest.NewRequest(http.MethodGet, "/api/kanban", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var b board.Board
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &b))
	require.Len(t, b.Columns, len(kanban.DefaultColumns))
	require.Equal(t, "To Do", b.Columns[0].Title)
}

func TestWritesAreRateLimited(t *testing.T) {
	r := newRouter(t, middleware.NewRateLimiter(0.001, 1))
	token, err := auth.GenerateToken("u-1", "alice", "User")
	require.NoError(t, err)

	send := func() int {
		req := httptest.NewRequest(http.MethodPost, "/api/kanban/tasks", strings.NewReader(`{"columnId":"x","content":"y"}`))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w.Code
	}
	require.Equal(t, http.StatusNotFound, send())
	require.Equal(t, http.StatusTooManyRequests, send())

	// reads are not throttled
	req := httptest.NewRequest(http.MethodGet, "/api/kanban", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
}
