package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestRecordMove(t *testing.T) {
	before := testutil.ToFloat64(kanbanMoves.WithLabelValues("moved"))
	RecordMove("moved")
	require.Equal(t, before+1, testutil.ToFloat64(kanbanMoves.WithLabelValues("moved")))
}

func TestHandlerExposesCollectors(t *testing.T) {
	ObserveHTTP(http.MethodGet, "/api/kanban", http.StatusOK, 10*time.Millisecond)
	RecordPersistFailure("move")

	w := httptest.NewRecorder()
	Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "admin_dashboard_http_requests_total")
	require.Contains(t, w.Body.String(), "admin_dashboard_kanban_persist_failures_total")
}
