package metrics

import (
	"io"
	"net/http/httptest"
	"testing"

	"mavina/internal/domain"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserveTransition(t *testing.T) {
	m := New(prometheus.NewRegistry())
	m.ObserveTransition("", domain.StatusPendingApproval)
	m.ObserveTransition(domain.StatusPendingApproval, domain.StatusConfirmed)
	m.ObserveTransition(domain.StatusRescheduled, domain.StatusConfirmed)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.transitions.WithLabelValues("confirmed")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.transitions.WithLabelValues("pending_approval")))
}

func TestHandlerExposesMetrics(t *testing.T) {
	m := New(nil)
	m.ObserveHTTP("GET", "/api/v1/providers", "200", 0.01)
	m.ObserveTransition("", domain.StatusPendingApproval)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)

	assert.Contains(t, string(body), `mavina_http_requests_total{method="GET",route="/api/v1/providers",status="200"} 1`)
	assert.Contains(t, string(body), "mavina_http_request_duration_seconds_bucket")
	assert.Contains(t, string(body), `mavina_appointments_transitions_total{status="pending_approval"} 1`)
}

func TestMetricsNilSafe(t *testing.T) {
	var m *Metrics
	m.ObserveTransition("", domain.StatusConfirmed)
	m.ObserveHTTP("GET", "/", "200", 0.1)
}
