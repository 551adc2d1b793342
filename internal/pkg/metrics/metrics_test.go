package metrics_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"marketplace/internal/pkg/metrics"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_RegistersCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)

	m.EventsPublished.WithLabelValues("order.created").Inc()
	m.OutboxRelayed.Add(3)

	assert.InDelta(t, 1, testutil.ToFloat64(m.EventsPublished.WithLabelValues("order.created")), 0)
	assert.InDelta(t, 3, testutil.ToFloat64(m.OutboxRelayed), 0)
	assert.Panics(t, func() { metrics.New(reg) }, "registering twice must fail")
}

func TestHandler(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	m.SubscribedConnections.Set(2)

	rec := httptest.NewRecorder()
	metrics.Handler(reg).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "marketplace_realtime_subscribed_connections 2")
}
