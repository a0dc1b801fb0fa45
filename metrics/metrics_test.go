package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCountersAreExposed(t *testing.T) {
	m := New()
	m.VisitsRecorded.WithLabelValues(OutcomeOK).Inc()
	m.ChatRequests.WithLabelValues(OutcomeFallback).Add(2)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.VisitsRecorded.WithLabelValues(OutcomeOK)))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.ChatRequests.WithLabelValues(OutcomeFallback)))

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `visittrack_chat_requests_total{outcome="fallback"} 2`)
}

func TestNewIsIndependent(t *testing.T) {
	a, b := New(), New()
	a.BeaconUpdates.WithLabelValues(OutcomeOK).Inc()

	assert.Equal(t, 0.0, testutil.ToFloat64(b.BeaconUpdates.WithLabelValues(OutcomeOK)))
}
