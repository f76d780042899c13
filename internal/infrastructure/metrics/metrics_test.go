package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricsCounters(t *testing.T) {
	m := New()

	m.ObserveResolution(OutcomeCacheHit)
	m.ObserveResolution(OutcomeCacheHit)
	m.ObserveResolution(OutcomeInvalid)
	m.IncRateLimited()
	m.ObserveWriteBack(WriteBackFailed)
	m.ObserveGenerator(120*time.Millisecond, nil)
	m.ObserveGenerator(2*time.Second, errors.New("timeout"))

	assert.Equal(t, 2.0, testutil.ToFloat64(m.resolutions.WithLabelValues(OutcomeCacheHit)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.resolutions.WithLabelValues(OutcomeInvalid)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.rateLimited))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.writeBacks.WithLabelValues(WriteBackFailed)))
	assert.Equal(t, 2, testutil.CollectAndCount(m.generatorDuration))
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveResolution(OutcomeGenerated)
		m.IncRateLimited()
		m.ObserveWriteBack(WriteBackOK)
		m.ObserveGenerator(time.Second, nil)
	})
	assert.Nil(t, m.Registry())
}

func TestMetricsHandlerExposesSeries(t *testing.T) {
	m := New()
	m.ObserveResolution(OutcomeGenerated)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), `ingredient_resolutions_total{outcome="generated"} 1`))
}
