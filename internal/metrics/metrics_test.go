package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMiddlewareAndHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := New()

	router := gin.New()
	router.Use(m.Middleware())
	router.GET("/health", func(c *gin.Context) { c.Status(http.StatusOK) })
	router.GET("/metrics", m.Handler())

	for i := 0; i < 2; i++ {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	}

	assert.Equal(t, float64(2), testutil.ToFloat64(m.RequestCounter.WithLabelValues("GET", "/health", "200")))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "http_requests_total")
}

func TestObserveSubmission(t *testing.T) {
	m := New()
	m.ObserveSubmission(OutcomeGraded, 80)
	m.ObserveSubmission(OutcomeGraded, 100)
	m.ObserveSubmission(OutcomeUnavailable, 0)

	assert.Equal(t, float64(2), testutil.ToFloat64(m.SubmissionsGraded.WithLabelValues(OutcomeGraded)))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.SubmissionsGraded.WithLabelValues(OutcomeUnavailable)))
	assert.Equal(t, 1, testutil.CollectAndCount(m.SubmissionScore))

	var nilMetrics *Metrics
	assert.NotPanics(t, func() { nilMetrics.ObserveSubmission(OutcomeGraded, 10) })
}
