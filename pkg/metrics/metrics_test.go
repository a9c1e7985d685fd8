package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func newTestRouter(t *testing.T, m *Metrics) *echo.Echo {
	t.Helper()
	e := echo.New()
	e.Use(m.Middleware(func(c echo.Context) bool {
		return c.Request().URL.Path == "/metrics"
	}))
	e.GET("/metrics", m.Handler())
	e.GET("/authors/:id", func(c echo.Context) error {
		return c.JSON(http.StatusOK, echo.Map{"id": c.Param("id")})
	})
	e.GET("/fail", func(c echo.Context) error {
		return echo.NewHTTPError(http.StatusBadGateway, "upstream broke")
	})
	e.GET("/boom", func(c echo.Context) error {
		return errors.New("unclassified")
	})
	e.GET("/inflight", func(c echo.Context) error {
		require.Equal(t, float64(1), testutil.ToFloat64(m.inFlight))
		return c.NoContent(http.StatusNoContent)
	})
	return e
}

func do(e *echo.Echo, method, target string) *httptest.ResponseRecorder {
	r := httptest.NewRequest(method, target, http.NoBody)
	w := httptest.NewRecorder()
	e.ServeHTTP(w, r)
	return w
}

func TestMiddleware_CountsByRouteTemplate(t *testing.T) {
	m := New()
	e := newTestRouter(t, m)

	for i := 0; i < 3; i++ {
		w := do(e, http.MethodGet, "/authors/42")
		require.Equal(t, http.StatusOK, w.Code)
	}
	do(e, http.MethodGet, "/authors/7")

	// The label is the registered template, not the literal URL, so all
	// four requests land on a single series.
	got := testutil.ToFloat64(m.requestsTotal.WithLabelValues(http.MethodGet, "/authors/:id", "200"))
	require.Equal(t, float64(4), got)
	require.Equal(t, 1, testutil.CollectAndCount(m.requestDuration, "http_request_duration_seconds"))
}

func TestMiddleware_ErrorPathStillRecorded(t *testing.T) {
	m := New()
	e := newTestRouter(t, m)

	w := do(e, http.MethodGet, "/fail")
	require.Equal(t, http.StatusBadGateway, w.Code)
	require.Equal(t, float64(1),
		testutil.ToFloat64(m.requestsTotal.WithLabelValues(http.MethodGet, "/fail", "502")))

	w = do(e, http.MethodGet, "/boom")
	require.Equal(t, http.StatusInternalServerError, w.Code)
	require.Equal(t, float64(1),
		testutil.ToFloat64(m.requestsTotal.WithLabelValues(http.MethodGet, "/boom", "500")))

	require.Equal(t, float64(0), testutil.ToFloat64(m.inFlight))
}

func TestMiddleware_InFlightGauge(t *testing.T) {
	m := New()
	e := newTestRouter(t, m)

	require.Equal(t, float64(0), testutil.ToFloat64(m.inFlight))
	w := do(e, http.MethodGet, "/inflight")
	require.Equal(t, http.StatusNoContent, w.Code)
	require.Equal(t, float64(0), testutil.ToFloat64(m.inFlight))
}

func TestMiddleware_UnknownRoute(t *testing.T) {
	m := New()
	e := newTestRouter(t, m)

	w := do(e, http.MethodGet, "/no/such/route")
	require.Equal(t, http.StatusNotFound, w.Code)
	require.Equal(t, float64(1),
		testutil.ToFloat64(m.requestsTotal.WithLabelValues(http.MethodGet, unknownRoute, "404")))
}

func TestMiddleware_ExpositionNotSelfCounted(t *testing.T) {
	m := New()
	e := newTestRouter(t, m)

	do(e, http.MethodGet, "/authors/1")
	do(e, http.MethodGet, "/metrics")
	w := do(e, http.MethodGet, "/metrics")

	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	require.Contains(t, body, "# TYPE http_requests_total counter")
	require.Contains(t, body, "# TYPE http_request_duration_seconds histogram")
	require.Contains(t, body, "# TYPE http_requests_in_flight gauge")
	require.Contains(t, body, `http_requests_total{method="GET",path="/authors/:id",status="200"} 1`)
	require.NotContains(t, body, `path="/metrics"`)

	// Only the /authors series exists; the scrapes added none.
	require.Equal(t, 1, testutil.CollectAndCount(m.requestsTotal, "http_requests_total"))
}
