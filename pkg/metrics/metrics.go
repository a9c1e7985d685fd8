package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// unknownRoute labels requests the router could not place. Using one
// shared placeholder instead of the raw URL keeps label cardinality bounded.
const unknownRoute = "unknown"

type Metrics struct {
	registry *prometheus.Registry

	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	inFlight        prometheus.Gauge
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		requestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Count of handled HTTP requests.",
		}, []string{"method", "path", "status"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency from entry to exit.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "path"}),
		inFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "http_requests_in_flight",
			Help: "Number of requests currently being served.",
		}),
	}
	m.registry.MustRegister(
		collectors.NewGoCollector(),
		m.requestsTotal,
		m.requestDuration,
		m.inFlight,
	)
	return m
}

// Middleware instruments every request the skipper does not exclude.
// All recording happens in a defer, so the in-flight gauge balances out
// and the counter/histogram get a sample on the error path too, labeled
// with the status the error handler will eventually write. The route
// label is resolved after the downstream handler ran: only then has the
// router bound the request to a template.
func (m *Metrics) Middleware(skipper echomw.Skipper) echo.MiddlewareFunc {
	if skipper == nil {
		skipper = echomw.DefaultSkipper
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if skipper(c) {
				return next(c)
			}
			m.inFlight.Inc()
			start := time.Now()
			var err error
			defer func() {
				m.inFlight.Dec()
				method := c.Request().Method
				path := routeLabel(c, err)
				status := strconv.Itoa(statusCode(c, err))
				m.requestsTotal.WithLabelValues(method, path, status).Inc()
				m.requestDuration.WithLabelValues(method, path).Observe(time.Since(start).Seconds())
			}()
			err = next(c)
			return err
		}
	}
}

// Handler serves the text exposition of this instance's registry.
func (m *Metrics) Handler() echo.HandlerFunc {
	return echo.WrapHandler(promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{}))
}

func routeLabel(c echo.Context, err error) string {
	// The router hands unmatched requests to the sentinel-returning
	// default handlers and leaves c.Path() as the literal URL.
	if errors.Is(err, echo.ErrNotFound) || errors.Is(err, echo.ErrMethodNotAllowed) {
		return unknownRoute
	}
	if path := c.Path(); path != "" {
		return path
	}
	return unknownRoute
}

func statusCode(c echo.Context, err error) int {
	if err == nil {
		return c.Response().Status
	}
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code
	}
	return http.StatusInternalServerError
}
