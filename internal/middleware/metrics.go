package middleware

import (
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	apiRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tegami_api_requests_total",
			Help: "API requests by route group (letters, penpals, journal, audio, ws, health)",
		},
		[]string{"group", "method", "status"},
	)

	apiRequestSeconds = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "tegami_api_request_duration_seconds",
			Help:    "API request latency by route template",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
		[]string{"group", "route"},
	)

	apiInflight = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "tegami_api_inflight_requests",
			Help: "Requests being served, by route group",
		},
		[]string{"group"},
	)

	dbConnectionsInUse = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "tegami_db_connections_in_use",
			Help: "Database connections currently in use",
		},
	)
)

// Metrics records per-group request counts and latency. Long-lived
// websocket upgrades are counted but kept out of the latency histogram.
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		if quietPaths[c.Request.URL.Path] {
			c.Next()
			return
		}

		route := normalizePath(c.FullPath())
		group := routeGroup(route)
		inflight := apiInflight.WithLabelValues(group)
		inflight.Inc()
		defer inflight.Dec()

		start := time.Now()
		c.Next()

		apiRequestsTotal.WithLabelValues(group, c.Request.Method, strconv.Itoa(c.Writer.Status())).Inc()
		if group != "ws" {
			apiRequestSeconds.WithLabelValues(group, route).Observe(time.Since(start).Seconds())
		}
	}
}

// SetDBConnectionsInUse updates the DB connection gauge
func SetDBConnectionsInUse(count int) {
	dbConnectionsInUse.Set(float64(count))
}

// normalizePath returns the route template (e.g. /api/penpals/:userId); unmatched routes share one label
func normalizePath(path string) string {
	if path == "" {
		return "unmatched"
	}
	return path
}

// routeGroup maps a route template to its top-level group:
// /api/penpals/:id -> penpals, /ws/letters -> ws, /health -> health
func routeGroup(route string) string {
	parts := strings.Split(strings.Trim(route, "/"), "/")
	switch {
	case route == "unmatched" || parts[0] == "":
		return "unmatched"
	case parts[0] == "api" && len(parts) > 1:
		return parts[1]
	default:
		return parts[0]
	}
}
