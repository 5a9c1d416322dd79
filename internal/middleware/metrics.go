package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/clerkship-scheduler/internal/service"
)

// unmatchedRoute labels requests no route matched, keeping arbitrary paths out
// of the http_requests_total series.
const unmatchedRoute = "unmatched"

// Metrics feeds request counts and latencies, labelled by route template, into
// the scheduler's Prometheus registry and the /metrics/summary snapshot.
func Metrics(metricsSvc *service.MetricsService) gin.HandlerFunc {
	if metricsSvc == nil {
		return func(c *gin.Context) { c.Next() }
	}
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		route := c.FullPath()
		if route == "" {
			route = unmatchedRoute
		}
		metricsSvc.ObserveHTTPRequest(c.Request.Method, route, c.Writer.Status(), time.Since(start))
	}
}
