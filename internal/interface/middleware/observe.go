package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/ordo-prm/internal/interface/session"
	"github.com/oksasatya/ordo-prm/internal/metrics"
	"github.com/oksasatya/ordo-prm/pkg/helpers"
)

// Metrics records request count and latency per matched route.
func Metrics(rec metrics.Recorder) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		method, route := c.Request.Method, c.FullPath()
		if route == "" {
			route = "unmatched"
			method = metricMethod(method)
		}
		rec.ObserveRequest(method, route, c.Writer.Status(), time.Since(start))
	}
}

// metricMethod keeps the label set bounded for requests no route matched.
func metricMethod(m string) string {
	switch m {
	case http.MethodGet, http.MethodHead, http.MethodPost, http.MethodPut, http.MethodPatch,
		http.MethodDelete, http.MethodOptions, http.MethodConnect, http.MethodTrace:
		return m
	}
	return "other"
}

// AccessLog writes one logrus entry per request.
func AccessLog(log logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		status := c.Writer.Status()
		entry := log.WithFields(helpers.RequestFields(c)).WithFields(logrus.Fields{
			"status":     status,
			"latency_ms": time.Since(start).Milliseconds(),
			"ip":         ipFromCtx(c),
			"user_id":    c.GetString(session.ContextKey),
		})
		switch {
		case status >= 500:
			entry.Error("request")
		case status >= 400:
			entry.Warn("request")
		default:
			entry.Info("request")
		}
	}
}
