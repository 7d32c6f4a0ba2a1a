package middleware

import (
	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// ActiveWebSockets tracks currently open WebSocket connections.
var ActiveWebSockets = promauto.NewGauge(prometheus.GaugeOpts{
	Name: "stackit_active_websockets",
	Help: "Number of currently open WebSocket connections",
})

// RedisErrors counts Redis command failures observed by the cache client hook.
var RedisErrors = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "stackit_redis_errors_total",
	Help: "Total number of Redis command errors by command name",
}, []string{"command"})

// InitMetrics creates the fiberprometheus collector for HTTP metrics.
func InitMetrics(serviceName string) *fiberprometheus.FiberPrometheus {
	return fiberprometheus.New(serviceName)
}

// MetricsMiddleware returns the request-instrumentation handler for the collector.
func MetricsMiddleware(prom *fiberprometheus.FiberPrometheus) fiber.Handler {
	return prom.Middleware
}
