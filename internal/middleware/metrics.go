package middleware

import (
	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RedisErrors counts Redis command errors by operation type.
	RedisErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "snapmatch_redis_errors_total",
		Help: "Total number of Redis errors by operation type",
	}, []string{"operation"})

	// OverlapComputations counts overlap ranking runs by outcome.
	OverlapComputations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "snapmatch_overlap_computations_total",
		Help: "Total number of overlap ranking computations by outcome",
	}, []string{"outcome"})

	// UploadRejections counts rejected post uploads by reason.
	UploadRejections = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "snapmatch_upload_rejections_total",
		Help: "Total number of rejected post uploads by reason",
	}, []string{"reason"})
)

// InitMetrics creates the fiberprometheus middleware for the given service name.
func InitMetrics(serviceName string) *fiberprometheus.FiberPrometheus {
	return fiberprometheus.New(serviceName)
}

// MetricsMiddleware returns the request-instrumentation handler for the
// provided fiberprometheus instance.
func MetricsMiddleware(prom *fiberprometheus.FiberPrometheus) fiber.Handler {
	return prom.Middleware
}
