package middleware

import (
	"sync"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RedisErrors counts Redis errors by operation type.
	RedisErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "profilebook_redis_errors_total",
		Help: "Total number of Redis errors by operation type",
	}, []string{"operation"})

	// ModerationTransitions counts post moderation transitions by target status.
	ModerationTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "profilebook_moderation_transitions_total",
		Help: "Total number of post moderation transitions by target status",
	}, []string{"status"})

	// CascadeDeletions counts user deletion cascades by outcome.
	CascadeDeletions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "profilebook_user_cascade_deletions_total",
		Help: "Total number of user cascade deletions by outcome",
	}, []string{"outcome"})
)

var (
	promOnce sync.Once
	promMW   *fiberprometheus.FiberPrometheus
)

// InitMetrics creates the Prometheus HTTP middleware for the given service
// name. The middleware registers collectors in the default registry, so it
// is created once and shared across server instances.
func InitMetrics(serviceName string) *fiberprometheus.FiberPrometheus {
	promOnce.Do(func() {
		promMW = fiberprometheus.New(serviceName)
	})
	return promMW
}
