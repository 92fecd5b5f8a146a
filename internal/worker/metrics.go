package worker

import "github.com/prometheus/client_golang/prometheus"

var jobsProcessed = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "farmacierre_jobs_processed_total",
		Help: "Background jobs handled, partitioned by queue, type and outcome.",
	},
	[]string{"queue", "type", "result"},
)

// Collectors returns the worker metrics for registration.
func Collectors() []prometheus.Collector {
	return []prometheus.Collector{jobsProcessed}
}

func (a accion) String() string {
	switch a {
	case accionListo:
		return "done"
	case accionReintentar:
		return "retry"
	default:
		return "dead_letter"
	}
}
