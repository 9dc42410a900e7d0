package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

func init() {
	register(dbErrorsTotal)
}

var dbErrorsTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "db_errors_total",
		Help: "Storage failures by operation.",
	},
	[]string{"op"},
)

func IncDBError(op string) {
	dbErrorsTotal.WithLabelValues(op).Inc()
}
