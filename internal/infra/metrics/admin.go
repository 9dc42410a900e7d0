package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

func init() {
	register(adminCommandsTotal)
}

var adminCommandsTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "admin_commands_total",
		Help: "Admin command invocations by command and authorization outcome.",
	},
	[]string{"command", "status"}, // status: 'authorized', 'unauthorized'
)

func IncAdminCommand(command, status string) {
	adminCommandsTotal.WithLabelValues(command, status).Inc()
}
