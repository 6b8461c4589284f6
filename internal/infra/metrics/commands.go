package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() {
	register(
		commandsTotal,
		ownerCommandTotal,
		translationsTotal,
	)
}

var (
	commandsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bot_commands_total",
			Help: "Bot commands by name and status (ok/error/busy).",
		},
		[]string{"command", "status"},
	)

	ownerCommandTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "owner_command_total",
			Help: "Tracks attempts to use owner commands.",
		},
		[]string{"command", "status"}, // status: 'authorized', 'unauthorized'
	)

	translationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "translations_total",
			Help: "Translated group messages by result (ok/error/skipped).",
		},
		[]string{"result"},
	)
)

func IncCommand(command, status string) {
	commandsTotal.WithLabelValues(norm(command), norm(status)).Inc()
}

func IncOwnerCommand(command, status string) {
	ownerCommandTotal.WithLabelValues(norm(command), norm(status)).Inc()
}

func IncTranslation(result string) {
	translationsTotal.WithLabelValues(norm(result)).Inc()
}
