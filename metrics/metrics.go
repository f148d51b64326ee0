package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	commandsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "ayunsdlist",
			Subsystem: "bot",
			Name:      "commands_total",
			Help:      "Total number of chat commands run",
		},
		[]string{"command", "outcome"},
	)

	promptsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "ayunsdlist",
			Subsystem: "bot",
			Name:      "prompts_total",
			Help:      "Total number of numeric prompts by outcome",
		},
		[]string{"outcome"},
	)

	sdapiRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "ayunsdlist",
			Subsystem: "sdapi",
			Name:      "requests_total",
			Help:      "Total number of requests sent to the image-generation server",
		},
		[]string{"path", "method", "status"},
	)

	sdapiRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "ayunsdlist",
			Subsystem: "sdapi",
			Name:      "request_duration_seconds",
			Help:      "Duration of requests sent to the image-generation server",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"path", "method"},
	)
)

func init() {
	prometheus.MustRegister(commandsTotal, promptsTotal, sdapiRequestsTotal, sdapiRequestDuration)
}

// Command outcomes.
const (
	OutcomeOK      = "ok"
	OutcomeError   = "error"
	OutcomeAborted = "aborted"
)

// Prompt outcomes.
const (
	PromptAnswered = "answered"
	PromptInvalid  = "invalid"
	PromptTimeout  = "timeout"
)

func ObserveCommand(command, outcome string) {
	commandsTotal.WithLabelValues(command, outcome).Inc()
}

func ObservePrompt(outcome string) {
	promptsTotal.WithLabelValues(outcome).Inc()
}

// ObserveRequest records one sdapi call. status 0 means the request never got a response.
func ObserveRequest(path, method string, status int, dur time.Duration) {
	label := "error"
	if status != 0 {
		label = strconv.Itoa(status)
	}
	sdapiRequestsTotal.WithLabelValues(path, method, label).Inc()
	sdapiRequestDuration.WithLabelValues(path, method).Observe(dur.Seconds())
}
