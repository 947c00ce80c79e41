package agent

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var cyclesCounter = promauto.NewCounter(prometheus.CounterOpts{
	Name: "moltbot_cycles_total",
	Help: "The total number of completed agent cycles",
})

var actionsCounter = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "moltbot_actions_total",
	Help: "The total number of attempted actions by kind and outcome",
}, []string{"kind", "outcome"})

var platformErrorCounter = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "moltbot_platform_errors_total",
	Help: "The total number of failed platform API calls by operation",
}, []string{"op"})

var decisionFailureCounter = promauto.NewCounter(prometheus.CounterOpts{
	Name: "moltbot_decision_failures_total",
	Help: "The total number of cycles where the decision engine failed",
})

var notifyFailureCounter = promauto.NewCounter(prometheus.CounterOpts{
	Name: "moltbot_notification_failures_total",
	Help: "The total number of failed report deliveries",
})
