package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var registerOnce sync.Once

// MustRegister installs the pipeline collectors into the default registry.
// Every binary calls it during bootstrap; repeated calls are no-ops, which
// keeps tests that wire several mains from panicking on double registration.
func MustRegister() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			messagesHandledTotal,
			messageHandleSeconds,
			annotationsTotal,
			archivesCreatedTotal,
			retrievalsInitiatedTotal,
			expeditedFallbacksTotal,
			restoreInvocationsTotal,
		)
	})
}

var messagesHandledTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "gas_messages_handled_total",
		Help: "Channel messages handled, labeled by queue and outcome.",
	},
	[]string{"queue", "result"}, // result: 'ok', 'retry', 'drop'
)

var messageHandleSeconds = prometheus.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "gas_message_handle_seconds",
		Help:    "Time spent handling one channel message.",
		Buckets: prometheus.DefBuckets,
	},
	[]string{"queue"},
)

var annotationsTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "gas_annotations_total",
		Help: "Annotation jobs finalized, labeled by status.",
	},
	[]string{"status"}, // 'completed', 'failed'
)

var archivesCreatedTotal = prometheus.NewCounter(
	prometheus.CounterOpts{
		Name: "gas_archives_created_total",
		Help: "Results moved into the cold tier.",
	},
)

var retrievalsInitiatedTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "gas_retrievals_initiated_total",
		Help: "Cold tier retrieval jobs initiated, labeled by tier.",
	},
	[]string{"tier"},
)

var expeditedFallbacksTotal = prometheus.NewCounter(
	prometheus.CounterOpts{
		Name: "gas_expedited_fallbacks_total",
		Help: "Expedited retrievals that fell back to the standard tier.",
	},
)

var restoreInvocationsTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "gas_restore_invocations_total",
		Help: "Restore function invocations, labeled by outcome.",
	},
	[]string{"outcome"}, // 'ok', 'error'
)

func IncMessageHandled(queue, result string) {
	messagesHandledTotal.WithLabelValues(queue, result).Inc()
}

func ObserveMessageHandle(queue string, seconds float64) {
	messageHandleSeconds.WithLabelValues(queue).Observe(seconds)
}

func IncAnnotation(status string) {
	annotationsTotal.WithLabelValues(status).Inc()
}

func IncArchiveCreated() {
	archivesCreatedTotal.Inc()
}

func IncRetrievalInitiated(tier string) {
	retrievalsInitiatedTotal.WithLabelValues(tier).Inc()
}

func IncExpeditedFallback() {
	expeditedFallbacksTotal.Inc()
}

func IncRestoreInvocation(outcome string) {
	restoreInvocationsTotal.WithLabelValues(outcome).Inc()
}
