package window

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"example.com/ecwindow/base/metrics"
	"example.com/ecwindow/core/fuzzy"
)

var (
	evaluationsCounter = promauto.NewCounter(prometheus.CounterOpts{
		Name: metrics.WindowEvaluationsN,
		Help: metrics.WindowEvaluationsH,
	})
	errorsCounter = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: metrics.WindowErrorsN,
		Help: metrics.WindowErrorsH,
	}, []string{"kind"})
	unchangedCounter = promauto.NewCounter(prometheus.CounterOpts{
		Name: metrics.WindowUnchangedN,
		Help: metrics.WindowUnchangedH,
	})
	rulesFiredCounter = promauto.NewCounter(prometheus.CounterOpts{
		Name: metrics.WindowRulesFiredN,
		Help: metrics.WindowRulesFiredH,
	})
	setpointHistogram = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    metrics.WindowSetpointN,
		Help:    metrics.WindowSetpointH,
		Buckets: prometheus.LinearBuckets(0.05, 0.05, 12),
	})
)

func errorKind(err error) string {
	switch {
	case errors.Is(err, fuzzy.ErrUndefinedOutput):
		return "undefined_output"
	case errors.Is(err, fuzzy.ErrMissingInput):
		return "missing_input"
	case errors.Is(err, fuzzy.ErrUnknownTerm):
		return "unknown_term"
	default:
		return "other"
	}
}
