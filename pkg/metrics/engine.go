package metrics

import "github.com/prometheus/client_golang/prometheus"

var EventsFoldedMetrics = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "chartsync_events_folded_total",
		Help: "number of live events folded into the chart state",
	}, []string{"kind"})

var EventsRejectedMetrics = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "chartsync_events_rejected_total",
		Help: "number of live events or points that were rejected, for example out-of-order points",
	}, []string{"kind"})

var FetchFailureMetrics = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "chartsync_fetch_failures_total",
		Help: "number of failed bulk fetches during initialization",
	}, []string{"kind"})

var TrimMetrics = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "chartsync_trims_total",
		Help: "number of series trims",
	}, []string{"policy"})

var StreamErrorMetrics = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "chartsync_stream_errors_total",
		Help: "number of stream transport and payload errors",
	}, []string{"channel"})

var InstancesMetrics = prometheus.NewGauge(
	prometheus.GaugeOpts{
		Name: "chartsync_instances",
		Help: "number of live chart engine instances",
	})

var SubscriptionsMetrics = prometheus.NewGauge(
	prometheus.GaugeOpts{
		Name: "chartsync_subscriptions",
		Help: "number of live stream subscriptions",
	})

func init() {
	prometheus.MustRegister(
		EventsFoldedMetrics,
		EventsRejectedMetrics,
		FetchFailureMetrics,
		TrimMetrics,
		StreamErrorMetrics,
		InstancesMetrics,
		SubscriptionsMetrics,
	)
}
