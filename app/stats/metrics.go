package stats

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	appendTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "favorites",
		Name:      "events_appended_total",
		Help:      "Favorite events appended to the log",
	}, []string{"action"})

	projectionDur = prometheus.NewSummary(prometheus.SummaryOpts{
		Namespace: "favorites",
		Name:      "projection_duration_seconds",
		Help:      "Time spent replaying the event log",
	})

	favoritesCount = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "favorites",
		Name:      "count",
		Help:      "Papers in the current favorite set",
	})
)

func init() {
	prometheus.MustRegister(appendTotal, projectionDur, favoritesCount)
}

func CountAppend(action string) {
	appendTotal.WithLabelValues(action).Inc()
}

func ObserveProjection(duration time.Duration, size int) {
	projectionDur.Observe(duration.Seconds())
	favoritesCount.Set(float64(size))
}
