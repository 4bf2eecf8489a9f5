package favorites

import (
	"github.com/prometheus/client_golang/prometheus"
)

var skippedRecords = prometheus.NewCounter(prometheus.CounterOpts{
	Namespace: "favorites",
	Name:      "projection_records_skipped_total",
	Help:      "Log records skipped during projection replay",
})

func init() {
	prometheus.MustRegister(skippedRecords)
}
