package pipeline

import "github.com/prometheus/client_golang/prometheus"

var (
	targetsProcessedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "scrape_targets_processed_total",
		Help: "Total number of scrape targets processed, by outcome",
	}, []string{"status"})

	targetRetriesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "scrape_target_retries_total",
		Help: "Total number of retry attempts across all targets",
	})

	fieldFillRate = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "scrape_field_fill_rate",
		Help: "Fraction of successfully scraped rows with a non-empty value for each field",
	}, []string{"field"})

	activeWorkers = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "scrape_active_workers",
		Help: "Number of scrape worker goroutines currently running",
	})
)

func init() {
	prometheus.MustRegister(
		targetsProcessedTotal,
		targetRetriesTotal,
		fieldFillRate,
		activeWorkers,
	)
}

// IncrementProcessed records one completed target with its final status.
func IncrementProcessed(status string) {
	targetsProcessedTotal.WithLabelValues(status).Inc()
}

// IncrementRetries adds to the retry counter.
func IncrementRetries(n int) {
	if n <= 0 {
		return
	}

	targetRetriesTotal.Add(float64(n))
}

// SetFieldFillRate records the observed fill rate for one output field.
func SetFieldFillRate(field string, rate float64) {
	fieldFillRate.WithLabelValues(field).Set(rate)
}

// SetActiveWorkers records the current worker count.
func SetActiveWorkers(n int) {
	activeWorkers.Set(float64(n))
}
