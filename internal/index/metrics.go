package index

import "github.com/prometheus/client_golang/prometheus"

var (
	documentsIndexedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "index_documents_indexed_total",
		Help: "Total number of company documents successfully indexed",
	})

	documentErrorsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "index_document_errors_total",
		Help: "Total number of documents rejected during indexing",
	})
)

func init() {
	prometheus.MustRegister(documentsIndexedTotal, documentErrorsTotal)
}

// IncrementDocsIndexed adds to the successfully-indexed counter.
func IncrementDocsIndexed(n int) {
	if n <= 0 {
		return
	}

	documentsIndexedTotal.Add(float64(n))
}

// IncrementDocErrors records one rejected document.
func IncrementDocErrors() {
	documentErrorsTotal.Inc()
}
