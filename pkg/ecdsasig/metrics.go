package ecdsasig

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	resultValid     = "valid"
	resultMismatch  = "mismatch"
	resultRecovered = "recovered"
	resultFailed    = "failed"
)

// Metrics tracks batch verification and recovery cache activity. A nil
// *Metrics is valid and records nothing.
type Metrics struct {
	results       *prometheus.CounterVec
	cacheHits     prometheus.Counter
	cacheMisses   prometheus.Counter
	batchDuration prometheus.Histogram
}

// NewMetrics creates the collectors under namespace and registers them with reg.
func NewMetrics(namespace string, reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		results: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "signatures_verified_total",
			Help:      "Number of signatures processed by the batch verifier, by result",
		}, []string{"result"}),
		cacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "recover_cache_hits_total",
			Help:      "Number of public key recoveries served from cache",
		}),
		cacheMisses: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "recover_cache_misses_total",
			Help:      "Number of public key recoveries computed by the engine",
		}),
		batchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "batch_duration_seconds",
			Help:      "Time spent verifying a batch of signatures",
			Buckets:   prometheus.DefBuckets,
		}),
	}

	err := errors.Join(
		reg.Register(m.results),
		reg.Register(m.cacheHits),
		reg.Register(m.cacheMisses),
		reg.Register(m.batchDuration),
	)
	if err != nil {
		return nil, err
	}
	return m, nil
}

func (m *Metrics) observeResult(result string) {
	if m == nil {
		return
	}
	m.results.WithLabelValues(result).Inc()
}

func (m *Metrics) observeBatch(d time.Duration) {
	if m == nil {
		return
	}
	m.batchDuration.Observe(d.Seconds())
}

func (m *Metrics) cacheHit() {
	if m == nil {
		return
	}
	m.cacheHits.Inc()
}

func (m *Metrics) cacheMiss() {
	if m == nil {
		return
	}
	m.cacheMisses.Inc()
}
