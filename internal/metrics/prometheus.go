package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Event pipeline stages counted by AddEvents.
const (
	StageRaw        = "raw"
	StageNormalized = "normalized"
)

// Manager owns the recorder's Prometheus collectors. The process is a
// one-shot CLI, so metrics are written to a node-exporter textfile instead of
// being scraped.
type Manager struct {
	namespace       string
	subsystem       string
	sequenceBuckets []float64
	registry        *prometheus.Registry

	sequences      prometheus.Counter
	runs           *prometheus.CounterVec
	events         *prometheus.CounterVec
	sequenceLength prometheus.Histogram
	planDuration   prometheus.Histogram
}

// NewManager creates a Manager on a private registry unless WithRegistry is given.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:       "csrec",
		subsystem:       "plan",
		sequenceBuckets: []float64{5, 10, 20, 30, 60, 90, 120, 180},
		registry:        prometheus.NewRegistry(),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.sequences = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "sequences_total",
		Help:      "Total number of recording windows produced",
	})

	m.runs = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "runs_total",
		Help:      "Total number of button press runs, by button",
	}, []string{"button"})

	m.events = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "events_total",
		Help:      "Lifecycle events seen, by pipeline stage",
	}, []string{"stage"})

	m.sequenceLength = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "sequence_seconds",
		Help:      "Length of recording windows in seconds",
		Buckets:   m.sequenceBuckets,
	})

	m.planDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "duration_seconds",
		Help:      "Wall time spent building a plan",
		Buckets:   prometheus.DefBuckets,
	})
}

// ObserveSequence counts a window and records its length.
func (m *Manager) ObserveSequence(seconds float64) {
	m.sequences.Inc()
	m.sequenceLength.Observe(seconds)
}

// AddRuns counts n runs of the named button.
func (m *Manager) AddRuns(button string, n int) {
	if n <= 0 {
		return
	}
	m.runs.WithLabelValues(button).Add(float64(n))
}

// AddEvents counts n events at the given stage.
func (m *Manager) AddEvents(stage string, n int) {
	if n <= 0 {
		return
	}
	m.events.WithLabelValues(stage).Add(float64(n))
}

// ObservePlanDuration records how long a plan took to build.
func (m *Manager) ObservePlanDuration(d time.Duration) {
	m.planDuration.Observe(d.Seconds())
}

// Registry exposes the underlying registry.
func (m *Manager) Registry() *prometheus.Registry {
	return m.registry
}

// WriteTextfile writes every metric in the registry to path in the text
// exposition format. The write is atomic.
func (m *Manager) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("%w: %v", ErrWriteTextfile, err)
	}
	return nil
}
