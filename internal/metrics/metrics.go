// Package metrics records per-operation counters and latencies for the
// pqcbridge boundary and command-line tool.
package metrics

import (
	"sort"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

const (
	namespace = "pqcbridge"

	ResultOK    = "ok"
	ResultError = "error"
)

// Recorder owns a private registry so that loading the shared library into a
// host that already uses the default prometheus registry never collides.
type Recorder struct {
	registry   *prometheus.Registry
	operations *prometheus.CounterVec
	duration   *prometheus.HistogramVec
}

// NewRecorder creates a Recorder with its collectors registered.
func NewRecorder() *Recorder {
	operations := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "operations_total",
			Help:      "Count of post-quantum operations by operation and result",
		},
		[]string{"op", "result"},
	)
	duration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "operation_duration_seconds",
			Help:      "Latency of post-quantum operations",
			Buckets:   prometheus.ExponentialBuckets(0.00005, 2, 14),
		},
		[]string{"op"},
	)

	registry := prometheus.NewRegistry()
	registry.MustRegister(operations, duration)

	return &Recorder{
		registry:   registry,
		operations: operations,
		duration:   duration,
	}
}

// Registry exposes the underlying registry, e.g. for promhttp.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// Observe records one completed operation.
func (r *Recorder) Observe(op string, elapsed time.Duration, err error) {
	if r == nil {
		return
	}
	result := ResultOK
	if err != nil {
		result = ResultError
	}
	r.operations.WithLabelValues(op, result).Inc()
	r.duration.WithLabelValues(op).Observe(elapsed.Seconds())
}

// Track starts a timer for op; call the returned function with the
// operation's error once it completes.
func (r *Recorder) Track(op string) func(err error) {
	start := time.Now()
	return func(err error) {
		r.Observe(op, Latency(start, time.Now()), err)
	}
}

// Latency returns the elapsed time between two instants.
func Latency(startTime, endTime time.Time) time.Duration {
	return endTime.Sub(startTime)
}

// OpStats summarises one operation from the gathered metrics.
type OpStats struct {
	Op      string
	OK      uint64
	Errors  uint64
	Count   uint64
	Total   time.Duration
	Average time.Duration
}

// Snapshot gathers the registry and returns per-operation statistics sorted by
// operation name.
func (r *Recorder) Snapshot() ([]OpStats, error) {
	families, err := r.registry.Gather()
	if err != nil {
		return nil, err
	}

	stats := make(map[string]*OpStats)
	get := func(op string) *OpStats {
		s, ok := stats[op]
		if !ok {
			s = &OpStats{Op: op}
			stats[op] = s
		}
		return s
	}

	for _, mf := range families {
		switch mf.GetName() {
		case namespace + "_operations_total":
			for _, m := range mf.GetMetric() {
				s := get(label(m, "op"))
				n := uint64(m.GetCounter().GetValue())
				if label(m, "result") == ResultOK {
					s.OK += n
				} else {
					s.Errors += n
				}
			}
		case namespace + "_operation_duration_seconds":
			for _, m := range mf.GetMetric() {
				s := get(label(m, "op"))
				h := m.GetHistogram()
				s.Count = h.GetSampleCount()
				s.Total = time.Duration(h.GetSampleSum() * float64(time.Second))
			}
		}
	}

	out := make([]OpStats, 0, len(stats))
	for _, s := range stats {
		if s.Count > 0 {
			s.Average = s.Total / time.Duration(s.Count)
		}
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Op < out[j].Op })
	return out, nil
}

func label(m *dto.Metric, name string) string {
	for _, lp := range m.GetLabel() {
		if lp.GetName() == name {
			return lp.GetValue()
		}
	}
	return ""
}
