// Package prometheus exports asyncgui task metrics to Prometheus.
package prometheus

import (
	"errors"
	"fmt"
	"sync"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"

	"github.com/b97tsk/asyncgui"
)

// ExporterOptions controls collector configuration.
type ExporterOptions struct {
	DurationBuckets []float64
	// Now is the time source for task durations. Defaults to time.Now.
	Now func() time.Time
}

// MetricsExporter is an [asyncgui.Observer] that records task lifecycles
// into Prometheus collectors.
type MetricsExporter struct {
	tasksStarted        *prom.CounterVec
	tasksFinished       *prom.CounterVec
	taskErrors          *prom.CounterVec
	tasksRunning        prom.Gauge
	taskDurationSeconds *prom.HistogramVec

	now     func() time.Time
	mu      sync.Mutex
	started map[*asyncgui.Task]time.Time
}

var _ asyncgui.Observer = (*MetricsExporter)(nil)

// NewMetricsExporter creates and registers the collectors of
// a [MetricsExporter]. Collectors already registered with reg, e.g. by
// another exporter, are shared.
func NewMetricsExporter(namespace string, reg prom.Registerer, opts ExporterOptions) (*MetricsExporter, error) {
	if namespace == "" {
		namespace = "asyncgui"
	}
	if reg == nil {
		reg = prom.DefaultRegisterer
	}
	buckets := opts.DurationBuckets
	if len(buckets) == 0 {
		buckets = prom.DefBuckets
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	startedVec := prom.NewCounterVec(prom.CounterOpts{
		Namespace: namespace,
		Name:      "tasks_started_total",
		Help:      "Total number of started tasks.",
	}, []string{"task"})
	finishedVec := prom.NewCounterVec(prom.CounterOpts{
		Namespace: namespace,
		Name:      "tasks_finished_total",
		Help:      "Total number of finished tasks, by final state.",
	}, []string{"task", "state"})
	errorsVec := prom.NewCounterVec(prom.CounterOpts{
		Namespace: namespace,
		Name:      "task_errors_total",
		Help:      "Total number of tasks that ended with an error.",
	}, []string{"task", "kind"})
	running := prom.NewGauge(prom.GaugeOpts{
		Namespace: namespace,
		Name:      "tasks_running",
		Help:      "Number of started tasks that have not finished.",
	})
	durationVec := prom.NewHistogramVec(prom.HistogramOpts{
		Namespace: namespace,
		Name:      "task_duration_seconds",
		Help:      "Wall-clock time from task start to finish in seconds.",
		Buckets:   buckets,
	}, []string{"task", "state"})

	var err error
	if startedVec, err = registerCollector(reg, startedVec); err != nil {
		return nil, err
	}
	if finishedVec, err = registerCollector(reg, finishedVec); err != nil {
		return nil, err
	}
	if errorsVec, err = registerCollector(reg, errorsVec); err != nil {
		return nil, err
	}
	if running, err = registerCollector(reg, running); err != nil {
		return nil, err
	}
	if durationVec, err = registerCollector(reg, durationVec); err != nil {
		return nil, err
	}

	return &MetricsExporter{
		tasksStarted:        startedVec,
		tasksFinished:       finishedVec,
		taskErrors:          errorsVec,
		tasksRunning:        running,
		taskDurationSeconds: durationVec,
		now:                 now,
		started:             make(map[*asyncgui.Task]time.Time),
	}, nil
}

// TaskStarted records the start of t.
func (m *MetricsExporter) TaskStarted(t *asyncgui.Task) {
	if m == nil {
		return
	}
	m.tasksStarted.WithLabelValues(taskLabel(t)).Inc()
	m.tasksRunning.Inc()

	m.mu.Lock()
	m.started[t] = m.now()
	m.mu.Unlock()
}

// TaskFinished records the end of t.
func (m *MetricsExporter) TaskFinished(t *asyncgui.Task) {
	if m == nil {
		return
	}
	name, state := taskLabel(t), t.State().String()

	m.tasksFinished.WithLabelValues(name, state).Inc()
	m.tasksRunning.Dec()

	if err := t.Err(); err != nil {
		m.taskErrors.WithLabelValues(name, errorKind(err)).Inc()
	}

	m.mu.Lock()
	start, ok := m.started[t]
	delete(m.started, t)
	m.mu.Unlock()

	if ok {
		m.taskDurationSeconds.WithLabelValues(name, state).Observe(m.now().Sub(start).Seconds())
	}
}

func taskLabel(t *asyncgui.Task) string {
	return normalizeLabel(t.Name(), "unnamed")
}

func errorKind(err error) string {
	var pe *asyncgui.PanicError
	if errors.As(err, &pe) {
		return "panic"
	}
	return "error"
}

func normalizeLabel(v string, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}

func registerCollector[T prom.Collector](reg prom.Registerer, collector T) (T, error) {
	err := reg.Register(collector)
	if err == nil {
		return collector, nil
	}

	var alreadyRegisteredErr prom.AlreadyRegisteredError
	if errors.As(err, &alreadyRegisteredErr) {
		existing, ok := alreadyRegisteredErr.ExistingCollector.(T)
		if !ok {
			return collector, fmt.Errorf("collector type mismatch for %T", collector)
		}
		return existing, nil
	}

	return collector, err
}
