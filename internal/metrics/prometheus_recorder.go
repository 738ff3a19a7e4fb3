package metrics

import (
	"fmt"

	prom "github.com/prometheus/client_golang/prometheus"
)

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	registry    *prom.Registry
	transitions *prom.CounterVec
	phases      *prom.CounterVec
	sessions    prom.Counter
	remaining   prom.Gauge
}

// NewPrometheusRecorder constructs and registers the timer metrics on reg.
// A nil reg gets a fresh registry.
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{
		registry: reg,

		transitions: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "pomo",
			Name:      "timer_transitions_total",
			Help:      "Timer state transitions by kind",
		}, []string{"transition"}),
		phases: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "pomo",
			Name:      "phases_completed_total",
			Help:      "Completed timer phases by phase",
		}, []string{"phase"}),
		sessions: prom.NewCounter(prom.CounterOpts{
			Namespace: "pomo",
			Name:      "sessions_recorded_total",
			Help:      "Focus sessions written to the store",
		}),
		remaining: prom.NewGauge(prom.GaugeOpts{
			Namespace: "pomo",
			Name:      "timer_seconds_remaining",
			Help:      "Seconds left in the current phase",
		}),
	}
	reg.MustRegister(pr.transitions, pr.phases, pr.sessions, pr.remaining)
	return pr
}

func (p *PrometheusRecorder) Transition(name string)      { p.transitions.WithLabelValues(name).Inc() }
func (p *PrometheusRecorder) PhaseCompleted(phase string) { p.phases.WithLabelValues(phase).Inc() }
func (p *PrometheusRecorder) SessionRecorded()            { p.sessions.Inc() }
func (p *PrometheusRecorder) SecondsRemaining(seconds int) {
	p.remaining.Set(float64(seconds))
}

// WriteTextfile writes the current metrics in the text exposition format to
// path, for the node exporter textfile collector.
func (p *PrometheusRecorder) WriteTextfile(path string) error {
	if err := prom.WriteToTextfile(path, p.registry); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}
