package metric

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/yndnr/clockschedule-go/internal/core/service"
)

const namespace = "clockschedule"

// Registry holds the client metrics.
type Registry struct {
	reg *prometheus.Registry

	LoginAttempts *prometheus.CounterVec
	LoginDuration prometheus.Histogram
	LastLogin     prometheus.Gauge
}

// NewRegistry creates a registry with all client metrics registered.
func NewRegistry() *Registry {
	r := &Registry{
		reg: prometheus.NewRegistry(),
		LoginAttempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "login",
			Name:      "attempts_total",
			Help:      "Login submissions by outcome",
		}, []string{"outcome"}),
		LoginDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "login",
			Name:      "duration_seconds",
			Help:      "Time from submit to outcome",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}),
		LastLogin: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "login",
			Name:      "last_success_timestamp_seconds",
			Help:      "Unix timestamp of the last successful login",
		}),
	}

	r.reg.MustRegister(r.LoginAttempts, r.LoginDuration, r.LastLogin)
	return r
}

// Prometheus returns the underlying registry so other components can
// register their own collectors.
func (r *Registry) Prometheus() *prometheus.Registry {
	return r.reg
}

// ObserveLogin implements service.Observer.
func (r *Registry) ObserveLogin(outcome service.Outcome, elapsed time.Duration) {
	r.LoginAttempts.WithLabelValues(string(outcome)).Inc()
	// Invalid submissions never reach the network.
	if outcome != service.OutcomeInvalid {
		r.LoginDuration.Observe(elapsed.Seconds())
	}
	if outcome == service.OutcomeSuccess {
		r.LastLogin.SetToCurrentTime()
	}
}

// WriteTextfile writes all registered metrics to path atomically.
func (r *Registry) WriteTextfile(path string) error {
	if path == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("metric: create textfile dir: %w", err)
	}
	if err := prometheus.WriteToTextfile(path, r.reg); err != nil {
		return fmt.Errorf("metric: write textfile: %w", err)
	}
	return nil
}
