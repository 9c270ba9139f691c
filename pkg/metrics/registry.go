package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

// Registry manages Prometheus metric registration
type Registry struct {
	registry     *prometheus.Registry
	clockMetrics *ClockMetrics
}

// NewRegistry creates a new metrics registry under the given namespace
func NewRegistry(namespace string) *Registry {
	return &Registry{
		registry:     prometheus.NewRegistry(),
		clockMetrics: NewClockMetrics(namespace),
	}
}

// Register registers the clock metrics collector
func (r *Registry) Register() error {
	return r.registry.Register(r.clockMetrics)
}

// GetRegistry returns the underlying Prometheus registry
func (r *Registry) GetRegistry() *prometheus.Registry {
	return r.registry
}

// GetMetrics returns the clock metrics instance
func (r *Registry) GetMetrics() *ClockMetrics {
	return r.clockMetrics
}

// WriteTextfile writes the gathered metrics in the node_exporter textfile
// format. The file is replaced atomically.
func (r *Registry) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return fmt.Errorf("failed to write metrics textfile %s: %w", path, err)
	}
	return nil
}
