package experiment

import (
	"fmt"
	"sort"

	"github.com/san-kum/enginesim/internal/dynamo"
	"github.com/san-kum/enginesim/internal/forcing"
	"github.com/san-kum/enginesim/internal/metrics"
)

// DefaultStabilityBound is the |state| bound of the stability metric.
const DefaultStabilityBound = 1e3

type Registry struct {
	metrics map[string]func() dynamo.Metric
}

func NewRegistry() *Registry {
	r := &Registry{
		metrics: make(map[string]func() dynamo.Metric),
	}

	r.metrics["peak"] = func() dynamo.Metric { return metrics.NewPeak() }
	r.metrics["final_x"] = func() dynamo.Metric { return metrics.NewFinalValue() }
	r.metrics["ise"] = metrics.NewISE
	r.metrics["iae"] = metrics.NewIAE
	r.metrics["stability"] = func() dynamo.Metric { return metrics.NewStability(DefaultStabilityBound) }
	r.metrics["forcing_effort"] = func() dynamo.Metric { return metrics.NewForcingEffort() }

	return r
}

func (r *Registry) GetMetric(name string) (dynamo.Metric, error) {
	fn, ok := r.metrics[name]
	if !ok {
		return nil, fmt.Errorf("unknown metric: %s (available: %v)", name, r.ListMetrics())
	}
	return fn(), nil
}

// Metrics builds fresh instances of the named metrics.
func (r *Registry) Metrics(names []string) ([]dynamo.Metric, error) {
	out := make([]dynamo.Metric, 0, len(names))
	for _, name := range names {
		m, err := r.GetMetric(name)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, nil
}

func (r *Registry) ListMetrics() []string {
	names := make([]string, 0, len(r.metrics))
	for name := range r.metrics {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (r *Registry) ListProfiles() []string {
	return forcing.Names()
}
