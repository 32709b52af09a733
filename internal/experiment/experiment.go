package experiment

import (
	"context"
	"fmt"

	"github.com/san-kum/enginesim/internal/config"
	"github.com/san-kum/enginesim/internal/dynamo"
	"github.com/san-kum/enginesim/internal/forcing"
	"github.com/san-kum/enginesim/internal/integrators"
	"github.com/san-kum/enginesim/internal/physics"
	"github.com/san-kum/enginesim/internal/sim"
)

// Experiment is one configured run: engine, integrator, metrics and time
// grid, ready to execute.
type Experiment struct {
	cfg       *config.Config
	engine    *physics.Engine
	simulator *sim.Simulator
	metrics   []string
}

// New validates cfg and wires the engine and simulator. metricNames selects
// accumulators from reg; nil means all of them.
func New(cfg *config.Config, reg *Registry, metricNames []string, opts ...sim.Option) (*Experiment, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	profile, err := forcing.New(cfg.ForcingSpec())
	if err != nil {
		return nil, err
	}
	if metricNames == nil {
		metricNames = reg.ListMetrics()
	}

	e := &Experiment{
		cfg:     cfg.Clone(),
		engine:  physics.NewEngine(cfg.Params(), profile),
		metrics: metricNames,
	}
	e.simulator = sim.New(e.engine, integrators.NewRK4(), opts...)

	ms, err := reg.Metrics(metricNames)
	if err != nil {
		return nil, err
	}
	for _, m := range ms {
		e.simulator.AddMetric(m)
	}
	return e, nil
}

func (e *Experiment) Run(ctx context.Context) (*sim.Result, error) {
	res, err := e.simulator.Run(ctx, e.cfg.InitialState(), e.cfg.SimConfig())
	if err != nil {
		return res, fmt.Errorf("run: %w", err)
	}
	return res, nil
}

// Stream hands every sample to fn as it is produced; metrics are not
// collected.
func (e *Experiment) Stream(ctx context.Context, fn func(dynamo.Sample) error) error {
	return e.simulator.Stream(ctx, e.cfg.InitialState(), e.cfg.SimConfig(), fn)
}

func (e *Experiment) Config() *config.Config  { return e.cfg }
func (e *Experiment) Engine() *physics.Engine { return e.engine }

// GetSimulator returns the underlying simulator for adding observers
func (e *Experiment) GetSimulator() *sim.Simulator {
	return e.simulator
}

// Job returns an independent batch job: its own engine copy and fresh
// metric instances.
func (e *Experiment) Job(name string, reg *Registry) (sim.Job, error) {
	ms, err := reg.Metrics(e.metrics)
	if err != nil {
		return sim.Job{}, err
	}
	return sim.Job{
		Name:    name,
		Model:   e.engine.Clone(),
		X0:      e.cfg.InitialState(),
		Metrics: ms,
	}, nil
}
