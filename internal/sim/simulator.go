package sim

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/san-kum/enginesim/internal/dynamo"
	"github.com/san-kum/enginesim/internal/logging"
)

const (
	progressEvery = 100
	maxPrealloc   = 1 << 16
)

type Simulator struct {
	model      dynamo.Model
	integrator dynamo.Integrator
	metrics    []dynamo.Metric
	observers  []dynamo.Observer
	log        logrus.FieldLogger
}

type Option func(*Simulator)

func WithLogger(l logrus.FieldLogger) Option {
	return func(s *Simulator) { s.log = l }
}

func New(model dynamo.Model, integrator dynamo.Integrator, opts ...Option) *Simulator {
	s := &Simulator{
		model:      model,
		integrator: integrator,
		metrics:    make([]dynamo.Metric, 0),
		observers:  make([]dynamo.Observer, 0),
		log:        logging.Discard(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Simulator) AddMetric(m dynamo.Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o dynamo.Observer) { s.observers = append(s.observers, o) }

func (s *Simulator) IntegratorName() string { return s.integrator.Name() }

func (s *Simulator) Run(ctx context.Context, x0 dynamo.State, cfg Config) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	result := &Result{
		Samples: make([]dynamo.Sample, 0, min(cfg.Steps()+1, maxPrealloc)),
		Metrics: make(map[string]float64),
	}

	for _, m := range s.metrics {
		m.Reset()
	}

	err := s.Stream(ctx, x0, cfg, func(smp dynamo.Sample) error {
		result.Samples = append(result.Samples, smp)
		for _, m := range s.metrics {
			m.Observe(smp)
		}
		return nil
	})
	result.StepsTaken = max(len(result.Samples)-1, 0)
	if err != nil {
		return result, err
	}

	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}

	return result, nil
}

// Stream walks the time grid and hands every sample to fn before advancing.
// Row i carries the state at t_i, the derivative at (t_i, state) and F(t_i);
// no step is taken after the last row.
func (s *Simulator) Stream(ctx context.Context, x0 dynamo.State, cfg Config, fn func(dynamo.Sample) error) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	steps := cfg.Steps()
	x := x0

	s.log.WithFields(logrus.Fields{
		"integrator": s.integrator.Name(),
		"t_start":    cfg.TStart,
		"t_end":      cfg.TEnd,
		"step":       cfg.Step,
		"samples":    steps + 1,
	}).Info("simulation starting")

	for i := 0; i <= steps; i++ {
		select {
		case <-ctx.Done():
			return fmt.Errorf("%w: %w", dynamo.ErrContextCanceled, ctx.Err())
		default:
		}

		t := cfg.TimeAt(i)

		d, err := s.model.Derive(t, x)
		if err != nil {
			return &dynamo.SimulationError{Step: i, Time: t, State: x, Wrapped: err}
		}

		smp := dynamo.Sample{T: t, State: x, Derivative: d, Forcing: s.model.Forcing(t)}
		for _, obs := range s.observers {
			obs.OnSample(smp)
		}
		if err := fn(smp); err != nil {
			return err
		}

		if i%progressEvery == 0 {
			s.log.WithFields(logrus.Fields{"step": i, "t": t, "x": x[0]}).Debug("progress")
		}

		if i == steps {
			break
		}

		next, err := s.integrator.Step(s.model.Derive, t, x, cfg.Step)
		if err != nil {
			return &dynamo.SimulationError{Step: i, Time: t, State: x, Wrapped: err}
		}
		if cfg.ValidateState && !next.IsValid() {
			return &dynamo.SimulationError{Step: i + 1, Time: cfg.TimeAt(i + 1), State: next, Wrapped: dynamo.ErrInvalidState}
		}
		x = next
	}

	s.log.WithFields(logrus.Fields{"steps": steps, "x_final": x[0]}).Info("simulation finished")
	return nil
}
