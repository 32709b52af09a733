package experiment

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/enginesim/internal/config"
	"github.com/san-kum/enginesim/internal/dynamo"
	"github.com/san-kum/enginesim/internal/physics"
)

func TestRegistry(t *testing.T) {
	reg := NewRegistry()

	assert.Equal(t,
		[]string{"final_x", "forcing_effort", "iae", "ise", "peak", "stability"},
		reg.ListMetrics())
	assert.Equal(t, []string{"damped_oscillation", "exponential_decay", "zero"}, reg.ListProfiles())

	for _, name := range reg.ListMetrics() {
		m, err := reg.GetMetric(name)
		require.NoError(t, err)
		assert.Equal(t, name, m.Name())
	}

	_, err := reg.GetMetric("overshoot")
	assert.Error(t, err)

	a, _ := reg.GetMetric("peak")
	b, _ := reg.GetMetric("peak")
	assert.NotSame(t, a, b)
}

func TestExperimentRun(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Time.End = 1

	exp, err := New(cfg, NewRegistry(), nil)
	require.NoError(t, err)

	res, err := exp.Run(context.Background())
	require.NoError(t, err)
	assert.Len(t, res.Samples, 101)
	assert.Len(t, res.Metrics, 6)
	assert.Equal(t, res.Final().State[0], res.Metrics["final_x"])
	assert.Equal(t, 1.0, res.Metrics["stability"])
	assert.Greater(t, res.Metrics["forcing_effort"], 0.0)
}

func TestExperimentSelectedMetrics(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Time.End = 0.5

	exp, err := New(cfg, NewRegistry(), []string{"ise"})
	require.NoError(t, err)

	res, err := exp.Run(context.Background())
	require.NoError(t, err)
	assert.Len(t, res.Metrics, 1)
	assert.Contains(t, res.Metrics, "ise")

	_, err = New(cfg, NewRegistry(), []string{"nope"})
	assert.Error(t, err)
}

func TestExperimentUsesInitialState(t *testing.T) {
	cfg := config.GetPreset("unforced")
	cfg.InitState = []float64{1, 2, 0, 0}
	cfg.Time.End = 1

	exp, err := New(cfg, NewRegistry(), nil)
	require.NoError(t, err)

	res, err := exp.Run(context.Background())
	require.NoError(t, err)

	// no forcing and x'' = x''' = 0 at rest: x moves at constant speed
	assert.InDelta(t, 3.0, res.Final().State[0], 1e-12)
}

func TestExperimentSingular(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Engine.T = 0

	exp, err := New(cfg, NewRegistry(), nil)
	require.NoError(t, err)

	_, err = exp.Run(context.Background())
	assert.ErrorIs(t, err, dynamo.ErrSingularSystem)
}

func TestExperimentInvalidConfig(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Time.Step = -1

	_, err := New(cfg, NewRegistry(), nil)
	assert.ErrorIs(t, err, dynamo.ErrInvalidConfig)
}

func TestExperimentJob(t *testing.T) {
	cfg := config.DefaultConfig()
	exp, err := New(cfg, NewRegistry(), []string{"peak"})
	require.NoError(t, err)

	job, err := exp.Job("a", NewRegistry())
	require.NoError(t, err)
	assert.Equal(t, "a", job.Name)
	assert.Len(t, job.Metrics, 1)

	eng := job.Model.(*physics.Engine)
	eng.K3 = 42
	assert.NotEqual(t, 42.0, exp.Engine().K3)
}

func TestExperimentDoesNotAliasConfig(t *testing.T) {
	cfg := config.DefaultConfig()
	exp, err := New(cfg, NewRegistry(), nil)
	require.NoError(t, err)

	cfg.Time.End = 99
	assert.Equal(t, config.DefaultTEnd, exp.Config().Time.End)
}
