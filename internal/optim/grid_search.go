package optim

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"math"

	"github.com/san-kum/enginesim/internal/config"
	"github.com/san-kum/enginesim/internal/dynamo"
	"github.com/san-kum/enginesim/internal/experiment"
	"github.com/san-kum/enginesim/internal/integrators"
	"github.com/san-kum/enginesim/internal/sim"
)

var ErrEmptyGrid = errors.New("optim: empty parameter grid")

// Point is one evaluated grid point.
type Point struct {
	Params map[string]float64
	Value  float64
}

type Result struct {
	Best   Point
	Points []Point // in grid order, last parameter varying fastest
}

// GridSearch evaluates every combination of engine parameter values and
// minimizes one metric. Parameter names are those of physics.Engine.SetParam.
type GridSearch struct {
	paramNames []string
	ranges     [][]float64
	workers    int
}

func NewGridSearch(params []string, ranges [][]float64, workers int) *GridSearch {
	return &GridSearch{paramNames: params, ranges: ranges, workers: workers}
}

// Search runs the grid from base concurrently and returns the point with the
// smallest metric value. NaN values never win.
func (g *GridSearch) Search(ctx context.Context, base *config.Config, reg *experiment.Registry, metricName string) (*Result, error) {
	if len(g.paramNames) == 0 || len(g.paramNames) != len(g.ranges) {
		return nil, ErrEmptyGrid
	}

	grid := g.expand()
	if len(grid) == 0 {
		return nil, ErrEmptyGrid
	}

	exp, err := experiment.New(base, reg, []string{metricName})
	if err != nil {
		return nil, err
	}

	jobs := make([]sim.Job, len(grid))
	for i, params := range grid {
		job, err := exp.Job(fmt.Sprintf("%v", params), reg)
		if err != nil {
			return nil, err
		}
		tunable, ok := job.Model.(dynamo.Configurable)
		if !ok {
			return nil, fmt.Errorf("model %T is not configurable", job.Model)
		}
		for name, v := range params {
			if err := tunable.SetParam(name, v); err != nil {
				return nil, err
			}
		}
		jobs[i] = job
	}

	results, err := sim.RunBatch(ctx, jobs,
		func() dynamo.Integrator { return integrators.NewRK4() },
		base.SimConfig(), g.workers)
	if err != nil {
		return nil, err
	}

	out := &Result{
		Best:   Point{Value: math.Inf(1)},
		Points: make([]Point, len(grid)),
	}
	for i, res := range results {
		p := Point{Params: grid[i], Value: res.Metrics[metricName]}
		out.Points[i] = p
		if p.Value < out.Best.Value {
			out.Best = p
		}
	}
	return out, nil
}

func (g *GridSearch) expand() []map[string]float64 {
	var out []map[string]float64
	g.searchRecursive(0, make(map[string]float64), &out)
	return out
}

func (g *GridSearch) searchRecursive(depth int, current map[string]float64, out *[]map[string]float64) {
	if depth == len(g.paramNames) {
		*out = append(*out, maps.Clone(current))
		return
	}

	paramName := g.paramNames[depth]
	for _, val := range g.ranges[depth] {
		current[paramName] = val
		g.searchRecursive(depth+1, current, out)
	}
}
