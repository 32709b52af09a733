package sim

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/san-kum/enginesim/internal/dynamo"
)

// Job is one independent trajectory. Each job owns its model, so batches
// share nothing but the read-only config.
type Job struct {
	Name    string
	Model   dynamo.Model
	X0      dynamo.State
	Metrics []dynamo.Metric
}

// RunBatch integrates jobs concurrently with at most workers goroutines
// (workers <= 0 means one per job). Results keep the order of jobs. The
// first failing job cancels the rest.
func RunBatch(ctx context.Context, jobs []Job, integrator func() dynamo.Integrator, cfg Config, workers int) ([]*Result, error) {
	results := make([]*Result, len(jobs))

	g, ctx := errgroup.WithContext(ctx)
	if workers > 0 {
		g.SetLimit(workers)
	}

	for i, job := range jobs {
		g.Go(func() error {
			s := New(job.Model, integrator())
			for _, m := range job.Metrics {
				s.AddMetric(m)
			}

			res, err := s.Run(ctx, job.X0, cfg)
			if err != nil {
				return fmt.Errorf("job %q: %w", job.Name, err)
			}
			results[i] = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
