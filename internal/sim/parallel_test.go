package sim_test

import (
	"context"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/enginesim/internal/dynamo"
	"github.com/san-kum/enginesim/internal/forcing"
	"github.com/san-kum/enginesim/internal/integrators"
	"github.com/san-kum/enginesim/internal/physics"
	"github.com/san-kum/enginesim/internal/sim"
)

var _ = Describe("RunBatch", func() {
	rk4 := func() dynamo.Integrator { return integrators.NewRK4() }
	cfg := sim.Config{TEnd: 2, Step: 0.01}

	jobFor := func(k3 float64) sim.Job {
		p := physics.DefaultParams()
		p.K3 = k3
		return sim.Job{
			Name:  "k3",
			Model: physics.NewEngine(p, forcing.NewExponentialDecay(10, 0.3)),
		}
	}

	It("matches sequential runs and keeps job order", func() {
		jobs := []sim.Job{jobFor(0.25), jobFor(0.5), jobFor(1)}
		results, err := sim.RunBatch(context.Background(), jobs, rk4, cfg, 2)
		Expect(err).NotTo(HaveOccurred())
		Expect(results).To(HaveLen(3))

		for i, job := range jobs {
			seq, err := sim.New(job.Model, integrators.NewRK4()).Run(context.Background(), job.X0, cfg)
			Expect(err).NotTo(HaveOccurred())
			Expect(results[i].Samples).To(Equal(seq.Samples))
		}
	})

	It("fails the batch when one job is singular", func() {
		bad := jobFor(0.5)
		bad.Name = "singular"
		bad.Model.(*physics.Engine).T = 0

		_, err := sim.RunBatch(context.Background(), []sim.Job{jobFor(0.5), bad}, rk4, cfg, 0)
		Expect(err).To(MatchError(dynamo.ErrSingularSystem))
		Expect(err.Error()).To(ContainSubstring(`job "singular"`))
	})
})
