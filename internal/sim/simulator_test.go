package sim_test

import (
	"context"
	"errors"
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/enginesim/internal/dynamo"
	"github.com/san-kum/enginesim/internal/forcing"
	"github.com/san-kum/enginesim/internal/integrators"
	"github.com/san-kum/enginesim/internal/physics"
	"github.com/san-kum/enginesim/internal/sim"
)

// closedFormX is the exact x(t) of the loop equation started at rest under
// F = f0·exp(-alpha·t). With y = x″ the equation is
// y″ + a·y' + b·y = g·exp(-alpha·t), y(0) = y'(0) = 0.
func closedFormX(p physics.Params, f0, alpha, t float64) float64 {
	c := p.Coefficients()
	a := c.C2 / p.T
	b := c.C1 / p.T
	g := (p.K1*p.T*(-alpha*alpha*alpha) + (p.K1+p.R*p.T*p.K2)*alpha*alpha) * f0 / p.T

	disc := math.Sqrt(a*a - 4*b)
	s1 := (-a + disc) / 2
	s2 := (-a - disc) / 2

	P := g / (alpha*alpha - a*alpha + b)
	A := P * (alpha + s2) / (s1 - s2)
	B := -P - A

	twice := func(lambda float64) float64 {
		return (math.Exp(lambda*t) - 1 - lambda*t) / (lambda * lambda)
	}
	return P*twice(-alpha) + A*twice(s1) + B*twice(s2)
}

type counter struct{ n int }

func (c *counter) OnSample(dynamo.Sample) { c.n++ }

type lastX struct{ v float64 }

func (l *lastX) Name() string            { return "last_x" }
func (l *lastX) Observe(s dynamo.Sample) { l.v = s.State[0] }
func (l *lastX) Value() float64          { return l.v }
func (l *lastX) Reset()                  { l.v = 0 }

type nanModel struct{}

func (nanModel) Derive(float64, dynamo.State) (dynamo.State, error) {
	return dynamo.State{math.NaN(), 0, 0, 0}, nil
}
func (nanModel) Forcing(float64) float64 { return 0 }

var _ = Describe("Simulator", func() {
	var (
		ctx context.Context
		cfg sim.Config
	)

	reference := func() *physics.Engine {
		return physics.NewEngine(
			physics.Params{T: 0.1, R: 1.5, K1: 2.0, K2: 1.0, K3: 0.5},
			forcing.NewExponentialDecay(10.0, 0.3),
		)
	}

	BeforeEach(func() {
		ctx = context.Background()
		cfg = sim.DefaultConfig()
	})

	Describe("the reference scenario", func() {
		It("emits one sample per grid point from 0 to 10", func() {
			res, err := sim.New(reference(), integrators.NewRK4()).Run(ctx, dynamo.State{}, cfg)
			Expect(err).NotTo(HaveOccurred())
			Expect(res.Samples).To(HaveLen(1001))
			Expect(res.StepsTaken).To(Equal(1000))
			Expect(res.Samples[0].T).To(BeZero())
			Expect(res.Final().T).To(BeNumerically("~", 10, 1e-9))
		})

		It("starts at rest with the first row computed before stepping", func() {
			res, err := sim.New(reference(), integrators.NewRK4()).Run(ctx, dynamo.State{}, cfg)
			Expect(err).NotTo(HaveOccurred())
			first := res.Samples[0]
			Expect(first.State).To(Equal(dynamo.State{}))
			Expect(first.Fourth()).To(BeNumerically("~", 18.81, 1e-12))
			Expect(first.Forcing).To(Equal(10.0))
		})

		It("is reproducible bit for bit", func() {
			a, err := sim.New(reference(), integrators.NewRK4()).Run(ctx, dynamo.State{}, cfg)
			Expect(err).NotTo(HaveOccurred())
			b, err := sim.New(reference(), integrators.NewRK4()).Run(ctx, dynamo.State{}, cfg)
			Expect(err).NotTo(HaveOccurred())
			Expect(a.Samples).To(Equal(b.Samples))
		})

		It("matches the closed-form solution", func() {
			res, err := sim.New(reference(), integrators.NewRK4()).Run(ctx, dynamo.State{}, cfg)
			Expect(err).NotTo(HaveOccurred())

			p := reference().Params
			for _, idx := range []int{100, 500, 1000} {
				smp := res.Samples[idx]
				want := closedFormX(p, 10, 0.3, smp.T)
				Expect(smp.State[0]).To(BeNumerically("~", want, 1e-6*math.Max(1, math.Abs(want))),
					"x at t=%.2f", smp.T)
			}
		})

		It("stays finite", func() {
			res, err := sim.New(reference(), integrators.NewRK4()).Run(ctx, dynamo.State{}, cfg)
			Expect(err).NotTo(HaveOccurred())
			for _, s := range res.Samples {
				Expect(s.State.IsValid()).To(BeTrue())
			}
		})
	})

	It("keeps an undisturbed engine at rest", func() {
		eng := physics.NewEngine(physics.DefaultParams(), forcing.Zero{})
		res, err := sim.New(eng, integrators.NewRK4()).Run(ctx, dynamo.State{}, cfg)
		Expect(err).NotTo(HaveOccurred())
		for _, s := range res.Samples {
			Expect(s.State).To(Equal(dynamo.State{}))
			Expect(s.Derivative).To(Equal(dynamo.State{}))
		}
	})

	It("runs the damped oscillation disturbance", func() {
		eng := physics.NewEngine(physics.DefaultParams(), forcing.NewDampedOscillation(1, 0.5, 3))
		res, err := sim.New(eng, integrators.NewRK4()).Run(ctx, dynamo.State{}, cfg)
		Expect(err).NotTo(HaveOccurred())
		Expect(res.Samples).To(HaveLen(1001))
		Expect(res.Final().State.IsValid()).To(BeTrue())
		Expect(res.Final().State[0]).NotTo(BeZero())
	})

	It("aborts on a singular system before emitting anything", func() {
		eng := reference()
		eng.T = 0

		res, err := sim.New(eng, integrators.NewRK4()).Run(ctx, dynamo.State{}, cfg)
		Expect(err).To(MatchError(dynamo.ErrSingularSystem))

		var se *dynamo.SimulationError
		Expect(errors.As(err, &se)).To(BeTrue())
		Expect(se.Step).To(Equal(0))
		Expect(res.Samples).To(BeEmpty())
	})

	It("feeds observers and metrics every sample", func() {
		obs := &counter{}
		m := &lastX{}
		s := sim.New(reference(), integrators.NewRK4())
		s.AddObserver(obs)
		s.AddMetric(m)

		res, err := s.Run(ctx, dynamo.State{}, cfg)
		Expect(err).NotTo(HaveOccurred())
		Expect(obs.n).To(Equal(1001))
		Expect(res.Metrics).To(HaveKeyWithValue("last_x", res.Final().State[0]))
	})

	It("streams samples and stops on callback errors", func() {
		stop := errors.New("stop")
		seen := 0
		err := sim.New(reference(), integrators.NewRK4()).Stream(ctx, dynamo.State{}, cfg, func(dynamo.Sample) error {
			seen++
			if seen == 10 {
				return stop
			}
			return nil
		})
		Expect(err).To(MatchError(stop))
		Expect(seen).To(Equal(10))
	})

	It("honours cancellation", func() {
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		_, err := sim.New(reference(), integrators.NewRK4()).Run(cctx, dynamo.State{}, cfg)
		Expect(err).To(MatchError(dynamo.ErrContextCanceled))
		Expect(errors.Is(err, context.Canceled)).To(BeTrue())
	})

	It("traps non-finite states only when asked", func() {
		_, err := sim.New(nanModel{}, integrators.NewRK4()).Run(ctx, dynamo.State{}, cfg)
		Expect(err).NotTo(HaveOccurred())

		cfg.ValidateState = true
		_, err = sim.New(nanModel{}, integrators.NewRK4()).Run(ctx, dynamo.State{}, cfg)
		Expect(err).To(MatchError(dynamo.ErrInvalidState))
	})

	DescribeTable("rejects invalid configs",
		func(c sim.Config) {
			_, err := sim.New(reference(), integrators.NewRK4()).Run(ctx, dynamo.State{}, c)
			Expect(err).To(MatchError(dynamo.ErrInvalidConfig))
		},
		Entry("zero step", sim.Config{TEnd: 1}),
		Entry("negative step", sim.Config{TEnd: 1, Step: -0.1}),
		Entry("end before start", sim.Config{TStart: 2, TEnd: 1, Step: 0.1}),
		Entry("infinite end", sim.Config{TEnd: math.Inf(1), Step: 0.1}),
		Entry("step count overflows int", sim.Config{TEnd: 1e300, Step: 1e-300}),
		Entry("span overflows float", sim.Config{TStart: -1e308, TEnd: 1e308, Step: 1}),
		Entry("too many steps", sim.Config{TEnd: 1, Step: 1 / float64(sim.MaxSteps+1)}),
	)

	It("accepts a grid at the step limit", func() {
		c := sim.Config{TEnd: sim.MaxSteps, Step: 1}
		Expect(c.Validate()).To(Succeed())
		Expect(c.Steps()).To(Equal(sim.MaxSteps))
	})
})

var _ = Describe("Config", func() {
	It("counts grid steps without drifting", func() {
		Expect(sim.Config{TEnd: 10, Step: 0.01}.Steps()).To(Equal(1000))
		Expect(sim.Config{TEnd: 1, Step: 0.1}.Steps()).To(Equal(10))
		Expect(sim.Config{TStart: 1, TEnd: 1, Step: 0.1}.Steps()).To(Equal(0))
		Expect(sim.Config{TEnd: 1.05, Step: 0.1}.Steps()).To(Equal(10))
	})

	It("extracts columns", func() {
		res := &sim.Result{Samples: []dynamo.Sample{
			{T: 0, State: dynamo.State{1, 2, 3, 4}, Derivative: dynamo.State{2, 3, 4, 5}, Forcing: 6},
		}}
		for i, want := range []float64{1, 2, 3, 4, 5, 6} {
			Expect(res.Column(i)).To(Equal([]float64{want}))
		}
		Expect(res.Times()).To(Equal([]float64{0}))
		Expect(sim.ColumnNames).To(HaveLen(6))
	})
})
