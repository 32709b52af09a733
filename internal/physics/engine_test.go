package physics_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/enginesim/internal/dynamo"
	"github.com/san-kum/enginesim/internal/forcing"
	"github.com/san-kum/enginesim/internal/physics"
)

var states = []dynamo.State{
	{},
	{1, 2, 3, 4},
	{-0.5, 1e-9, 7.25, -3},
	{1e6, -1e6, 0.125, 42},
}

var times = []float64{-1, 0, 0.01, 0.5, 1, 2, 5, 10}

var _ = Describe("Engine", func() {
	var eng *physics.Engine

	BeforeEach(func() {
		eng = physics.NewEngine(physics.DefaultParams(), forcing.NewExponentialDecay(10, 0.3))
	})

	It("propagates the lower derivatives exactly", func() {
		for _, t := range times {
			for _, y := range states {
				d, err := eng.Derive(t, y)
				Expect(err).NotTo(HaveOccurred())
				Expect(d[0]).To(Equal(y[1]))
				Expect(d[1]).To(Equal(y[2]))
				Expect(d[2]).To(Equal(y[3]))
			}
		}
	})

	It("ignores x and x' in the dynamic row", func() {
		a, err := eng.Derive(1, dynamo.State{0, 0, 2, 3})
		Expect(err).NotTo(HaveOccurred())
		b, err := eng.Derive(1, dynamo.State{100, -50, 2, 3})
		Expect(err).NotTo(HaveOccurred())
		Expect(a[3]).To(Equal(b[3]))
	})

	It("evaluates x'''' from the loop equation", func() {
		p := physics.DefaultParams()
		f := forcing.NewExponentialDecay(10, 0.3)
		t := 0.7
		y := dynamo.State{0.1, 0.2, 0.3, 0.4}

		want := (p.K1*p.T*f.Third(t) + (p.K1+p.R*p.T*p.K2)*f.Second(t) -
			(1+p.R*p.T*p.K2)*y[3] - p.T*p.K1*p.K2*p.K3*y[2]) / p.T

		d, err := eng.Derive(t, y)
		Expect(err).NotTo(HaveOccurred())
		Expect(d[3]).To(BeNumerically("~", want, 1e-12))
	})

	It("gives 18.81 for x'''' at rest at t=0 under the reference disturbance", func() {
		d, err := eng.Derive(0, dynamo.State{})
		Expect(err).NotTo(HaveOccurred())
		Expect(d[3]).To(BeNumerically("~", 18.81, 1e-12))
	})

	It("does not mutate its input", func() {
		y := dynamo.State{1, 2, 3, 4}
		_, err := eng.Derive(0.3, y)
		Expect(err).NotTo(HaveOccurred())
		Expect(y).To(Equal(dynamo.State{1, 2, 3, 4}))
	})

	Context("when T is zero", func() {
		BeforeEach(func() {
			Expect(eng.SetParam("t", 0)).To(Succeed())
		})

		It("rejects every time and state with the singular system error", func() {
			for _, t := range times {
				for _, y := range states {
					d, err := eng.Derive(t, y)
					Expect(err).To(MatchError(dynamo.ErrSingularSystem))
					Expect(d).To(Equal(dynamo.State{}))
				}
			}
		})
	})

	Context("without disturbance", func() {
		It("keeps the rest state as a fixed point", func() {
			eng = physics.NewEngine(physics.DefaultParams(), forcing.Zero{})
			for _, t := range times {
				d, err := eng.Derive(t, dynamo.State{})
				Expect(err).NotTo(HaveOccurred())
				Expect(d).To(Equal(dynamo.State{}))
			}
		})

		It("treats a nil profile as no disturbance", func() {
			eng = physics.NewEngine(physics.DefaultParams(), nil)
			Expect(eng.Forcing(1)).To(BeZero())
		})
	})

	It("reports the forcing value", func() {
		Expect(eng.Forcing(0)).To(Equal(10.0))
		Expect(eng.Forcing(-1)).To(BeZero())
	})

	Describe("Coefficients", func() {
		It("combines the default constants", func() {
			c := eng.Coefficients()
			Expect(c.C1).To(BeNumerically("~", 0.1, 1e-15))
			Expect(c.C2).To(BeNumerically("~", 1.15, 1e-15))
			Expect(c.C3).To(Equal(0.1))
		})
	})

	Describe("parameters", func() {
		It("round trips through GetParams and SetParam", func() {
			Expect(eng.SetParam("k3", 0.75)).To(Succeed())
			Expect(eng.GetParams()).To(HaveKeyWithValue("k3", 0.75))
			Expect(eng.K3).To(Equal(0.75))
		})

		It("rejects unknown names", func() {
			Expect(eng.SetParam("mass", 1)).To(MatchError(dynamo.ErrUnknownParam))
		})

		It("clones independently", func() {
			c := eng.Clone()
			Expect(c.SetParam("r", 9)).To(Succeed())
			Expect(eng.R).To(Equal(physics.DefaultR))
		})
	})

	It("stays finite along a long horizon", func() {
		d, err := eng.Derive(1e3, dynamo.State{1, 1, 1, 1})
		Expect(err).NotTo(HaveOccurred())
		Expect(math.IsNaN(d[3])).To(BeFalse())
	})
})
