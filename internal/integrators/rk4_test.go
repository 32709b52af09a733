package integrators_test

import (
	"errors"
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/enginesim/internal/dynamo"
	"github.com/san-kum/enginesim/internal/integrators"
)

// oscillator is x″ = -x in the first two slots, the rest frozen.
func oscillator(_ float64, y dynamo.State) (dynamo.State, error) {
	return dynamo.State{y[1], -y[0], 0, 0}, nil
}

var _ = Describe("RK4", func() {
	It("is exact for a constant derivative", func() {
		f := func(float64, dynamo.State) (dynamo.State, error) {
			return dynamo.State{1, 0, 0, 0}, nil
		}
		for _, h := range []float64{0.5, 0.01, 0.125} {
			y0 := dynamo.State{3, -1, 2, 0.5}
			y1, err := integrators.RK4Step(f, 0, y0, h)
			Expect(err).NotTo(HaveOccurred())
			Expect(y1[0]).To(BeNumerically("~", y0[0]+h, 1e-15))
			Expect(y1[1:]).To(Equal(y0[1:]))
		}
	})

	It("integrates a cubic in time exactly", func() {
		// x' = 3t², x(0) = 0  =>  x(t) = t³
		f := func(t float64, _ dynamo.State) (dynamo.State, error) {
			return dynamo.State{3 * t * t, 0, 0, 0}, nil
		}
		y := dynamo.State{}
		t, h := 0.0, 0.25
		for i := 0; i < 8; i++ {
			var err error
			y, err = integrators.RK4Step(f, t, y, h)
			Expect(err).NotTo(HaveOccurred())
			t += h
		}
		Expect(y[0]).To(BeNumerically("~", 8.0, 1e-12))
	})

	It("tracks the harmonic oscillator", func() {
		integ := integrators.NewRK4()
		y := dynamo.State{1, 0, 0, 0}
		dt := 0.01
		steps := 100
		for i := 0; i < steps; i++ {
			var err error
			y, err = integ.Step(oscillator, float64(i)*dt, y, dt)
			Expect(err).NotTo(HaveOccurred())
		}
		Expect(y[0]).To(BeNumerically("~", math.Cos(1), 1e-8))
		Expect(y[1]).To(BeNumerically("~", -math.Sin(1), 1e-8))
	})

	It("has fourth-order global error", func() {
		run := func(h float64) float64 {
			y := dynamo.State{1, 0, 0, 0}
			n := int(math.Round(2 / h))
			for i := 0; i < n; i++ {
				y, _ = integrators.RK4Step(oscillator, float64(i)*h, y, h)
			}
			return math.Abs(y[0] - math.Cos(2))
		}
		ratio := run(0.1) / run(0.05)
		Expect(ratio).To(BeNumerically("~", 16, 2))
	})

	It("does not mutate its input state", func() {
		y := dynamo.State{1, 2, 3, 4}
		before := y
		_, err := integrators.RK4Step(oscillator, 0, y, 0.1)
		Expect(err).NotTo(HaveOccurred())
		Expect(y).To(Equal(before))
	})

	It("evaluates the stages at t, t+h/2, t+h/2, t+h", func() {
		var seen []float64
		f := func(t float64, _ dynamo.State) (dynamo.State, error) {
			seen = append(seen, t)
			return dynamo.State{}, nil
		}
		_, err := integrators.RK4Step(f, 1, dynamo.State{}, 0.5)
		Expect(err).NotTo(HaveOccurred())
		Expect(seen).To(Equal([]float64{1, 1.25, 1.25, 1.5}))
	})

	It("propagates the first error from the derivative", func() {
		boom := errors.New("boom")
		calls := 0
		f := func(float64, dynamo.State) (dynamo.State, error) {
			calls++
			if calls == 2 {
				return dynamo.State{}, boom
			}
			return dynamo.State{1, 1, 1, 1}, nil
		}
		y := dynamo.State{5, 5, 5, 5}
		out, err := integrators.RK4Step(f, 0, y, 0.1)
		Expect(err).To(MatchError(boom))
		Expect(calls).To(Equal(2))
		Expect(out).To(Equal(y))
	})

	It("is named rk4", func() {
		Expect(integrators.NewRK4().Name()).To(Equal("rk4"))
	})
})
