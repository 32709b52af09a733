package forcing_test

import (
	"math/cmplx"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/enginesim/internal/forcing"
)

var sampleTimes = []float64{0, 0.5, 1, 2, 5}

var _ = Describe("Profiles", func() {
	profiles := map[string]forcing.Profile{
		"exponential decay":  forcing.NewExponentialDecay(10, 0.3),
		"damped oscillation": forcing.NewDampedOscillation(1, 0.5, 3),
		"zero":               forcing.Zero{},
	}

	for name, p := range profiles {
		p := p

		Describe(name, func() {
			It("is zero with all derivatives for negative time", func() {
				for _, t := range []float64{-0.001, -1, -100} {
					Expect(p.Value(t)).To(BeZero())
					Expect(p.First(t)).To(BeZero())
					Expect(p.Second(t)).To(BeZero())
					Expect(p.Third(t)).To(BeZero())
				}
			})

			It("has derivatives consistent with finite differences", func() {
				residuals := forcing.Check(p, sampleTimes, 1e-4)
				Expect(residuals).To(HaveLen(3 * len(sampleTimes)))
				for _, r := range residuals {
					Expect(r.Err()).To(BeNumerically("<", 1e-4),
						"order %d at t=%.2f: analytic %g numeric %g", r.Order, r.T, r.Analytic, r.Numeric)
				}
			})
		})
	}

	Describe("ExponentialDecay", func() {
		p := forcing.NewExponentialDecay(10, 0.3)

		It("is strictly positive for t >= 0", func() {
			for t := 0.0; t <= 50; t += 0.25 {
				Expect(p.Value(t)).To(BeNumerically(">", 0))
			}
		})

		It("has n-th derivative (-alpha)^n F", func() {
			for _, t := range sampleTimes {
				f := p.Value(t)
				Expect(p.First(t)).To(BeNumerically("~", -0.3*f, 1e-12))
				Expect(p.Second(t)).To(BeNumerically("~", 0.09*f, 1e-12))
				Expect(p.Third(t)).To(BeNumerically("~", -0.027*f, 1e-12))
			}
		})

		It("starts at the amplitude", func() {
			Expect(p.Value(0)).To(Equal(10.0))
		})
	})

	Describe("DampedOscillation", func() {
		p := forcing.NewDampedOscillation(1, 0.5, 3)

		It("starts at zero with slope A*omega", func() {
			Expect(p.Value(0)).To(BeZero())
			Expect(p.First(0)).To(BeNumerically("~", 3.0, 1e-12))
		})

		It("follows the closed form", func() {
			// F = Im(e^(λt)) with λ = -α + iω, so the n-th derivative is Im(λⁿ·e^(λt)).
			lambda := complex(-0.5, 3)
			for _, t := range []float64{0, 0.4, 1.3, 2.7} {
				e := cmplx.Exp(lambda * complex(t, 0))
				Expect(p.Value(t)).To(BeNumerically("~", imag(e), 1e-12))
				Expect(p.First(t)).To(BeNumerically("~", imag(lambda*e), 1e-12))
				Expect(p.Second(t)).To(BeNumerically("~", imag(lambda*lambda*e), 1e-12))
				Expect(p.Third(t)).To(BeNumerically("~", imag(lambda*lambda*lambda*e), 1e-12))
			}
		})

		It("has the third derivative 3α²ω - ω³ at t = 0", func() {
			Expect(p.Third(0)).To(BeNumerically("~", -24.75, 1e-12))
		})

		It("reports its parameters", func() {
			Expect(p.Params()).To(Equal(map[string]float64{"amplitude": 1, "alpha": 0.5, "omega": 3}))
		})
	})

	Describe("New", func() {
		It("defaults to exponential decay", func() {
			p, err := forcing.New(forcing.Spec{Amplitude: 10, Alpha: 0.3})
			Expect(err).NotTo(HaveOccurred())
			Expect(p.Name()).To(Equal(forcing.NameExponentialDecay))
		})

		It("builds every registered profile", func() {
			for _, name := range forcing.Names() {
				p, err := forcing.New(forcing.Spec{Profile: name, Amplitude: 1, Alpha: 0.5, Omega: 3})
				Expect(err).NotTo(HaveOccurred())
				Expect(p.Name()).To(Equal(name))
			}
		})

		It("rejects unknown names", func() {
			_, err := forcing.New(forcing.Spec{Profile: "square_wave"})
			Expect(err).To(MatchError(forcing.ErrUnknownProfile))
		})
	})

	Describe("MaxError", func() {
		It("returns the worst residual", func() {
			rs := []forcing.Residual{
				{Analytic: 1, Numeric: 1.5},
				{Analytic: 2, Numeric: 1},
			}
			Expect(forcing.MaxError(rs)).To(Equal(1.0))
			Expect(forcing.MaxError(nil)).To(BeZero())
		})
	})
})
