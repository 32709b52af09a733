package analysis

import (
	"cmp"
	"slices"

	"gonum.org/v1/gonum/mat"

	"github.com/san-kum/enginesim/internal/physics"
)

// StateMatrix returns A of the unforced loop y' = A·y. T must be non-zero.
func StateMatrix(p physics.Params) *mat.Dense {
	c := p.Coefficients()
	return mat.NewDense(4, 4, []float64{
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
		0, 0, -c.C1 / p.T, -c.C2 / p.T,
	})
}

// Poles returns the eigenvalues of the state matrix sorted by real part,
// largest first. A zero T has no finite poles and yields nil.
func Poles(p physics.Params) []complex128 {
	if p.T == 0 {
		return nil
	}

	var eig mat.Eigen
	if ok := eig.Factorize(StateMatrix(p), mat.EigenNone); !ok {
		return nil
	}

	vals := eig.Values(nil)
	slices.SortFunc(vals, func(a, b complex128) int {
		if c := cmp.Compare(real(b), real(a)); c != 0 {
			return c
		}
		return cmp.Compare(imag(b), imag(a))
	})
	return vals
}

// LyapunovSpectrum of a linear system is the set of pole real parts.
func LyapunovSpectrum(p physics.Params) []float64 {
	poles := Poles(p)
	out := make([]float64, len(poles))
	for i, z := range poles {
		out[i] = real(z)
	}
	return out
}
