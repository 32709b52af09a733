// Package analysis post-processes recorded trajectories.
//
//   - [Response]: peak, overshoot and settling of one column
//   - [Describe]: mean, spread and range of a column
//   - [PowerSpectrum]: one-sided power spectrum of a uniformly sampled column
//   - [Poles]: eigenvalues of the loop's state matrix
//   - [PhasePortrait]: two columns against each other, rendered as ASCII
//
// A stable loop has poles with non-positive real parts; the two integrator
// poles at the origin make x itself drift under a non-zero net impulse:
//
//	for _, p := range analysis.Poles(params) {
//	    if real(p) > 0 {
//	        // unstable
//	    }
//	}
package analysis
