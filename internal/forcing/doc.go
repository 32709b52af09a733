// Package forcing provides the disturbance input F(t) that drives the engine
// loop, together with its exact first three time derivatives.
//
// Every [Profile] is a pure function of time. For t < 0 all profiles and all
// of their derivatives are zero. Derivatives are closed form; [Check]
// compares them against central finite differences.
//
//   - [ExponentialDecay]: F = F0·exp(-αt), default profile
//   - [DampedOscillation]: F = A·exp(-αt)·sin(ωt)
//   - [Zero]: no disturbance
package forcing
