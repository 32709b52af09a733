// Package dynamo provides core simulation primitives for the engine loop model.
//
// The package defines the fundamental types shared by the model, the
// integrator and the simulation driver:
//
//   - [State]: fixed four-slot vector {x, x', x″, x‴}
//   - [DerivativeFunc]: right-hand side dY/dt = f(t, Y)
//   - [Model]: a system that can be differentiated and reports its forcing
//   - [Integrator]: fixed-step numerical integrator
//   - [Metric], [Observer]: per-sample hooks used by the driver
//
// # Example
//
//	eng := physics.NewEngine(physics.DefaultParams(), forcing.NewExponentialDecay(10, 0.3))
//	s := sim.New(eng, integrators.NewRK4())
//	result, err := s.Run(ctx, dynamo.State{}, sim.DefaultConfig())
//
// State is a value type: integrators return new values and never alias the
// input, so a trajectory can be shared between goroutines once produced.
package dynamo
