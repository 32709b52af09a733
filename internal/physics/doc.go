// Package physics provides the engine control-loop model.
//
// [Engine] reduces the fourth-order loop equation
//
//	T·x'''' + (1 + r·T·k2)·x''' + T·k1·k2·k3·x'' = k1·T·F''' + (k1 + r·T·k2)·F''
//
// to a first-order system over [dynamo.State] and implements [dynamo.Model]
// and [dynamo.Configurable]. The forcing F is any [forcing.Profile].
package physics
