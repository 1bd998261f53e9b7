// Package growth implements a discrete-time Solow growth model.
//
// The package has three pieces:
//
//   - [Params]: the model coefficients and simulation horizon
//   - [Simulator]: advances capital one period at a time and reports the
//     closed-form steady state
//   - [Path]: the capital trajectory returned by [Simulator.Simulate]
//
// # Example
//
//	sim, err := growth.New(growth.DefaultParams())
//	if err != nil {
//	    return err
//	}
//	path, err := sim.Simulate()
//	kstar, err := sim.SteadyState()
//
// # Thread Safety
//
// A Simulator holds no mutable state after construction. Distinct simulators,
// or the same one, may be used from several goroutines; every call to
// Simulate allocates its own Path.
package growth
