// Package forces provides the force contributors registered with a
// [sim.Simulation]:
//
//   - [Position]: pulls nodes toward a target along one axis ([NewX], [NewY])
//   - [Charge]: pairwise many-body repulsion or attraction
//   - [Collide]: pushes overlapping circles apart
//
// Per-node parameters are given as [Accessor] functions and cached when the
// simulation initializes the force, so replacing a force with new targets is
// the way to change them.
//
// # Example
//
//	s.SetForce("x", forces.NewX(forces.Constant(313), forces.Constant(0.03)))
//	s.SetForce("charge", forces.NewCharge(forces.RadiusCharge(0.03)))
package forces
