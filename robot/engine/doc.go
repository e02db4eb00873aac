// Package engine provides the deterministic grid simulation at the heart of
// the rescue robot.
//
// The engine package implements:
//   - Grid cell classification (wall / free / entry / victim)
//   - Directional sensor readings relative to the robot's pose
//   - The command state machine (advance, turn, pickup, eject)
//   - Typed per-step violations for every illegal command
//
// Core Types:
//
// Grid is the walled arena, indexed [y][x]. Simulator holds the live robot
// pose, carry state, and the working grid; it is the only writer of the grid
// for the lifetime of a mission. SensorReading is the left/right/front
// triple recomputed on every read.
//
// Usage:
//
//	grid, err := mapfile.Load("maps/demo.txt")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	sim, err := engine.NewSimulator(grid)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	if err := sim.Apply(engine.Advance); err != nil {
//		// typed violation, e.g. engine.ErrCollision
//	}
//
// Movement Rules:
//
// The robot advances one cell in its heading, turns right in 90° steps
// (there is no left-turn primitive), picks a victim up from the cell
// directly in front, and ejects its cargo only while standing on the entry
// cell facing off the map. Stepping past the border is permitted: the world
// outside the walls is open, and the eject legality check relies on exactly
// that semantics at the entry cell.
package engine
