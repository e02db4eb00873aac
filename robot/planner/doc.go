// Package planner retraces an explored path back to the entry cell.
//
// The forward command history is inverted newest-first: an advance is undone
// by turn, turn, advance, turn, turn (the only rotation primitive is a right
// turn), a right turn is undone by three right turns, and pickup/eject need
// no undo step. An empty-handed robot executes the inverted sequence as-is.
// A robot carrying the victim safety-checks every inverted advance against
// live sensors immediately before executing it: a wall on all three sides is
// a dead end after pickup, answered by a bounded rotation probe. When the
// probe budget is exhausted the planner emits an ALARM audit record and
// fails with ErrTrappedAfterPickup, the one mission-fatal condition in the
// system.
package planner
