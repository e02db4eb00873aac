package engine

import "errors"

// Per-step physical violations. Each is recoverable by the exploration
// policy choosing a different command; the engine never retries on its own.
var (
	ErrCollision        = errors.New("advance blocked by a wall")
	ErrRanOverVictim    = errors.New("advance would run over the victim")
	ErrNothingToPickup  = errors.New("no victim in the cell ahead")
	ErrNoCargoToEject   = errors.New("robot has no cargo to eject")
	ErrNotAtExit        = errors.New("robot must stand on the entry cell to eject")
	ErrNotFacingOutward = errors.New("robot must face off the map to eject")
	ErrInvalidCommand   = errors.New("unrecognized command")
)

// Invariant violations. These indicate broken construction-time guarantees
// and are treated as programming errors, not mission failures.
var (
	ErrNoEntry          = errors.New("grid has no entry cell")
	ErrNoVictimHere     = errors.New("cell does not hold a victim")
	ErrEntryNotOnBorder = errors.New("entry cell is not on the grid border")
)

// ViolationCode maps a per-step violation to its stable wire code, or ""
// when the error is not one of the closed violation set.
func ViolationCode(err error) string {
	switch {
	case errors.Is(err, ErrCollision):
		return "collision"
	case errors.Is(err, ErrRanOverVictim):
		return "ran_over_victim"
	case errors.Is(err, ErrNothingToPickup):
		return "nothing_to_pickup"
	case errors.Is(err, ErrNoCargoToEject):
		return "no_cargo_to_eject"
	case errors.Is(err, ErrNotAtExit):
		return "not_at_exit"
	case errors.Is(err, ErrNotFacingOutward):
		return "not_facing_outward"
	case errors.Is(err, ErrInvalidCommand):
		return "invalid_command"
	default:
		return ""
	}
}
