package engine

import (
	"encoding/json"
	"fmt"
)

// Direction is the robot's heading, encoded as a 4-cycle. Turning right is
// +1 mod 4; there is no left-turn primitive anywhere in the command set.
type Direction int

const (
	North Direction = iota
	East
	South
	West
)

var directionNames = [...]string{"north", "east", "south", "west"}

// TurnRight returns the heading after one 90° right turn.
func (d Direction) TurnRight() Direction {
	return (d + 1) % 4
}

// TurnLeft returns the heading after three right turns.
func (d Direction) TurnLeft() Direction {
	return (d + 3) % 4
}

// Opposite returns the heading after a 180° turn.
func (d Direction) Opposite() Direction {
	return (d + 2) % 4
}

// Delta returns the unit step for the direction. Y grows downward, matching
// the [y][x] grid indexing.
func (d Direction) Delta() (dx, dy int) {
	switch d {
	case North:
		return 0, -1
	case East:
		return 1, 0
	case South:
		return 0, 1
	default:
		return -1, 0
	}
}

func (d Direction) String() string {
	if d < North || d > West {
		return fmt.Sprintf("direction(%d)", int(d))
	}
	return directionNames[d]
}

// MarshalJSON encodes the direction as its lowercase name so persisted
// states and API payloads stay readable.
func (d Direction) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

// UnmarshalJSON accepts the lowercase direction names.
func (d *Direction) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	for i, n := range directionNames {
		if n == name {
			*d = Direction(i)
			return nil
		}
	}
	return fmt.Errorf("unknown direction %q", name)
}

// Command is one of the four robot commands. No other symbols are accepted.
type Command string

const (
	Advance Command = "advance"
	Turn    Command = "turn"
	Pickup  Command = "pickup"
	Eject   Command = "eject"
)

// ParseCommand maps a command string to its Command value. Single-letter
// shorthands (a, t, p, e) are accepted for scripted input.
func ParseCommand(s string) (Command, error) {
	switch s {
	case "advance", "a":
		return Advance, nil
	case "turn", "t":
		return Turn, nil
	case "pickup", "p":
		return Pickup, nil
	case "eject", "e":
		return Eject, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidCommand, s)
	}
}

// CellKind classifies a grid cell.
type CellKind string

const (
	CellWall   CellKind = "wall"
	CellFree   CellKind = "free"
	CellEntry  CellKind = "entry"
	CellVictim CellKind = "victim"
)

// Reading is a single directional sensor value.
type Reading string

const (
	ReadingWall   Reading = "wall"
	ReadingFree   Reading = "free"
	ReadingVictim Reading = "victim"
)

// Position represents x,y coordinates on the grid, [0,0] at the top-left.
type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Step returns the adjacent position one cell away in the given direction.
func (p Position) Step(d Direction) Position {
	dx, dy := d.Delta()
	return Position{X: p.X + dx, Y: p.Y + dy}
}

// Pose is the robot's position plus heading.
type Pose struct {
	Position Position  `json:"position"`
	Heading  Direction `json:"heading"`
}

// SensorReading is the left/right/front triple for the current pose. It is
// recomputed on every read and never cached.
type SensorReading struct {
	Left  Reading `json:"left"`
	Right Reading `json:"right"`
	Front Reading `json:"front"`
}

// AllWalls reports the boxed-in condition used by the return planner's
// dead-end detection.
func (r SensorReading) AllWalls() bool {
	return r.Left == ReadingWall && r.Right == ReadingWall && r.Front == ReadingWall
}

/// RobotState is the complete serializable simulation state: working grid,
// pose, and carry flag.
type RobotState struct {
	Grid     [][]CellKind `json:"grid"`
	Pose     Pose         `json:"pose"`
	Carrying bool         `json:"carrying"`
}

// HistoryEntry records one command attempt against the simulator.
type HistoryEntry struct {
	Seq       int     `json:"seq"`
	Command   Command `json:"command"`
	From      Pose    `json:"from"`
	To        Pose    `json:"to"`
	Carrying  bool    `json:"carrying"`
	Success   bool    `json:"success"`
	Violation string  `json:"violation,omitempty"`
	Phase     string  `json:"phase,omitempty"`
	Timestamp int64   `json:"timestamp"`
}
