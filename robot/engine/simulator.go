package engine

import "fmt"

// Simulator is the command state machine. Its state is the triple
// (pose, carry flag, grid); there is no separate mode. The simulator is the
// single writer of the grid, every command applies atomically, and a failed
// command leaves all state untouched.
type Simulator struct {
	grid     *Grid
	pose     Pose
	carrying bool
}

// NewSimulator places the robot on the entry cell facing into the map and
// returns the ready simulator. The initial heading is derived from which
// border side holds the entry: top faces south, bottom north, left east,
// right west.
func NewSimulator(grid *Grid) (*Simulator, error) {
	entry, err := grid.LocateEntry()
	if err != nil {
		return nil, err
	}

	heading, err := inwardHeading(grid, entry)
	if err != nil {
		return nil, err
	}

	return &Simulator{
		grid: grid,
		pose: Pose{Position: entry, Heading: heading},
	}, nil
}

// inwardHeading picks the initial heading for an entry cell. Corner entries
// resolve in top, bottom, left, right order.
func inwardHeading(grid *Grid, entry Position) (Direction, error) {
	switch {
	case entry.Y == 0:
		return South, nil
	case entry.Y == grid.Height()-1:
		return North, nil
	case entry.X == 0:
		return East, nil
	case entry.X == grid.Width()-1:
		return West, nil
	default:
		return North, ErrEntryNotOnBorder
	}
}

// Pose returns the robot's current position and heading.
func (s *Simulator) Pose() Pose {
	return s.pose
}

// Carrying reports whether the robot holds the victim.
func (s *Simulator) Carrying() bool {
	return s.carrying
}

// Grid exposes the working grid for read access. Only the simulator itself
// writes to it.
func (s *Simulator) Grid() *Grid {
	return s.grid
}

// Sensors returns the live left/right/front readings for the current pose.
func (s *Simulator) Sensors() SensorReading {
	return ReadSensors(s.grid, s.pose)
}

// Apply executes one command against the current state. On failure it
// returns one of the typed violations and changes nothing.
func (s *Simulator) Apply(cmd Command) error {
	switch cmd {
	case Advance:
		return s.advance()
	case Turn:
		s.pose.Heading = s.pose.Heading.TurnRight()
		return nil
	case Pickup:
		return s.pickup()
	case Eject:
		return s.eject()
	default:
		return fmt.Errorf("%w: %q", ErrInvalidCommand, cmd)
	}
}

// advance moves one cell in the heading. Positions past the border are open
// world and always accept the move; the eject check depends on that.
func (s *Simulator) advance() error {
	front := s.pose.Position.Step(s.pose.Heading)

	if s.grid.InBounds(front) {
		switch s.grid.Classify(front) {
		case CellWall:
			return ErrCollision
		case CellVictim:
			if !s.carrying {
				return ErrRanOverVictim
			}
		}
	}

	s.pose.Position = front
	return nil
}

func (s *Simulator) pickup() error {
	front := s.pose.Position.Step(s.pose.Heading)
	if s.grid.Classify(front) != CellVictim {
		return ErrNothingToPickup
	}

	if err := s.grid.ConsumeVictim(front); err != nil {
		return err
	}
	s.carrying = true
	return nil
}

func (s *Simulator) eject() error {
	if !s.carrying {
		return ErrNoCargoToEject
	}

	entry, err := s.grid.LocateEntry()
	if err != nil {
		return err
	}
	if s.pose.Position != entry {
		return ErrNotAtExit
	}

	front := s.pose.Position.Step(s.pose.Heading)
	if s.grid.InBounds(front) {
		return ErrNotFacingOutward
	}

	s.carrying = false
	return nil
}

// State returns a deep snapshot of the simulation for persistence and
// transport layers.
func (s *Simulator) State() *RobotState {
	return &RobotState{
		Grid:     s.grid.Snapshot(),
		Pose:     s.pose,
		Carrying: s.carrying,
	}
}

// RestoreSimulator builds a simulator directly from a snapshot, bypassing
// entry-cell placement. Used when loading persisted missions.
func RestoreSimulator(state *RobotState) (*Simulator, error) {
	s := &Simulator{}
	if err := s.Restore(state); err != nil {
		return nil, err
	}
	return s, nil
}

// Restore replaces the simulation state from a snapshot.
func (s *Simulator) Restore(state *RobotState) error {
	if state == nil {
		return fmt.Errorf("state cannot be nil")
	}
	if len(state.Grid) == 0 || len(state.Grid[0]) == 0 {
		return fmt.Errorf("state grid cannot be empty")
	}

	width := len(state.Grid[0])
	for y, row := range state.Grid {
		if len(row) != width {
			return fmt.Errorf("state grid row %d has width %d, expected %d", y, len(row), width)
		}
	}

	s.grid = NewGrid(state.Grid)
	s.pose = state.Pose
	s.carrying = state.Carrying
	return nil
}
