package engine

import (
	"encoding/json"
	"errors"
	"testing"
)

func newTestSimulator(t *testing.T, rows ...string) *Simulator {
	t.Helper()

	sim, err := NewSimulator(gridFromLayout(t, rows...))
	if err != nil {
		t.Fatalf("NewSimulator failed: %v", err)
	}
	return sim
}

func TestNewSimulator_InitialHeading(t *testing.T) {
	tests := []struct {
		name    string
		rows    []string
		wantPos Position
		wantDir Direction
	}{
		{
			name:    "entry on top border faces south",
			rows:    []string{"XEX", "X.X", "XXX"},
			wantPos: Position{X: 1, Y: 0},
			wantDir: South,
		},
		{
			name:    "entry on bottom border faces north",
			rows:    []string{"XXX", "X.X", "XEX"},
			wantPos: Position{X: 1, Y: 2},
			wantDir: North,
		},
		{
			name:    "entry on left border faces east",
			rows:    []string{"XXX", "E.X", "XXX"},
			wantPos: Position{X: 0, Y: 1},
			wantDir: East,
		},
		{
			name:    "entry on right border faces west",
			rows:    []string{"XXX", "X.E", "XXX"},
			wantPos: Position{X: 2, Y: 1},
			wantDir: West,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sim := newTestSimulator(t, tt.rows...)

			pose := sim.Pose()
			if pose.Position != tt.wantPos {
				t.Errorf("Expected initial position %v, got %v", tt.wantPos, pose.Position)
			}
			if pose.Heading != tt.wantDir {
				t.Errorf("Expected initial heading %v, got %v", tt.wantDir, pose.Heading)
			}
			if sim.Carrying() {
				t.Error("Expected robot to start without cargo")
			}
		})
	}
}

func TestNewSimulator_EntryNotOnBorder(t *testing.T) {
	grid := gridFromLayout(t,
		"XXX",
		"XEX",
		"XXX",
	)

	if _, err := NewSimulator(grid); !errors.Is(err, ErrEntryNotOnBorder) {
		t.Errorf("Expected ErrEntryNotOnBorder, got %v", err)
	}
}

func TestTurn_FourTurnsCloseTheCycle(t *testing.T) {
	sim := newTestSimulator(t,
		"XXX",
		"E.X",
		"XXX",
	)
	start := sim.Pose()

	for i := 0; i < 4; i++ {
		if err := sim.Apply(Turn); err != nil {
			t.Fatalf("Turn %d failed: %v", i+1, err)
		}
	}

	if sim.Pose() != start {
		t.Errorf("Expected pose %+v after four turns, got %+v", start, sim.Pose())
	}
}

func TestAdvance_IntoFreeCell(t *testing.T) {
	sim := newTestSimulator(t,
		"XXXX",
		"E..X",
		"XXXX",
	)

	if err := sim.Apply(Advance); err != nil {
		t.Fatalf("Advance failed: %v", err)
	}
	if got := sim.Pose().Position; got != (Position{X: 1, Y: 1}) {
		t.Errorf("Expected position (1,1), got %v", got)
	}
}

func TestAdvance_WallCollision(t *testing.T) {
	sim := newTestSimulator(t,
		"XXX",
		"EXX",
		"XXX",
	)

	before := sim.Pose()
	if err := sim.Apply(Advance); !errors.Is(err, ErrCollision) {
		t.Fatalf("Expected ErrCollision, got %v", err)
	}
	if sim.Pose() != before {
		t.Error("Failed advance must not change the pose")
	}
}

func TestAdvance_RunsOverVictimWithoutCargo(t *testing.T) {
	sim := newTestSimulator(t,
		"XXX",
		"E@X",
		"XXX",
	)

	if err := sim.Apply(Advance); !errors.Is(err, ErrRanOverVictim) {
		t.Errorf("Expected ErrRanOverVictim, got %v", err)
	}
}

func TestAdvance_PastBorderIsOpenWorld(t *testing.T) {
	// Stepping off the map always succeeds; the border is not an implicit
	// wall. Eject's legality check relies on this at the entry cell.
	sim := newTestSimulator(t,
		"XXX",
		"E.X",
		"XXX",
	)

	// Turn twice so the robot faces west, off the map.
	for i := 0; i < 2; i++ {
		if err := sim.Apply(Turn); err != nil {
			t.Fatalf("Turn failed: %v", err)
		}
	}

	if err := sim.Apply(Advance); err != nil {
		t.Fatalf("Expected off-map advance to succeed, got %v", err)
	}
	if got := sim.Pose().Position; got != (Position{X: -1, Y: 1}) {
		t.Errorf("Expected position (-1,1), got %v", got)
	}
}

func TestAdvance_InverseRoundTrip(t *testing.T) {
	// Inverting an advance with turn,turn,advance,turn,turn restores the
	// exact pose and heading.
	sim := newTestSimulator(t,
		"XXXX",
		"E..X",
		"XXXX",
	)
	start := sim.Pose()

	if err := sim.Apply(Advance); err != nil {
		t.Fatalf("Advance failed: %v", err)
	}

	for _, cmd := range []Command{Turn, Turn, Advance, Turn, Turn} {
		if err := sim.Apply(cmd); err != nil {
			t.Fatalf("Undo step %v failed: %v", cmd, err)
		}
	}

	if sim.Pose() != start {
		t.Errorf("Expected pose %+v after undo, got %+v", start, sim.Pose())
	}
}

func TestPickup_ConsumesVictimOnce(t *testing.T) {
	sim := newTestSimulator(t,
		"XXX",
		"E@X",
		"XXX",
	)

	if err := sim.Apply(Pickup); err != nil {
		t.Fatalf("Pickup failed: %v", err)
	}
	if !sim.Carrying() {
		t.Error("Expected carry state true after pickup")
	}
	if got := sim.Grid().Classify(Position{X: 1, Y: 1}); got != CellFree {
		t.Errorf("Expected victim cell converted to free, got %v", got)
	}

	// The front cell is free now; pickup is not idempotent.
	if err := sim.Apply(Pickup); !errors.Is(err, ErrNothingToPickup) {
		t.Errorf("Expected ErrNothingToPickup on second pickup, got %v", err)
	}
}

func TestPickup_FailsOffMapAndOnFreeCell(t *testing.T) {
	sim := newTestSimulator(t,
		"XXX",
		"E.X",
		"XXX",
	)

	if err := sim.Apply(Pickup); !errors.Is(err, ErrNothingToPickup) {
		t.Errorf("Expected ErrNothingToPickup facing a free cell, got %v", err)
	}

	// Face off the map.
	sim.Apply(Turn)
	sim.Apply(Turn)
	if err := sim.Apply(Pickup); !errors.Is(err, ErrNothingToPickup) {
		t.Errorf("Expected ErrNothingToPickup facing off the map, got %v", err)
	}
}

func TestEject_GuardConditions(t *testing.T) {
	// Each guard fires independently: no cargo, wrong position, wrong
	// heading.
	t.Run("without cargo", func(t *testing.T) {
		sim := newTestSimulator(t,
			"XXX",
			"E.X",
			"XXX",
		)
		if err := sim.Apply(Eject); !errors.Is(err, ErrNoCargoToEject) {
			t.Errorf("Expected ErrNoCargoToEject, got %v", err)
		}
	})

	t.Run("away from the entry", func(t *testing.T) {
		sim := newTestSimulator(t,
			"XXXX",
			"E.@X",
			"XXXX",
		)
		if err := sim.Apply(Advance); err != nil {
			t.Fatalf("Advance failed: %v", err)
		}
		if err := sim.Apply(Pickup); err != nil {
			t.Fatalf("Pickup failed: %v", err)
		}
		if err := sim.Apply(Eject); !errors.Is(err, ErrNotAtExit) {
			t.Errorf("Expected ErrNotAtExit, got %v", err)
		}
	})

	t.Run("facing into the map", func(t *testing.T) {
		sim := newTestSimulator(t,
			"XXX",
			"E@X",
			"XXX",
		)
		if err := sim.Apply(Pickup); err != nil {
			t.Fatalf("Pickup failed: %v", err)
		}
		// Still facing east into the now-free cell.
		if err := sim.Apply(Eject); !errors.Is(err, ErrNotFacingOutward) {
			t.Errorf("Expected ErrNotFacingOutward, got %v", err)
		}
	})
}

func TestPickupThenEject_EntryScenario(t *testing.T) {
	// Victim directly in front of the entry: pickup from the entry cell,
	// turn around, eject off the map.
	sim := newTestSimulator(t,
		"XXX",
		"E@X",
		"XXX",
	)

	if err := sim.Apply(Pickup); err != nil {
		t.Fatalf("Pickup failed: %v", err)
	}
	if err := sim.Apply(Eject); !errors.Is(err, ErrNotFacingOutward) {
		t.Fatalf("Expected ErrNotFacingOutward while facing east, got %v", err)
	}

	// Two right turns: east -> south -> west, now facing off the map.
	sim.Apply(Turn)
	sim.Apply(Turn)

	if err := sim.Apply(Eject); err != nil {
		t.Fatalf("Eject failed: %v", err)
	}
	if sim.Carrying() {
		t.Error("Expected carry state false after eject")
	}
}

func TestApply_InvalidCommand(t *testing.T) {
	sim := newTestSimulator(t,
		"XXX",
		"E.X",
		"XXX",
	)

	if err := sim.Apply(Command("launch")); !errors.Is(err, ErrInvalidCommand) {
		t.Errorf("Expected ErrInvalidCommand, got %v", err)
	}
}

func TestParseCommand(t *testing.T) {
	tests := []struct {
		in      string
		want    Command
		wantErr bool
	}{
		{"advance", Advance, false},
		{"a", Advance, false},
		{"turn", Turn, false},
		{"t", Turn, false},
		{"pickup", Pickup, false},
		{"p", Pickup, false},
		{"eject", Eject, false},
		{"e", Eject, false},
		{"left", "", true},
		{"", "", true},
		{"ADVANCE", "", true},
	}

	for _, tt := range tests {
		got, err := ParseCommand(tt.in)
		if tt.wantErr {
			if !errors.Is(err, ErrInvalidCommand) {
				t.Errorf("ParseCommand(%q): expected ErrInvalidCommand, got %v", tt.in, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseCommand(%q) failed: %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseCommand(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestRobotState_RestoreRoundTrip(t *testing.T) {
	sim := newTestSimulator(t,
		"XXXX",
		"E.@X",
		"XXXX",
	)
	sim.Apply(Advance)
	sim.Apply(Pickup)

	data, err := json.Marshal(sim.State())
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}

	var state RobotState
	if err := json.Unmarshal(data, &state); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}

	restored, err := RestoreSimulator(&state)
	if err != nil {
		t.Fatalf("RestoreSimulator failed: %v", err)
	}
	if restored.Pose() != sim.Pose() {
		t.Errorf("Expected pose %+v, got %+v", sim.Pose(), restored.Pose())
	}
	if !restored.Carrying() {
		t.Error("Expected restored carry state true")
	}
	if restored.Grid().HasVictim() {
		t.Error("Expected restored grid without a victim")
	}
}

func TestRestoreSimulator_RejectsMalformedState(t *testing.T) {
	if _, err := RestoreSimulator(nil); err == nil {
		t.Error("Expected error for nil state")
	}

	ragged := &RobotState{Grid: [][]CellKind{
		{CellWall, CellWall},
		{CellWall},
	}}
	if _, err := RestoreSimulator(ragged); err == nil {
		t.Error("Expected error for ragged grid")
	}
}
