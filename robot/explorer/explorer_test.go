package explorer

import (
	"testing"

	"github.com/teamresgate/rescue-robot/robot/engine"
)

type simRig struct {
	sim      *engine.Simulator
	executed []engine.Command
}

func (r *simRig) Sensors() engine.SensorReading {
	return r.sim.Sensors()
}

func (r *simRig) Execute(cmd engine.Command) error {
	if err := r.sim.Apply(cmd); err != nil {
		return err
	}
	r.executed = append(r.executed, cmd)
	return nil
}

func newRig(t *testing.T, rows ...string) *simRig {
	t.Helper()

	cells := make([][]engine.CellKind, len(rows))
	for y, row := range rows {
		cells[y] = make([]engine.CellKind, len(row))
		for x, c := range row {
			switch c {
			case 'X':
				cells[y][x] = engine.CellWall
			case '.':
				cells[y][x] = engine.CellFree
			case 'E':
				cells[y][x] = engine.CellEntry
			case '@':
				cells[y][x] = engine.CellVictim
			default:
				t.Fatalf("unexpected layout rune %q", c)
			}
		}
	}

	sim, err := engine.NewSimulator(engine.NewGrid(cells))
	if err != nil {
		t.Fatalf("NewSimulator failed: %v", err)
	}
	return &simRig{sim: sim}
}

func TestSeekVictim_StraightCorridor(t *testing.T) {
	rig := newRig(t,
		"XXXXX",
		"E..@X",
		"XXXXX",
	)

	found, err := New(rig, 0).SeekVictim()
	if err != nil {
		t.Fatalf("SeekVictim failed: %v", err)
	}
	if !found {
		t.Fatal("Expected victim to be found")
	}

	// The robot must stop one cell short of the victim, facing it.
	if got := rig.sim.Pose().Position; got != (engine.Position{X: 2, Y: 1}) {
		t.Errorf("Expected robot at (2,1), got %v", got)
	}
	if got := rig.sim.Sensors().Front; got != engine.ReadingVictim {
		t.Errorf("Expected victim in front, got %v", got)
	}
}

func TestSeekVictim_AroundACorner(t *testing.T) {
	rig := newRig(t,
		"XXXXX",
		"E..XX",
		"XX.XX",
		"XX@XX",
		"XXXXX",
	)

	found, err := New(rig, 0).SeekVictim()
	if err != nil {
		t.Fatalf("SeekVictim failed: %v", err)
	}
	if !found {
		t.Fatal("Expected victim to be found around the corner")
	}
	if got := rig.sim.Sensors().Front; got != engine.ReadingVictim {
		t.Errorf("Expected victim in front, got %v", got)
	}
}

func TestSeekVictim_NoVictimHitsStepCap(t *testing.T) {
	rig := newRig(t,
		"XXXX",
		"E..X",
		"X..X",
		"XXXX",
	)

	found, err := New(rig, 12).SeekVictim()
	if err != nil {
		t.Fatalf("SeekVictim failed: %v", err)
	}
	if found {
		t.Error("Expected no victim on a victimless map")
	}
}

func TestSeekVictim_NeverRunsOverVictim(t *testing.T) {
	// Victim to the right of the robot's path: the rule turns toward the
	// opening, sees the victim, and must stop instead of advancing.
	rig := newRig(t,
		"XXXXX",
		"E...X",
		"X@XXX",
		"XXXXX",
	)

	found, err := New(rig, 0).SeekVictim()
	if err != nil {
		t.Fatalf("SeekVictim failed: %v", err)
	}
	if !found {
		t.Fatal("Expected victim to be found")
	}
	for _, cmd := range rig.executed {
		if cmd == engine.Pickup {
			t.Error("Explorer must never issue pickup")
		}
	}
	if !rig.sim.Grid().HasVictim() {
		t.Error("Victim cell must remain untouched during exploration")
	}
}
