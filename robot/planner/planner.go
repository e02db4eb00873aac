package planner

import (
	"errors"
	"log"

	"github.com/teamresgate/rescue-robot/audit"
	"github.com/teamresgate/rescue-robot/robot/engine"
)

// ErrTrappedAfterPickup signals the mission-fatal dead end: the forward
// exploration created an unreturnable commitment. It is never retried.
var ErrTrappedAfterPickup = errors.New("robot trapped in a dead end after pickup")

// ProbeBudget caps the rotation probes attempted during dead-end recovery.
// Three right turns cover every direction except the blocked front.
const ProbeBudget = 3

// Rig is the narrow hardware contract the planner drives: read the sensors,
// issue one command.
type Rig interface {
	Sensors() engine.SensorReading
	Execute(cmd engine.Command) error
}

// Invert transforms a forward command history into its undo sequence,
// processed from the most recent command backward. The result never
// contains pickup or eject.
func Invert(history []engine.Command) []engine.Command {
	var inverted []engine.Command

	for i := len(history) - 1; i >= 0; i-- {
		switch history[i] {
		case engine.Advance:
			inverted = append(inverted, engine.Turn, engine.Turn, engine.Advance, engine.Turn, engine.Turn)
		case engine.Turn:
			inverted = append(inverted, engine.Turn, engine.Turn, engine.Turn)
		}
		// Pickup and eject leave the pose untouched; nothing to undo.
	}

	return inverted
}

// Planner executes return plans against a rig, recording the fatal dead-end
// alarm through the audit sink.
type Planner struct {
	rig  Rig
	sink audit.Sink
}

// New creates a planner. A nil sink falls back to discarding records.
func New(rig Rig, sink audit.Sink) *Planner {
	if sink == nil {
		sink = audit.NopSink{}
	}
	return &Planner{rig: rig, sink: sink}
}

// Plan returns the undo sequence for a forward history without executing
// anything.
func (p *Planner) Plan(history []engine.Command) []engine.Command {
	return Invert(history)
}

// ExecuteReturn retraces the history one command at a time. It returns the
// prefix of commands actually executed. With cargo aboard, every inverted
// advance is sensor-checked first; a boxed-in robot triggers the bounded
// probe, and an exhausted budget returns ErrTrappedAfterPickup after the
// alarm record is emitted. Execution stops at the first unrecovered
// failure.
func (p *Planner) ExecuteReturn(history []engine.Command, carrying bool) ([]engine.Command, error) {
	plan := Invert(history)
	var executed []engine.Command

	for _, cmd := range plan {
		if carrying && cmd == engine.Advance && p.rig.Sensors().AllWalls() {
			recovered := p.probeEgress(&executed)
			if !recovered {
				if err := p.sink.Record(audit.TagAlarm, p.rig.Sensors(), carrying); err != nil {
					log.Printf("audit: failed to record dead-end alarm: %v", err)
				}
				return executed, ErrTrappedAfterPickup
			}
			// The recovery egress replaces the rest of the plan; the
			// original retrace is no longer valid past this point.
			return executed, nil
		}

		if err := p.rig.Execute(cmd); err != nil {
			return executed, err
		}
		executed = append(executed, cmd)
	}

	return executed, nil
}

// probeEgress rotates right up to ProbeBudget times, advancing through the
// first non-wall front it finds. It reports whether an egress was taken.
func (p *Planner) probeEgress(executed *[]engine.Command) bool {
	for i := 0; i < ProbeBudget; i++ {
		if err := p.rig.Execute(engine.Turn); err != nil {
			return false
		}
		*executed = append(*executed, engine.Turn)

		if p.rig.Sensors().Front == engine.ReadingWall {
			continue
		}
		if err := p.rig.Execute(engine.Advance); err != nil {
			continue
		}
		*executed = append(*executed, engine.Advance)
		return true
	}
	return false
}
