// Package explorer implements the forward exploration policy: a fixed
// wall-following rule that hugs the right-hand wall until the victim shows
// up directly in front of the robot. The policy sees the world only through
// the rig contract (read sensors, issue one command) and is bounded by a
// step cap so a victimless map cannot loop forever.
package explorer

import "github.com/teamresgate/rescue-robot/robot/engine"

// DefaultStepCap bounds exploration when the caller does not choose a cap.
const DefaultStepCap = 50

// Rig is the narrow hardware contract the explorer drives.
type Rig interface {
	Sensors() engine.SensorReading
	Execute(cmd engine.Command) error
}

// Explorer walks the grid with the right-hand wall-following rule.
type Explorer struct {
	rig     Rig
	stepCap int
}

// New creates an explorer. A non-positive step cap falls back to
// DefaultStepCap.
func New(rig Rig, stepCap int) *Explorer {
	if stepCap <= 0 {
		stepCap = DefaultStepCap
	}
	return &Explorer{rig: rig, stepCap: stepCap}
}

// SeekVictim explores until the victim is directly in front of the robot or
// the step cap runs out. It reports whether the victim was found. Errors
// from the rig abort the search; the sensor guards make them unexpected.
func (e *Explorer) SeekVictim() (bool, error) {
	for step := 0; step < e.stepCap; step++ {
		readings := e.rig.Sensors()
		if readings.Front == engine.ReadingVictim {
			return true, nil
		}

		switch {
		case readings.Right != engine.ReadingWall:
			// Keep a hand on the right wall: turn toward the opening and
			// step through it unless the victim appeared in front.
			if err := e.rig.Execute(engine.Turn); err != nil {
				return false, err
			}
			readings = e.rig.Sensors()
			if readings.Front == engine.ReadingVictim {
				return true, nil
			}
			if readings.Front != engine.ReadingWall {
				if err := e.rig.Execute(engine.Advance); err != nil {
					return false, err
				}
			}

		case readings.Front != engine.ReadingWall:
			if err := e.rig.Execute(engine.Advance); err != nil {
				return false, err
			}

		default:
			// Wall ahead and to the right: turn left, which is three
			// right turns.
			for i := 0; i < 3; i++ {
				if err := e.rig.Execute(engine.Turn); err != nil {
					return false, err
				}
			}
		}
	}

	return false, nil
}
