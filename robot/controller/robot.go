package controller

import (
	"log"

	"github.com/teamresgate/rescue-robot/audit"
	"github.com/teamresgate/rescue-robot/robot/engine"
)

// Robot wraps a simulator behind the rig contract and records every
// successful command to the audit sink. Failed commands leave no record.
type Robot struct {
	sim  *engine.Simulator
	sink audit.Sink

	// onExecuted, when set, observes each successful command. The
	// controller uses it to record the forward history during exploration.
	onExecuted func(cmd engine.Command)
}

// NewRobot creates a robot over the simulator. A nil sink discards records.
func NewRobot(sim *engine.Simulator, sink audit.Sink) *Robot {
	if sink == nil {
		sink = audit.NopSink{}
	}
	return &Robot{sim: sim, sink: sink}
}

// Sensors reads the live sensors.
func (r *Robot) Sensors() engine.SensorReading {
	return r.sim.Sensors()
}

// Execute applies one command. On success the audit sink receives the
// command tag and the sensor readings taken after the step.
func (r *Robot) Execute(cmd engine.Command) error {
	if err := r.sim.Apply(cmd); err != nil {
		return err
	}
	if err := r.sink.Record(audit.TagFor(cmd), r.sim.Sensors(), r.sim.Carrying()); err != nil {
		log.Printf("audit: failed to record %s: %v", audit.TagFor(cmd), err)
	}
	if r.onExecuted != nil {
		r.onExecuted(cmd)
	}
	return nil
}
