package controller

import (
	"errors"
	"fmt"
	"log"

	"github.com/teamresgate/rescue-robot/audit"
	"github.com/teamresgate/rescue-robot/robot/engine"
	"github.com/teamresgate/rescue-robot/robot/explorer"
	"github.com/teamresgate/rescue-robot/robot/planner"
)

// Status tracks which phase of the mission the controller is in.
type Status string

const (
	StatusIdle      Status = "idle"
	StatusExploring Status = "exploring"
	StatusReturning Status = "returning"
	StatusCompleted Status = "completed"
	StatusError     Status = "error"
)

// Mission result strings, also used verbatim by the service layer.
const (
	ResultComplete       = "MISSION_COMPLETE"
	ResultVictimNotFound = "VICTIM_NOT_FOUND"
	ResultTrapped        = "TRAPPED_AFTER_PICKUP"
	ResultFailed         = "MISSION_FAILED"
)

// Controller runs one autonomous mission from power-on to eject.
type Controller struct {
	robot   *Robot
	sink    audit.Sink
	stepCap int

	memory []engine.Command
	status Status
}

// New creates a controller over the simulator. A non-positive step cap
// falls back to the explorer default; a nil sink discards audit records.
func New(sim *engine.Simulator, sink audit.Sink, stepCap int) *Controller {
	if sink == nil {
		sink = audit.NopSink{}
	}
	return &Controller{
		robot:   NewRobot(sim, sink),
		sink:    sink,
		stepCap: stepCap,
		status:  StatusIdle,
	}
}

// Status reports the current mission phase.
func (c *Controller) Status() Status {
	return c.status
}

// Memory returns a copy of the forward command history recorded so far.
func (c *Controller) Memory() []engine.Command {
	out := make([]engine.Command, len(c.memory))
	copy(out, c.memory)
	return out
}

// Run drives the mission to completion and returns a result string. The
// error carries the underlying cause when the result is not a success.
func (c *Controller) Run() (string, error) {
	if err := c.sink.Record(audit.TagPowerOn, c.robot.Sensors(), false); err != nil {
		log.Printf("audit: failed to record %s: %v", audit.TagPowerOn, err)
	}

	c.status = StatusExploring
	c.robot.onExecuted = func(cmd engine.Command) {
		c.memory = append(c.memory, cmd)
	}

	found, err := explorer.New(c.robot, c.stepCap).SeekVictim()
	if err != nil {
		c.status = StatusError
		return fmt.Sprintf("%s: %v", ResultFailed, err), err
	}
	if !found {
		c.robot.onExecuted = nil
		c.status = StatusCompleted
		return ResultVictimNotFound, nil
	}

	if err := c.robot.Execute(engine.Pickup); err != nil {
		c.robot.onExecuted = nil
		c.status = StatusError
		return fmt.Sprintf("%s: %v", ResultFailed, err), err
	}

	// The return phase must not grow the history it is retracing.
	c.robot.onExecuted = nil
	c.status = StatusReturning

	if _, err := planner.New(c.robot, c.sink).ExecuteReturn(c.memory, true); err != nil {
		c.status = StatusError
		if errors.Is(err, planner.ErrTrappedAfterPickup) {
			return fmt.Sprintf("%s: %v", ResultTrapped, err), err
		}
		return fmt.Sprintf("%s: %v", ResultFailed, err), err
	}

	if err := c.ejectOutward(); err != nil {
		c.status = StatusError
		return fmt.Sprintf("%s: %v", ResultFailed, err), err
	}

	c.status = StatusCompleted
	return ResultComplete, nil
}

// ejectOutward rotates at the entry cell until the robot faces off the map,
// then ejects. The retrace leaves the robot facing inward, so up to three
// turns are needed.
func (c *Controller) ejectOutward() error {
	var err error
	for i := 0; i < 4; i++ {
		err = c.robot.Execute(engine.Eject)
		if err == nil {
			return nil
		}
		if !errors.Is(err, engine.ErrNotFacingOutward) {
			return err
		}
		if turnErr := c.robot.Execute(engine.Turn); turnErr != nil {
			return turnErr
		}
	}
	return err
}
