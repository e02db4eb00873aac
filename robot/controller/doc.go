// Package controller sequences a full rescue mission: power on, explore
// until the victim is in front, pick it up, retrace the recorded history
// back to the entry, and eject the victim off the map. Every successfully
// executed command is written to the audit sink together with the sensor
// readings taken after the step, so the log is a faithful replay of what
// the robot saw.
package controller
