package audit

import (
	"strings"

	"github.com/teamresgate/rescue-robot/robot/engine"
)

// Event tags that are not commands.
const (
	TagPowerOn = "POWER_ON"
	TagAlarm   = "ALARM"
)

// Sink receives one structured record per executed command or mission event.
type Sink interface {
	Record(tag string, sensors engine.SensorReading, carrying bool) error
}

// TagFor returns the audit tag for a command.
func TagFor(cmd engine.Command) string {
	return strings.ToUpper(string(cmd))
}

// ReadingToken returns the uppercase CSV token for a sensor reading.
func ReadingToken(r engine.Reading) string {
	return strings.ToUpper(string(r))
}

// CarryLabel returns the carry-state label used in records.
func CarryLabel(carrying bool) string {
	if carrying {
		return "CARRYING"
	}
	return "EMPTY"
}

// NopSink discards every record.
type NopSink struct{}

func (NopSink) Record(string, engine.SensorReading, bool) error {
	return nil
}

// Entry is one captured record.
type Entry struct {
	Tag      string
	Sensors  engine.SensorReading
	Carrying bool
}

// Recorder is an in-memory sink for tests.
type Recorder struct {
	Entries []Entry
}

func (r *Recorder) Record(tag string, sensors engine.SensorReading, carrying bool) error {
	r.Entries = append(r.Entries, Entry{Tag: tag, Sensors: sensors, Carrying: carrying})
	return nil
}

// CountTag returns how many captured records carry the given tag.
func (r *Recorder) CountTag(tag string) int {
	n := 0
	for _, e := range r.Entries {
		if e.Tag == tag {
			n++
		}
	}
	return n
}

// Multi fans records out to several sinks, returning the first error.
func Multi(sinks ...Sink) Sink {
	return multiSink(sinks)
}

type multiSink []Sink

func (m multiSink) Record(tag string, sensors engine.SensorReading, carrying bool) error {
	var first error
	for _, s := range m {
		if err := s.Record(tag, sensors, carrying); err != nil && first == nil {
			first = err
		}
	}
	return first
}
