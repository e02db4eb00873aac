package audit

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/teamresgate/rescue-robot/robot/engine"
)

func TestCSVLogger_WritesRecords(t *testing.T) {
	dir := t.TempDir()
	mapPath := filepath.Join(dir, "demo.txt")

	logger, err := NewCSVLogger(mapPath)
	if err != nil {
		t.Fatalf("NewCSVLogger failed: %v", err)
	}
	defer logger.Close()

	if got, want := logger.Path(), filepath.Join(dir, "demo.csv"); got != want {
		t.Errorf("Expected log path %s, got %s", want, got)
	}

	sensors := engine.SensorReading{
		Left:  engine.ReadingWall,
		Right: engine.ReadingFree,
		Front: engine.ReadingVictim,
	}

	if err := logger.Record(TagPowerOn, sensors, false); err != nil {
		t.Fatalf("Record failed: %v", err)
	}
	if err := logger.Record(TagFor(engine.Pickup), sensors, true); err != nil {
		t.Fatalf("Record failed: %v", err)
	}

	data, err := os.ReadFile(logger.Path())
	if err != nil {
		t.Fatalf("Failed to read log: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 2 {
		t.Fatalf("Expected 2 log lines, got %d", len(lines))
	}
	if lines[0] != "POWER_ON,WALL,FREE,VICTIM,EMPTY" {
		t.Errorf("Unexpected first line: %s", lines[0])
	}
	if lines[1] != "PICKUP,WALL,FREE,VICTIM,CARRYING" {
		t.Errorf("Unexpected second line: %s", lines[1])
	}
}

func TestTagFor(t *testing.T) {
	tests := []struct {
		cmd  engine.Command
		want string
	}{
		{engine.Advance, "ADVANCE"},
		{engine.Turn, "TURN"},
		{engine.Pickup, "PICKUP"},
		{engine.Eject, "EJECT"},
	}

	for _, tt := range tests {
		if got := TagFor(tt.cmd); got != tt.want {
			t.Errorf("TagFor(%v) = %s, want %s", tt.cmd, got, tt.want)
		}
	}
}

func TestMulti_FansOut(t *testing.T) {
	first := &Recorder{}
	second := &Recorder{}
	sink := Multi(first, second)

	if err := sink.Record(TagAlarm, engine.SensorReading{}, true); err != nil {
		t.Fatalf("Record failed: %v", err)
	}

	if first.CountTag(TagAlarm) != 1 || second.CountTag(TagAlarm) != 1 {
		t.Error("Expected both sinks to receive the record")
	}
}
