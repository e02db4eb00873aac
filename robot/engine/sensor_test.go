package engine

import "testing"

func TestReadSensors_DirectionalMapping(t *testing.T) {
	// Robot at (1,2): wall to the north, victim to the east, free cell to
	// the south, entry to the west.
	grid := gridFromLayout(t,
		"XXXXX",
		"XXX.X",
		"E.@.X",
		"X...X",
		"XXXXX",
	)
	center := Position{X: 1, Y: 2}

	tests := []struct {
		heading Direction
		want    SensorReading
	}{
		{North, SensorReading{Left: ReadingFree, Right: ReadingVictim, Front: ReadingWall}},
		{East, SensorReading{Left: ReadingWall, Right: ReadingFree, Front: ReadingVictim}},
		{South, SensorReading{Left: ReadingVictim, Right: ReadingFree, Front: ReadingFree}},
		{West, SensorReading{Left: ReadingFree, Right: ReadingWall, Front: ReadingFree}},
	}

	for _, tt := range tests {
		t.Run(tt.heading.String(), func(t *testing.T) {
			got := ReadSensors(grid, Pose{Position: center, Heading: tt.heading})
			if got != tt.want {
				t.Errorf("ReadSensors heading %v = %+v, want %+v", tt.heading, got, tt.want)
			}
		})
	}
}

func TestReadSensors_EntryAndOutsideReadFree(t *testing.T) {
	grid := gridFromLayout(t,
		"XXX",
		"E.X",
		"XXX",
	)

	// On the entry cell facing west: front is off the map, and must read
	// free, not wall.
	got := ReadSensors(grid, Pose{Position: Position{X: 0, Y: 1}, Heading: West})
	if got.Front != ReadingFree {
		t.Errorf("Expected off-map front to read free, got %v", got.Front)
	}

	// One cell east of the entry facing west: front is the entry cell.
	got = ReadSensors(grid, Pose{Position: Position{X: 1, Y: 1}, Heading: West})
	if got.Front != ReadingFree {
		t.Errorf("Expected entry cell to read free, got %v", got.Front)
	}
}

func TestSensorReading_AllWalls(t *testing.T) {
	boxed := SensorReading{Left: ReadingWall, Right: ReadingWall, Front: ReadingWall}
	if !boxed.AllWalls() {
		t.Error("Expected AllWalls to be true for a wall triple")
	}

	open := SensorReading{Left: ReadingWall, Right: ReadingWall, Front: ReadingFree}
	if open.AllWalls() {
		t.Error("Expected AllWalls to be false with an open front")
	}
}
