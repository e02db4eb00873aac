package audit

import (
	"fmt"
	"os"
	"strings"

	"github.com/teamresgate/rescue-robot/robot/engine"
)

// CSVLogger writes one audit line per record to a CSV file derived from the
// map filename: maps/demo.txt logs to maps/demo.csv. Each line is written
// straight to the file so a crashed mission still leaves a usable trail.
type CSVLogger struct {
	path string
	file *os.File
}

// NewCSVLogger creates (truncating) the CSV file for a map path.
func NewCSVLogger(mapPath string) (*CSVLogger, error) {
	path := strings.TrimSuffix(mapPath, ".txt") + ".csv"

	file, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create audit log: %w", err)
	}

	return &CSVLogger{path: path, file: file}, nil
}

// Path returns the CSV file location.
func (l *CSVLogger) Path() string {
	return l.path
}

// Record appends one CSV line: TAG,LEFT,RIGHT,FRONT,CARRYLABEL.
func (l *CSVLogger) Record(tag string, sensors engine.SensorReading, carrying bool) error {
	line := fmt.Sprintf("%s,%s,%s,%s,%s\n",
		tag,
		ReadingToken(sensors.Left),
		ReadingToken(sensors.Right),
		ReadingToken(sensors.Front),
		CarryLabel(carrying),
	)

	if _, err := l.file.WriteString(line); err != nil {
		return fmt.Errorf("failed to write audit record: %w", err)
	}
	return nil
}

// Close closes the underlying file.
func (l *CSVLogger) Close() error {
	return l.file.Close()
}
