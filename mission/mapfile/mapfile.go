package mapfile

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/teamresgate/rescue-robot/robot/engine"
)

var (
	ErrMapNotFound = errors.New("map not found")
	ErrInvalidMap  = errors.New("invalid map")
)

// Parse converts raw map file content into a grid. It validates shape and
// content; every violation wraps ErrInvalidMap with a detail message.
func Parse(content string) ([][]engine.CellKind, error) {
	lines := strings.Split(strings.ReplaceAll(content, "\r\n", "\n"), "\n")
	for len(lines) > 0 && strings.TrimSpace(lines[len(lines)-1]) == "" {
		lines = lines[:len(lines)-1]
	}
	if len(lines) == 0 {
		return nil, fmt.Errorf("%w: map is empty", ErrInvalidMap)
	}

	height := len(lines)
	width := len([]rune(lines[0]))
	if width == 0 {
		return nil, fmt.Errorf("%w: first row is empty", ErrInvalidMap)
	}

	cells := make([][]engine.CellKind, height)
	entries := 0
	victims := 0

	for y, line := range lines {
		row := []rune(line)
		if len(row) != width {
			return nil, fmt.Errorf("%w: row %d has width %d, expected %d", ErrInvalidMap, y, len(row), width)
		}

		cells[y] = make([]engine.CellKind, width)
		for x, r := range row {
			switch r {
			case 'X':
				cells[y][x] = engine.CellWall
			case '.':
				cells[y][x] = engine.CellFree
			case 'E':
				cells[y][x] = engine.CellEntry
				entries++
				if x != 0 && x != width-1 && y != 0 && y != height-1 {
					return nil, fmt.Errorf("%w: entry at (%d,%d) is not on the border", ErrInvalidMap, x, y)
				}
			case '@':
				cells[y][x] = engine.CellVictim
				victims++
			default:
				return nil, fmt.Errorf("%w: unexpected character %q at (%d,%d)", ErrInvalidMap, r, x, y)
			}
		}
	}

	if entries != 1 {
		return nil, fmt.Errorf("%w: expected exactly 1 entry, found %d", ErrInvalidMap, entries)
	}
	if victims != 1 {
		return nil, fmt.Errorf("%w: expected exactly 1 victim, found %d", ErrInvalidMap, victims)
	}

	return cells, nil
}

// Load reads and parses a map file from disk.
func Load(path string) ([][]engine.CellKind, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrMapNotFound
		}
		return nil, fmt.Errorf("failed to read map file: %w", err)
	}
	return Parse(string(data))
}
