// Command validate provides a small CLI that validates map files in the
// maps directory. It checks:
//   - Rectangular grid and allowed characters (X, ., E, @)
//   - Exactly one entry (E) on the border and exactly one victim (@)
//   - Connectivity: a cell adjacent to the victim is reachable from the entry
//     via non-wall cells, so a robot can actually face and pick up the victim
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/teamresgate/rescue-robot/mission/mapfile"
	"github.com/teamresgate/rescue-robot/robot/engine"
)

// ValidationResult captures the outcome of validating a single file.
// If Valid is true, Errors contains informational messages; otherwise it
// accumulates the validation errors that were found.
type ValidationResult struct {
	File   string
	Valid  bool
	Errors []string
}

// validateMap loads and validates a single map file. Structural checks are
// delegated to the mapfile parser; connectivity analysis is done here.
func validateMap(filePath string) ValidationResult {
	result := ValidationResult{
		File:   filepath.Base(filePath),
		Valid:  true,
		Errors: []string{},
	}

	cells, err := mapfile.Load(filePath)
	if err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, err.Error())
		return result
	}

	var entry, victim engine.Position
	freeCount := 0
	for y, row := range cells {
		for x, cell := range row {
			switch cell {
			case engine.CellEntry:
				entry = engine.Position{X: x, Y: y}
			case engine.CellVictim:
				victim = engine.Position{X: x, Y: y}
			case engine.CellFree:
				freeCount++
			}
		}
	}

	connectivity := validateConnectivity(cells, entry, victim)
	if !connectivity.Valid {
		result.Valid = false
	}
	result.Errors = append(result.Errors, connectivity.Errors...)

	if result.Valid {
		result.Errors = append(result.Errors, fmt.Sprintf("✓ Grid: %dx%d", len(cells[0]), len(cells)))
		result.Errors = append(result.Errors, fmt.Sprintf("✓ Entry: (%d,%d)", entry.X, entry.Y))
		result.Errors = append(result.Errors, fmt.Sprintf("✓ Victim: (%d,%d)", victim.X, victim.Y))
		result.Errors = append(result.Errors, fmt.Sprintf("✓ Free cells: %d", freeCount))
	}

	return result
}

// validateConnectivity flood fills from the entry over non-wall cells and
// checks that some cell adjacent to the victim is reachable. The victim cell
// itself is not traversable, the robot picks up from a neighboring cell.
func validateConnectivity(cells [][]engine.CellKind, entry, victim engine.Position) ValidationResult {
	result := ValidationResult{
		Valid:  true,
		Errors: []string{},
	}

	height := len(cells)
	width := len(cells[0])

	passable := func(x, y int) bool {
		if x < 0 || y < 0 || y >= height || x >= width {
			return false
		}
		return cells[y][x] == engine.CellFree || cells[y][x] == engine.CellEntry
	}

	visited := make(map[engine.Position]bool)
	queue := []engine.Position{entry}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		if visited[current] {
			continue
		}
		visited[current] = true

		for _, d := range [][2]int{{-1, 0}, {1, 0}, {0, -1}, {0, 1}} {
			next := engine.Position{X: current.X + d[0], Y: current.Y + d[1]}
			if !visited[next] && passable(next.X, next.Y) {
				queue = append(queue, next)
			}
		}
	}

	reachable := false
	for _, d := range [][2]int{{-1, 0}, {1, 0}, {0, -1}, {0, 1}} {
		if visited[engine.Position{X: victim.X + d[0], Y: victim.Y + d[1]}] {
			reachable = true
			break
		}
	}

	if !reachable {
		result.Valid = false
		result.Errors = append(result.Errors,
			fmt.Sprintf("Connectivity failure: no cell adjacent to the victim at (%d,%d) is reachable from the entry", victim.X, victim.Y))
	} else {
		result.Errors = append(result.Errors,
			fmt.Sprintf("✓ Connectivity: victim reachable from the entry (%d cells explored)", len(visited)))
	}

	return result
}

// main scans the maps directory (or the directories given as arguments) for
// *.txt files and validates each one, printing a concise report and exiting
// with non-zero status if any are invalid.
func main() {
	dirs := os.Args[1:]
	if len(dirs) == 0 {
		dirs = []string{"maps"}
	}

	var files []string
	for _, dir := range dirs {
		matches, err := filepath.Glob(filepath.Join(dir, "*.txt"))
		if err != nil {
			fmt.Printf("Error finding map files: %v\n", err)
			os.Exit(1)
		}
		files = append(files, matches...)
	}

	allValid := true
	for _, file := range files {
		result := validateMap(file)

		fmt.Printf("\n%s %s\n", strings.Repeat("=", 20), result.File)

		if result.Valid {
			fmt.Println("✅ VALID")
			for _, info := range result.Errors {
				fmt.Println("  " + info)
			}
		} else {
			fmt.Println("❌ INVALID")
			allValid = false
			for _, err := range result.Errors {
				if !strings.HasPrefix(err, "✓") {
					fmt.Println("  ❌ " + err)
				}
			}
		}
	}

	fmt.Printf("\n%s\n", strings.Repeat("=", 40))
	if allValid {
		fmt.Println("✅ All maps are valid!")
	} else {
		fmt.Println("❌ Some maps have errors")
		os.Exit(1)
	}
}
