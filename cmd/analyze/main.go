// Command analyze prints quick, human-readable heuristics about mission
// audit logs. It summarizes per-command counts, the pickup/eject carry span,
// and highlights alarms and suspicious trails (a pickup with no eject, or
// a log that does not start with POWER_ON).
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// AuditRecord is one parsed line of a mission audit CSV.
type AuditRecord struct {
	Tag      string
	Left     string
	Right    string
	Front    string
	Carrying bool
}

func main() {
	logs := os.Args[1:]
	if len(logs) == 0 {
		matches, err := filepath.Glob(filepath.Join("maps", "*.csv"))
		if err != nil || len(matches) == 0 {
			fmt.Println("Usage: analyze [audit.csv ...]")
			fmt.Println("With no arguments, analyzes maps/*.csv")
			return
		}
		logs = matches
	}

	for _, logFile := range logs {
		fmt.Printf("\n=== Analyzing %s ===\n", logFile)
		analyzeLog(logFile)
	}
}

func analyzeLog(path string) {
	data, err := os.ReadFile(path)
	if err != nil {
		fmt.Printf("Error reading file: %v\n", err)
		return
	}

	records, badLines := parseRecords(string(data))
	if len(records) == 0 {
		fmt.Println("Empty audit log")
		return
	}

	counts := map[string]int{}
	for _, r := range records {
		counts[r.Tag]++
	}

	fmt.Printf("Records: %d\n", len(records))
	for _, tag := range []string{"POWER_ON", "ADVANCE", "TURN", "PICKUP", "EJECT", "ALARM"} {
		if counts[tag] > 0 {
			fmt.Printf("  %s: %d\n", tag, counts[tag])
		}
	}
	for tag, n := range counts {
		if !knownTag(tag) {
			fmt.Printf("  %s: %d (unknown tag)\n", tag, n)
		}
	}

	pickupIdx, ejectIdx := -1, -1
	for i, r := range records {
		if r.Tag == "PICKUP" && pickupIdx == -1 {
			pickupIdx = i
		}
		if r.Tag == "EJECT" {
			ejectIdx = i
		}
	}

	switch {
	case counts["ALARM"] > 0:
		fmt.Printf("⚠️  ALARM: robot reported a dead end while carrying the victim\n")
	case pickupIdx >= 0 && ejectIdx > pickupIdx:
		fmt.Printf("✅ Victim rescued: pickup at record %d, eject at record %d (%d commands between)\n",
			pickupIdx+1, ejectIdx+1, ejectIdx-pickupIdx-1)
	case pickupIdx >= 0:
		fmt.Printf("⚠️  WARNING: pickup recorded but no eject, mission did not finish\n")
	default:
		fmt.Printf("No pickup recorded, robot never reached the victim\n")
	}

	if records[0].Tag != "POWER_ON" {
		fmt.Printf("⚠️  WARNING: log does not start with POWER_ON\n")
	}
	if n := carryMismatches(records, pickupIdx, ejectIdx); n > 0 {
		fmt.Printf("⚠️  WARNING: %d records with a carry flag inconsistent with the pickup/eject span\n", n)
	}
	if badLines > 0 {
		fmt.Printf("⚠️  WARNING: %d malformed lines skipped\n", badLines)
	}
}

// parseRecords reads TAG,LEFT,RIGHT,FRONT,CARRYLABEL lines, skipping blanks.
func parseRecords(content string) ([]AuditRecord, int) {
	var records []AuditRecord
	badLines := 0

	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		fields := strings.Split(line, ",")
		if len(fields) != 5 {
			badLines++
			continue
		}
		records = append(records, AuditRecord{
			Tag:      fields[0],
			Left:     fields[1],
			Right:    fields[2],
			Front:    fields[3],
			Carrying: fields[4] == "CARRYING",
		})
	}

	return records, badLines
}

// carryMismatches counts records whose carry flag contradicts the
// pickup/eject span: carrying applies from the PICKUP record up to but not
// including the EJECT record.
func carryMismatches(records []AuditRecord, pickupIdx, ejectIdx int) int {
	mismatches := 0
	for i, r := range records {
		carrying := pickupIdx >= 0 && i >= pickupIdx && (ejectIdx < 0 || i < ejectIdx)
		if r.Carrying != carrying {
			mismatches++
		}
	}
	return mismatches
}

func knownTag(tag string) bool {
	switch tag {
	case "POWER_ON", "ADVANCE", "TURN", "PICKUP", "EJECT", "ALARM":
		return true
	}
	return false
}
