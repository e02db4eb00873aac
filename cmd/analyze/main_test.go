package main

import (
	"testing"
)

const completeMissionLog = `POWER_ON,WALL,WALL,FREE,EMPTY
ADVANCE,WALL,WALL,FREE,EMPTY
ADVANCE,WALL,WALL,VICTIM,EMPTY
PICKUP,WALL,WALL,FREE,CARRYING
TURN,WALL,FREE,WALL,CARRYING
TURN,FREE,WALL,WALL,CARRYING
ADVANCE,WALL,WALL,FREE,CARRYING
ADVANCE,WALL,WALL,FREE,CARRYING
EJECT,WALL,WALL,FREE,EMPTY
`

func TestParseRecords(t *testing.T) {
	records, badLines := parseRecords(completeMissionLog)

	if badLines != 0 {
		t.Errorf("Expected no malformed lines, got %d", badLines)
	}
	if len(records) != 9 {
		t.Fatalf("Expected 9 records, got %d", len(records))
	}
	if records[0].Tag != "POWER_ON" || records[0].Carrying {
		t.Errorf("Unexpected first record: %+v", records[0])
	}
	if records[3].Tag != "PICKUP" || !records[3].Carrying {
		t.Errorf("Unexpected pickup record: %+v", records[3])
	}
	if records[8].Tag != "EJECT" || records[8].Carrying {
		t.Errorf("Unexpected eject record: %+v", records[8])
	}
}

func TestParseRecords_MalformedLines(t *testing.T) {
	content := "POWER_ON,WALL,WALL,FREE,EMPTY\nnot-a-record\nTURN,WALL,FREE,WALL,EMPTY\n\n"

	records, badLines := parseRecords(content)

	if len(records) != 2 {
		t.Errorf("Expected 2 records, got %d", len(records))
	}
	if badLines != 1 {
		t.Errorf("Expected 1 malformed line, got %d", badLines)
	}
}

func TestCarryMismatches_CleanLog(t *testing.T) {
	records, _ := parseRecords(completeMissionLog)

	if n := carryMismatches(records, 3, 8); n != 0 {
		t.Errorf("Expected no mismatches on a clean log, got %d", n)
	}
}

func TestCarryMismatches_FlagsInconsistency(t *testing.T) {
	content := `POWER_ON,WALL,WALL,FREE,EMPTY
ADVANCE,WALL,WALL,FREE,CARRYING
PICKUP,WALL,WALL,FREE,CARRYING
`
	records, _ := parseRecords(content)

	// The ADVANCE claims carrying before any pickup happened.
	if n := carryMismatches(records, 2, -1); n != 1 {
		t.Errorf("Expected 1 mismatch, got %d", n)
	}
}

func TestKnownTag(t *testing.T) {
	for _, tag := range []string{"POWER_ON", "ADVANCE", "TURN", "PICKUP", "EJECT", "ALARM"} {
		if !knownTag(tag) {
			t.Errorf("Expected %s to be a known tag", tag)
		}
	}
	if knownTag("CHARGE") {
		t.Error("Expected CHARGE to be unknown")
	}
}
