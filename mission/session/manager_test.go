package session

import (
	"errors"
	"testing"
	"time"

	"github.com/teamresgate/rescue-robot/robot/engine"
)

func demoCells() [][]engine.CellKind {
	return [][]engine.CellKind{
		{engine.CellWall, engine.CellWall, engine.CellWall, engine.CellWall, engine.CellWall},
		{engine.CellEntry, engine.CellFree, engine.CellFree, engine.CellVictim, engine.CellWall},
		{engine.CellWall, engine.CellWall, engine.CellWall, engine.CellWall, engine.CellWall},
	}
}

func TestManager_CreateAndGet(t *testing.T) {
	m := NewManager(nil)

	mission, err := m.Create("", "demo", demoCells())
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if mission.ID == "" {
		t.Fatal("Expected a generated mission ID")
	}
	if mission.Sink == nil {
		t.Fatal("Expected a default audit sink")
	}

	got, err := m.Get(mission.ID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.ID != mission.ID || got.MapName != "demo" {
		t.Errorf("Unexpected mission: %+v", got)
	}

	if _, err := m.Get("does-not-exist"); !errors.Is(err, ErrMissionNotFound) {
		t.Errorf("Expected ErrMissionNotFound, got %v", err)
	}
}

func TestManager_DuplicateID(t *testing.T) {
	m := NewManager(nil)

	if _, err := m.Create("abc", "demo", demoCells()); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if _, err := m.Create("ABC", "demo", demoCells()); !errors.Is(err, ErrMissionAlreadyExists) {
		t.Errorf("Expected ErrMissionAlreadyExists for case-insensitive duplicate, got %v", err)
	}
}

func TestManager_Delete(t *testing.T) {
	m := NewManager(nil)

	mission, err := m.Create("", "demo", demoCells())
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if err := m.Delete(mission.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := m.Get(mission.ID); !errors.Is(err, ErrMissionNotFound) {
		t.Errorf("Expected mission to be gone, got %v", err)
	}
	if err := m.Delete(mission.ID); !errors.Is(err, ErrMissionNotFound) {
		t.Errorf("Expected ErrMissionNotFound on double delete, got %v", err)
	}
}

func TestManager_CleanupExpiredMissions(t *testing.T) {
	m := NewManager(nil)

	stale, err := m.Create("", "demo", demoCells())
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	stale.LastAccessedAt = time.Now().Add(-2 * time.Hour)

	if _, err := m.Create("", "demo", demoCells()); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if removed := m.CleanupExpiredMissions(time.Hour); removed != 1 {
		t.Errorf("Expected 1 expired mission removed, got %d", removed)
	}
	if m.Count() != 1 {
		t.Errorf("Expected 1 mission left, got %d", m.Count())
	}
}

func TestManager_PersistenceRoundTrip(t *testing.T) {
	dir := t.TempDir()
	fp, err := NewFilePersistence(dir)
	if err != nil {
		t.Fatalf("NewFilePersistence failed: %v", err)
	}

	m := NewManagerWithPersistence(nil, fp)
	mission, err := m.Create("", "demo", demoCells())
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	// Move the robot and snapshot the advanced state.
	if err := mission.Sim.Apply(engine.Advance); err != nil {
		t.Fatalf("Advance failed: %v", err)
	}
	mission.Memory = append(mission.Memory, engine.Advance)
	if err := m.Save(mission.ID); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	// A fresh manager over the same directory restores the mission.
	fresh := NewManagerWithPersistence(nil, fp)
	restored, err := fresh.Get(mission.ID)
	if err != nil {
		t.Fatalf("Get from persistence failed: %v", err)
	}
	if got := restored.Sim.Pose().Position; got != (engine.Position{X: 1, Y: 1}) {
		t.Errorf("Expected restored robot at (1,1), got %v", got)
	}
	if len(restored.Memory) != 1 || restored.Memory[0] != engine.Advance {
		t.Errorf("Expected restored memory [advance], got %v", restored.Memory)
	}
	if restored.Sink == nil {
		t.Error("Restored mission must carry an audit sink")
	}
}

func TestFilePersistence_ListAndDelete(t *testing.T) {
	fp, err := NewFilePersistence(t.TempDir())
	if err != nil {
		t.Fatalf("NewFilePersistence failed: %v", err)
	}

	m := NewManagerWithPersistence(nil, fp)
	mission, err := m.Create("", "demo", demoCells())
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	ids, err := fp.ListAll()
	if err != nil {
		t.Fatalf("ListAll failed: %v", err)
	}
	if len(ids) != 1 || ids[0] != mission.ID {
		t.Errorf("Expected [%s], got %v", mission.ID, ids)
	}

	if err := fp.Delete(mission.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if fp.Exists(mission.ID) {
		t.Error("Expected mission file to be removed")
	}
	if err := fp.Delete(mission.ID); !errors.Is(err, ErrMissionNotFound) {
		t.Errorf("Expected ErrMissionNotFound, got %v", err)
	}
}
