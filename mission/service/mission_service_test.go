package service_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/teamresgate/rescue-robot/mission/mapfile"
	"github.com/teamresgate/rescue-robot/mission/service"
	"github.com/teamresgate/rescue-robot/mission/session"
	"github.com/teamresgate/rescue-robot/robot/engine"
)

func newService(t *testing.T) service.MissionService {
	t.Helper()

	dir := t.TempDir()
	maps := map[string]string{
		"demo.txt":     "XXXXX\nE..@X\nXXXXX\n",
		"corridor.txt": "XXXXXX\nE...@X\nXXXXXX\n",
	}
	for name, content := range maps {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644); err != nil {
			t.Fatalf("failed to write map %s: %v", name, err)
		}
	}

	mapManager, err := mapfile.NewManager(dir)
	if err != nil {
		t.Fatalf("NewManager failed: %v", err)
	}
	return service.NewMissionService(session.NewManager(nil), mapManager)
}

func createMission(t *testing.T, svc service.MissionService, mapName string) string {
	t.Helper()

	info, err := svc.CreateMission(context.Background(), mapName)
	if err != nil {
		t.Fatalf("CreateMission failed: %v", err)
	}
	return info.ID
}

func TestCreateMission(t *testing.T) {
	svc := newService(t)

	info, err := svc.CreateMission(context.Background(), "demo")
	if err != nil {
		t.Fatalf("CreateMission failed: %v", err)
	}
	if info.Phase != service.PhaseExploring {
		t.Errorf("Expected phase %s, got %s", service.PhaseExploring, info.Phase)
	}
	if info.MapName != "demo" {
		t.Errorf("Expected map name demo, got %s", info.MapName)
	}
	if got := info.State.Pose.Position; got != (engine.Position{X: 0, Y: 1}) {
		t.Errorf("Expected robot at the entry (0,1), got %v", got)
	}
}

func TestCreateMission_UnknownMapListsAvailable(t *testing.T) {
	svc := newService(t)

	_, err := svc.CreateMission(context.Background(), "nope")
	if err == nil {
		t.Fatal("Expected error for unknown map")
	}
	if !strings.Contains(err.Error(), "demo") {
		t.Errorf("Expected available maps in the error, got: %v", err)
	}
}

func TestExecute(t *testing.T) {
	svc := newService(t)
	id := createMission(t, svc, "demo")
	ctx := context.Background()

	result, err := svc.Execute(ctx, id, "advance")
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if !result.Success {
		t.Fatalf("Expected success, got violation %s", result.Violation)
	}
	if got := result.State.Pose.Position; got != (engine.Position{X: 1, Y: 1}) {
		t.Errorf("Expected robot at (1,1), got %v", got)
	}

	// Turning right faces the southern wall; the advance must fail with a
	// violation code but no transport error.
	if _, err := svc.Execute(ctx, id, "turn"); err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	result, err = svc.Execute(ctx, id, "advance")
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if result.Success {
		t.Fatal("Expected collision failure")
	}
	if result.Violation != "collision" {
		t.Errorf("Expected violation collision, got %s", result.Violation)
	}
	if got := result.State.Pose.Position; got != (engine.Position{X: 1, Y: 1}) {
		t.Errorf("Pose must not change on a failed advance, got %v", got)
	}
}

func TestExecute_InvalidCommand(t *testing.T) {
	svc := newService(t)
	id := createMission(t, svc, "demo")

	result, err := svc.Execute(context.Background(), id, "fly")
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if result.Success || result.Violation != "invalid_command" {
		t.Errorf("Expected invalid_command violation, got %+v", result)
	}
}

func TestExecute_MissionNotFound(t *testing.T) {
	svc := newService(t)

	if _, err := svc.Execute(context.Background(), "missing", "advance"); err == nil {
		t.Error("Expected error for unknown mission")
	}
}

func TestExecuteScript_StopsAtViolation(t *testing.T) {
	svc := newService(t)
	id := createMission(t, svc, "demo")

	// Third command runs into the victim without cargo.
	result, err := svc.ExecuteScript(context.Background(), id, []string{"a", "a", "a", "t"})
	if err != nil {
		t.Fatalf("ExecuteScript failed: %v", err)
	}
	if result.Success {
		t.Fatal("Expected script to stop at the victim cell")
	}
	if result.CommandsExecuted != 2 {
		t.Errorf("Expected 2 executed commands, got %d", result.CommandsExecuted)
	}
	if result.StoppedOn != 3 {
		t.Errorf("Expected stop on command 3, got %d", result.StoppedOn)
	}
	if result.Violation != "ran_over_victim" {
		t.Errorf("Expected violation ran_over_victim, got %s", result.Violation)
	}
	if len(result.Steps) != 2 {
		t.Errorf("Expected 2 step records, got %d", len(result.Steps))
	}
}

func TestPlanAndExecuteReturn(t *testing.T) {
	svc := newService(t)
	id := createMission(t, svc, "demo")
	ctx := context.Background()

	if _, err := svc.ExecuteScript(ctx, id, []string{"a", "a"}); err != nil {
		t.Fatalf("ExecuteScript failed: %v", err)
	}

	plan, err := svc.PlanReturn(ctx, id)
	if err != nil {
		t.Fatalf("PlanReturn failed: %v", err)
	}
	if plan.Length != 10 {
		t.Errorf("Expected 10 plan commands for two advances, got %d", plan.Length)
	}

	result, err := svc.ExecuteReturn(ctx, id)
	if err != nil {
		t.Fatalf("ExecuteReturn failed: %v", err)
	}
	if !result.Completed || result.Trapped {
		t.Fatalf("Expected clean completion, got %+v", result)
	}
	if got := result.State.Pose.Position; got != (engine.Position{X: 0, Y: 1}) {
		t.Errorf("Expected robot back at the entry, got %v", got)
	}

	info, err := svc.GetMission(ctx, id)
	if err != nil {
		t.Fatalf("GetMission failed: %v", err)
	}
	if info.Phase != service.PhaseCompleted {
		t.Errorf("Expected phase %s, got %s", service.PhaseCompleted, info.Phase)
	}
}

func TestRunMission(t *testing.T) {
	svc := newService(t)
	id := createMission(t, svc, "corridor")
	ctx := context.Background()

	result, err := svc.RunMission(ctx, id)
	if err != nil {
		t.Fatalf("RunMission failed: %v", err)
	}
	if result.Result != "MISSION_COMPLETE" {
		t.Errorf("Expected MISSION_COMPLETE, got %s", result.Result)
	}
	if result.Phase != service.PhaseCompleted {
		t.Errorf("Expected phase %s, got %s", service.PhaseCompleted, result.Phase)
	}
	if result.State.Carrying {
		t.Error("Expected the victim to be ejected")
	}

	// A second run on a finished mission is rejected.
	if _, err := svc.RunMission(ctx, id); err == nil {
		t.Error("Expected error when re-running a completed mission")
	}
}

func TestGetHistory_Pagination(t *testing.T) {
	svc := newService(t)
	id := createMission(t, svc, "demo")
	ctx := context.Background()

	// Eight turn commands in place.
	if _, err := svc.ExecuteScript(ctx, id, []string{"t", "t", "t", "t", "t", "t", "t", "t"}); err != nil {
		t.Fatalf("ExecuteScript failed: %v", err)
	}

	page, err := svc.GetHistory(ctx, id, service.HistoryOptions{Page: 1, Limit: 3, Order: "asc"})
	if err != nil {
		t.Fatalf("GetHistory failed: %v", err)
	}
	if page.TotalEntries != 8 || page.TotalPages != 3 {
		t.Errorf("Expected 8 entries over 3 pages, got %d over %d", page.TotalEntries, page.TotalPages)
	}
	if len(page.Entries) != 3 || page.Entries[0].Seq != 1 {
		t.Errorf("Unexpected first page: %+v", page.Entries)
	}
	if !page.HasNext || page.HasPrevious {
		t.Error("First page must have next and no previous")
	}

	last, err := svc.GetHistory(ctx, id, service.HistoryOptions{Page: 3, Limit: 3, Order: "asc"})
	if err != nil {
		t.Fatalf("GetHistory failed: %v", err)
	}
	if len(last.Entries) != 2 || last.HasNext {
		t.Errorf("Unexpected last page: %+v", last)
	}

	// Default order is newest first.
	desc, err := svc.GetHistory(ctx, id, service.HistoryOptions{})
	if err != nil {
		t.Fatalf("GetHistory failed: %v", err)
	}
	if desc.Entries[0].Seq != 8 {
		t.Errorf("Expected newest entry first, got seq %d", desc.Entries[0].Seq)
	}
}

func TestReadSensors(t *testing.T) {
	svc := newService(t)
	id := createMission(t, svc, "demo")

	result, err := svc.ReadSensors(context.Background(), id)
	if err != nil {
		t.Fatalf("ReadSensors failed: %v", err)
	}
	if result.Sensors.Front != engine.ReadingFree {
		t.Errorf("Expected free front at the entry, got %v", result.Sensors.Front)
	}
	if result.Carrying {
		t.Error("New mission must not be carrying")
	}
}

func TestListMaps(t *testing.T) {
	svc := newService(t)

	maps, err := svc.ListMaps(context.Background())
	if err != nil {
		t.Fatalf("ListMaps failed: %v", err)
	}
	if len(maps) != 2 {
		t.Errorf("Expected 2 maps, got %d", len(maps))
	}
}
