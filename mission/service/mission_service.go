package service

import (
	"context"
	"time"

	"github.com/teamresgate/rescue-robot/audit"
	"github.com/teamresgate/rescue-robot/mission/mapfile"
	"github.com/teamresgate/rescue-robot/robot/engine"
)

// Phase tracks where a mission is in its lifecycle.
type Phase string

const (
	PhaseExploring Phase = "exploring"
	PhaseReturning Phase = "returning"
	PhaseCompleted Phase = "completed"
	PhaseFailed    Phase = "failed"
)

// MissionService defines all mission-related operations
type MissionService interface {
	// Mission Management
	CreateMission(ctx context.Context, mapName string) (*MissionInfo, error)
	GetMission(ctx context.Context, missionID string) (*MissionInfo, error)
	ListMissions(ctx context.Context) ([]*MissionInfo, error)
	DeleteMission(ctx context.Context, missionID string) error

	// Robot Operations
	ReadSensors(ctx context.Context, missionID string) (*SensorResult, error)
	Execute(ctx context.Context, missionID, command string) (*CommandResult, error)
	ExecuteScript(ctx context.Context, missionID string, commands []string) (*ScriptResult, error)

	// Return Phase
	PlanReturn(ctx context.Context, missionID string) (*ReturnPlan, error)
	ExecuteReturn(ctx context.Context, missionID string) (*ReturnResult, error)

	// Autonomous Mission
	RunMission(ctx context.Context, missionID string) (*RunResult, error)

	// Mission State
	GetState(ctx context.Context, missionID string) (*engine.RobotState, error)
	GetHistory(ctx context.Context, missionID string, opts HistoryOptions) (*HistoryResponse, error)

	// Maps
	ListMaps(ctx context.Context) ([]*mapfile.MapInfo, error)
}

// MissionManager defines mission storage operations
type MissionManager interface {
	Create(id, mapName string, cells [][]engine.CellKind) (*Mission, error)
	Get(id string) (*Mission, error)
	List() []*Mission
	Delete(id string) error
	UpdateLastAccessed(id string) error
	Save(id string) error
}

// MapManager handles map loading
type MapManager interface {
	LoadMap(name string) ([][]engine.CellKind, error)
	ListMaps() ([]*mapfile.MapInfo, error)
}

// Mission represents an active rescue mission
type Mission struct {
	ID             string
	MapName        string
	Sim            *engine.Simulator
	Sink           audit.Sink
	Phase          Phase
	Memory         []engine.Command
	History        []engine.HistoryEntry
	CreatedAt      time.Time
	LastAccessedAt time.Time
}
