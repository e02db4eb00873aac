package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/teamresgate/rescue-robot/audit"
	"github.com/teamresgate/rescue-robot/mission/mapfile"
	"github.com/teamresgate/rescue-robot/robot/controller"
	"github.com/teamresgate/rescue-robot/robot/engine"
	"github.com/teamresgate/rescue-robot/robot/planner"
)

// missionServiceImpl implements the MissionService interface
type missionServiceImpl struct {
	missions MissionManager
	maps     MapManager
	mu       sync.RWMutex
}

// NewMissionService creates a new mission service instance
func NewMissionService(missions MissionManager, maps MapManager) MissionService {
	return &missionServiceImpl{
		missions: missions,
		maps:     maps,
	}
}

// CreateMission loads a map and creates a new mission on it
func (s *missionServiceImpl) CreateMission(ctx context.Context, mapName string) (*MissionInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cells, err := s.maps.LoadMap(mapName)
	if err != nil {
		if errors.Is(err, mapfile.ErrMapNotFound) {
			available, listErr := s.maps.ListMaps()
			if listErr == nil && len(available) > 0 {
				var names []string
				for _, info := range available {
					names = append(names, info.MapName)
				}
				return nil, fmt.Errorf("map '%s' not found. Available maps: %v", mapName, names)
			}
			return nil, fmt.Errorf("map '%s' not found. Use /api/maps to list available maps", mapName)
		}
		return nil, fmt.Errorf("failed to load map %s: %w", mapName, err)
	}

	// Let the mission manager generate the ID
	mission, err := s.missions.Create("", mapName, cells)
	if err != nil {
		return nil, fmt.Errorf("failed to create mission: %w", err)
	}

	return missionInfo(mission), nil
}

// GetMission retrieves mission information
func (s *missionServiceImpl) GetMission(ctx context.Context, missionID string) (*MissionInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	mission, err := s.missions.Get(missionID)
	if err != nil {
		return nil, fmt.Errorf("mission not found: %w", err)
	}
	s.missions.UpdateLastAccessed(missionID)

	return missionInfo(mission), nil
}

// ListMissions returns all active missions
func (s *missionServiceImpl) ListMissions(ctx context.Context) ([]*MissionInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	missions := s.missions.List()
	result := make([]*MissionInfo, 0, len(missions))
	for _, m := range missions {
		result = append(result, missionInfo(m))
	}
	return result, nil
}

// DeleteMission removes a mission
func (s *missionServiceImpl) DeleteMission(ctx context.Context, missionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.missions.Delete(missionID)
}

// ReadSensors performs one live sensor sweep
func (s *missionServiceImpl) ReadSensors(ctx context.Context, missionID string) (*SensorResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	mission, err := s.missions.Get(missionID)
	if err != nil {
		return nil, fmt.Errorf("mission not found: %w", err)
	}
	s.missions.UpdateLastAccessed(missionID)

	return &SensorResult{
		Sensors:  mission.Sim.Sensors(),
		Carrying: mission.Sim.Carrying(),
	}, nil
}

// Execute applies a single command to a mission
func (s *missionServiceImpl) Execute(ctx context.Context, missionID, command string) (*CommandResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	mission, err := s.missions.Get(missionID)
	if err != nil {
		return nil, fmt.Errorf("mission not found: %w", err)
	}
	s.missions.UpdateLastAccessed(missionID)

	cmd, parseErr := engine.ParseCommand(command)
	if parseErr != nil {
		return &CommandResult{
			Success:   false,
			Violation: engine.ViolationCode(parseErr),
			Message:   parseErr.Error(),
			State:     mission.Sim.State(),
			Sensors:   mission.Sim.Sensors(),
		}, nil
	}

	applyErr := s.apply(mission, cmd)
	result := &CommandResult{
		Success: applyErr == nil,
		Command: cmd,
		State:   mission.Sim.State(),
		Sensors: mission.Sim.Sensors(),
	}
	if applyErr != nil {
		result.Violation = engine.ViolationCode(applyErr)
		result.Message = applyErr.Error()
	}

	s.saveMission(missionID)
	return result, nil
}

// ExecuteScript applies a bounded sequence of commands, stopping at the
// first violation
func (s *missionServiceImpl) ExecuteScript(ctx context.Context, missionID string, commands []string) (*ScriptResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	mission, err := s.missions.Get(missionID)
	if err != nil {
		return nil, fmt.Errorf("mission not found: %w", err)
	}
	s.missions.UpdateLastAccessed(missionID)

	result := &ScriptResult{
		Success:           true,
		RequestedCommands: len(commands),
	}

	if len(commands) > MaxScriptCommands {
		result.Truncated = true
		result.Limit = MaxScriptCommands
		commands = commands[:MaxScriptCommands]
	}

	for i, raw := range commands {
		cmd, parseErr := engine.ParseCommand(raw)
		if parseErr != nil {
			result.Success = false
			result.StoppedOn = i + 1
			result.StoppedReason = fmt.Sprintf("command %d invalid: %s", i+1, raw)
			result.Violation = engine.ViolationCode(parseErr)
			break
		}

		from := mission.Sim.Pose()
		if applyErr := s.apply(mission, cmd); applyErr != nil {
			result.Success = false
			result.StoppedOn = i + 1
			result.StoppedReason = fmt.Sprintf("command %d failed: %v", i+1, applyErr)
			result.Violation = engine.ViolationCode(applyErr)
			break
		}

		result.CommandsExecuted++
		result.Steps = append(result.Steps, StepInfo{
			Idx:      i + 1,
			Command:  cmd,
			From:     from,
			To:       mission.Sim.Pose(),
			Carrying: mission.Sim.Carrying(),
		})
	}

	result.State = mission.Sim.State()
	s.saveMission(missionID)
	return result, nil
}

// PlanReturn inverts the forward memory without executing anything
func (s *missionServiceImpl) PlanReturn(ctx context.Context, missionID string) (*ReturnPlan, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	mission, err := s.missions.Get(missionID)
	if err != nil {
		return nil, fmt.Errorf("mission not found: %w", err)
	}
	s.missions.UpdateLastAccessed(missionID)

	commands := planner.Invert(mission.Memory)
	if commands == nil {
		commands = []engine.Command{}
	}
	return &ReturnPlan{Commands: commands, Length: len(commands)}, nil
}

// ExecuteReturn retraces the forward memory back toward the entry
func (s *missionServiceImpl) ExecuteReturn(ctx context.Context, missionID string) (*ReturnResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	mission, err := s.missions.Get(missionID)
	if err != nil {
		return nil, fmt.Errorf("mission not found: %w", err)
	}
	s.missions.UpdateLastAccessed(missionID)

	mission.Phase = PhaseReturning
	rig := &missionRig{s: s, m: mission}
	executed, retErr := planner.New(rig, mission.Sink).ExecuteReturn(mission.Memory, mission.Sim.Carrying())

	result := &ReturnResult{
		Executed: len(executed),
		State:    mission.Sim.State(),
	}
	switch {
	case retErr == nil:
		result.Completed = true
		mission.Phase = PhaseCompleted
		// The retraced memory is spent
		mission.Memory = nil
	case errors.Is(retErr, planner.ErrTrappedAfterPickup):
		result.Trapped = true
		result.Message = retErr.Error()
		mission.Phase = PhaseFailed
	default:
		result.Violation = engine.ViolationCode(retErr)
		result.Message = retErr.Error()
		mission.Phase = PhaseFailed
	}

	s.saveMission(missionID)
	return result, nil
}

// RunMission drives one full autonomous mission: explore, pickup, return,
// eject. Mission-level failure is reported in the result, not as an error.
func (s *missionServiceImpl) RunMission(ctx context.Context, missionID string) (*RunResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	mission, err := s.missions.Get(missionID)
	if err != nil {
		return nil, fmt.Errorf("mission not found: %w", err)
	}
	s.missions.UpdateLastAccessed(missionID)

	if mission.Phase != PhaseExploring {
		return nil, fmt.Errorf("mission %s is already %s", missionID, mission.Phase)
	}

	c := controller.New(mission.Sim, mission.Sink, 0)
	outcome, _ := c.Run()

	// Keep the forward memory visible in the mission record
	mission.Memory = append(mission.Memory, c.Memory()...)
	if c.Status() == controller.StatusCompleted {
		mission.Phase = PhaseCompleted
	} else {
		mission.Phase = PhaseFailed
	}

	s.saveMission(missionID)
	return &RunResult{
		Result: outcome,
		Phase:  mission.Phase,
		State:  mission.Sim.State(),
	}, nil
}

// GetState retrieves the current robot state
func (s *missionServiceImpl) GetState(ctx context.Context, missionID string) (*engine.RobotState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	mission, err := s.missions.Get(missionID)
	if err != nil {
		return nil, fmt.Errorf("mission not found: %w", err)
	}
	s.missions.UpdateLastAccessed(missionID)

	return mission.Sim.State(), nil
}

// GetHistory returns paginated command history
func (s *missionServiceImpl) GetHistory(ctx context.Context, missionID string, opts HistoryOptions) (*HistoryResponse, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	mission, err := s.missions.Get(missionID)
	if err != nil {
		return nil, fmt.Errorf("mission not found: %w", err)
	}

	history := mission.History
	total := len(history)

	// Apply defaults
	if opts.Page < 1 {
		opts.Page = 1
	}
	if opts.Limit <= 0 {
		opts.Limit = 20
	}
	if opts.Limit > 100 {
		opts.Limit = 100
	}
	if opts.Order == "" {
		opts.Order = "desc"
	}

	totalPages := (total + opts.Limit - 1) / opts.Limit
	if totalPages == 0 {
		totalPages = 1
	}

	start := (opts.Page - 1) * opts.Limit
	end := start + opts.Limit
	if end > total {
		end = total
	}

	var entries []engine.HistoryEntry
	if opts.Order == "desc" {
		for i := total - 1 - start; i >= 0 && i >= total-end; i-- {
			entries = append(entries, history[i])
		}
	} else if start < total {
		entries = history[start:end]
	}
	if entries == nil {
		entries = []engine.HistoryEntry{}
	}

	return &HistoryResponse{
		Entries:      entries,
		TotalEntries: total,
		Page:         opts.Page,
		PageSize:     opts.Limit,
		TotalPages:   totalPages,
		HasNext:      opts.Page < totalPages,
		HasPrevious:  opts.Page > 1,
	}, nil
}

// ListMaps returns available maps
func (s *missionServiceImpl) ListMaps(ctx context.Context) ([]*mapfile.MapInfo, error) {
	return s.maps.ListMaps()
}

// apply executes one command against a mission, recording the attempt in
// the history, the audit log on success, and the forward memory while the
// mission is still exploring.
func (s *missionServiceImpl) apply(m *Mission, cmd engine.Command) error {
	from := m.Sim.Pose()
	err := m.Sim.Apply(cmd)

	entry := engine.HistoryEntry{
		Seq:       len(m.History) + 1,
		Command:   cmd,
		From:      from,
		To:        m.Sim.Pose(),
		Carrying:  m.Sim.Carrying(),
		Success:   err == nil,
		Phase:     string(m.Phase),
		Timestamp: time.Now().Unix(),
	}
	if err != nil {
		entry.Violation = engine.ViolationCode(err)
	}
	m.History = append(m.History, entry)

	if err != nil {
		return err
	}

	if recErr := m.Sink.Record(audit.TagFor(cmd), m.Sim.Sensors(), m.Sim.Carrying()); recErr != nil {
		log.Printf("audit: failed to record %s for mission %s: %v", audit.TagFor(cmd), m.ID, recErr)
	}
	if m.Phase == PhaseExploring {
		m.Memory = append(m.Memory, cmd)
	}
	if cmd == engine.Eject {
		m.Phase = PhaseCompleted
	}
	return nil
}

// saveMission persists a mission, logging instead of failing the operation.
func (s *missionServiceImpl) saveMission(missionID string) {
	if err := s.missions.Save(missionID); err != nil {
		log.Printf("Warning: Failed to persist mission %s: %v", missionID, err)
	}
}

// missionRig adapts a mission to the planner's rig contract so return-phase
// commands flow through the same history and audit recording.
type missionRig struct {
	s *missionServiceImpl
	m *Mission
}

func (r *missionRig) Sensors() engine.SensorReading {
	return r.m.Sim.Sensors()
}

func (r *missionRig) Execute(cmd engine.Command) error {
	return r.s.apply(r.m, cmd)
}

func missionInfo(m *Mission) *MissionInfo {
	return &MissionInfo{
		ID:             m.ID,
		MapName:        m.MapName,
		Phase:          m.Phase,
		CreatedAt:      m.CreatedAt,
		LastAccessedAt: m.LastAccessedAt,
		State:          m.Sim.State(),
		Steps:          len(m.History),
	}
}
