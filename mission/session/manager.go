package session

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/teamresgate/rescue-robot/audit"
	"github.com/teamresgate/rescue-robot/mission/service"
	"github.com/teamresgate/rescue-robot/robot/engine"
)

var (
	ErrMissionNotFound      = errors.New("mission not found")
	ErrMissionAlreadyExists = errors.New("mission already exists")
)

// SinkFactory builds the audit sink for a newly created or restored mission.
type SinkFactory func(missionID string) audit.Sink

// Manager handles mission lifecycle and storage
type Manager struct {
	missions    map[string]*service.Mission
	persistence MissionPersistence
	sinkFor     SinkFactory
	mu          sync.RWMutex
}

// NewManager creates a new mission manager. A nil sink factory means
// missions get a discarding audit sink.
func NewManager(sinkFor SinkFactory) *Manager {
	if sinkFor == nil {
		sinkFor = func(string) audit.Sink { return audit.NopSink{} }
	}
	return &Manager{
		missions: make(map[string]*service.Mission),
		sinkFor:  sinkFor,
	}
}

// NewManagerWithPersistence creates a mission manager that snapshots
// missions through the given persistence layer.
func NewManagerWithPersistence(sinkFor SinkFactory, persistence MissionPersistence) *Manager {
	m := NewManager(sinkFor)
	m.persistence = persistence
	return m
}

// Create creates a new mission on the given map cells. An empty ID asks the
// manager to generate one.
func (m *Manager) Create(id, mapName string, cells [][]engine.CellKind) (*service.Mission, error) {
	if id == "" {
		id = uuid.New().String()
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.missions[strings.ToLower(id)]; exists {
		return nil, ErrMissionAlreadyExists
	}

	sim, err := engine.NewSimulator(engine.NewGrid(cells))
	if err != nil {
		return nil, fmt.Errorf("failed to create simulator: %w", err)
	}

	sink := m.sinkFor(id)
	if err := sink.Record(audit.TagPowerOn, sim.Sensors(), false); err != nil {
		log.Printf("audit: failed to record %s for mission %s: %v", audit.TagPowerOn, id, err)
	}

	mission := &service.Mission{
		ID:             id,
		MapName:        mapName,
		Sim:            sim,
		Sink:           sink,
		Phase:          service.PhaseExploring,
		CreatedAt:      time.Now(),
		LastAccessedAt: time.Now(),
	}
	m.missions[strings.ToLower(id)] = mission

	if m.persistence != nil {
		if err := m.persistence.Save(mission); err != nil {
			log.Printf("Warning: Failed to persist mission %s: %v", id, err)
		}
	}

	return mission, nil
}

// Get retrieves a mission by ID, falling back to persistence when the
// mission is not in memory.
func (m *Manager) Get(id string) (*service.Mission, error) {
	m.mu.RLock()
	mission, exists := m.missions[strings.ToLower(id)]
	m.mu.RUnlock()

	if exists {
		return mission, nil
	}

	if m.persistence != nil && m.persistence.Exists(id) {
		mission, err := m.persistence.Load(id)
		if err != nil {
			return nil, fmt.Errorf("failed to load persisted mission: %w", err)
		}
		mission.Sink = m.sinkFor(mission.ID)

		m.mu.Lock()
		m.missions[strings.ToLower(id)] = mission
		m.mu.Unlock()

		return mission, nil
	}

	return nil, ErrMissionNotFound
}

// List returns all missions currently in memory
func (m *Manager) List() []*service.Mission {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]*service.Mission, 0, len(m.missions))
	for _, mission := range m.missions {
		result = append(result, mission)
	}
	return result
}

// Delete removes a mission from memory and persistence
func (m *Manager) Delete(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	lowerID := strings.ToLower(id)
	_, inMemory := m.missions[lowerID]
	delete(m.missions, lowerID)

	if m.persistence != nil && m.persistence.Exists(id) {
		if err := m.persistence.Delete(id); err != nil {
			return fmt.Errorf("failed to delete persisted mission: %w", err)
		}
		return nil
	}

	if !inMemory {
		return ErrMissionNotFound
	}
	return nil
}

// UpdateLastAccessed updates the last accessed time for a mission
func (m *Manager) UpdateLastAccessed(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	mission, exists := m.missions[strings.ToLower(id)]
	if !exists {
		return ErrMissionNotFound
	}
	mission.LastAccessedAt = time.Now()
	return nil
}

// Save snapshots one mission to persistence
func (m *Manager) Save(id string) error {
	if m.persistence == nil {
		return nil
	}

	m.mu.RLock()
	mission, exists := m.missions[strings.ToLower(id)]
	m.mu.RUnlock()
	if !exists {
		return ErrMissionNotFound
	}

	return m.persistence.Save(mission)
}

// CleanupExpiredMissions removes missions that have not been accessed in
// the given duration and returns how many were removed.
func (m *Manager) CleanupExpiredMissions(maxAge time.Duration) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	cutoff := time.Now().Add(-maxAge)
	removed := 0
	for id, mission := range m.missions {
		if mission.LastAccessedAt.Before(cutoff) {
			delete(m.missions, id)
			removed++
		}
	}
	return removed
}

// Count returns the number of missions in memory
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.missions)
}

// LoadPersistedMissions loads all persisted missions into memory
func (m *Manager) LoadPersistedMissions() error {
	if m.persistence == nil {
		return nil
	}

	ids, err := m.persistence.ListAll()
	if err != nil {
		return fmt.Errorf("failed to list persisted missions: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	loaded := 0
	for _, id := range ids {
		if _, exists := m.missions[strings.ToLower(id)]; exists {
			continue
		}

		mission, err := m.persistence.Load(id)
		if err != nil {
			log.Printf("Warning: Failed to load persisted mission %s: %v", id, err)
			continue
		}
		mission.Sink = m.sinkFor(mission.ID)

		m.missions[strings.ToLower(id)] = mission
		loaded++
	}

	if loaded > 0 {
		log.Printf("Loaded %d persisted missions from storage", loaded)
	}
	return nil
}

// SaveAllMissions snapshots every in-memory mission to persistence
func (m *Manager) SaveAllMissions() error {
	if m.persistence == nil {
		return nil
	}

	m.mu.RLock()
	missions := make([]*service.Mission, 0, len(m.missions))
	for _, mission := range m.missions {
		missions = append(missions, mission)
	}
	m.mu.RUnlock()

	errorCount := 0
	for _, mission := range missions {
		if err := m.persistence.Save(mission); err != nil {
			log.Printf("Warning: Failed to save mission %s: %v", mission.ID, err)
			errorCount++
		}
	}
	if errorCount > 0 {
		return fmt.Errorf("failed to save %d missions", errorCount)
	}
	return nil
}
