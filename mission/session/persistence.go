package session

import (
	"time"

	"github.com/teamresgate/rescue-robot/mission/service"
	"github.com/teamresgate/rescue-robot/robot/engine"
)

// MissionPersistence defines the interface for persisting missions
type MissionPersistence interface {
	// Save persists a mission to storage
	Save(mission *service.Mission) error

	// Load retrieves a mission from storage by ID
	Load(id string) (*service.Mission, error)

	// Delete removes a mission from storage
	Delete(id string) error

	// ListAll returns all persisted mission IDs
	ListAll() ([]string, error)

	// Exists checks if a mission exists in storage
	Exists(id string) bool
}

// PersistedMissionData represents the JSON structure for persisted missions
type PersistedMissionData struct {
	ID             string                `json:"id"`
	MapName        string                `json:"map_name"`
	Phase          service.Phase         `json:"phase"`
	Memory         []engine.Command      `json:"memory,omitempty"`
	History        []engine.HistoryEntry `json:"history,omitempty"`
	CreatedAt      time.Time             `json:"created_at"`
	LastAccessedAt time.Time             `json:"last_accessed_at"`
	State          *engine.RobotState    `json:"state"`
}
