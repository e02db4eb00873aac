package session

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/teamresgate/rescue-robot/audit"
	"github.com/teamresgate/rescue-robot/mission/service"
	"github.com/teamresgate/rescue-robot/robot/engine"
)

// FilePersistence implements MissionPersistence using file system storage
type FilePersistence struct {
	missionsDir string
}

// NewFilePersistence creates a new file-based mission persistence layer
func NewFilePersistence(missionsDir string) (*FilePersistence, error) {
	if err := os.MkdirAll(missionsDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create missions directory: %w", err)
	}
	return &FilePersistence{missionsDir: missionsDir}, nil
}

// Save persists a mission to a JSON file
func (fp *FilePersistence) Save(mission *service.Mission) error {
	if mission == nil {
		return fmt.Errorf("mission cannot be nil")
	}

	data := PersistedMissionData{
		ID:             mission.ID,
		MapName:        mission.MapName,
		Phase:          mission.Phase,
		Memory:         mission.Memory,
		History:        mission.History,
		CreatedAt:      mission.CreatedAt,
		LastAccessedAt: mission.LastAccessedAt,
		State:          mission.Sim.State(),
	}

	jsonData, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal mission data: %w", err)
	}

	if err := os.WriteFile(fp.getFilePath(mission.ID), jsonData, 0644); err != nil {
		return fmt.Errorf("failed to write mission file: %w", err)
	}
	return nil
}

// Load retrieves a mission from a JSON file. The caller is responsible for
// attaching an audit sink; the loaded mission starts with a discarding one.
func (fp *FilePersistence) Load(id string) (*service.Mission, error) {
	filePath := fp.getFilePath(id)
	if _, err := os.Stat(filePath); os.IsNotExist(err) {
		return nil, ErrMissionNotFound
	}

	jsonData, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read mission file: %w", err)
	}

	var data PersistedMissionData
	if err := json.Unmarshal(jsonData, &data); err != nil {
		return nil, fmt.Errorf("failed to unmarshal mission data: %w", err)
	}

	sim, err := engine.RestoreSimulator(data.State)
	if err != nil {
		return nil, fmt.Errorf("failed to restore simulator: %w", err)
	}

	return &service.Mission{
		ID:             data.ID,
		MapName:        data.MapName,
		Sim:            sim,
		Sink:           audit.NopSink{},
		Phase:          data.Phase,
		Memory:         data.Memory,
		History:        data.History,
		CreatedAt:      data.CreatedAt,
		LastAccessedAt: data.LastAccessedAt,
	}, nil
}

// Delete removes a mission file
func (fp *FilePersistence) Delete(id string) error {
	if !fp.Exists(id) {
		return ErrMissionNotFound
	}
	if err := os.Remove(fp.getFilePath(id)); err != nil {
		return fmt.Errorf("failed to remove mission file: %w", err)
	}
	return nil
}

// ListAll returns all persisted mission IDs
func (fp *FilePersistence) ListAll() ([]string, error) {
	entries, err := os.ReadDir(fp.missionsDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read missions directory: %w", err)
	}

	var ids []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if name := entry.Name(); strings.HasSuffix(name, ".json") {
			ids = append(ids, strings.TrimSuffix(name, ".json"))
		}
	}
	return ids, nil
}

// Exists checks if a mission file exists
func (fp *FilePersistence) Exists(id string) bool {
	_, err := os.Stat(fp.getFilePath(id))
	return err == nil
}

// getFilePath returns the full file path for a mission ID
func (fp *FilePersistence) getFilePath(id string) string {
	return filepath.Join(fp.missionsDir, fmt.Sprintf("%s.json", id))
}
