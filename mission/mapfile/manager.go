package mapfile

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/teamresgate/rescue-robot/robot/engine"
)

// MapInfo describes one loadable map.
type MapInfo struct {
	Filename string `json:"filename"`
	MapName  string `json:"map_name"` // identifier to use for mission creation
	Width    int    `json:"width"`
	Height   int    `json:"height"`
}

// Manager handles map loading and caching from a directory of .txt files.
type Manager struct {
	mapDir string
	maps   map[string][][]engine.CellKind
	mu     sync.RWMutex
}

// NewManager creates a new map manager over an existing directory.
func NewManager(mapDir string) (*Manager, error) {
	if _, err := os.Stat(mapDir); os.IsNotExist(err) {
		return nil, fmt.Errorf("map directory does not exist: %s", mapDir)
	}
	return &Manager{
		mapDir: mapDir,
		maps:   make(map[string][][]engine.CellKind),
	}, nil
}

// LoadMap loads a map by name, with or without the .txt extension. Parsed
// maps are cached; callers must not mutate the returned cells.
func (m *Manager) LoadMap(name string) ([][]engine.CellKind, error) {
	m.mu.RLock()
	if cells, exists := m.maps[name]; exists {
		m.mu.RUnlock()
		return cells, nil
	}
	m.mu.RUnlock()

	m.mu.Lock()
	defer m.mu.Unlock()

	// Double-check after acquiring the write lock
	if cells, exists := m.maps[name]; exists {
		return cells, nil
	}

	filename := name
	if !strings.HasSuffix(filename, ".txt") {
		filename = name + ".txt"
	}

	cells, err := Load(filepath.Join(m.mapDir, filename))
	if err != nil {
		return nil, err
	}

	m.maps[name] = cells
	return cells, nil
}

// ListMaps returns information about all parseable maps in the directory.
// Files that fail validation are skipped.
func (m *Manager) ListMaps() ([]*MapInfo, error) {
	entries, err := os.ReadDir(m.mapDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read map directory: %w", err)
	}

	var infos []*MapInfo
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".txt") {
			continue
		}

		name := strings.TrimSuffix(entry.Name(), ".txt")
		cells, err := m.LoadMap(name)
		if err != nil {
			continue
		}

		infos = append(infos, &MapInfo{
			Filename: entry.Name(),
			MapName:  name,
			Width:    len(cells[0]),
			Height:   len(cells),
		})
	}

	return infos, nil
}

// RefreshCache drops all cached maps so the next load re-reads disk.
func (m *Manager) RefreshCache() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.maps = make(map[string][][]engine.CellKind)
}
