package audit

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/teamresgate/rescue-robot/robot/engine"

	_ "modernc.org/sqlite"
)

const recordsSchema = `
CREATE TABLE IF NOT EXISTS audit_records (
    id          INTEGER PRIMARY KEY AUTOINCREMENT,
    mission_id  TEXT NOT NULL,
    tag         TEXT NOT NULL,
    left_read   TEXT NOT NULL,
    right_read  TEXT NOT NULL,
    front_read  TEXT NOT NULL,
    carrying    INTEGER NOT NULL,
    created_at  TEXT NOT NULL
);
`

const recordsIndex = `
CREATE INDEX IF NOT EXISTS idx_audit_records_mission
ON audit_records(mission_id);
`

// Store persists audit records in SQLite, one row per record.
type Store struct {
	db *sql.DB
}

// OpenStore opens (creating if needed) the audit database at path.
func OpenStore(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open audit store: %w", err)
	}

	if _, err := db.Exec(recordsSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create audit schema: %w", err)
	}
	if _, err := db.Exec(recordsIndex); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create audit index: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// Record inserts one record for a mission.
func (s *Store) Record(missionID, tag string, sensors engine.SensorReading, carrying bool) error {
	carryFlag := 0
	if carrying {
		carryFlag = 1
	}

	_, err := s.db.Exec(
		`INSERT INTO audit_records (mission_id, tag, left_read, right_read, front_read, carrying, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		missionID,
		tag,
		ReadingToken(sensors.Left),
		ReadingToken(sensors.Right),
		ReadingToken(sensors.Front),
		carryFlag,
		time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to insert audit record: %w", err)
	}
	return nil
}

// MissionSink returns a Sink bound to one mission ID.
func (s *Store) MissionSink(missionID string) Sink {
	return &missionSink{store: s, missionID: missionID}
}

type missionSink struct {
	store     *Store
	missionID string
}

func (m *missionSink) Record(tag string, sensors engine.SensorReading, carrying bool) error {
	return m.store.Record(m.missionID, tag, sensors, carrying)
}

// StoredRecord is one persisted audit row.
type StoredRecord struct {
	ID        int64  `json:"id"`
	MissionID string `json:"mission_id"`
	Tag       string `json:"tag"`
	Left      string `json:"left"`
	Right     string `json:"right"`
	Front     string `json:"front"`
	Carrying  bool   `json:"carrying"`
	CreatedAt string `json:"created_at"`
}

// Records returns all records for a mission in insertion order.
func (s *Store) Records(missionID string) ([]StoredRecord, error) {
	rows, err := s.db.Query(
		`SELECT id, mission_id, tag, left_read, right_read, front_read, carrying, created_at
		 FROM audit_records WHERE mission_id = ? ORDER BY id`,
		missionID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query audit records: %w", err)
	}
	defer rows.Close()

	var records []StoredRecord
	for rows.Next() {
		var rec StoredRecord
		var carryFlag int
		if err := rows.Scan(&rec.ID, &rec.MissionID, &rec.Tag, &rec.Left, &rec.Right, &rec.Front, &carryFlag, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan audit record: %w", err)
		}
		rec.Carrying = carryFlag != 0
		records = append(records, rec)
	}
	return records, rows.Err()
}

// AlarmCount returns how many ALARM records a mission emitted.
func (s *Store) AlarmCount(missionID string) (int, error) {
	var count int
	err := s.db.QueryRow(
		`SELECT COUNT(*) FROM audit_records WHERE mission_id = ? AND tag = ?`,
		missionID, TagAlarm,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count alarms: %w", err)
	}
	return count, nil
}
