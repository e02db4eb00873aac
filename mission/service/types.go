package service

import (
	"time"

	"github.com/teamresgate/rescue-robot/robot/engine"
)

// MaxScriptCommands caps one script call to prevent abuse.
const MaxScriptCommands = 100

// MissionInfo provides information about a mission
type MissionInfo struct {
	ID             string             `json:"id"`
	MapName        string             `json:"map_name"`
	Phase          Phase              `json:"phase"`
	CreatedAt      time.Time          `json:"created_at"`
	LastAccessedAt time.Time          `json:"last_accessed_at"`
	State          *engine.RobotState `json:"state"`
	Steps          int                `json:"steps"` // history entries recorded so far
}

// SensorResult is one left/right/front sensor sweep
type SensorResult struct {
	Sensors  engine.SensorReading `json:"sensors"`
	Carrying bool                 `json:"carrying"`
}

// CommandResult contains the result of a single command
type CommandResult struct {
	Success   bool                 `json:"success"`
	Command   engine.Command       `json:"command"`
	Violation string               `json:"violation,omitempty"` // machine-friendly code, see engine.ViolationCode
	Message   string               `json:"message,omitempty"`
	State     *engine.RobotState   `json:"state"`
	Sensors   engine.SensorReading `json:"sensors"`
}

// ScriptResult contains the result of a command script
type ScriptResult struct {
	Success           bool               `json:"success"`
	CommandsExecuted  int                `json:"commands_executed"`
	RequestedCommands int                `json:"requested_commands"`
	StoppedOn         int                `json:"stopped_on,omitempty"` // 1-based index of the command that stopped the script
	StoppedReason     string             `json:"stopped_reason,omitempty"`
	Violation         string             `json:"violation,omitempty"`
	Truncated         bool               `json:"truncated,omitempty"`
	Limit             int                `json:"limit,omitempty"`
	Steps             []StepInfo         `json:"steps,omitempty"`
	State             *engine.RobotState `json:"state"`
}

// StepInfo is a compact record for each executed command in a script call
type StepInfo struct {
	Idx      int            `json:"idx"`
	Command  engine.Command `json:"command"`
	From     engine.Pose    `json:"from"`
	To       engine.Pose    `json:"to"`
	Carrying bool           `json:"carrying"`
}

// ReturnPlan is the inverted command sequence for the current memory
type ReturnPlan struct {
	Commands []engine.Command `json:"commands"`
	Length   int              `json:"length"`
}

// ReturnResult contains the outcome of executing the return plan
type ReturnResult struct {
	Completed bool               `json:"completed"`
	Executed  int                `json:"executed"`
	Trapped   bool               `json:"trapped"`
	Violation string             `json:"violation,omitempty"`
	Message   string             `json:"message,omitempty"`
	State     *engine.RobotState `json:"state"`
}

// RunResult contains the outcome of a full autonomous mission
type RunResult struct {
	Result string             `json:"result"` // MISSION_COMPLETE, VICTIM_NOT_FOUND, TRAPPED_AFTER_PICKUP: ..., MISSION_FAILED: ...
	Phase  Phase              `json:"phase"`
	State  *engine.RobotState `json:"state"`
}

// HistoryOptions configures history retrieval
type HistoryOptions struct {
	Page  int    `json:"page"`
	Limit int    `json:"limit"`
	Order string `json:"order"` // "asc" or "desc"
}

// HistoryResponse contains paginated command history
type HistoryResponse struct {
	Entries      []engine.HistoryEntry `json:"entries"`
	TotalEntries int                   `json:"total_entries"`
	Page         int                   `json:"page"`
	PageSize     int                   `json:"page_size"`
	TotalPages   int                   `json:"total_pages"`
	HasNext      bool                  `json:"has_next"`
	HasPrevious  bool                  `json:"has_previous"`
}
