// Package service defines the mission-facing operations layer.
//
// MissionService is the single entry point used by the HTTP API, the
// websocket hub and the MCP transport. It owns no storage itself: missions
// live in a MissionManager and maps come from a MapManager, both defined
// here as interfaces so the session package can implement them without an
// import cycle.
//
// A mission wraps one simulator plus its audit sink. Commands executed
// through the service are recorded twice: as HistoryEntry rows for the
// paginated history endpoint, and as audit records through the mission's
// sink. The forward-phase command memory feeds the return planner.
package service
