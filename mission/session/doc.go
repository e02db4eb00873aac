// Package session stores active missions in memory and optionally snapshots
// them to disk as JSON files.
//
// The Manager implements service.MissionManager. Each mission gets a UUID,
// a fresh simulator built from its map cells, and an audit sink from the
// configured sink factory. With persistence enabled every save writes the
// full serializable state (grid, pose, carry flag, memory, history) so a
// restarted server can resume missions exactly where they stopped; the
// simulator is rebuilt from the snapshot with engine.RestoreSimulator.
package session
