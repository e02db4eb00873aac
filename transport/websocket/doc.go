// Package websocket provides the real-time transport for mission watchers.
//
// The package uses a hub-and-spoke model where a central Hub manages all
// WebSocket connections. Each client connection is handled by dedicated
// read and write goroutines that manage keepalive pings and cleanup.
//
// Connections are mission-aware: clients pick a mission when connecting
// and the hub broadcasts robot state updates only to the clients watching
// that mission. Incoming client messages are ignored; the channel is
// one-way from server to watcher.
//
// Usage:
//
//	hub := websocket.NewHub()
//	go hub.Run()
//
//	// after every state change
//	hub.BroadcastToMission(missionID, state)
package websocket
