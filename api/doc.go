// Package api provides the HTTP REST surface for rescue missions.
//
// Endpoints:
//
// Mission Management:
//   - POST /api/missions - Create a mission on a named map
//   - GET /api/missions - List missions (sort, order, limit query params)
//   - GET /api/missions/{id} - Get mission info
//   - DELETE /api/missions/{id} - Delete a mission
//
// Robot Operations:
//   - GET /api/missions/{id}/state - Full robot state (grid, pose, carry flag)
//   - GET /api/missions/{id}/sensors - Live left/right/front sensor sweep
//   - POST /api/missions/{id}/command - Execute one command {"command": "advance"}
//   - POST /api/missions/{id}/script - Execute a bounded command sequence
//   - GET /api/missions/{id}/history - Paginated command history
//
// Return Phase:
//   - GET /api/missions/{id}/return/plan - Inverted command plan, no execution
//   - POST /api/missions/{id}/return/execute - Retrace back to the entry
//
// Autonomous:
//   - POST /api/missions/{id}/run - Full explore/pickup/return/eject mission
//
// Maps:
//   - GET /api/maps - List loadable maps
//
// All endpoints accept and return JSON. Rule violations (collision, invalid
// eject, ...) are NOT transport errors: they come back as 200 responses
// with success=false and a machine-friendly violation code. Transport
// errors (unknown mission, bad body) use conventional status codes with an
// {"error": "..."} body.
//
// Every state-changing endpoint broadcasts the new robot state to the
// WebSocket clients watching the mission (GET /ws?mission={id}).
package api
