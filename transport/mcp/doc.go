// Package mcp provides the Model Context Protocol surface for the rescue
// robot simulator.
//
// The package is a thin client: every tool call is proxied to the REST API
// and the JSON response is rendered as text for the agent, including an
// ASCII view of the grid with the robot drawn as a heading mark (^ > v <).
//
// MCP Tools:
//   - create_mission: Start a mission on a named map
//   - list_missions / get_mission: Inspect active missions
//   - mission_state: Rendered grid plus pose and cargo
//   - read_sensors: Left/right/front sensor sweep
//   - command: Execute one command (advance, turn, pickup, eject)
//   - script: Execute a bounded command sequence
//   - plan_return / execute_return: Invert the recorded path and retrace it
//   - run_mission: Fully autonomous explore/pickup/return/eject
//   - mission_history: Paginated command history
//   - list_maps: Available maps
//
// Transport Modes:
//
// The server supports two transport modes:
//   - Stdio: Run() serves a local MCP client over stdin/stdout
//   - HTTP: GetMCPServer() plugs into a streamable HTTP endpoint
//
// Rule violations are reported inside the tool result text with the same
// violation codes the REST API uses; only transport failures (unknown
// mission, unreachable server) become MCP tool errors.
package mcp
