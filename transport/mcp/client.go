package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/teamresgate/rescue-robot/mission/mapfile"
	"github.com/teamresgate/rescue-robot/mission/service"
	"github.com/teamresgate/rescue-robot/robot/engine"
)

// Client is a thin MCP client that proxies to the REST API
type Client struct {
	baseURL    string
	httpClient *http.Client
	mcpServer  *server.MCPServer
}

// NewClient creates a new MCP client that calls the REST API
func NewClient(baseURL string) *Client {
	c := &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}

	c.initMCPServer()
	return c
}

// initMCPServer initializes the MCP server with all tools
func (c *Client) initMCPServer() {
	c.mcpServer = server.NewMCPServer(
		"Rescue Robot Simulator",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithInstructions(`Rescue Robot Simulator - MCP Interface

This is a thin client that proxies all requests to the REST API server.

MISSION OBJECTIVE:
Drive a rescue robot through a walled grid, find the victim (@), pick it
up, retrace your path to the entry (E) and eject the victim off the map.

COMMANDS:
- advance: move one cell forward (fails on walls, fatal rules apply to victims)
- turn: rotate 90 degrees right (the only rotation)
- pickup: grab the victim directly in front
- eject: at the entry, facing off the map, unload the victim

AVAILABLE TOOLS:
- create_mission: Start a mission on a named map
- list_missions / get_mission: Inspect active missions
- mission_state: Render the grid and robot pose
- read_sensors: Live left/right/front sensor sweep
- command / script: Execute one command or a sequence
- plan_return / execute_return: Invert the path and retrace it
- run_mission: Fully autonomous explore/pickup/return/eject
- mission_history: Paginated command history
- list_maps: Available maps

Rule violations (collision, invalid pickup, ...) are reported in the tool
result with a violation code; they never end the mission except for a
dead end after pickup.`),
	)

	c.registerTools()
}

// registerTools registers all MCP tools
func (c *Client) registerTools() {
	missionIDProp := map[string]interface{}{
		"type":        "string",
		"description": "Mission ID",
	}

	// Mission management
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "create_mission",
		Description: "Create a new mission on a named map",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"map_name": map[string]interface{}{
					"type":        "string",
					"description": "Name of the map to load",
				},
			},
			Required: []string{"map_name"},
		},
	}, c.handleCreateMission)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_missions",
		Description: "List all active missions",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListMissions)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "get_mission",
		Description: "Get details of a specific mission",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"mission_id": missionIDProp,
			},
			Required: []string{"mission_id"},
		},
	}, c.handleGetMission)

	// Robot operations
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "mission_state",
		Description: "Get the current robot state with a rendered grid",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"mission_id": missionIDProp,
			},
			Required: []string{"mission_id"},
		},
	}, c.handleMissionState)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "read_sensors",
		Description: "Read the left/right/front sensors for the current pose",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"mission_id": missionIDProp,
			},
			Required: []string{"mission_id"},
		},
	}, c.handleReadSensors)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "command",
		Description: "Execute a single robot command (advance, turn, pickup, eject)",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"mission_id": missionIDProp,
				"command": map[string]interface{}{
					"type":        "string",
					"enum":        []string{"advance", "turn", "pickup", "eject"},
					"description": "Command to execute",
				},
			},
			Required: []string{"mission_id", "command"},
		},
	}, c.handleCommand)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "script",
		Description: "Execute a sequence of commands, stopping at the first violation",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"mission_id": missionIDProp,
				"commands": map[string]interface{}{
					"type": "array",
					"items": map[string]interface{}{
						"type": "string",
						"enum": []string{"advance", "turn", "pickup", "eject", "a", "t", "p", "e"},
					},
					"description": "Commands to execute in order",
				},
			},
			Required: []string{"mission_id", "commands"},
		},
	}, c.handleScript)

	// Return phase
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "plan_return",
		Description: "Show the inverted return plan without executing it",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"mission_id": missionIDProp,
			},
			Required: []string{"mission_id"},
		},
	}, c.handlePlanReturn)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "execute_return",
		Description: "Retrace the recorded path back to the entry",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"mission_id": missionIDProp,
			},
			Required: []string{"mission_id"},
		},
	}, c.handleExecuteReturn)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "run_mission",
		Description: "Run the full autonomous mission: explore, pickup, return, eject",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"mission_id": missionIDProp,
			},
			Required: []string{"mission_id"},
		},
	}, c.handleRunMission)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "mission_history",
		Description: "Get command history for a mission",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"mission_id": missionIDProp,
				"page": map[string]interface{}{
					"type":        "integer",
					"description": "Page number",
				},
				"limit": map[string]interface{}{
					"type":        "integer",
					"description": "Items per page",
				},
			},
			Required: []string{"mission_id"},
		},
	}, c.handleMissionHistory)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_maps",
		Description: "List available maps",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListMaps)
}

// GetMCPServer returns the underlying MCP server for serving
func (c *Client) GetMCPServer() *server.MCPServer {
	return c.mcpServer
}

// Run starts the MCP server on stdio and blocks until the client disconnects
func (c *Client) Run() error {
	return server.ServeStdio(c.mcpServer)
}

// Helper methods for API calls

func (c *Client) apiCall(method, path string, body interface{}, result interface{}) error {
	url := c.baseURL + path

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewBuffer(data)
	}

	req, err := http.NewRequest(method, url, reqBody)
	if err != nil {
		return err
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var errResp map[string]string
		json.NewDecoder(resp.Body).Decode(&errResp)
		if msg, ok := errResp["error"]; ok {
			return fmt.Errorf("%s", msg)
		}
		return fmt.Errorf("API error: %d", resp.StatusCode)
	}

	if result != nil {
		return json.NewDecoder(resp.Body).Decode(result)
	}

	return nil
}

// Tool handlers

func (c *Client) handleCreateMission(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	mapName, _ := args["map_name"].(string)

	var mission service.MissionInfo
	err := c.apiCall("POST", "/api/missions", map[string]string{"map_name": mapName}, &mission)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("Created mission: %s\nMap: %s\n\n%s",
		mission.ID, mission.MapName, formatState(mission.State))
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleListMissions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var response struct {
		Count    int                   `json:"count"`
		Missions []service.MissionInfo `json:"missions"`
	}

	err := c.apiCall("GET", "/api/missions", nil, &response)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("Active Missions (%d):\n\n", response.Count)
	for _, m := range response.Missions {
		result += fmt.Sprintf("- %s (Map: %s, Phase: %s, Created: %s)\n",
			m.ID, m.MapName, m.Phase, m.CreatedAt.Format("15:04:05"))
	}

	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleGetMission(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	missionID, _ := args["mission_id"].(string)

	var mission service.MissionInfo
	err := c.apiCall("GET", fmt.Sprintf("/api/missions/%s", missionID), nil, &mission)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("Mission: %s\nMap: %s\nPhase: %s\nSteps: %d\nCreated: %s\n\n%s",
		mission.ID, mission.MapName, mission.Phase, mission.Steps,
		mission.CreatedAt.Format("2006-01-02 15:04:05"),
		formatState(mission.State))
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleMissionState(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	missionID, _ := args["mission_id"].(string)

	var state engine.RobotState
	err := c.apiCall("GET", fmt.Sprintf("/api/missions/%s/state", missionID), nil, &state)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatState(&state)), nil
}

func (c *Client) handleReadSensors(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	missionID, _ := args["mission_id"].(string)

	var result service.SensorResult
	err := c.apiCall("GET", fmt.Sprintf("/api/missions/%s/sensors", missionID), nil, &result)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	carry := "empty"
	if result.Carrying {
		carry = "carrying victim"
	}
	text := fmt.Sprintf("Sensors: left=%s right=%s front=%s (%s)",
		result.Sensors.Left, result.Sensors.Right, result.Sensors.Front, carry)
	return mcp.NewToolResultText(text), nil
}

func (c *Client) handleCommand(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	missionID, _ := args["mission_id"].(string)
	command, _ := args["command"].(string)

	var result service.CommandResult
	err := c.apiCall("POST", fmt.Sprintf("/api/missions/%s/command", missionID),
		map[string]string{"command": command}, &result)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatCommandResult(&result)), nil
}

func (c *Client) handleScript(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	missionID, _ := args["mission_id"].(string)
	commandsRaw, _ := args["commands"].([]interface{})

	commands := make([]string, 0, len(commandsRaw))
	for _, raw := range commandsRaw {
		if cmd, ok := raw.(string); ok {
			commands = append(commands, cmd)
		}
	}

	var result service.ScriptResult
	err := c.apiCall("POST", fmt.Sprintf("/api/missions/%s/script", missionID),
		map[string]interface{}{"commands": commands}, &result)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var b strings.Builder
	b.WriteString(fmt.Sprintf("Executed %d/%d commands\n", result.CommandsExecuted, result.RequestedCommands))
	if result.StoppedReason != "" {
		b.WriteString(fmt.Sprintf("Stopped: %s (violation=%s)\n", result.StoppedReason, result.Violation))
	}
	for _, step := range result.Steps {
		b.WriteString(fmt.Sprintf("%d. %s (%d,%d)->(%d,%d) heading=%s\n",
			step.Idx, step.Command,
			step.From.Position.X, step.From.Position.Y,
			step.To.Position.X, step.To.Position.Y,
			step.To.Heading))
	}
	b.WriteString("\n")
	b.WriteString(formatState(result.State))
	return mcp.NewToolResultText(b.String()), nil
}

func (c *Client) handlePlanReturn(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	missionID, _ := args["mission_id"].(string)

	var plan service.ReturnPlan
	err := c.apiCall("GET", fmt.Sprintf("/api/missions/%s/return/plan", missionID), nil, &plan)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	commands := make([]string, len(plan.Commands))
	for i, cmd := range plan.Commands {
		commands[i] = string(cmd)
	}
	result := fmt.Sprintf("Return plan (%d commands):\n%s", plan.Length, strings.Join(commands, ", "))
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleExecuteReturn(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	missionID, _ := args["mission_id"].(string)

	var result service.ReturnResult
	err := c.apiCall("POST", fmt.Sprintf("/api/missions/%s/return/execute", missionID), nil, &result)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var b strings.Builder
	if result.Completed {
		b.WriteString(fmt.Sprintf("Return completed in %d commands\n", result.Executed))
	} else if result.Trapped {
		b.WriteString(fmt.Sprintf("TRAPPED AFTER PICKUP after %d commands: %s\n", result.Executed, result.Message))
	} else {
		b.WriteString(fmt.Sprintf("Return failed after %d commands: %s (violation=%s)\n",
			result.Executed, result.Message, result.Violation))
	}
	b.WriteString("\n")
	b.WriteString(formatState(result.State))
	return mcp.NewToolResultText(b.String()), nil
}

func (c *Client) handleRunMission(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	missionID, _ := args["mission_id"].(string)

	var result service.RunResult
	err := c.apiCall("POST", fmt.Sprintf("/api/missions/%s/run", missionID), nil, &result)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	text := fmt.Sprintf("Result: %s\nPhase: %s\n\n%s", result.Result, result.Phase, formatState(result.State))
	return mcp.NewToolResultText(text), nil
}

func (c *Client) handleMissionHistory(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	missionID, _ := args["mission_id"].(string)

	params := "?"
	if page, ok := args["page"].(float64); ok {
		params += fmt.Sprintf("page=%d&", int(page))
	}
	if limit, ok := args["limit"].(float64); ok {
		params += fmt.Sprintf("limit=%d&", int(limit))
	}

	var history service.HistoryResponse
	err := c.apiCall("GET", fmt.Sprintf("/api/missions/%s/history%s", missionID, params), nil, &history)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("Command History (Page %d/%d) - Total: %d\n\n",
		history.Page, history.TotalPages, history.TotalEntries)
	for _, entry := range history.Entries {
		status := "ok"
		if !entry.Success {
			status = "FAIL " + entry.Violation
		}
		result += fmt.Sprintf("%d. %s (%d,%d)->(%d,%d) [%s]\n",
			entry.Seq, entry.Command,
			entry.From.Position.X, entry.From.Position.Y,
			entry.To.Position.X, entry.To.Position.Y,
			status)
	}

	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleListMaps(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var maps []mapfile.MapInfo
	err := c.apiCall("GET", "/api/maps", nil, &maps)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := "Available Maps:\n\n"
	for _, m := range maps {
		result += fmt.Sprintf("- %s (%dx%d, file %s)\n", m.MapName, m.Width, m.Height, m.Filename)
	}

	return mcp.NewToolResultText(result), nil
}

// Formatting helpers

var headingMarks = map[engine.Direction]string{
	engine.North: "^",
	engine.East:  ">",
	engine.South: "v",
	engine.West:  "<",
}

func formatState(state *engine.RobotState) string {
	if state == nil {
		return "No robot state available"
	}

	var b strings.Builder
	carry := "empty"
	if state.Carrying {
		carry = "carrying victim"
	}
	b.WriteString(fmt.Sprintf("Position: (%d,%d) | Heading: %s | Cargo: %s\n\n",
		state.Pose.Position.X, state.Pose.Position.Y, state.Pose.Heading, carry))

	for y, row := range state.Grid {
		for x, cell := range row {
			if x == state.Pose.Position.X && y == state.Pose.Position.Y {
				b.WriteString(headingMarks[state.Pose.Heading])
				continue
			}
			switch cell {
			case engine.CellWall:
				b.WriteString("X")
			case engine.CellEntry:
				b.WriteString("E")
			case engine.CellVictim:
				b.WriteString("@")
			default:
				b.WriteString(".")
			}
		}
		b.WriteString("\n")
	}

	return b.String()
}

func formatCommandResult(result *service.CommandResult) string {
	var b strings.Builder
	if result.Success {
		b.WriteString(fmt.Sprintf("Command %s succeeded\n", result.Command))
	} else {
		b.WriteString(fmt.Sprintf("Command failed: %s (violation=%s)\n", result.Message, result.Violation))
	}
	b.WriteString(fmt.Sprintf("Sensors: left=%s right=%s front=%s\n\n",
		result.Sensors.Left, result.Sensors.Right, result.Sensors.Front))
	b.WriteString(formatState(result.State))
	return b.String()
}
