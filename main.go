// Command rescue-robot starts the rescue robot simulator.
//
// It supports three modes:
//  1. "serve" (default) – runs the HTTP server exposing REST API, WebSocket, and an /mcp HTTP endpoint
//  2. "mcp" – runs an MCP stdio server and spins up an internal HTTP API if none is available
//  3. "run" – drives one autonomous mission against a map file, logging the audit trail to CSV
//
// Flags control host/port, the maps directory, mission persistence, the
// SQLite audit database, and debug logging.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/mark3labs/mcp-go/server"
	"github.com/urfave/cli/v3"

	"github.com/teamresgate/rescue-robot/api"
	"github.com/teamresgate/rescue-robot/audit"
	"github.com/teamresgate/rescue-robot/mission/mapfile"
	"github.com/teamresgate/rescue-robot/mission/service"
	"github.com/teamresgate/rescue-robot/mission/session"
	"github.com/teamresgate/rescue-robot/robot/controller"
	"github.com/teamresgate/rescue-robot/robot/engine"
	"github.com/teamresgate/rescue-robot/transport/mcp"
	"github.com/teamresgate/rescue-robot/transport/websocket"
)

// Version information
const (
	Version = "1.0.0"
	AppName = "Rescue Robot Simulator"
)

func mapsDirDefault() string {
	if dir := os.Getenv("MAPS_DIR"); dir != "" {
		return dir
	}
	return "maps"
}

func main() {
	// Load .env file if it exists (ignore error if not found)
	if err := godotenv.Load(); err != nil {
		if !os.IsNotExist(err) {
			log.Printf("Warning: Error loading .env file: %v", err)
		}
	} else {
		log.Println("Loaded environment variables from .env file")
	}

	root := &cli.Command{
		Name:    "rescue-robot",
		Usage:   AppName,
		Version: Version,
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "port", Value: 8080, Usage: "HTTP server port"},
			&cli.StringFlag{Name: "host", Value: "localhost", Usage: "HTTP server host"},
			&cli.StringFlag{Name: "maps-dir", Value: mapsDirDefault(), Usage: "Directory containing map files"},
			&cli.StringFlag{Name: "missions-dir", Value: "missions", Usage: "Directory for persisted missions"},
			&cli.StringFlag{Name: "audit-db", Value: "audit.db", Usage: "SQLite audit database path (empty to disable)"},
			&cli.BoolFlag{Name: "debug", Usage: "Enable debug logging"},
		},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			if cmd.Bool("debug") {
				log.SetFlags(log.LstdFlags | log.Lshortfile)
			}
			return ctx, nil
		},
		Commands: []*cli.Command{
			{
				Name:  "serve",
				Usage: "Run the HTTP server with REST API, WebSocket, and /mcp endpoint",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return runServe(cmd)
				},
			},
			{
				Name:  "mcp",
				Usage: "Run an MCP stdio server, reusing or spawning an HTTP API",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return runStdioMCP(cmd)
				},
			},
			{
				Name:      "run",
				Usage:     "Run one autonomous mission against a map file",
				ArgsUsage: "<map-file>",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "step-cap", Value: 0, Usage: "Exploration step limit (0 for default)"},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					if cmd.Args().Len() != 1 {
						return fmt.Errorf("expected exactly one map file argument")
					}
					return runAutonomousMission(cmd.Args().First(), int(cmd.Int("step-cap")))
				},
			},
		},
		// Bare invocation behaves like serve.
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return runServe(cmd)
		},
	}

	if err := root.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}

// services bundles everything the transports need plus the handles that must
// be closed on shutdown.
type services struct {
	mission service.MissionService
	manager *session.Manager
	store   *audit.Store
}

func (s *services) close() {
	if err := s.manager.SaveAllMissions(); err != nil {
		log.Printf("Warning: Failed to save missions on shutdown: %v", err)
	}
	if s.store != nil {
		if err := s.store.Close(); err != nil {
			log.Printf("Warning: Failed to close audit store: %v", err)
		}
	}
}

// initializeServices wires the map manager, mission persistence, audit store,
// and the mission service. It also starts a background cleanup routine to
// prune stale missions.
func initializeServices(cmd *cli.Command) (*services, error) {
	mapManager, err := mapfile.NewManager(cmd.String("maps-dir"))
	if err != nil {
		return nil, fmt.Errorf("failed to create map manager: %w", err)
	}

	var store *audit.Store
	var sinkFor session.SinkFactory
	if dbPath := cmd.String("audit-db"); dbPath != "" {
		store, err = audit.OpenStore(dbPath)
		if err != nil {
			return nil, fmt.Errorf("failed to open audit store: %w", err)
		}
		sinkFor = store.MissionSink
	}

	persistence, err := session.NewFilePersistence(cmd.String("missions-dir"))
	if err != nil {
		return nil, fmt.Errorf("failed to create mission persistence: %w", err)
	}

	manager := session.NewManagerWithPersistence(sinkFor, persistence)
	if err := manager.LoadPersistedMissions(); err != nil {
		log.Printf("Warning: Failed to load persisted missions: %v", err)
	}

	go missionCleanupRoutine(manager)

	return &services{
		mission: service.NewMissionService(manager, mapManager),
		manager: manager,
		store:   store,
	}, nil
}

// missionCleanupRoutine periodically removes missions that have not been
// accessed within the retention window.
func missionCleanupRoutine(manager *session.Manager) {
	ticker := time.NewTicker(1 * time.Hour)
	defer ticker.Stop()

	for range ticker.C {
		removed := manager.CleanupExpiredMissions(24 * time.Hour)
		if removed > 0 {
			log.Printf("Cleaned up %d expired missions", removed)
		}
	}
}

// runServe starts the HTTP server with REST API, WebSocket hub, and an /mcp
// proxy endpoint, then blocks until a shutdown signal arrives.
func runServe(cmd *cli.Command) error {
	svcs, err := initializeServices(cmd)
	if err != nil {
		return err
	}
	defer svcs.close()

	hub := websocket.NewHub()
	go hub.Run()

	apiServer := api.NewServer(svcs.mission, hub)

	addr := fmt.Sprintf("%s:%d", cmd.String("host"), int(cmd.Int("port")))
	mcpClient := mcp.NewClient(fmt.Sprintf("http://%s", addr))

	mainRouter := http.NewServeMux()
	mainRouter.Handle("/", apiServer)
	mainRouter.HandleFunc("/mcp", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != "POST" {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		body, err := io.ReadAll(r.Body)
		if err != nil {
			http.Error(w, "Failed to read request", http.StatusBadRequest)
			return
		}
		defer r.Body.Close()

		response := mcpClient.GetMCPServer().HandleMessage(r.Context(), body)

		w.Header().Set("Content-Type", "application/json")
		responseData, err := json.Marshal(response)
		if err != nil {
			http.Error(w, "Failed to marshal response", http.StatusInternalServerError)
			return
		}
		w.Write(responseData)
	})

	httpServer := &http.Server{
		Addr:         addr,
		Handler:      mainRouter,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Printf("HTTP server listening on %s", addr)
		log.Printf("REST API: http://%s/api", addr)
		log.Printf("WebSocket: ws://%s/ws?mission=<mission_id>", addr)
		log.Printf("MCP endpoint: http://%s/mcp", addr)

		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("HTTP server failed: %v", err)
		}
	}()

	sig := <-stop
	log.Printf("Received signal: %v. Shutting down...", sig)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("HTTP server shutdown error: %v", err)
	}

	log.Println("Server stopped")
	return nil
}

// runStdioMCP runs an MCP stdio server. It tries to reuse an external API at
// http://localhost:<port>; if unavailable, it starts a minimal internal HTTP
// API bound to a random loopback port and targets that.
func runStdioMCP(cmd *cli.Command) error {
	externalURL := fmt.Sprintf("http://%s:%d", cmd.String("host"), int(cmd.Int("port")))
	log.Printf("Checking for external API server at %s...", externalURL)

	var baseURL string
	testClient := &http.Client{Timeout: 2 * time.Second}
	resp, err := testClient.Get(externalURL + "/health")
	if err == nil && resp.StatusCode < 500 {
		resp.Body.Close()
		log.Printf("External API server found at %s, using it for MCP", externalURL)
		baseURL = externalURL
	} else {
		log.Printf("No external API server found, starting internal HTTP server")

		svcs, err := initializeServices(cmd)
		if err != nil {
			return err
		}
		defer svcs.close()

		listener, err := net.Listen("tcp", "127.0.0.1:0")
		if err != nil {
			return fmt.Errorf("failed to get available port: %w", err)
		}

		internalAddr := fmt.Sprintf("127.0.0.1:%d", listener.Addr().(*net.TCPAddr).Port)
		log.Printf("Starting internal HTTP server on %s for MCP stdio", internalAddr)

		hub := websocket.NewHub()
		go hub.Run()

		internal := &http.Server{Handler: api.NewServer(svcs.mission, hub)}
		go func() {
			if err := internal.Serve(listener); err != nil && err != http.ErrServerClosed {
				log.Printf("Internal HTTP server error: %v", err)
			}
		}()

		// Give the listener a moment before the first proxy call.
		time.Sleep(100 * time.Millisecond)
		baseURL = fmt.Sprintf("http://%s", internalAddr)
	}

	mcpClient := mcp.NewClient(baseURL)
	log.Println("MCP stdio server ready")

	if err := server.ServeStdio(mcpClient.GetMCPServer()); err != nil {
		return fmt.Errorf("MCP stdio server error: %w", err)
	}
	return nil
}

// runAutonomousMission drives one full mission against a map file and writes
// the audit trail next to it as CSV.
func runAutonomousMission(mapPath string, stepCap int) error {
	cells, err := mapfile.Load(mapPath)
	if err != nil {
		return err
	}

	sim, err := engine.NewSimulator(engine.NewGrid(cells))
	if err != nil {
		return err
	}

	csv, err := audit.NewCSVLogger(mapPath)
	if err != nil {
		return err
	}
	defer csv.Close()

	result, err := controller.New(sim, csv, stepCap).Run()
	if err != nil {
		return err
	}

	fmt.Println(result)
	fmt.Printf("Audit trail: %s\n", csv.Path())
	return nil
}
