package api

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"sort"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/teamresgate/rescue-robot/mission/service"
	"github.com/teamresgate/rescue-robot/transport/websocket"
)

// Server represents the REST API server
type Server struct {
	service service.MissionService
	hub     *websocket.Hub
	router  *mux.Router
}

// NewServer creates a new API server
func NewServer(missionService service.MissionService, hub *websocket.Hub) *Server {
	s := &Server{
		service: missionService,
		hub:     hub,
		router:  mux.NewRouter(),
	}

	s.setupRoutes()
	return s
}

// setupRoutes configures all API routes
func (s *Server) setupRoutes() {
	api := s.router.PathPrefix("/api").Subrouter()

	// Mission management
	api.HandleFunc("/missions", s.handleCreateMission).Methods("POST")
	api.HandleFunc("/missions", s.handleListMissions).Methods("GET")
	api.HandleFunc("/missions/{id}", s.handleGetMission).Methods("GET")
	api.HandleFunc("/missions/{id}", s.handleDeleteMission).Methods("DELETE")

	// Robot operations
	api.HandleFunc("/missions/{id}/state", s.handleGetState).Methods("GET")
	api.HandleFunc("/missions/{id}/sensors", s.handleReadSensors).Methods("GET")
	api.HandleFunc("/missions/{id}/command", s.handleCommand).Methods("POST")
	api.HandleFunc("/missions/{id}/script", s.handleScript).Methods("POST")
	api.HandleFunc("/missions/{id}/history", s.handleGetHistory).Methods("GET")

	// Return phase
	api.HandleFunc("/missions/{id}/return/plan", s.handlePlanReturn).Methods("GET")
	api.HandleFunc("/missions/{id}/return/execute", s.handleExecuteReturn).Methods("POST")

	// Autonomous mission
	api.HandleFunc("/missions/{id}/run", s.handleRunMission).Methods("POST")

	// Maps
	api.HandleFunc("/maps", s.handleListMaps).Methods("GET")

	// WebSocket
	s.router.HandleFunc("/ws", s.handleWebSocket)

	// Health check
	s.router.HandleFunc("/health", s.handleHealth).Methods("GET")
}

// ServeHTTP implements http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Response helpers
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// Mission Handlers

func (s *Server) handleCreateMission(w http.ResponseWriter, r *http.Request) {
	var req struct {
		MapName string `json:"map_name"`
	}
	if r.Body != nil {
		json.NewDecoder(r.Body).Decode(&req)
	}
	if req.MapName == "" {
		respondError(w, http.StatusBadRequest, "map_name is required")
		return
	}

	mission, err := s.service.CreateMission(r.Context(), req.MapName)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	respondJSON(w, http.StatusCreated, mission)
}

func (s *Server) handleListMissions(w http.ResponseWriter, r *http.Request) {
	missions, err := s.service.ListMissions(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	query := r.URL.Query()
	sortBy := query.Get("sort") // "created", "accessed" (default)
	order := query.Get("order") // "asc", "desc" (default: "desc")

	if sortBy == "" {
		sortBy = "accessed"
	}
	if order == "" {
		order = "desc"
	}

	sort.Slice(missions, func(i, j int) bool {
		var ti, tj time.Time
		if sortBy == "created" {
			ti, tj = missions[i].CreatedAt, missions[j].CreatedAt
		} else {
			ti, tj = missions[i].LastAccessedAt, missions[j].LastAccessedAt
		}
		if order == "asc" {
			return ti.Before(tj)
		}
		return ti.After(tj)
	})

	limit := len(missions)
	if limitStr := query.Get("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 && l < len(missions) {
			limit = l
		}
	}
	missions = missions[:limit]

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"count":    len(missions),
		"missions": missions,
		"sort":     sortBy,
		"order":    order,
	})
}

func (s *Server) handleGetMission(w http.ResponseWriter, r *http.Request) {
	missionID := mux.Vars(r)["id"]

	mission, err := s.service.GetMission(r.Context(), missionID)
	if err != nil {
		respondError(w, http.StatusNotFound, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, mission)
}

func (s *Server) handleDeleteMission(w http.ResponseWriter, r *http.Request) {
	missionID := mux.Vars(r)["id"]

	if err := s.service.DeleteMission(r.Context(), missionID); err != nil {
		respondError(w, http.StatusNotFound, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{
		"message": fmt.Sprintf("Mission %s deleted", missionID),
	})
}

// Robot Operation Handlers

func (s *Server) handleGetState(w http.ResponseWriter, r *http.Request) {
	missionID := mux.Vars(r)["id"]

	state, err := s.service.GetState(r.Context(), missionID)
	if err != nil {
		respondError(w, http.StatusNotFound, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, state)
}

func (s *Server) handleReadSensors(w http.ResponseWriter, r *http.Request) {
	missionID := mux.Vars(r)["id"]

	result, err := s.service.ReadSensors(r.Context(), missionID)
	if err != nil {
		respondError(w, http.StatusNotFound, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, result)
}

func (s *Server) handleCommand(w http.ResponseWriter, r *http.Request) {
	missionID := mux.Vars(r)["id"]

	var req struct {
		Command string `json:"command"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := s.service.Execute(r.Context(), missionID, req.Command)
	if err != nil {
		respondError(w, http.StatusNotFound, err.Error())
		return
	}

	if s.hub != nil {
		s.hub.BroadcastToMission(missionID, result.State)
	}

	// Compact server log for observability
	status := "FAIL"
	if result.Success {
		status = "OK"
	}
	log.Printf("[CMD] mission=%s cmd=%s pos=(%d,%d) heading=%s status=%s violation=%s",
		missionID, req.Command, result.State.Pose.Position.X, result.State.Pose.Position.Y,
		result.State.Pose.Heading, status, result.Violation)

	respondJSON(w, http.StatusOK, result)
}

func (s *Server) handleScript(w http.ResponseWriter, r *http.Request) {
	missionID := mux.Vars(r)["id"]

	var req struct {
		Commands []string `json:"commands"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := s.service.ExecuteScript(r.Context(), missionID, req.Commands)
	if err != nil {
		respondError(w, http.StatusNotFound, err.Error())
		return
	}

	if s.hub != nil {
		s.hub.BroadcastToMission(missionID, result.State)
	}

	log.Printf("[SCRIPT] mission=%s exec=%d/%d stop=%s end=(%d,%d)",
		missionID, result.CommandsExecuted, result.RequestedCommands, result.Violation,
		result.State.Pose.Position.X, result.State.Pose.Position.Y)

	respondJSON(w, http.StatusOK, result)
}

func (s *Server) handleGetHistory(w http.ResponseWriter, r *http.Request) {
	missionID := mux.Vars(r)["id"]

	opts := service.HistoryOptions{
		Page:  1,
		Limit: 20,
		Order: "desc",
	}

	query := r.URL.Query()
	if pageStr := query.Get("page"); pageStr != "" {
		if p, err := strconv.Atoi(pageStr); err == nil && p > 0 {
			opts.Page = p
		}
	}
	if limitStr := query.Get("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 {
			opts.Limit = l
		}
	}
	if order := query.Get("order"); order == "asc" || order == "desc" {
		opts.Order = order
	}

	history, err := s.service.GetHistory(r.Context(), missionID, opts)
	if err != nil {
		respondError(w, http.StatusNotFound, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, history)
}

// Return Phase Handlers

func (s *Server) handlePlanReturn(w http.ResponseWriter, r *http.Request) {
	missionID := mux.Vars(r)["id"]

	plan, err := s.service.PlanReturn(r.Context(), missionID)
	if err != nil {
		respondError(w, http.StatusNotFound, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, plan)
}

func (s *Server) handleExecuteReturn(w http.ResponseWriter, r *http.Request) {
	missionID := mux.Vars(r)["id"]

	result, err := s.service.ExecuteReturn(r.Context(), missionID)
	if err != nil {
		respondError(w, http.StatusNotFound, err.Error())
		return
	}

	if s.hub != nil {
		s.hub.BroadcastToMission(missionID, result.State)
	}

	log.Printf("[RETURN] mission=%s executed=%d completed=%t trapped=%t",
		missionID, result.Executed, result.Completed, result.Trapped)

	respondJSON(w, http.StatusOK, result)
}

func (s *Server) handleRunMission(w http.ResponseWriter, r *http.Request) {
	missionID := mux.Vars(r)["id"]

	result, err := s.service.RunMission(r.Context(), missionID)
	if err != nil {
		respondError(w, http.StatusConflict, err.Error())
		return
	}

	if s.hub != nil {
		s.hub.BroadcastToMission(missionID, result.State)
	}

	log.Printf("[RUN] mission=%s result=%s phase=%s", missionID, result.Result, result.Phase)

	respondJSON(w, http.StatusOK, result)
}

// Map Handlers

func (s *Server) handleListMaps(w http.ResponseWriter, r *http.Request) {
	maps, err := s.service.ListMaps(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, maps)
}

// WebSocket Handler

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	missionID := r.URL.Query().Get("mission")
	if missionID == "" {
		http.Error(w, "mission parameter required", http.StatusBadRequest)
		return
	}

	// Verify mission exists
	if _, err := s.service.GetMission(context.Background(), missionID); err != nil {
		http.Error(w, "Invalid mission", http.StatusNotFound)
		return
	}

	s.hub.ServeWS(w, r, missionID)
}

// Health check
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
	})
}
