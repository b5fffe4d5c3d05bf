package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/okfngroup/hr-selfservice/internal/condo"
	"github.com/okfngroup/hr-selfservice/internal/config"
	"github.com/okfngroup/hr-selfservice/internal/hr"
	"github.com/okfngroup/hr-selfservice/internal/interview"
	"github.com/okfngroup/hr-selfservice/internal/models"
	"github.com/okfngroup/hr-selfservice/internal/storage"
)

// Server handles HTTP requests
type Server struct {
	config    config.ServerConfig
	store     storage.Store
	hr        *hr.Service
	interview *interview.Service
	server    *http.Server
}

// NewServer creates a new HTTP server
func NewServer(cfg config.ServerConfig, store storage.Store, hrSvc *hr.Service, interviewSvc *interview.Service) *Server {
	s := &Server{
		config:    cfg,
		store:     store,
		hr:        hrSvc,
		interview: interviewSvc,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/condo/rooms", s.handleCondoRooms)
	mux.HandleFunc("/status", s.handleStatus)
	mux.HandleFunc("/requests/leave", s.handleLeave)
	mux.HandleFunc("/requests/overtime", s.handleOvertime)
	mux.HandleFunc("/requests/business-trip", s.handleBusinessTrip)
	mux.HandleFunc("/requests/resignation", s.handleResignation)
	mux.HandleFunc("/interview/chat", s.handleInterviewChat)
	mux.HandleFunc("/interview/complete", s.handleInterviewComplete)

	s.server = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 90 * time.Second, // interview calls wait on the AI backend
	}

	return s
}

// Start starts the HTTP server
func (s *Server) Start() error {
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

// Handler exposes the routing for tests.
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// handleHealth handles health check requests
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

// handleCondoRooms serves the last published room-type catalog. Before the
// first successful sync run there is nothing to serve.
func (s *Server) handleCondoRooms(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	doc, err := condo.PublishedRoomTypes(r.Context(), s.store, condo.FacilityID)
	if errors.Is(err, storage.ErrNotFound) {
		http.Error(w, "Room types not published yet", http.StatusNotFound)
		return
	}
	if err != nil {
		http.Error(w, fmt.Sprintf("Failed to retrieve room types: %v", err), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

// handleStatus serves the condo sync run status
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	status, err := condo.SyncStatus(r.Context(), s.store)
	if errors.Is(err, storage.ErrNotFound) {
		http.Error(w, "No sync run recorded yet", http.StatusNotFound)
		return
	}
	if err != nil {
		http.Error(w, fmt.Sprintf("Failed to retrieve status: %v", err), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, status)
}

// submitResult is the response for accepted request submissions.
type submitResult struct {
	ID string `json:"id"`
}

func (s *Server) handleLeave(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var in hr.LeaveInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		http.Error(w, "Invalid JSON payload", http.StatusBadRequest)
		return
	}
	id, err := s.hr.SubmitLeave(r.Context(), in)
	s.writeSubmitResult(w, id, err)
}

func (s *Server) handleOvertime(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var in hr.OvertimeInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		http.Error(w, "Invalid JSON payload", http.StatusBadRequest)
		return
	}
	id, err := s.hr.SubmitOvertime(r.Context(), in)
	s.writeSubmitResult(w, id, err)
}

func (s *Server) handleBusinessTrip(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var in hr.BusinessTripInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		http.Error(w, "Invalid JSON payload", http.StatusBadRequest)
		return
	}
	id, err := s.hr.SubmitBusinessTrip(r.Context(), in)
	s.writeSubmitResult(w, id, err)
}

func (s *Server) handleResignation(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var in hr.ResignationInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		http.Error(w, "Invalid JSON payload", http.StatusBadRequest)
		return
	}
	id, err := s.hr.SubmitResignation(r.Context(), in)
	s.writeSubmitResult(w, id, err)
}

func (s *Server) writeSubmitResult(w http.ResponseWriter, id string, err error) {
	var verr *hr.ValidationError
	if errors.As(err, &verr) {
		http.Error(w, verr.Error(), http.StatusBadRequest)
		return
	}
	if err != nil {
		http.Error(w, fmt.Sprintf("Failed to save request: %v", err), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusCreated, submitResult{ID: id})
}

type chatPayload struct {
	History []models.Message `json:"history"`
}

func (s *Server) handleInterviewChat(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var in chatPayload
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		http.Error(w, "Invalid JSON payload", http.StatusBadRequest)
		return
	}
	reply, err := s.interview.Chat(r.Context(), in.History)
	if err != nil {
		http.Error(w, fmt.Sprintf("Interview chat failed: %v", err), http.StatusBadGateway)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": reply})
}

type completePayload struct {
	ApplicantID string           `json:"applicantId"`
	Messages    []models.Message `json:"messages"`
}

func (s *Server) handleInterviewComplete(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var in completePayload
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		http.Error(w, "Invalid JSON payload", http.StatusBadRequest)
		return
	}
	if in.ApplicantID == "" || len(in.Messages) == 0 {
		http.Error(w, "applicantId and messages are required", http.StatusBadRequest)
		return
	}
	id, err := s.interview.Complete(r.Context(), in.ApplicantID, in.Messages)
	if err != nil {
		http.Error(w, fmt.Sprintf("Failed to save interview: %v", err), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusCreated, submitResult{ID: id})
}
