package transport

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rfournie/appforge/internal/chat"
	"github.com/rfournie/appforge/internal/domain/project"
)

// ChatService runs assistant turns and exposes per-project transcripts.
type ChatService interface {
	Send(ctx context.Context, projectID, message string) error
	Turns(projectID string) []chat.Turn
	ClearSession(projectID string)
}

// ProjectService manages the project registry.
type ProjectService interface {
	Create(ctx context.Context, req project.CreateRequest) (*project.Project, error)
	Get(ctx context.Context, id string) (*project.Project, error)
	List(ctx context.Context) ([]project.Project, error)
	Delete(ctx context.Context, id string) error
}

// Server wires HTTP handlers.
type Server struct {
	chat     ChatService
	projects ProjectService
	logger   *slog.Logger
}

// NewServer creates the HTTP router for the chat API.
func NewServer(chatSvc ChatService, projectSvc ProjectService, logger *slog.Logger) *chi.Mux {
	r := chi.NewRouter()

	srv := &Server{chat: chatSvc, projects: projectSvc, logger: logger}

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/chat", srv.handleChat)
		r.Get("/projects", srv.handleListProjects)
		r.Post("/projects", srv.handleCreateProject)
		r.Get("/projects/{projectID}", srv.handleGetProject)
		r.Delete("/projects/{projectID}", srv.handleDeleteProject)
		r.Get("/projects/{projectID}/turns", srv.handleTurns)
		r.Delete("/projects/{projectID}/session", srv.handleClearSession)
	})
	r.Get("/health", srv.handleHealth)

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

type chatRequest struct {
	ProjectID string `json:"project_id"`
	Message   string `json:"message"`
}

// handleChat runs one assistant turn to completion and responds with the
// updated transcript. A second request for the same project supersedes the
// first mid-stream.
func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ProjectID == "" || req.Message == "" {
		writeError(w, http.StatusBadRequest, "project_id and message are required")
		return
	}

	if err := s.chat.Send(r.Context(), req.ProjectID, req.Message); err != nil {
		switch {
		case errors.Is(err, chat.ErrUnknownProject):
			writeError(w, http.StatusNotFound, "Project not found")
		case errors.Is(err, chat.ErrInvalidInput):
			writeError(w, http.StatusBadRequest, "project_id and message are required")
		default:
			s.logger.Error("chat send failed", "project_id", req.ProjectID, "error", err)
			writeError(w, http.StatusInternalServerError, "failed to process message")
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"turns": s.chat.Turns(req.ProjectID)})
}

func (s *Server) handleTurns(w http.ResponseWriter, r *http.Request) {
	projectID := chi.URLParam(r, "projectID")
	turns := s.chat.Turns(projectID)
	if turns == nil {
		turns = []chat.Turn{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"turns": turns})
}

func (s *Server) handleClearSession(w http.ResponseWriter, r *http.Request) {
	s.chat.ClearSession(chi.URLParam(r, "projectID"))
	w.WriteHeader(http.StatusNoContent)
}

type createProjectRequest struct {
	Name         string `json:"name"`
	Description  string `json:"description"`
	FirstMessage string `json:"first_message"`
}

func (s *Server) handleCreateProject(w http.ResponseWriter, r *http.Request) {
	var req createProjectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Name == "" && req.FirstMessage == "" {
		writeError(w, http.StatusBadRequest, "name or first_message is required")
		return
	}

	proj, err := s.projects.Create(r.Context(), project.CreateRequest{
		Name:         req.Name,
		Description:  req.Description,
		FirstMessage: req.FirstMessage,
	})
	if err != nil {
		s.logger.Error("project create failed", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to create project")
		return
	}

	writeJSON(w, http.StatusCreated, proj)
}

func (s *Server) handleListProjects(w http.ResponseWriter, r *http.Request) {
	projects, err := s.projects.List(r.Context())
	if err != nil {
		s.logger.Error("project list failed", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list projects")
		return
	}
	if projects == nil {
		projects = []project.Project{}
	}
	writeJSON(w, http.StatusOK, projects)
}

func (s *Server) handleGetProject(w http.ResponseWriter, r *http.Request) {
	proj, err := s.projects.Get(r.Context(), chi.URLParam(r, "projectID"))
	if err != nil {
		if errors.Is(err, project.ErrProjectNotFound) {
			writeError(w, http.StatusNotFound, "Project not found")
			return
		}
		s.logger.Error("project get failed", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to get project")
		return
	}
	writeJSON(w, http.StatusOK, proj)
}

// handleDeleteProject removes the registry entry and drops any cached
// transcript for the project.
func (s *Server) handleDeleteProject(w http.ResponseWriter, r *http.Request) {
	projectID := chi.URLParam(r, "projectID")

	if err := s.projects.Delete(r.Context(), projectID); err != nil {
		if errors.Is(err, project.ErrProjectNotFound) {
			writeError(w, http.StatusNotFound, "Project not found")
			return
		}
		s.logger.Error("project delete failed", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to delete project")
		return
	}

	s.chat.ClearSession(projectID)
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
