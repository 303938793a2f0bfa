package project

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/rfournie/appforge/internal/repository"
	"github.com/google/uuid"
)

// Service handles project registry operations.
type Service struct {
	repo   Repository
	logger *slog.Logger
}

// NewService creates a new project service.
func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// CreateRequest defines project creation inputs. When Name is blank the
// title and description are derived from FirstMessage.
type CreateRequest struct {
	ID           string
	Name         string
	Description  string
	FirstMessage string
}

// Create registers a new project.
func (s *Service) Create(ctx context.Context, req CreateRequest) (*Project, error) {
	name := strings.TrimSpace(req.Name)
	description := req.Description
	if name == "" {
		summary := SummarizeFirstMessage(req.FirstMessage)
		name = summary.Title
		if description == "" {
			description = summary.Description
		}
	}

	id := req.ID
	if strings.TrimSpace(id) == "" {
		id = uuid.NewString()
	}

	proj := &Project{
		ID:          id,
		Name:        name,
		Description: description,
		CreatedAt:   time.Now(),
	}

	if err := s.repo.Create(ctx, proj); err != nil {
		return nil, fmt.Errorf("creating project: %w", err)
	}

	return proj, nil
}

// Get fetches a project by ID.
func (s *Service) Get(ctx context.Context, id string) (*Project, error) {
	proj, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("getting project: %w", err)
	}
	return proj, nil
}

// List returns all registered projects, newest first.
func (s *Service) List(ctx context.Context) ([]Project, error) {
	return s.repo.List(ctx)
}

// Delete removes a project from the registry.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrProjectNotFound
		}
		return fmt.Errorf("deleting project: %w", err)
	}
	return nil
}

// Exists reports whether a project id is registered. It satisfies the chat
// service's project resolver contract.
func (s *Service) Exists(ctx context.Context, id string) (bool, error) {
	_, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("resolving project: %w", err)
	}
	return true, nil
}
