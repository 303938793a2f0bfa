package project_test

import (
	"context"
	"testing"

	"github.com/rfournie/appforge/internal/domain/project"
	"github.com/rfournie/appforge/internal/repository"
	"github.com/rfournie/appforge/internal/repository/mocks"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestProjectService_CreateWithName(t *testing.T) {
	ctx := context.Background()

	repo := &mocks.ProjectRepository{}
	repo.On("Create", ctx, mock.Anything).Return(nil)

	svc := project.NewService(repo, nil)
	proj, err := svc.Create(ctx, project.CreateRequest{Name: "Todo App", Description: "A todo list"})
	require.NoError(t, err)
	require.NotEmpty(t, proj.ID)
	require.Equal(t, "Todo App", proj.Name)
	require.Equal(t, "A todo list", proj.Description)
}

func TestProjectService_CreateDerivesNameFromFirstMessage(t *testing.T) {
	ctx := context.Background()

	repo := &mocks.ProjectRepository{}
	repo.On("Create", ctx, mock.Anything).Return(nil)

	svc := project.NewService(repo, nil)
	proj, err := svc.Create(ctx, project.CreateRequest{
		FirstMessage: "Build me a recipe manager with search and tagging support",
	})
	require.NoError(t, err)
	require.NotEmpty(t, proj.Name)
	require.LessOrEqual(t, len([]rune(proj.Name)), 30)
	require.NotEmpty(t, proj.Description)
}

func TestProjectService_GetNotFound(t *testing.T) {
	ctx := context.Background()

	repo := &mocks.ProjectRepository{}
	repo.On("Get", ctx, "missing").Return((*project.Project)(nil), repository.ErrNotFound)

	svc := project.NewService(repo, nil)
	_, err := svc.Get(ctx, "missing")
	require.ErrorIs(t, err, project.ErrProjectNotFound)
}

func TestProjectService_DeleteNotFound(t *testing.T) {
	ctx := context.Background()

	repo := &mocks.ProjectRepository{}
	repo.On("Delete", ctx, "missing").Return(repository.ErrNotFound)

	svc := project.NewService(repo, nil)
	require.ErrorIs(t, svc.Delete(ctx, "missing"), project.ErrProjectNotFound)
}

func TestProjectService_Exists(t *testing.T) {
	ctx := context.Background()

	repo := &mocks.ProjectRepository{}
	repo.On("Get", ctx, "known").Return(&project.Project{ID: "known"}, nil)
	repo.On("Get", ctx, "unknown").Return((*project.Project)(nil), repository.ErrNotFound)

	svc := project.NewService(repo, nil)

	ok, err := svc.Exists(ctx, "known")
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = svc.Exists(ctx, "unknown")
	require.NoError(t, err)
	require.False(t, ok)
}
