package service

import (
	"context"
	"fmt"

	"github.com/craftplan-dev/craftplan-backend/internal/projects/cache"
	"github.com/craftplan-dev/craftplan-backend/internal/projects/domain"
	"github.com/craftplan-dev/craftplan-backend/internal/projects/repository"
)

// ProjectService is the facade in front of the persistence gateway. It
// fails fast on caller mistakes before any store access, normalizes
// decimal fields, and forwards everything else unchanged. Gateway errors
// pass through untranslated so the cause stays visible.
type ProjectService struct {
	repo  *repository.ProjectRepository
	cache *cache.ProjectCache // nil when caching is disabled
}

// NewProjectService creates a new project service. cache may be nil.
func NewProjectService(repo *repository.ProjectRepository, c *cache.ProjectCache) *ProjectService {
	return &ProjectService{repo: repo, cache: c}
}

// AddProject validates and persists a new project aggregate. On return
// the project carries its store-assigned identifiers.
func (s *ProjectService) AddProject(ctx context.Context, p *domain.Project) error {
	if p == nil {
		return fmt.Errorf("%w: project required", domain.ErrInvalidInput)
	}
	if err := p.Validate(); err != nil {
		return err
	}
	p.Normalize()

	if err := s.repo.InsertProject(ctx, p); err != nil {
		return err
	}
	if s.cache != nil {
		s.cache.Invalidate(ctx, p.ID)
	}
	return nil
}

// FetchAllProjects returns every project, fully hydrated.
func (s *ProjectService) FetchAllProjects(ctx context.Context) ([]domain.Project, error) {
	if s.cache != nil {
		if projects, ok := s.cache.GetAll(ctx); ok {
			return projects, nil
		}
	}

	projects, err := s.repo.FetchAllProjects(ctx)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		s.cache.SetAll(ctx, projects)
	}
	return projects, nil
}

// FetchProjectByID returns one hydrated project. A non-positive id is a
// caller contract violation reported before any store access; an absent
// row is domain.ErrNotFound.
func (s *ProjectService) FetchProjectByID(ctx context.Context, id int64) (*domain.Project, error) {
	if id <= 0 {
		return nil, fmt.Errorf("%w: project id required", domain.ErrInvalidInput)
	}

	if s.cache != nil {
		if p, ok := s.cache.GetByID(ctx, id); ok {
			return p, nil
		}
	}

	p, err := s.repo.FetchProjectByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		s.cache.SetByID(ctx, p)
	}
	return p, nil
}

// UpdateProject writes a project's scalar fields and returns the number
// of rows affected. Zero means the target did not exist; the caller
// decides whether that is noteworthy.
func (s *ProjectService) UpdateProject(ctx context.Context, p *domain.Project) (int64, error) {
	if p == nil || p.ID <= 0 {
		return 0, fmt.Errorf("%w: project id required", domain.ErrInvalidInput)
	}
	if err := p.Validate(); err != nil {
		return 0, err
	}
	p.Normalize()

	n, err := s.repo.UpdateProject(ctx, p)
	if err != nil {
		return 0, err
	}
	if s.cache != nil {
		s.cache.Invalidate(ctx, p.ID)
	}
	return n, nil
}

// DeleteProject removes a project and, via cascade, its children.
func (s *ProjectService) DeleteProject(ctx context.Context, id int64) (int64, error) {
	if id <= 0 {
		return 0, fmt.Errorf("%w: project id required", domain.ErrInvalidInput)
	}

	n, err := s.repo.DeleteProject(ctx, id)
	if err != nil {
		return 0, err
	}
	if s.cache != nil {
		s.cache.Invalidate(ctx, id)
	}
	return n, nil
}
