package ports

import (
	"context"

	"github.com/sitepulse/progress-tracker/internal/core/domain"
)

// MutateFunc applies a change to a project inside the repository's critical
// section. Returning an error discards the change.
type MutateFunc func(p *domain.Project) error

// ProjectRepository owns the project collection.
type ProjectRepository interface {
	Create(ctx context.Context, p *domain.Project) error
	// CreateMany appends all projects in one step, preserving their order.
	CreateMany(ctx context.Context, ps []*domain.Project) error
	FindByID(ctx context.Context, id string) (*domain.Project, error)
	// List returns copies of all projects in insertion order.
	List(ctx context.Context) ([]*domain.Project, error)
	// Mutate runs fn against the stored project with the given id. Mutations of
	// one project never interleave. Returns a copy of the result, or
	// domain.ErrProjectNotFound.
	Mutate(ctx context.Context, id string, fn MutateFunc) (*domain.Project, error)
}
