package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/sitepulse/progress-tracker/internal/core/domain"
	"github.com/sitepulse/progress-tracker/internal/core/ports"
)

type projectEntry struct {
	mu      sync.Mutex
	project *domain.Project
}

// ProjectStore keeps projects in insertion order. Each project has its own
// lock so read-modify-write cycles on one project are serialised without
// blocking the others.
type ProjectStore struct {
	mu    sync.RWMutex
	order []string
	byID  map[string]*projectEntry
}

var _ ports.ProjectRepository = (*ProjectStore)(nil)

func NewProjectStore() *ProjectStore {
	return &ProjectStore{byID: make(map[string]*projectEntry)}
}

func (s *ProjectStore) Create(ctx context.Context, p *domain.Project) error {
	return s.CreateMany(ctx, []*domain.Project{p})
}

func (s *ProjectStore) CreateMany(_ context.Context, ps []*domain.Project) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	seen := make(map[string]struct{}, len(ps))
	for _, p := range ps {
		if _, exists := s.byID[p.ID]; exists {
			return fmt.Errorf("create project %s: duplicate id", p.ID)
		}
		if _, dup := seen[p.ID]; dup {
			return fmt.Errorf("create project %s: duplicate id in batch", p.ID)
		}
		seen[p.ID] = struct{}{}
	}
	for _, p := range ps {
		s.byID[p.ID] = &projectEntry{project: p.Clone()}
		s.order = append(s.order, p.ID)
	}
	return nil
}

func (s *ProjectStore) FindByID(_ context.Context, id string) (*domain.Project, error) {
	e := s.entry(id)
	if e == nil {
		return nil, domain.ErrProjectNotFound
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.project.Clone(), nil
}

func (s *ProjectStore) List(_ context.Context) ([]*domain.Project, error) {
	s.mu.RLock()
	entries := make([]*projectEntry, 0, len(s.order))
	for _, id := range s.order {
		entries = append(entries, s.byID[id])
	}
	s.mu.RUnlock()

	out := make([]*domain.Project, 0, len(entries))
	for _, e := range entries {
		e.mu.Lock()
		out = append(out, e.project.Clone())
		e.mu.Unlock()
	}
	return out, nil
}

// Mutate applies fn to a working copy and commits it only when fn succeeds.
func (s *ProjectStore) Mutate(_ context.Context, id string, fn ports.MutateFunc) (*domain.Project, error) {
	e := s.entry(id)
	if e == nil {
		return nil, domain.ErrProjectNotFound
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	work := e.project.Clone()
	if err := fn(work); err != nil {
		return nil, err
	}
	e.project = work
	return work.Clone(), nil
}

func (s *ProjectStore) entry(id string) *projectEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.byID[id]
}
