package memory

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/sitepulse/progress-tracker/internal/core/domain"
)

func TestProjectStore_ListReturnsCopies(t *testing.T) {
	s := NewProjectStore()
	ctx := context.Background()
	if err := s.Create(ctx, &domain.Project{ID: "p1", Name: "Bridge"}); err != nil {
		t.Fatalf("create: %v", err)
	}

	list, _ := s.List(ctx)
	list[0].Name = "changed"
	list[0].Updates = append(list[0].Updates, domain.ProgressUpdate{ID: "u"})

	got, err := s.FindByID(ctx, "p1")
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if got.Name != "Bridge" || len(got.Updates) != 0 {
		t.Fatalf("store was modified through a read view: %+v", got)
	}
}

func TestProjectStore_CreateManyRejectsDuplicates(t *testing.T) {
	s := NewProjectStore()
	ctx := context.Background()
	_ = s.Create(ctx, &domain.Project{ID: "p1"})

	err := s.CreateMany(ctx, []*domain.Project{{ID: "p2"}, {ID: "p1"}})
	if err == nil {
		t.Fatal("expected duplicate id error")
	}
	list, _ := s.List(ctx)
	if len(list) != 1 {
		t.Fatalf("batch must be all-or-nothing, got %d projects", len(list))
	}
}

func TestProjectStore_MutateNotFound(t *testing.T) {
	s := NewProjectStore()
	_, err := s.Mutate(context.Background(), "missing", func(p *domain.Project) error { return nil })
	if !errors.Is(err, domain.ErrProjectNotFound) {
		t.Fatalf("expected ErrProjectNotFound, got %v", err)
	}
}

func TestProjectStore_MutateErrorDiscardsChange(t *testing.T) {
	s := NewProjectStore()
	ctx := context.Background()
	_ = s.Create(ctx, &domain.Project{ID: "p1", Progress: 10})

	boom := errors.New("boom")
	_, err := s.Mutate(ctx, "p1", func(p *domain.Project) error {
		p.Progress = 90
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
	got, _ := s.FindByID(ctx, "p1")
	if got.Progress != 10 {
		t.Fatalf("expected progress 10, got %d", got.Progress)
	}
}

func TestProjectStore_MutateSerialisesPerProject(t *testing.T) {
	s := NewProjectStore()
	ctx := context.Background()
	_ = s.Create(ctx, &domain.Project{ID: "p1"})

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = s.Mutate(ctx, "p1", func(p *domain.Project) error {
				p.ApplyUpdate(domain.ProgressUpdate{ProgressMade: 1})
				return nil
			})
		}()
	}
	wg.Wait()

	got, _ := s.FindByID(ctx, "p1")
	if got.Progress != 50 || len(got.Updates) != 50 {
		t.Fatalf("lost updates: progress=%d updates=%d", got.Progress, len(got.Updates))
	}
}

func TestUserStore_CreateDuplicate(t *testing.T) {
	s := NewUserStore()
	ctx := context.Background()
	if _, err := s.Create(ctx, &domain.User{Username: "bob"}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := s.Create(ctx, &domain.User{Username: "bob"}); !errors.Is(err, domain.ErrUserExists) {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}
	users, _ := s.List(ctx)
	if len(users) != 1 {
		t.Fatalf("expected 1 user, got %d", len(users))
	}
	if _, err := s.FindByUsername(ctx, "ghost"); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}
