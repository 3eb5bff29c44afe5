package seed

import (
	"context"
	"testing"

	"github.com/sitepulse/progress-tracker/internal/core/domain"
	"github.com/sitepulse/progress-tracker/internal/infrastructure/credential"
	"github.com/sitepulse/progress-tracker/internal/infrastructure/memory"
)

func TestLoad(t *testing.T) {
	ctx := context.Background()
	users := memory.NewUserStore()
	projects := memory.NewProjectStore()
	enc := credential.Legacy{}

	if err := Load(ctx, users, projects, enc); err != nil {
		t.Fatalf("load: %v", err)
	}

	all, _ := users.List(ctx)
	if len(all) != 3 {
		t.Fatalf("expected 3 users, got %d", len(all))
	}
	field, err := users.FindByUsername(ctx, "lapangan")
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if field.Role != domain.RoleFieldAdmin || !enc.Matches(field.Secret, DemoPassword) {
		t.Fatalf("unexpected field admin: %+v", field)
	}

	ps, _ := projects.List(ctx)
	if len(ps) != 4 {
		t.Fatalf("expected 4 projects, got %d", len(ps))
	}
	for _, p := range ps {
		if p.Progress == 100 && p.Status != domain.StatusCompleted {
			t.Fatalf("%s: seed data breaks the 100%% => Completed rule", p.ID)
		}
	}
}

func TestProjects_ReturnsIndependentCopies(t *testing.T) {
	a := Projects()
	a[0].Updates[0].Verified = false
	if b := Projects(); !b[0].Updates[0].Verified {
		t.Fatal("Projects must not share state between calls")
	}
}

func TestProjects_DemoText(t *testing.T) {
	ps := Projects()
	if got := ps[0].Description; got != "Pembangunan jembatan gantung baru untuk menghubungkan dua kabupaten, meningkatkan konektivitas dan perekonomian regional." {
		t.Fatalf("unexpected proj-1 description: %q", got)
	}
	if got := ps[3].Updates[1].WorkDescription; got != "Pemasangan lining beton pracetak untuk mencegah kebocoran telah selesai di semua saluran." {
		t.Fatalf("unexpected up-4-2 work description: %q", got)
	}
}
