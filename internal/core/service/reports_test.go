package service

import (
	"testing"

	"github.com/sitepulse/progress-tracker/internal/core/domain"
)

func TestMonthlyReports_MostRecentMonthFirst(t *testing.T) {
	p := &domain.Project{Updates: []domain.ProgressUpdate{
		{ID: "up-1", Date: "2024-06-20"},
		{ID: "up-2", Date: "2024-07-25"},
	}}

	reports := MonthlyReports(p)
	if len(reports) != 2 {
		t.Fatalf("expected 2 buckets, got %d", len(reports))
	}
	if reports[0].Month != "July 2024" || reports[1].Month != "June 2024" {
		t.Fatalf("unexpected bucket order: %q, %q", reports[0].Month, reports[1].Month)
	}
	if len(reports[0].Updates) != 1 || reports[0].Updates[0].ID != "up-2" {
		t.Fatalf("unexpected July bucket: %+v", reports[0].Updates)
	}
	if len(reports[1].Updates) != 1 || reports[1].Updates[0].ID != "up-1" {
		t.Fatalf("unexpected June bucket: %+v", reports[1].Updates)
	}
}

func TestMonthlyReports_BucketsAreNewestFirst(t *testing.T) {
	p := &domain.Project{Updates: []domain.ProgressUpdate{
		{ID: "a", Date: "2024-07-01"},
		{ID: "b", Date: "2023-07-15"},
		{ID: "c", Date: "2024-07-30"},
		{ID: "d", Date: "2024-07-10"},
	}}

	reports := MonthlyReports(p)
	if len(reports) != 2 {
		t.Fatalf("expected July 2024 and July 2023 as separate buckets, got %+v", reports)
	}
	if reports[0].Month != "July 2024" || reports[1].Month != "July 2023" {
		t.Fatalf("unexpected months: %q, %q", reports[0].Month, reports[1].Month)
	}
	var ids string
	for _, u := range reports[0].Updates {
		ids += u.ID
	}
	if ids != "cda" {
		t.Fatalf("expected c,d,a order, got %s", ids)
	}
	if len(p.Updates) != 4 || p.Updates[0].ID != "a" {
		t.Fatal("grouping must not reorder the stored updates")
	}
}

func TestMonthlyReports_Empty(t *testing.T) {
	if got := MonthlyReports(&domain.Project{}); len(got) != 0 {
		t.Fatalf("expected no buckets, got %+v", got)
	}
	if got := MonthlyReports(nil); got != nil {
		t.Fatalf("expected nil for nil project, got %+v", got)
	}
}

func TestMonthlyReports_InvalidDateBucket(t *testing.T) {
	p := &domain.Project{Updates: []domain.ProgressUpdate{
		{ID: "bad", Date: "kemarin"},
		{ID: "ok", Date: "2024-01-05"},
	}}
	reports := MonthlyReports(p)
	if len(reports) != 2 || reports[0].Month != "January 2024" || reports[1].Month != "Invalid Date" {
		t.Fatalf("unexpected buckets: %+v", reports)
	}
}

func TestCompletionDate(t *testing.T) {
	updates := []domain.ProgressUpdate{
		{ID: "a", Date: "2024-07-15"},
		{ID: "b", Date: "2024-08-20"},
		{ID: "c", Date: "2024-08-01"},
	}

	if _, ok := CompletionDate(&domain.Project{Status: domain.StatusInProgress, Updates: updates}); ok {
		t.Fatal("expected no completion date for unfinished project")
	}
	if _, ok := CompletionDate(&domain.Project{Status: domain.StatusCompleted}); ok {
		t.Fatal("expected no completion date without updates")
	}
	if _, ok := CompletionDate(nil); ok {
		t.Fatal("expected no completion date for nil project")
	}

	date, ok := CompletionDate(&domain.Project{Status: domain.StatusCompleted, Updates: updates})
	if !ok || date != "2024-08-20" {
		t.Fatalf("expected 2024-08-20, got %q (%v)", date, ok)
	}
}
