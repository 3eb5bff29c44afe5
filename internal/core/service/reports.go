package service

import (
	"slices"
	"time"

	"github.com/sitepulse/progress-tracker/internal/core/domain"
	"github.com/sitepulse/progress-tracker/internal/core/ports"
)

const (
	monthLabelLayout = "January 2006"
	invalidDateLabel = "Invalid Date"
)

// MonthlyReports groups the project's updates by calendar month of their date.
// Updates are sorted newest first before grouping, so the most recent month
// comes first and each bucket is newest first.
func MonthlyReports(project *domain.Project) []ports.MonthlyReport {
	if project == nil || len(project.Updates) == 0 {
		return nil
	}

	sorted := slices.Clone(project.Updates)
	slices.SortStableFunc(sorted, func(a, b domain.ProgressUpdate) int {
		return parseDate(b.Date).Compare(parseDate(a.Date))
	})

	var reports []ports.MonthlyReport
	index := make(map[string]int)
	for _, u := range sorted {
		label := monthLabel(u.Date)
		i, ok := index[label]
		if !ok {
			i = len(reports)
			index[label] = i
			reports = append(reports, ports.MonthlyReport{Month: label})
		}
		reports[i].Updates = append(reports[i].Updates, u)
	}
	return reports
}

// CompletionDate returns the latest update date of a Completed project. Ties
// resolve to the first update encountered.
func CompletionDate(project *domain.Project) (string, bool) {
	if project == nil || project.Status != domain.StatusCompleted || len(project.Updates) == 0 {
		return "", false
	}

	latest := project.Updates[0]
	for _, u := range project.Updates[1:] {
		if parseDate(u.Date).After(parseDate(latest.Date)) {
			latest = u
		}
	}
	return latest.Date, true
}

// parseDate returns the zero time for dates that do not parse, which sorts
// them after every real date.
func parseDate(s string) time.Time {
	t, err := time.Parse(domain.DateLayout, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

func monthLabel(s string) string {
	t, err := time.Parse(domain.DateLayout, s)
	if err != nil {
		return invalidDateLabel
	}
	return t.Format(monthLabelLayout)
}
