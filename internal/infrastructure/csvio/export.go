package csvio

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/sitepulse/progress-tracker/internal/core/domain"
	"github.com/sitepulse/progress-tracker/internal/metrics"
)

var exportHeader = []string{"Date", "Author", "Summary", "Work Description", "Progress Added (%)", "Verified"}

// ExportUpdates renders the project's updates in stored order. Summary and
// work description are always quoted; the other columns are written as is.
// Returns domain.ErrNothingToExport when there are no updates.
func ExportUpdates(project *domain.Project) (string, error) {
	if project == nil || len(project.Updates) == 0 {
		return "", domain.ErrNothingToExport
	}

	var b strings.Builder
	b.WriteString(strings.Join(exportHeader, ","))
	for _, u := range project.Updates {
		b.WriteByte('\n')
		b.WriteString(strings.Join([]string{
			u.Date,
			u.Author,
			quote(u.Summary),
			quote(u.WorkDescription),
			strconv.Itoa(u.ProgressMade),
			strconv.FormatBool(u.Verified),
		}, ","))
	}
	return b.String(), nil
}

// WriteUpdates writes the export of project to w.
func WriteUpdates(w io.Writer, project *domain.Project) error {
	out, err := ExportUpdates(project)
	if err != nil {
		return err
	}
	if _, err := io.WriteString(w, out); err != nil {
		return fmt.Errorf("write export: %w", err)
	}
	metrics.ExportsTotal.Inc()
	return nil
}

// ExportFileName is the download name of a project's progress report.
func ExportFileName(project *domain.Project) string {
	name := strings.NewReplacer("/", "_", `\`, "_").Replace(project.Name)
	return name + "_progress_report.csv"
}

// WriteUpdatesFile writes the export into dir under ExportFileName and returns
// the full path. Nothing is created when the project has no updates.
func WriteUpdatesFile(dir string, project *domain.Project) (string, error) {
	out, err := ExportUpdates(project)
	if err != nil {
		return "", err
	}
	path := filepath.Join(dir, ExportFileName(project))
	if err := os.WriteFile(path, []byte(out), 0o644); err != nil {
		return "", fmt.Errorf("write export file: %w", err)
	}
	metrics.ExportsTotal.Inc()
	return path, nil
}

func quote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}
