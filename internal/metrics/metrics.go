// Package metrics defines the Prometheus metrics of the progress tracker. All
// metrics register with the default registry on package init.
package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "progress"

// ── Project metrics ───────────────────────────────────────────────────────────

// ProjectsCreatedTotal counts projects added to the collection.
// Label:
//   - source: "manual" (admin form) or "csv" (bulk import)
var ProjectsCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "projects_created_total",
		Help:      "Total number of projects created, by source.",
	},
	[]string{"source"},
)

// UpdatesAppliedTotal counts progress updates applied to projects.
// Label:
//   - kind: "update" or "daily_report"
var UpdatesAppliedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "updates_applied_total",
		Help:      "Total number of progress updates applied, by kind.",
	},
	[]string{"kind"},
)

// UpdatesVerifiedTotal counts updates that went from unverified to verified.
var UpdatesVerifiedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "updates_verified_total",
		Help:      "Total number of successful update verifications.",
	},
)

// StatusOverridesTotal counts manual status changes.
// Label:
//   - status: the status that was set (e.g. "OnHold")
var StatusOverridesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "status_overrides_total",
		Help:      "Total number of manual project status changes, by new status.",
	},
	[]string{"status"},
)

// ── CSV metrics ───────────────────────────────────────────────────────────────

// ImportRowsSkippedTotal counts CSV data lines rejected by the importer.
var ImportRowsSkippedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "import_rows_skipped_total",
		Help:      "Total number of CSV import lines skipped as malformed.",
	},
)

// ExportsTotal counts update-history exports that produced a file.
var ExportsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "exports_total",
		Help:      "Total number of progress report exports.",
	},
)

// ── Identity metrics ──────────────────────────────────────────────────────────

// LoginsTotal counts login attempts.
// Label:
//   - result: "success" or "failure"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// UsersCreatedTotal counts user creation attempts.
// Label:
//   - result: "created", "conflict" or "forbidden"
var UsersCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "users_created_total",
		Help:      "Total number of user creation attempts, by result.",
	},
	[]string{"result"},
)

// WriteTextfile writes every metric of the default gatherer to path in text
// exposition format, replacing the file atomically.
func WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, prometheus.DefaultGatherer); err != nil {
		return fmt.Errorf("metrics: write %s: %w", path, err)
	}
	return nil
}
