package main

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/sitepulse/progress-tracker/internal/core/domain"
	"github.com/sitepulse/progress-tracker/internal/infrastructure/config"
	"github.com/sitepulse/progress-tracker/pkg/logger"
)

func TestMain(m *testing.M) {
	logger.Init(logger.Options{Level: "error", Output: io.Discard})
	os.Exit(m.Run())
}

func testConfig() *config.Config {
	return &config.Config{
		Env:            "test",
		JWTSecret:      "test-secret",
		TokenTTL:       time.Hour,
		PasswordScheme: "legacy",
		SeedDemo:       true,
		ReportWorkers:  2,
	}
}

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	return runCLIWith(t, testConfig(), args...)
}

func runCLIWith(t *testing.T, cfg *config.Config, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	err := run(context.Background(), cfg, args, &out)
	return out.String(), err
}

func TestRun_ReportOrdersMonthsNewestFirst(t *testing.T) {
	out, err := runCLI(t, "-user", "kantor", "-pass", "password", "-project", "proj-1", "-report")
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	july := strings.Index(out, "July 2024")
	june := strings.Index(out, "June 2024")
	if july < 0 || june < 0 || july > june {
		t.Fatalf("expected July before June in:\n%s", out)
	}
}

func TestRun_CompletionDateShownForCompletedProject(t *testing.T) {
	out, err := runCLI(t, "-user", "lapangan", "-pass", "password", "-project", "proj-4", "-report")
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if !strings.Contains(out, "completed on 2024-08-20") {
		t.Fatalf("expected completion date in:\n%s", out)
	}
}

func TestRun_WrongPassword(t *testing.T) {
	if _, err := runCLI(t, "-user", "kantor", "-pass", "nope", "-list"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestRun_DailyReportThroughDispatcher(t *testing.T) {
	out, err := runCLI(t,
		"-user", "lapangan", "-pass", "password",
		"-project", "proj-1", "-daily", "Pemasangan dek", "-desc", "Segmen 2", "-points", "80",
		"-list")
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	var row string
	for _, line := range strings.Split(out, "\n") {
		if strings.HasPrefix(line, "proj-1 ") {
			row = line
		}
	}
	if !strings.Contains(row, "Completed") || !strings.Contains(row, "100%") {
		t.Fatalf("expected proj-1 to reach 100%% Completed in:\n%s", out)
	}
}

func TestRun_FieldAdminCannotReportOnUnassignedProject(t *testing.T) {
	_, err := runCLI(t,
		"-user", "lapangan", "-pass", "password",
		"-project", "proj-2", "-daily", "x", "-desc", "y", "-points", "5")
	if !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestRun_DailyReportValidation(t *testing.T) {
	_, err := runCLI(t,
		"-user", "superadmin", "-pass", "password",
		"-project", "proj-2", "-daily", "x", "-points", "5")
	if err == nil || !strings.Contains(err.Error(), "work_description is required") {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestRun_ImportAndExport(t *testing.T) {
	dir := t.TempDir()
	csvPath := filepath.Join(dir, "projects.csv")
	content := "name,description,startDate,endDate,workVolume,totalCost,assignedFieldAdminUsername\n" +
		"Jalan Desa,Pengaspalan jalan,2024-01-01,2024-06-01,3km,900000,lapangan\n" +
		"Broken,Desc,2024-01-01,,10,1000\n"
	if err := os.WriteFile(csvPath, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	out, err := runCLI(t, "-user", "kantor", "-pass", "password", "-import", csvPath, "-list")
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if !strings.Contains(out, "imported 1 projects, skipped 1 lines") || !strings.Contains(out, "Jalan Desa") {
		t.Fatalf("unexpected output:\n%s", out)
	}

	out, err = runCLI(t, "-user", "kantor", "-pass", "password", "-project", "proj-2", "-export", "-out", dir)
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "Renovasi Stadion Gelora Nusantara_progress_report.csv")); err != nil {
		t.Fatalf("expected export file: %v\n%s", err, out)
	}
}

func TestRun_ImportRequiresAdminArea(t *testing.T) {
	_, err := runCLI(t, "-user", "lapangan", "-pass", "password", "-import", "whatever.csv")
	if !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestRun_StatusAndVerify(t *testing.T) {
	out, err := runCLI(t,
		"-user", "superadmin", "-pass", "password",
		"-project", "proj-1", "-verify", "up-1-2", "-status", "On Hold", "-report")
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if !strings.Contains(out, "On Hold, 35%") {
		t.Fatalf("expected status change in:\n%s", out)
	}
	if strings.Count(out, "[✓]") != 2 {
		t.Fatalf("expected both updates verified in:\n%s", out)
	}
}

func TestRun_CreateUser(t *testing.T) {
	out, err := runCLI(t, "-user", "superadmin", "-pass", "password",
		"-create-user", "budi", "-create-pass", "rahasia1", "-create-role", "FieldAdmin")
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if !strings.Contains(out, "created user budi (Admin Lapangan)") {
		t.Fatalf("unexpected output: %s", out)
	}

	_, err = runCLI(t, "-user", "kantor", "-pass", "password",
		"-create-user", "budi", "-create-pass", "rahasia1")
	if !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden for office admin, got %v", err)
	}
}

func TestRun_ReadsRequireLogin(t *testing.T) {
	dir := t.TempDir()
	cases := [][]string{
		{"-list"},
		{"-project", "proj-1", "-report"},
		{"-project", "proj-1", "-export", "-out", dir},
	}
	for _, args := range cases {
		out, err := runCLI(t, args...)
		if !errors.Is(err, domain.ErrForbidden) {
			t.Fatalf("%v: expected ErrForbidden, got %v", args, err)
		}
		if strings.Contains(out, "proj-1") || strings.Contains(out, "Jembatan") {
			t.Fatalf("%v: leaked project data:\n%s", args, out)
		}
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Fatalf("export without login wrote %d files", len(entries))
	}
}

func TestRun_AddProject(t *testing.T) {
	out, err := runCLI(t, "-user", "kantor", "-pass", "password",
		"-add-project", "Gedung Serbaguna", "-add-desc", "Pembangunan gedung serbaguna desa",
		"-add-start", "2024-09-01", "-add-end", "2025-03-01", "-add-volume", "1 Gedung",
		"-add-cost", "750000000", "-add-field-admin", "lapangan", "-list")
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if !strings.Contains(out, "added project proj-") {
		t.Fatalf("expected confirmation in:\n%s", out)
	}
	var row string
	for _, line := range strings.Split(out, "\n") {
		if strings.Contains(line, "Gedung Serbaguna") && !strings.HasPrefix(line, "added") {
			row = line
		}
	}
	if !strings.Contains(row, "Not Started") || !strings.Contains(row, "0%") || !strings.Contains(row, "lapangan") {
		t.Fatalf("unexpected listing row %q in:\n%s", row, out)
	}
}

func TestRun_AddProjectValidation(t *testing.T) {
	_, err := runCLI(t, "-user", "superadmin", "-pass", "password",
		"-add-project", "Gdg", "-add-desc", "Pembangunan gedung serbaguna desa",
		"-add-start", "2024-09-01", "-add-end", "2025-03-01", "-add-volume", "1 Gedung")
	if err == nil || !strings.Contains(err.Error(), "name must be at least 5") {
		t.Fatalf("expected name validation error, got %v", err)
	}

	_, err = runCLI(t, "-user", "superadmin", "-pass", "password",
		"-add-project", "Gedung Serbaguna", "-add-desc", "Pembangunan gedung serbaguna desa",
		"-add-start", "2024-09-01", "-add-end", "2025-03-01", "-add-volume", "1 Gedung", "-add-cost", "-5")
	if err == nil || !strings.Contains(err.Error(), "total_cost must be at least 0") {
		t.Fatalf("expected cost validation error, got %v", err)
	}
}

func TestRun_AddProjectRequiresAdminArea(t *testing.T) {
	_, err := runCLI(t, "-user", "lapangan", "-pass", "password",
		"-add-project", "Gedung Serbaguna", "-add-desc", "Pembangunan gedung serbaguna desa",
		"-add-start", "2024-09-01", "-add-end", "2025-03-01", "-add-volume", "1 Gedung")
	if !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestRun_ListUsers(t *testing.T) {
	out, err := runCLI(t, "-user", "superadmin", "-pass", "password", "-users")
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	for _, want := range []string{"superadmin", "kantor", "lapangan", "Admin Lapangan"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in:\n%s", want, out)
		}
	}

	if _, err := runCLI(t, "-user", "kantor", "-pass", "password", "-users"); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden for office admin, got %v", err)
	}
}

func TestRun_WritesMetricsFile(t *testing.T) {
	cfg := testConfig()
	cfg.MetricsFile = filepath.Join(t.TempDir(), "progress.prom")

	if _, err := runCLIWith(t, cfg, "-user", "kantor", "-pass", "password", "-list"); err != nil {
		t.Fatalf("run: %v", err)
	}
	raw, err := os.ReadFile(cfg.MetricsFile)
	if err != nil {
		t.Fatalf("read metrics: %v", err)
	}
	if !strings.Contains(string(raw), `progress_logins_total{result="success"}`) {
		t.Fatalf("expected login counter in:\n%s", raw)
	}
}
