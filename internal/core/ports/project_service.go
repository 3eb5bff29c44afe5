package ports

import (
	"context"

	"github.com/sitepulse/progress-tracker/internal/core/domain"
)

// AddProjectInput carries the fields of a new project. The engine does not
// validate them; callers run validation.Validator first.
type AddProjectInput struct {
	Name                       string  `validate:"required,min=5"`
	Description                string  `validate:"required,min=10"`
	StartDate                  string  `validate:"required,datetime=2006-01-02"`
	EndDate                    string  `validate:"required,datetime=2006-01-02"`
	WorkVolume                 string  `validate:"required"`
	TotalCost                  float64 `validate:"gte=0"`
	AssignedFieldAdminUsername string
}

// ProgressUpdateInput is the content of a plain progress update.
type ProgressUpdateInput struct {
	Author          string `validate:"required"`
	Summary         string `validate:"required"`
	WorkDescription string
	Photo           string
	ProgressMade    int `validate:"gte=0,lte=100"`
}

// DailyReportInput is a field report. WorkVolume and TotalCost are optional;
// nil (or an empty volume) leaves the project value untouched.
type DailyReportInput struct {
	Author          string
	Summary         string `validate:"required"`
	WorkDescription string `validate:"required"`
	Photo           string
	WorkVolume      *string
	TotalCost       *float64 `validate:"omitempty,gte=0"`
	ProgressMade    int      `validate:"gte=0,lte=100"`
}

// MonthlyReport is one month bucket of a project's updates, newest first.
type MonthlyReport struct {
	Month   string
	Updates []domain.ProgressUpdate
}

// ProjectService is the aggregation engine.
type ProjectService interface {
	AddProject(ctx context.Context, input AddProjectInput) (*domain.Project, error)
	AddProgressUpdate(ctx context.Context, projectID string, input ProgressUpdateInput) (*domain.ProgressUpdate, error)
	AddDailyReport(ctx context.Context, projectID string, input DailyReportInput) (*domain.ProgressUpdate, error)
	SubmitDailyReport(ctx context.Context, actor *domain.User, projectID string, input DailyReportInput) (*domain.ProgressUpdate, error)
	VerifyUpdate(ctx context.Context, projectID, updateID string) error
	UpdateProjectStatus(ctx context.Context, projectID string, status domain.ProjectStatus) error
	ImportProjects(ctx context.Context, inputs []AddProjectInput) ([]*domain.Project, error)

	Projects(ctx context.Context) []*domain.Project
	Project(ctx context.Context, id string) (*domain.Project, error)
	CanHandle(user *domain.User, project *domain.Project) bool
	MonthlyReports(project *domain.Project) []MonthlyReport
	CompletionDate(project *domain.Project) (string, bool)
}
