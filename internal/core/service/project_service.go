package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/sitepulse/progress-tracker/internal/core/domain"
	"github.com/sitepulse/progress-tracker/internal/core/policy"
	"github.com/sitepulse/progress-tracker/internal/core/ports"
	"github.com/sitepulse/progress-tracker/internal/metrics"
)

// ProjectService is the aggregation engine. It is the only writer of the
// project collection.
type ProjectService struct {
	repo     ports.ProjectRepository
	notifier *Notifier
	logger   zerolog.Logger
	now      func() time.Time
}

var _ ports.ProjectService = (*ProjectService)(nil)

func NewProjectService(repo ports.ProjectRepository, notifier *Notifier, logger zerolog.Logger) *ProjectService {
	return &ProjectService{
		repo:     repo,
		notifier: notifier,
		logger:   logger,
		now:      time.Now,
	}
}

// AddProject creates a NotStarted project with no progress. Field values are
// taken as given.
func (s *ProjectService) AddProject(ctx context.Context, input ports.AddProjectInput) (*domain.Project, error) {
	p := newProject(input)
	if err := s.repo.Create(ctx, p); err != nil {
		s.logger.Error().Err(err).Msg("failed to create project")
		return nil, fmt.Errorf("add project: %w", err)
	}

	metrics.ProjectsCreatedTotal.WithLabelValues("manual").Inc()
	s.logger.Info().Str("project_id", p.ID).Str("name", p.Name).Msg("project created")
	s.notifier.Publish(domain.Change{Kind: domain.ChangeProjectAdded, ProjectID: p.ID})
	return p.Clone(), nil
}

// ImportProjects appends one new project per input, all in a single step.
func (s *ProjectService) ImportProjects(ctx context.Context, inputs []ports.AddProjectInput) ([]*domain.Project, error) {
	if len(inputs) == 0 {
		return nil, nil
	}

	projects := make([]*domain.Project, 0, len(inputs))
	for _, in := range inputs {
		projects = append(projects, newProject(in))
	}
	if err := s.repo.CreateMany(ctx, projects); err != nil {
		s.logger.Error().Err(err).Int("count", len(projects)).Msg("failed to import projects")
		return nil, fmt.Errorf("import projects: %w", err)
	}

	metrics.ProjectsCreatedTotal.WithLabelValues("csv").Add(float64(len(projects)))
	for _, p := range projects {
		s.notifier.Publish(domain.Change{Kind: domain.ChangeProjectAdded, ProjectID: p.ID})
	}

	out := make([]*domain.Project, len(projects))
	for i, p := range projects {
		out[i] = p.Clone()
	}
	return out, nil
}

// AddProgressUpdate records an unverified update dated today and advances the
// project's progress. An unknown project leaves state untouched.
func (s *ProjectService) AddProgressUpdate(ctx context.Context, projectID string, input ports.ProgressUpdateInput) (*domain.ProgressUpdate, error) {
	u := s.newUpdate(input.Author, input.Summary, input.WorkDescription, input.Photo, input.ProgressMade)

	p, err := s.repo.Mutate(ctx, projectID, func(p *domain.Project) error {
		p.ApplyUpdate(u)
		return nil
	})
	if err != nil {
		return nil, s.mutationFailed("add progress update", projectID, err)
	}

	s.applied(p, u, "update")
	return &u, nil
}

// AddDailyReport is AddProgressUpdate for field reports: it also refreshes the
// project's work volume and total cost when the report supplies them.
func (s *ProjectService) AddDailyReport(ctx context.Context, projectID string, input ports.DailyReportInput) (*domain.ProgressUpdate, error) {
	return s.dailyReport(ctx, nil, projectID, input)
}

// SubmitDailyReport is AddDailyReport on behalf of actor. It fails with
// domain.ErrForbidden when the actor may not handle the project, and defaults
// the author to the actor's display name.
func (s *ProjectService) SubmitDailyReport(ctx context.Context, actor *domain.User, projectID string, input ports.DailyReportInput) (*domain.ProgressUpdate, error) {
	if actor == nil {
		return nil, fmt.Errorf("submit daily report: %w", domain.ErrForbidden)
	}
	if input.Author == "" {
		input.Author = actor.DisplayName
	}
	return s.dailyReport(ctx, actor, projectID, input)
}

func (s *ProjectService) dailyReport(ctx context.Context, actor *domain.User, projectID string, input ports.DailyReportInput) (*domain.ProgressUpdate, error) {
	u := s.newUpdate(input.Author, input.Summary, input.WorkDescription, input.Photo, input.ProgressMade)

	p, err := s.repo.Mutate(ctx, projectID, func(p *domain.Project) error {
		if actor != nil && !policy.CanHandleProject(actor, p) {
			return domain.ErrForbidden
		}
		p.ApplyDailyReport(u, input.WorkVolume, input.TotalCost)
		return nil
	})
	if err != nil {
		return nil, s.mutationFailed("add daily report", projectID, err)
	}

	s.applied(p, u, "daily_report")
	return &u, nil
}

// VerifyUpdate marks one update as verified. Verifying an already verified
// update succeeds without changing anything.
func (s *ProjectService) VerifyUpdate(ctx context.Context, projectID, updateID string) error {
	var changed bool
	_, err := s.repo.Mutate(ctx, projectID, func(p *domain.Project) error {
		found, c := p.Verify(updateID)
		if !found {
			return domain.ErrUpdateNotFound
		}
		changed = c
		return nil
	})
	if err != nil {
		return s.mutationFailed("verify update", projectID, err)
	}
	if !changed {
		s.logger.Debug().Str("project_id", projectID).Str("update_id", updateID).Msg("update already verified")
		return nil
	}

	metrics.UpdatesVerifiedTotal.Inc()
	s.logger.Info().Str("project_id", projectID).Str("update_id", updateID).Msg("update verified")
	s.notifier.Publish(domain.Change{Kind: domain.ChangeUpdateVerified, ProjectID: projectID, UpdateID: updateID})
	return nil
}

// UpdateProjectStatus overrides the status; see domain.Project.SetStatus for
// the effect on progress.
func (s *ProjectService) UpdateProjectStatus(ctx context.Context, projectID string, status domain.ProjectStatus) error {
	if !status.Valid() {
		return fmt.Errorf("update project status: %w", domain.ErrInvalidStatus)
	}

	p, err := s.repo.Mutate(ctx, projectID, func(p *domain.Project) error {
		p.SetStatus(status)
		return nil
	})
	if err != nil {
		return s.mutationFailed("update project status", projectID, err)
	}

	metrics.StatusOverridesTotal.WithLabelValues(string(status)).Inc()
	s.logger.Info().
		Str("project_id", projectID).
		Str("status", string(p.Status)).
		Int("progress", p.Progress).
		Msg("project status set")
	s.notifier.Publish(domain.Change{Kind: domain.ChangeStatusSet, ProjectID: projectID})
	return nil
}

// Projects returns a snapshot of the collection in insertion order.
func (s *ProjectService) Projects(ctx context.Context) []*domain.Project {
	ps, err := s.repo.List(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to list projects")
		return nil
	}
	return ps
}

func (s *ProjectService) Project(ctx context.Context, id string) (*domain.Project, error) {
	return s.repo.FindByID(ctx, id)
}

// CanHandle delegates to policy.CanHandleProject.
func (s *ProjectService) CanHandle(user *domain.User, project *domain.Project) bool {
	return policy.CanHandleProject(user, project)
}

func (s *ProjectService) MonthlyReports(project *domain.Project) []ports.MonthlyReport {
	return MonthlyReports(project)
}

func (s *ProjectService) CompletionDate(project *domain.Project) (string, bool) {
	return CompletionDate(project)
}

func (s *ProjectService) newUpdate(author, summary, description, photo string, progressMade int) domain.ProgressUpdate {
	return domain.ProgressUpdate{
		ID:              "up-" + uuid.NewString(),
		Date:            s.now().UTC().Format(domain.DateLayout),
		Author:          author,
		Summary:         summary,
		WorkDescription: description,
		Photo:           photo,
		ProgressMade:    progressMade,
	}
}

func (s *ProjectService) applied(p *domain.Project, u domain.ProgressUpdate, kind string) {
	metrics.UpdatesAppliedTotal.WithLabelValues(kind).Inc()
	s.logger.Info().
		Str("project_id", p.ID).
		Str("update_id", u.ID).
		Int("progress_made", u.ProgressMade).
		Int("progress", p.Progress).
		Str("status", string(p.Status)).
		Msg("progress applied")
	s.notifier.Publish(domain.Change{Kind: domain.ChangeProgressAdded, ProjectID: p.ID, UpdateID: u.ID})
}

// mutationFailed logs lookup misses at debug level, since they are expected
// no-ops, and wraps the error for the caller.
func (s *ProjectService) mutationFailed(op, projectID string, err error) error {
	switch {
	case errors.Is(err, domain.ErrProjectNotFound), errors.Is(err, domain.ErrUpdateNotFound):
		s.logger.Debug().Err(err).Str("project_id", projectID).Msg(op + " ignored")
	case errors.Is(err, domain.ErrForbidden):
		s.logger.Warn().Str("project_id", projectID).Msg(op + " forbidden")
	default:
		s.logger.Error().Err(err).Str("project_id", projectID).Msg(op + " failed")
	}
	return fmt.Errorf("%s: %w", op, err)
}

func newProject(in ports.AddProjectInput) *domain.Project {
	return &domain.Project{
		ID:                         "proj-" + uuid.NewString(),
		Name:                       in.Name,
		Description:                in.Description,
		StartDate:                  in.StartDate,
		EndDate:                    in.EndDate,
		Status:                     domain.StatusNotStarted,
		Progress:                   0,
		WorkVolume:                 in.WorkVolume,
		TotalCost:                  in.TotalCost,
		AssignedFieldAdminUsername: in.AssignedFieldAdminUsername,
		Updates:                    []domain.ProgressUpdate{},
	}
}
