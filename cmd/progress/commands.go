package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/sitepulse/progress-tracker/internal/core/domain"
	"github.com/sitepulse/progress-tracker/internal/core/policy"
	"github.com/sitepulse/progress-tracker/internal/core/ports"
	"github.com/sitepulse/progress-tracker/internal/infrastructure/config"
	"github.com/sitepulse/progress-tracker/internal/infrastructure/csvio"
	"github.com/sitepulse/progress-tracker/internal/infrastructure/queue"
	"github.com/sitepulse/progress-tracker/internal/metrics"
)

type options struct {
	username string
	password string

	list       bool
	importPath string
	projectID  string
	report     bool
	export     bool
	outDir     string
	status     string
	verify     string

	dailySummary string
	dailyDesc    string
	dailyPoints  int
	dailyPhoto   string
	dailyVolume  string
	dailyCost    string

	newUser     string
	newPassword string
	newRole     string
	listUsers   bool

	addName       string
	addDesc       string
	addStart      string
	addEnd        string
	addVolume     string
	addCost       float64
	addFieldAdmin string
}

func parseFlags(args []string, out io.Writer) (*options, error) {
	var o options
	fs := flag.NewFlagSet("progress", flag.ContinueOnError)
	fs.SetOutput(out)

	fs.StringVar(&o.username, "user", "", "username to log in with")
	fs.StringVar(&o.password, "pass", "", "password to log in with")
	fs.BoolVar(&o.list, "list", false, "list projects")
	fs.StringVar(&o.importPath, "import", "", "import projects from a CSV file")
	fs.StringVar(&o.projectID, "project", "", "project id for -report, -export, -status, -verify and -daily")
	fs.BoolVar(&o.report, "report", false, "print the monthly report of -project")
	fs.BoolVar(&o.export, "export", false, "export the updates of -project as CSV")
	fs.StringVar(&o.outDir, "out", ".", "directory for -export")
	fs.StringVar(&o.status, "status", "", "set the status of -project (e.g. \"On Hold\")")
	fs.StringVar(&o.verify, "verify", "", "verify the update with this id on -project")
	fs.StringVar(&o.dailySummary, "daily", "", "submit a daily report with this summary to -project")
	fs.StringVar(&o.dailyDesc, "desc", "", "work description of the daily report")
	fs.IntVar(&o.dailyPoints, "points", 0, "progress points of the daily report")
	fs.StringVar(&o.dailyPhoto, "photo", "", "photo reference of the daily report")
	fs.StringVar(&o.dailyVolume, "volume", "", "new work volume reported with the daily report")
	fs.StringVar(&o.dailyCost, "cost", "", "new total cost reported with the daily report")
	fs.StringVar(&o.newUser, "create-user", "", "create a user (super admin only)")
	fs.StringVar(&o.newPassword, "create-pass", "", "password of the new user")
	fs.StringVar(&o.newRole, "create-role", "Admin Lapangan", "role of the new user")
	fs.BoolVar(&o.listUsers, "users", false, "list users (super admin only)")
	fs.StringVar(&o.addName, "add-project", "", "add a project with this name (admin area)")
	fs.StringVar(&o.addDesc, "add-desc", "", "description of the new project")
	fs.StringVar(&o.addStart, "add-start", "", "start date of the new project (2006-01-02)")
	fs.StringVar(&o.addEnd, "add-end", "", "end date of the new project (2006-01-02)")
	fs.StringVar(&o.addVolume, "add-volume", "", "work volume of the new project")
	fs.Float64Var(&o.addCost, "add-cost", 0, "total cost of the new project")
	fs.StringVar(&o.addFieldAdmin, "add-field-admin", "", "username of the field admin assigned to the new project")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	return &o, nil
}

func run(ctx context.Context, cfg *config.Config, args []string, out io.Writer) (err error) {
	o, err := parseFlags(args, out)
	if err != nil {
		return err
	}

	a, err := newApp(ctx, cfg, out)
	if err != nil {
		return err
	}
	a.dispatcher.Start(ctx)
	defer a.dispatcher.Stop()

	if cfg.MetricsFile != "" {
		defer func() {
			if werr := metrics.WriteTextfile(cfg.MetricsFile); werr != nil {
				err = errors.Join(err, werr)
			}
		}()
	}

	if o.username != "" {
		if _, err := a.auth.Authenticate(ctx, o.username, o.password); err != nil {
			return err
		}
	}

	if o.newUser != "" {
		if err := a.createUser(ctx, o); err != nil {
			return err
		}
	}
	if o.listUsers {
		if err := a.listUsers(ctx); err != nil {
			return err
		}
	}
	if o.addName != "" {
		if err := a.addProject(ctx, o); err != nil {
			return err
		}
	}
	if o.importPath != "" {
		if err := a.importFile(ctx, o.importPath); err != nil {
			return err
		}
	}
	if o.projectID != "" {
		if err := a.projectCommands(ctx, o); err != nil {
			return err
		}
	}
	if o.list {
		if _, err := a.requireUser(); err != nil {
			return err
		}
		a.listProjects(ctx)
	}
	return nil
}

func (a *app) requireUser() (*domain.User, error) {
	u := a.auth.CurrentUser()
	if u == nil {
		return nil, fmt.Errorf("login required: %w", domain.ErrForbidden)
	}
	return u, nil
}

func (a *app) createUser(ctx context.Context, o *options) error {
	actor, err := a.requireUser()
	if err != nil {
		return err
	}
	role, err := domain.ParseRole(o.newRole)
	if err != nil {
		return err
	}
	in := ports.CreateUserInput{Username: o.newUser, Password: o.newPassword, Role: role}
	if err := a.validator.Validate(in); err != nil {
		return err
	}
	u, err := a.auth.CreateUserAs(ctx, actor, in)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "created user %s (%s)\n", u.Username, u.Role.Label())
	return nil
}

func (a *app) listUsers(ctx context.Context) error {
	actor, err := a.requireUser()
	if err != nil {
		return err
	}
	if !policy.CanManageUsers(actor.Role) {
		return fmt.Errorf("list users: %w", domain.ErrForbidden)
	}

	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "USERNAME\tNAME\tROLE")
	for _, u := range a.auth.Users(ctx) {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", u.Username, u.DisplayName, u.Role.Label())
	}
	return tw.Flush()
}

func (a *app) addProject(ctx context.Context, o *options) error {
	actor, err := a.requireUser()
	if err != nil {
		return err
	}
	if !policy.CanAccessAdminArea(actor.Role) {
		return fmt.Errorf("add project: %w", domain.ErrForbidden)
	}

	in := ports.AddProjectInput{
		Name:                       o.addName,
		Description:                o.addDesc,
		StartDate:                  o.addStart,
		EndDate:                    o.addEnd,
		WorkVolume:                 o.addVolume,
		TotalCost:                  o.addCost,
		AssignedFieldAdminUsername: o.addFieldAdmin,
	}
	if err := a.validator.Validate(in); err != nil {
		return err
	}
	p, err := a.projects.AddProject(ctx, in)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "added project %s (%s)\n", p.ID, p.Name)
	return nil
}

func (a *app) importFile(ctx context.Context, path string) error {
	actor, err := a.requireUser()
	if err != nil {
		return err
	}
	if !policy.CanAccessAdminArea(actor.Role) {
		return fmt.Errorf("import projects: %w", domain.ErrForbidden)
	}

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open csv: %w", err)
	}
	defer f.Close()

	res, err := a.importer.Import(ctx, f)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "imported %d projects, skipped %d lines\n", len(res.Created), res.Skipped)
	return nil
}

// projectCommands runs every -project action. All of them, reads included,
// need a session.
func (a *app) projectCommands(ctx context.Context, o *options) error {
	actor, err := a.requireUser()
	if err != nil {
		return err
	}

	if o.dailySummary != "" {
		if err := a.submitDaily(ctx, o); err != nil {
			return err
		}
	}
	if o.verify != "" || o.status != "" {
		p, err := a.projects.Project(ctx, o.projectID)
		if err != nil {
			return err
		}
		if !a.projects.CanHandle(actor, p) {
			return fmt.Errorf("project %s: %w", o.projectID, domain.ErrForbidden)
		}
		if o.verify != "" {
			if err := a.projects.VerifyUpdate(ctx, o.projectID, o.verify); err != nil {
				return err
			}
		}
		if o.status != "" {
			st, err := domain.ParseStatus(o.status)
			if err != nil {
				return err
			}
			if err := a.projects.UpdateProjectStatus(ctx, o.projectID, st); err != nil {
				return err
			}
		}
	}

	p, err := a.projects.Project(ctx, o.projectID)
	if err != nil {
		return err
	}
	if o.report {
		a.printReport(p)
	}
	if o.export {
		path, err := csvio.WriteUpdatesFile(o.outDir, p)
		if err != nil {
			return err
		}
		fmt.Fprintf(a.out, "exported %s\n", path)
	}
	return nil
}

func (a *app) submitDaily(ctx context.Context, o *options) error {
	actor, err := a.requireUser()
	if err != nil {
		return err
	}

	in := ports.DailyReportInput{
		Summary:         o.dailySummary,
		WorkDescription: o.dailyDesc,
		Photo:           o.dailyPhoto,
		ProgressMade:    o.dailyPoints,
	}
	if o.dailyVolume != "" {
		in.WorkVolume = &o.dailyVolume
	}
	if o.dailyCost != "" {
		cost, err := strconv.ParseFloat(o.dailyCost, 64)
		if err != nil {
			return fmt.Errorf("parse -cost: %w", err)
		}
		in.TotalCost = &cost
	}
	if err := a.validator.Validate(in); err != nil {
		return err
	}

	result := make(chan error, 1)
	a.dispatcher.Enqueue(queue.ReportJob{
		Actor:     actor,
		ProjectID: o.projectID,
		Input:     in,
		Done:      func(_ *domain.ProgressUpdate, err error) { result <- err },
	})
	select {
	case err := <-result:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (a *app) listProjects(ctx context.Context) {
	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tSTATUS\tPROGRESS\tUPDATES\tFIELD ADMIN")
	for _, p := range a.projects.Projects(ctx) {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d%%\t%d\t%s\n",
			p.ID, p.Name, p.Status.Label(), p.Progress, len(p.Updates), p.AssignedFieldAdminUsername)
	}
	tw.Flush()
}

func (a *app) printReport(p *domain.Project) {
	fmt.Fprintf(a.out, "%s: %s, %d%%\n", p.Name, p.Status.Label(), p.Progress)
	if date, ok := a.projects.CompletionDate(p); ok {
		fmt.Fprintf(a.out, "completed on %s\n", date)
	}
	for _, m := range a.projects.MonthlyReports(p) {
		fmt.Fprintf(a.out, "\n%s\n", m.Month)
		for _, u := range m.Updates {
			mark := " "
			if u.Verified {
				mark = "✓"
			}
			fmt.Fprintf(a.out, "  [%s] %s  +%d%%  %s (%s)\n", mark, u.Date, u.ProgressMade, u.Summary, u.Author)
		}
	}
}
