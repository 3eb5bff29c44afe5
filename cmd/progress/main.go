package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/sitepulse/progress-tracker/internal/core/domain"
	"github.com/sitepulse/progress-tracker/internal/core/service"
	"github.com/sitepulse/progress-tracker/internal/infrastructure/config"
	"github.com/sitepulse/progress-tracker/internal/infrastructure/credential"
	"github.com/sitepulse/progress-tracker/internal/infrastructure/csvio"
	"github.com/sitepulse/progress-tracker/internal/infrastructure/memory"
	"github.com/sitepulse/progress-tracker/internal/infrastructure/queue"
	"github.com/sitepulse/progress-tracker/internal/infrastructure/seed"
	"github.com/sitepulse/progress-tracker/internal/validation"
	"github.com/sitepulse/progress-tracker/pkg/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  !cfg.Production(),
		Service: "progress",
	})

	if err := run(ctx, cfg, os.Args[1:], os.Stdout); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		log.Error().Err(err).Msg("command failed")
		os.Exit(1)
	}
}

// app holds the wired services for one CLI invocation.
type app struct {
	auth       *service.AuthService
	projects   *service.ProjectService
	importer   *csvio.Importer
	dispatcher *queue.Dispatcher
	validator  *validation.Validator
	out        io.Writer
}

// newApp wires stores and services. logger.Init must have been called.
func newApp(ctx context.Context, cfg *config.Config, out io.Writer) (*app, error) {
	enc, err := credential.New(cfg.PasswordScheme)
	if err != nil {
		return nil, err
	}

	users := memory.NewUserStore()
	projects := memory.NewProjectStore()
	if cfg.SeedDemo {
		if err := seed.Load(ctx, users, projects, enc); err != nil {
			return nil, err
		}
		log := logger.Get()
		log.Debug().Msg("demo data loaded")
	}

	notifierLog := logger.Component("notifier")
	notifier := service.NewNotifier()
	notifier.Subscribe(func(c domain.Change) {
		notifierLog.Trace().Str("kind", string(c.Kind)).Str("project_id", c.ProjectID).Msg("state changed")
	})

	projectSvc := service.NewProjectService(projects, notifier, logger.Component("projects"))
	return &app{
		auth:       service.NewAuthService(users, enc, notifier, cfg.JWTSecret, cfg.TokenTTL, logger.Component("auth")),
		projects:   projectSvc,
		importer:   csvio.NewImporter(projectSvc, logger.Component("csv")),
		dispatcher: queue.NewDispatcher(cfg.ReportWorkers, projectSvc, logger.Component("dispatcher")),
		validator:  validation.New(),
		out:        out,
	}, nil
}
