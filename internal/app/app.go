package app

import (
	"context"
	"movierec/config"
	"movierec/internal/controllers"
	"movierec/internal/database"
	"movierec/internal/events"
	"movierec/internal/handlers/middleware"
	"movierec/internal/jobs"
	"movierec/internal/repositories"
	"movierec/internal/services"

	logger "github.com/Bparsons0904/goLogger"
)

type App struct {
	Database    database.DB
	Middleware  middleware.Middleware
	EventBus    *events.EventBus
	Config      config.Config
	Services    services.Service
	Repos       repositories.Repository
	Controllers controllers.Controllers
}

func New() (*App, error) {
	log := logger.New("app").Function("New")

	config, err := config.New()
	if err != nil {
		return &App{}, log.Err("failed to initialize config", err)
	}

	db, err := database.New(config)
	if err != nil {
		return &App{}, log.Err("failed to create database", err)
	}

	eventBus := events.New(db.Cache.Events, config)

	service, err := services.New(db, config, eventBus)
	if err != nil {
		return &App{}, log.Err("failed to create services", err)
	}

	repos := repositories.New(db)
	controllers := controllers.New(service, repos, db)

	if err := jobs.RegisterAllJobs(service.Scheduler, config, service); err != nil {
		return &App{}, log.Err("failed to register jobs", err)
	}

	app := &App{
		Database:    db,
		Config:      config,
		Middleware:  middleware.New(config),
		EventBus:    eventBus,
		Services:    service,
		Repos:       repos,
		Controllers: controllers,
	}

	if err := app.validate(); err != nil {
		return &App{}, log.Err("failed to validate app", err)
	}

	return app, nil
}

// Start loads the first snapshot and starts the scheduler. A failed load is
// logged and retried on the next request or hourly refresh.
func (a *App) Start(ctx context.Context) error {
	log := logger.New("app").Function("Start")

	if err := a.Services.Snapshot.Load(ctx); err != nil {
		log.Warn("initial snapshot load failed, serving fallbacks until reload", "error", err)
	}

	if a.Config.SchedulerEnabled {
		if err := a.Services.Scheduler.Start(ctx); err != nil {
			return log.Err("failed to start scheduler", err)
		}
	}

	return nil
}

func (a *App) validate() error {
	log := logger.New("app").Function("validate")
	if a.Database.SQL == nil {
		return log.ErrMsg("database is nil")
	}

	if a.Config == (config.Config{}) {
		return log.ErrMsg("config is nil")
	}

	nilChecks := []any{
		a.EventBus,
		a.Services.Transaction,
		a.Services.Scheduler,
		a.Services.Snapshot,
		a.Services.Recommendation,
		a.Services.SimilarMovies,
		a.Services.Popularity,
		a.Services.MovieActions,
		a.Controllers.Recommendation,
		a.Controllers.User,
		a.Controllers.Movie,
		a.Controllers.Admin,
		a.Repos.Movie,
		a.Repos.Rating,
	}

	for _, check := range nilChecks {
		if check == nil {
			return log.ErrMsg("nil check failed")
		}
	}

	return nil
}

func (a *App) Close() (err error) {
	if a.EventBus != nil {
		if closeErr := a.EventBus.Close(); closeErr != nil {
			err = closeErr
		}
	}

	if a.Services.Scheduler != nil {
		if closeErr := a.Services.Scheduler.Stop(context.Background()); closeErr != nil {
			err = closeErr
		}
	}

	if dbErr := a.Database.Close(); dbErr != nil {
		err = dbErr
	}

	return err
}
