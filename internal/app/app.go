// Package app wires configuration, logging, the API client, the trigger
// service and the reminder pipeline into one start/stoppable unit.
package app

import (
	"context"
	"fmt"

	"coursebell/internal/api"
	"coursebell/internal/config"
	"coursebell/internal/eventbus"
	"coursebell/internal/notify"
	"coursebell/internal/reminder"
	"coursebell/internal/runtime/supervisor"
	"coursebell/internal/scheduler"
	"coursebell/internal/storage"
	logx "coursebell/pkg/logx"
)

type App struct {
	cfgPath string

	cfgm *config.Manager
	sup  *supervisor.Supervisor

	log  logx.Logger
	logs *logx.Service

	bus   eventbus.Bus
	sched *scheduler.Service
	rem   *reminder.Service
	notif *notify.Service
	store storage.Store
}

func New(cfgPath string) (*App, error) {
	cfgm := config.NewManager(cfgPath)
	cfg, err := cfgm.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	logSvc, log := logx.New(logx.Config{
		Level:   cfg.Logging.Level,
		Console: cfg.Logging.Console,
		File: logx.FileConfig{
			Enabled: cfg.Logging.File.Enabled,
			Path:    cfg.Logging.File.Path,
		},
	})
	log = log.With(logx.String("comp", "app"))
	cfgm.SetLogger(log.With(logx.String("comp", "config")))
	cfgm.SetValidator(validateConfig)

	bus := eventbus.New()

	schedCfg, err := schedulerConfig(cfg)
	if err != nil {
		return nil, err
	}
	sched := scheduler.New(schedCfg, log.With(logx.String("comp", "scheduler")), bus)

	apiCfg, err := apiConfig(cfg)
	if err != nil {
		return nil, err
	}
	client, err := api.New(apiCfg, log.With(logx.String("comp", "api")))
	if err != nil {
		return nil, err
	}

	store, err := openStorage(cfg, log.With(logx.String("comp", "storage")))
	if err != nil {
		return nil, err
	}

	remCfg, err := reminderConfig(cfg)
	if err != nil {
		return nil, err
	}
	rem := reminder.New(remCfg, reminder.Deps{
		Reminders: client,
		Courses:   client,
		Bus:       bus,
		Scheduler: sched,
		Audit:     store,
		Location:  sched.Location(),
		Log:       log.With(logx.String("comp", "reminder")),
	})

	notif := notify.New(
		notify.Config{ToastRatePerSec: cfg.Notify.ToastRatePerSec},
		bus,
		log.With(logx.String("comp", "notify")),
		buildSinks(cfg, log)...,
	)

	return &App{
		cfgPath: cfgPath,
		cfgm:    cfgm,
		log:     log,
		logs:    logSvc,
		bus:     bus,
		sched:   sched,
		rem:     rem,
		notif:   notif,
		store:   store,
	}, nil
}

// Bus exposes the event bridge (for embedding and tests).
func (a *App) Bus() eventbus.Bus { return a.bus }

func (a *App) Start(ctx context.Context) error {
	a.sup = supervisor.New(ctx,
		supervisor.WithLogger(a.log.With(logx.String("comp", "supervisor"))),
	)

	a.sched.Start(a.sup.Context())
	a.notif.Start(a.sup.Context())
	if err := a.rem.Start(a.sup.Context()); err != nil {
		return fmt.Errorf("start reminder service: %w", err)
	}

	// Config hot-reload: watch the file and re-apply the reloadable parts.
	a.sup.Go("config.watch", a.cfgm.Watch)
	updates := a.cfgm.Subscribe(1)
	a.sup.Go("config.reload", func(ctx context.Context) error {
		defer a.cfgm.Unsubscribe(updates)
		for {
			select {
			case <-ctx.Done():
				return nil
			case cfg, ok := <-updates:
				if !ok {
					return nil
				}
				a.applyConfig(cfg)
			}
		}
	})

	a.log.Info("coursebell started")
	return nil
}

// applyConfig re-applies the hot-reloadable parts: log sinks/levels and
// reminder cadences. API endpoint, storage driver and sink set are
// construction-time only; changing those needs a restart.
func (a *App) applyConfig(cfg *config.Config) {
	if cfg == nil {
		return
	}
	a.logs.Apply(logx.Config{
		Level:   cfg.Logging.Level,
		Console: cfg.Logging.Console,
		File: logx.FileConfig{
			Enabled: cfg.Logging.File.Enabled,
			Path:    cfg.Logging.File.Path,
		},
	})
	remCfg, err := reminderConfig(cfg)
	if err != nil {
		a.log.Warn("config reload: bad reminder section", logx.Err(err))
		return
	}
	a.rem.Apply(remCfg)
	a.log.Info("config re-applied")
}

// Done is closed when the supervisor context ends (fatal error or Stop()).
func (a *App) Done() <-chan struct{} {
	if a.sup == nil {
		ch := make(chan struct{})
		close(ch)
		return ch
	}
	return a.sup.Context().Done()
}

// Err returns the first fatal error observed by the supervisor (if any).
func (a *App) Err() error {
	if a.sup == nil {
		return nil
	}
	return a.sup.Err()
}

func (a *App) Stop(ctx context.Context) error {
	a.rem.Stop(ctx)
	a.notif.Stop(ctx)
	a.sched.Stop(ctx)
	if a.sup != nil {
		_ = a.sup.Stop(ctx)
	}
	if a.store != nil {
		_ = a.store.Close()
	}
	a.log.Info("coursebell stopped")
	_ = a.logs.Close()
	return nil
}
