package app

import (
	"context"
	"fmt"
	"time"

	"coursebell/internal/api"
	"coursebell/internal/config"
	"coursebell/internal/notify"
	"coursebell/internal/reminder"
	"coursebell/internal/scheduler"
	"coursebell/internal/storage"
	logx "coursebell/pkg/logx"
)

// Config section mappings. Each parses the duration strings once and
// surfaces bad values as construction errors.

func schedulerConfig(cfg *config.Config) (sc scheduler.Config, err error) {
	timeout, err := config.ParseDurationOrDefault("scheduler.default_timeout", cfg.Scheduler.DefaultTimeout, time.Minute)
	if err != nil {
		return sc, err
	}
	sc.Enabled = cfg.Scheduler.Enabled
	sc.Workers = cfg.Scheduler.Workers
	sc.DefaultTimeout = timeout
	sc.HistorySize = cfg.Scheduler.HistorySize
	sc.Timezone = cfg.Scheduler.Timezone
	return sc, nil
}

func apiConfig(cfg *config.Config) (api.Config, error) {
	timeout, err := config.ParseDurationOrDefault("api.timeout", cfg.API.Timeout, 10*time.Second)
	if err != nil {
		return api.Config{}, err
	}
	return api.Config{
		BaseURL:    cfg.API.BaseURL,
		Token:      cfg.API.Token,
		Timeout:    timeout,
		RatePerSec: cfg.API.RatePerSec,
	}, nil
}

func reminderConfig(cfg *config.Config) (reminder.Config, error) {
	r := cfg.Reminder
	check, err := config.ParseDurationOrDefault("reminder.check_interval", r.CheckInterval, 30*time.Minute)
	if err != nil {
		return reminder.Config{}, err
	}
	window, err := config.ParseDurationOrDefault("reminder.window", r.Window, reminder.DefaultWindow)
	if err != nil {
		return reminder.Config{}, err
	}
	pcInterval, err := config.ParseDurationOrDefault("reminder.postclass_interval", r.PostClassInterval, 10*time.Minute)
	if err != nil {
		return reminder.Config{}, err
	}
	pcWindow, err := config.ParseDurationOrDefault("reminder.postclass_window", r.PostClassWindow, reminder.DefaultPostClassWindow)
	if err != nil {
		return reminder.Config{}, err
	}
	// Reject a bad daily time here so a hot-reload never reaches line
	// re-registration with a cadence that cannot be parsed.
	if r.DailyAt != "" {
		if _, _, err := scheduler.ParseHHMM(r.DailyAt); err != nil {
			return reminder.Config{}, fmt.Errorf("reminder.daily_at: %w", err)
		}
	}
	return reminder.Config{
		CheckInterval:     check,
		DailyAt:           r.DailyAt,
		Window:            window,
		PostClassInterval: pcInterval,
		PostClassWindow:   pcWindow,
	}, nil
}

func openStorage(cfg *config.Config, log logx.Logger) (storage.Store, error) {
	if cfg.Storage == nil {
		return nil, nil
	}
	busy, err := config.ParseDurationField("storage.busy_timeout", cfg.Storage.BusyTimeout)
	if err != nil {
		return nil, err
	}
	return storage.Open(storage.Config{
		Driver:      cfg.Storage.Driver,
		Path:        cfg.Storage.Path,
		BusyTimeout: busy,
	}, log)
}

// buildSinks assembles the delivery sinks. A broken optional sink is
// logged and skipped, never fatal: a missed forward costs one nudge, and
// the next cadence tick regenerates it.
func buildSinks(cfg *config.Config, log logx.Logger) []notify.Sink {
	var sinks []notify.Sink
	if cfg.Notify.Console {
		sinks = append(sinks, notify.NewConsoleSink(nil))
	}
	if tg := cfg.Notify.Telegram; tg != nil && tg.Enabled {
		timeout, err := config.ParseDurationOrDefault("notify.telegram.poll_timeout", tg.PollTimeout, 10*time.Second)
		if err != nil {
			log.Warn("telegram sink disabled", logx.Err(err))
			return sinks
		}
		sink, err := notify.NewTelegramSink(notify.TelegramConfig{
			Token:       tg.Token,
			ChatID:      tg.ChatID,
			PollTimeout: timeout,
		}, log.With(logx.String("comp", "telegram")))
		if err != nil {
			log.Warn("telegram sink disabled", logx.Err(err))
			return sinks
		}
		sinks = append(sinks, sink)
	}
	return sinks
}

// validateConfig is the hot-reload gate: a config revision that fails here
// is rejected without touching the running services.
func validateConfig(ctx context.Context, cfg *config.Config) error {
	_ = ctx
	if cfg == nil {
		return fmt.Errorf("config is nil")
	}
	if _, err := reminderConfig(cfg); err != nil {
		return err
	}
	if _, err := apiConfig(cfg); err != nil {
		return err
	}
	if _, err := schedulerConfig(cfg); err != nil {
		return err
	}
	return nil
}
