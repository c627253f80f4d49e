package config

type Config struct {
	API     APIConfig     `json:"api"`
	Logging LoggingConfig `json:"logging"`

	// Scheduler controls the trigger service the reminder lines run on.
	Scheduler SchedulerConfig `json:"scheduler"`

	// Reminder controls the reminder pipeline cadences and windows.
	// All durations are Go duration strings (e.g. "30m", "24h").
	Reminder ReminderConfig `json:"reminder"`

	Notify  NotifyConfig   `json:"notify"`
	Storage *StorageConfig `json:"storage,omitempty"`
}

// APIConfig points at the course-tracker backend.
type APIConfig struct {
	BaseURL string `json:"base_url"`
	// Token is the bearer token for authenticated endpoints. Do not log.
	Token string `json:"token"`
	// Timeout is a Go duration string (e.g. "10s"). Use "0s" to disable.
	Timeout string `json:"timeout,omitempty"`
	// RatePerSec bounds outbound request rate. 0 means default (5).
	RatePerSec int `json:"rate_per_sec,omitempty"`
}

type LoggingConfig struct {
	Level   string      `json:"level"`
	Console bool        `json:"console"`
	File    LoggingFile `json:"file"`
}

type LoggingFile struct {
	Enabled bool   `json:"enabled"`
	Path    string `json:"path"`
}

// SchedulerConfig controls the trigger service.
type SchedulerConfig struct {
	Enabled bool `json:"enabled"`
	Workers int  `json:"workers,omitempty"`
	// DefaultTimeout is a Go duration string (e.g. "1m").
	// Use "0s" to disable a global default timeout.
	DefaultTimeout string `json:"default_timeout,omitempty"`
	HistorySize    int    `json:"history_size,omitempty"`
	// Trigger timezone (IANA TZ, e.g. "Asia/Shanghai"). Empty means local.
	Timezone string `json:"timezone,omitempty"`
}

// ReminderConfig tunes the reminder and post-class lines.
//
// Defaults (when fields are omitted/zero):
//   - check_interval: "30m"
//   - daily_at: "09:00"
//   - window: "24h"
//   - postclass_interval: "10m"
//   - postclass_window: "2h"
type ReminderConfig struct {
	// CheckInterval is the recurring pipeline cadence.
	CheckInterval string `json:"check_interval,omitempty"`
	// DailyAt is a wall-clock HH:MM in the scheduler timezone.
	DailyAt string `json:"daily_at,omitempty"`
	// Window is the modal suppression/eligibility window around a course start.
	Window string `json:"window,omitempty"`
	// PostClassInterval is the attendance-confirmation scan cadence.
	PostClassInterval string `json:"postclass_interval,omitempty"`
	// PostClassWindow is how long after a class ends it remains confirmable.
	PostClassWindow string `json:"postclass_window,omitempty"`
}

// NotifyConfig controls the delivery sinks subscribed to the event bus.
type NotifyConfig struct {
	// Console enables the console renderer (the default UI stand-in).
	Console bool `json:"console"`
	// ToastRatePerSec bounds repeated toast delivery per course; toasts are
	// not deduplicated upstream, so the delivery edge is where repetition
	// gets tamed. Distinct courses never limit each other. 0 means default (1).
	ToastRatePerSec int `json:"toast_rate_per_sec,omitempty"`
	// Telegram optionally forwards reminders to a Telegram chat.
	Telegram *TelegramNotify `json:"telegram,omitempty"`
}

type TelegramNotify struct {
	Enabled bool   `json:"enabled"`
	Token   string `json:"token"`
	ChatID  int64  `json:"chat_id"`
	// PollTimeout is a Go duration string (e.g. "10s").
	PollTimeout string `json:"poll_timeout,omitempty"`
}

// StorageConfig controls the optional notice audit log.
//
// Driver values:
//   - "file": dependency-free file backend (jsonl)
//   - "sqlite": SQLite database file
//
// If the section is omitted or driver is "none", auditing is disabled.
type StorageConfig struct {
	Driver      string `json:"driver"`
	Path        string `json:"path"`
	BusyTimeout string `json:"busy_timeout,omitempty"` // Go duration string (sqlite)
}
