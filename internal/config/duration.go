package config

import (
	"fmt"
	"strings"
	"time"
)

// Cadences and windows (reminder.check_interval, reminder.window, api.timeout,
// ...) are Go duration strings in the config file. They are parsed once, at
// construction or reload validation, never on the hot path.

// ParseDurationField parses one duration string. Empty means "unset" and
// yields 0; the caller decides whether 0 means disabled or default.
// Negative durations are always a config error.
func ParseDurationField(path, raw string) (time.Duration, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("%s: invalid duration %q: %w", path, raw, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("%s: duration must be >= 0", path)
	}
	return d, nil
}

// ParseDurationOrDefault is ParseDurationField for fields with a documented
// default (e.g. reminder.check_interval falls back to 30m when omitted).
func ParseDurationOrDefault(path, raw string, def time.Duration) (time.Duration, error) {
	d, err := ParseDurationField(path, raw)
	if err != nil {
		return 0, err
	}
	if d <= 0 {
		return def, nil
	}
	return d, nil
}
