package storage

import (
	"errors"
	"time"
)

var ErrDisabled = errors.New("storage disabled")

// Config configures storage.
//
// Driver values:
//   - "file": dependency-free file backend (jsonl)
//   - "sqlite": SQLite database file (optional build tag)
//
// If Driver is empty or "none", storage is disabled.
type Config struct {
	Driver      string
	Path        string
	BusyTimeout time.Duration // sqlite only; 0 means default
}

// NoticeEntry records one fired notification.
// Keep it compact and schema-stable.
type NoticeEntry struct {
	At           time.Time
	Channel      string // "modal", "toast", "confirm"
	CourseID     string
	CourseName   string
	ScheduleDate string
	StartTime    string
	EndTime      string
}
