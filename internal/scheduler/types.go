package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

// Config controls the trigger service.
type Config struct {
	Enabled        bool
	Workers        int
	DefaultTimeout time.Duration
	HistorySize    int
	Timezone       string // IANA TZ, e.g. "Asia/Shanghai"
	RetryMax       int    // max retries per task run (default 1)
}

type OverlapPolicy int

const (
	// OverlapSkipIfRunning drops a tick while the previous run of the same
	// line is still executing. This is the default: the reminder pipeline is
	// idempotent per cycle, so a skipped tick is cheaper than a pile-up.
	OverlapSkipIfRunning OverlapPolicy = iota
	OverlapAllow
)

type TaskOptions struct {
	Overlap   OverlapPolicy
	RetryMax  int
	RetryBase time.Duration
}

func (o TaskOptions) withDefaults(cfg Config) TaskOptions {
	if o.RetryMax <= 0 {
		o.RetryMax = cfg.RetryMax
	}
	if o.RetryMax < 0 {
		o.RetryMax = 0
	}
	if o.RetryBase <= 0 {
		o.RetryBase = 500 * time.Millisecond
	}
	return o
}

type runState struct {
	mu      sync.Mutex
	running bool
}

type HistoryItem struct {
	ID       string
	Name     string
	Started  time.Time
	Duration time.Duration
	Error    string
}

type task struct {
	id      string
	name    string
	timeout time.Duration
	run     func(ctx context.Context) error
	opt     TaskOptions
	state   *runState
}

type lineDef struct {
	id      string
	name    string
	spec    string // cron spec or @every
	timeout time.Duration
	job     func(ctx context.Context) error
	entryID cron.EntryID
	opt     TaskOptions
	state   *runState
}

// TaskEvent is the bus payload for task.* lifecycle events.
type TaskEvent struct {
	ID       string
	Name     string
	Started  time.Time
	Duration time.Duration
	Attempts int
	Error    string
}

type LineInfo struct {
	ID      string
	Name    string
	Spec    string
	Timeout time.Duration
	Next    time.Time
	Prev    time.Time
}

type Snapshot struct {
	Enabled  bool
	Timezone string
	Workers  int
	QueueLen int
	Lines    []LineInfo
	History  []HistoryItem
}
