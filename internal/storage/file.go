package storage

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	logx "coursebell/pkg/logx"
)

// fileStore is a dependency-free persistence backend.
//
// Notices go to <prefix>.notices.jsonl (append-only JSON Lines).
type fileStore struct {
	log logx.Logger

	mu         sync.Mutex
	noticeFile *os.File
}

type noticeRecord struct {
	At           string `json:"at"`
	Channel      string `json:"channel"`
	CourseID     string `json:"course_id"`
	CourseName   string `json:"course_name,omitempty"`
	ScheduleDate string `json:"schedule_date,omitempty"`
	StartTime    string `json:"start_time,omitempty"`
	EndTime      string `json:"end_time,omitempty"`
}

func openFile(cfg Config, log logx.Logger) (Store, error) {
	path := strings.TrimSpace(cfg.Path)
	if path == "" {
		return nil, errors.New("storage.path is required for file driver")
	}
	if log.IsZero() {
		log = logx.Nop()
	}

	dir := filepath.Dir(path)
	base := filepath.Base(path)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	prefix := filepath.Join(dir, base)

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}

	nf, err := os.OpenFile(prefix+".notices.jsonl", os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return nil, err
	}

	return &fileStore{log: log, noticeFile: nf}, nil
}

func (s *fileStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.noticeFile == nil {
		return nil
	}
	err := s.noticeFile.Close()
	s.noticeFile = nil
	return err
}

func (s *fileStore) AppendNotice(ctx context.Context, e NoticeEntry) error {
	_ = ctx
	if e.At.IsZero() {
		e.At = time.Now()
	}
	rec := noticeRecord{
		At:           e.At.Format(time.RFC3339Nano),
		Channel:      e.Channel,
		CourseID:     e.CourseID,
		CourseName:   e.CourseName,
		ScheduleDate: e.ScheduleDate,
		StartTime:    e.StartTime,
		EndTime:      e.EndTime,
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.noticeFile == nil {
		return errors.New("notice file closed")
	}
	return json.NewEncoder(s.noticeFile).Encode(rec)
}
