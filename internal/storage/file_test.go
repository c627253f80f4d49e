package storage

import (
	"bufio"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	logx "coursebell/pkg/logx"
)

func TestOpenDisabled(t *testing.T) {
	for _, driver := range []string{"", "none", " None "} {
		st, err := Open(Config{Driver: driver}, logx.Nop())
		if err != nil {
			t.Fatalf("Open(%q): %v", driver, err)
		}
		if st != nil {
			t.Fatalf("Open(%q): expected nil store", driver)
		}
	}
}

func TestOpenUnknownDriver(t *testing.T) {
	if _, err := Open(Config{Driver: "cassandra"}, logx.Nop()); err == nil {
		t.Fatalf("expected error for unknown driver")
	}
}

func TestFileStoreAppendNotice(t *testing.T) {
	dir := t.TempDir()
	st, err := Open(Config{Driver: "file", Path: filepath.Join(dir, "coursebell")}, logx.Nop())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	at := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	entries := []NoticeEntry{
		{At: at, Channel: "modal", CourseID: "12", CourseName: "Algebra", ScheduleDate: "2025-03-10", StartTime: "15:00", EndTime: "16:30"},
		{At: at.Add(time.Minute), Channel: "toast", CourseID: "13", CourseName: "Physics", ScheduleDate: "2025-03-11", StartTime: "09:00"},
	}
	for _, e := range entries {
		if err := st.AppendNotice(context.Background(), e); err != nil {
			t.Fatalf("AppendNotice: %v", err)
		}
	}
	if err := st.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	f, err := os.Open(filepath.Join(dir, "coursebell.notices.jsonl"))
	if err != nil {
		t.Fatalf("open notices file: %v", err)
	}
	defer f.Close()

	var lines []noticeRecord
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		var rec noticeRecord
		if err := json.Unmarshal(sc.Bytes(), &rec); err != nil {
			t.Fatalf("bad jsonl line %q: %v", sc.Text(), err)
		}
		lines = append(lines, rec)
	}
	if err := sc.Err(); err != nil {
		t.Fatalf("scan: %v", err)
	}

	if len(lines) != 2 {
		t.Fatalf("expected 2 records, got %d", len(lines))
	}
	if lines[0].Channel != "modal" || lines[0].CourseID != "12" || lines[0].EndTime != "16:30" {
		t.Fatalf("unexpected first record: %+v", lines[0])
	}
	if lines[1].Channel != "toast" || lines[1].EndTime != "" {
		t.Fatalf("unexpected second record: %+v", lines[1])
	}
}

func TestFileStoreAppendAfterClose(t *testing.T) {
	st, err := Open(Config{Driver: "file", Path: filepath.Join(t.TempDir(), "x")}, logx.Nop())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := st.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := st.AppendNotice(context.Background(), NoticeEntry{Channel: "modal"}); err == nil {
		t.Fatalf("expected error appending after close")
	}
	if err := st.Close(); err != nil {
		t.Fatalf("second Close must be a no-op: %v", err)
	}
}

func TestFileStoreRequiresPath(t *testing.T) {
	if _, err := Open(Config{Driver: "file"}, logx.Nop()); err == nil {
		t.Fatalf("expected error for missing path")
	}
}
