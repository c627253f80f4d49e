package notify

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	logx "coursebell/pkg/logx"
)

// ConsoleSink renders deliveries as plain lines. It is the default stand-in
// for the web UI that consumed these broadcasts in the original client.
type ConsoleSink struct {
	mu  sync.Mutex
	out io.Writer
}

func NewConsoleSink(out io.Writer) *ConsoleSink {
	if out == nil {
		out = logx.Stdout()
	}
	return &ConsoleSink{out: out}
}

func (c *ConsoleSink) Name() string { return "console" }

func (c *ConsoleSink) Deliver(ctx context.Context, d Delivery) error {
	_ = ctx
	var line string
	switch d.Channel {
	case "modal":
		n := d.Notice
		line = fmt.Sprintf("[REMINDER] %s on %s at %s%s", n.CourseName, n.ScheduleDate, n.StartTime, endSuffix(n.EndTime))
	case "toast":
		n := d.Notice
		line = fmt.Sprintf("[tomorrow] %s at %s", n.CourseName, n.StartTime)
	case "confirm":
		cf := d.Confirmation
		line = fmt.Sprintf("[CONFIRM ATTENDANCE] %s %s-%s", cf.Course.Name, cf.Schedule.StartTime, cf.Schedule.EndTime)
	default:
		return nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	_, err := io.WriteString(c.out, line+"\n")
	return err
}

func endSuffix(end string) string {
	if strings.TrimSpace(end) == "" {
		return ""
	}
	return "-" + end
}
