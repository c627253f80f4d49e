package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	logx "coursebell/pkg/logx"
)

var ErrNotConfigured = errors.New("api: base_url not configured")

// StatusError is returned for non-2xx responses and for success=false envelopes.
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("api: status %d: %s", e.Code, e.Message)
	}
	return fmt.Sprintf("api: status %d", e.Code)
}

type Config struct {
	BaseURL    string
	Token      string
	Timeout    time.Duration
	RatePerSec int
}

// Client talks to the course-tracker backend.
//
// It is safe for concurrent use. All calls honor ctx and the configured
// request timeout; a politeness limiter bounds outbound request rate so
// overlapping timer lines can't stampede the backend.
type Client struct {
	base    *url.URL
	token   string
	http    *http.Client
	limiter *rate.Limiter
	log     logx.Logger
}

func New(cfg Config, log logx.Logger) (*Client, error) {
	raw := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if raw == "" {
		return nil, ErrNotConfigured
	}
	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("api: invalid base_url: %w", err)
	}
	if log.IsZero() {
		log = logx.Nop()
	}

	timeout := cfg.Timeout
	if timeout < 0 {
		timeout = 0
	}
	rps := cfg.RatePerSec
	if rps <= 0 {
		rps = 5
	}

	return &Client{
		base:    u,
		token:   strings.TrimSpace(cfg.Token),
		http:    &http.Client{Timeout: timeout},
		limiter: rate.NewLimiter(rate.Limit(rps), rps),
		log:     log,
	}, nil
}

// DueReminders pulls the reminders the backend considers due
// (courses starting within its reminder horizon).
func (c *Client) DueReminders(ctx context.Context) ([]Reminder, error) {
	var out []Reminder
	if err := c.getJSON(ctx, "/attendance/reminders", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// TodayCourses pulls today's courses with schedules and attendance state.
func (c *Client) TodayCourses(ctx context.Context) ([]TodayCourse, error) {
	var out []TodayCourse
	if err := c.getJSON(ctx, "/courses/today", &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	u := *c.base
	u.Path = strings.TrimRight(u.Path, "/") + path

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("api: GET %s: %w", path, err)
	}
	defer resp.Body.Close()

	// Cap the body read; these endpoints return small lists.
	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return fmt.Errorf("api: GET %s: read body: %w", path, err)
	}

	c.log.Debug("api request",
		logx.String("path", path),
		logx.Int("status", resp.StatusCode),
		logx.Duration("dur", time.Since(start)),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &StatusError{Code: resp.StatusCode, Message: snippet(body)}
	}

	var env envelope[json.RawMessage]
	if err := json.Unmarshal(body, &env); err != nil {
		return fmt.Errorf("api: GET %s: decode envelope: %w", path, err)
	}
	if !env.Success {
		return &StatusError{Code: resp.StatusCode, Message: env.Message}
	}
	// A null data field means "no items"; leave out at its zero value.
	if len(env.Data) == 0 || string(env.Data) == "null" {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("api: GET %s: decode data: %w", path, err)
	}
	return nil
}

func snippet(b []byte) string {
	s := strings.TrimSpace(string(b))
	if len(s) > 200 {
		s = s[:200]
	}
	return s
}
