package notify

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	tele "gopkg.in/telebot.v4"

	logx "coursebell/pkg/logx"
)

// TelegramConfig configures the optional Telegram forwarder.
type TelegramConfig struct {
	Token       string
	ChatID      int64
	PollTimeout time.Duration
}

// TelegramSink forwards reminders to a Telegram chat. Useful when the
// tracker's web UI isn't open anywhere but you still want the nudge.
type TelegramSink struct {
	bot  *tele.Bot
	chat tele.ChatID
	log  logx.Logger
}

func NewTelegramSink(cfg TelegramConfig, log logx.Logger) (*TelegramSink, error) {
	if strings.TrimSpace(cfg.Token) == "" {
		return nil, errors.New("telegram token is empty")
	}
	if cfg.ChatID == 0 {
		return nil, errors.New("telegram chat_id is required")
	}
	timeout := cfg.PollTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	b, err := tele.NewBot(tele.Settings{
		Token:  cfg.Token,
		Poller: &tele.LongPoller{Timeout: timeout},
	})
	if err != nil {
		return nil, err
	}
	if log.IsZero() {
		log = logx.Nop()
	}
	return &TelegramSink{bot: b, chat: tele.ChatID(cfg.ChatID), log: log}, nil
}

func (t *TelegramSink) Name() string { return "telegram" }

func (t *TelegramSink) Deliver(ctx context.Context, d Delivery) error {
	_ = ctx // telebot manages its own request deadlines

	var text string
	switch d.Channel {
	case "modal":
		n := d.Notice
		text = fmt.Sprintf("🔔 Class reminder: %s\n%s %s%s", n.CourseName, n.ScheduleDate, n.StartTime, endSuffix(n.EndTime))
	case "toast":
		n := d.Notice
		text = fmt.Sprintf("📅 Tomorrow at %s: %s", n.StartTime, n.CourseName)
	case "confirm":
		cf := d.Confirmation
		text = fmt.Sprintf("✅ Confirm attendance: %s (%s-%s)", cf.Course.Name, cf.Schedule.StartTime, cf.Schedule.EndTime)
	default:
		return nil
	}

	_, err := t.bot.Send(t.chat, text, &tele.SendOptions{DisableWebPagePreview: true})
	return err
}
