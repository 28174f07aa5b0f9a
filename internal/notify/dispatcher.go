package notify

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/tartampluch/birthday-hub/internal/config"
	"github.com/tartampluch/birthday-hub/internal/engine"
	"github.com/tartampluch/birthday-hub/internal/settings"
)

// Message is a rendered notification.
type Message struct {
	Title string
	Body  string
}

// Notifier delivers a message on the desktop.
type Notifier interface {
	Notify(msg Message) error
}

// NotifierFunc adapts a function to the Notifier interface.
type NotifierFunc func(Message) error

func (f NotifierFunc) Notify(msg Message) error { return f(msg) }

// Dispatcher sends planned reminders, remembering what went out today.
type Dispatcher struct {
	Desktop Notifier
	Clock   engine.Clock

	// FormatReminder and FormatDigest allow the UI to inject localized strings.
	FormatReminder func(Reminder) Message
	FormatDigest   func([]Reminder) Message

	mu   sync.Mutex
	day  string
	sent map[string]struct{}
}

// NewDispatcher creates a dispatcher delivering through desktop.
func NewDispatcher(desktop Notifier, clock engine.Clock) *Dispatcher {
	if clock == nil {
		clock = engine.RealClock{}
	}
	return &Dispatcher{
		Desktop: desktop,
		Clock:   clock,
		sent:    make(map[string]struct{}),
	}
}

// Dispatch delivers reminders not yet sent today and returns how many
// notifications went out. With DailyDigest a single summary replaces the
// individual messages. Failed deliveries are retried on the next call.
func (d *Dispatcher) Dispatch(reminders []Reminder, s settings.Settings) (int, error) {
	log := slog.With(config.LogKeyComponent, config.CompNotify)
	if len(reminders) == 0 {
		return 0, nil
	}

	if hasChannel(s, ChannelEmail) {
		log.Info(config.MsgEmailNoTrans, config.LogKeyCount, len(reminders))
	}
	if !hasChannel(s, ChannelDesktop) || d.Desktop == nil {
		return 0, nil
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	d.rollDay()

	if s.DailyDigest {
		key := config.DigestKeyPrefix + d.day
		if _, done := d.sent[key]; done {
			log.Debug(config.MsgNotifySkipped, config.LogKeyKey, key)
			return 0, nil
		}
		if err := d.Desktop.Notify(d.digest(reminders)); err != nil {
			return 0, fmt.Errorf("%s: %w", config.ErrNotifyFailed, err)
		}
		d.sent[key] = struct{}{}
		log.Info(config.MsgNotifySent, config.LogKeyKind, config.DigestKeyPrefix, config.LogKeyCount, len(reminders))
		return 1, nil
	}

	var errs []error
	count := 0
	for _, r := range reminders {
		key := r.Key()
		if _, done := d.sent[key]; done {
			log.Debug(config.MsgNotifySkipped, config.LogKeyKey, key)
			continue
		}
		if err := d.Desktop.Notify(d.message(r)); err != nil {
			errs = append(errs, err)
			continue
		}
		d.sent[key] = struct{}{}
		count++
		log.Info(config.MsgNotifySent,
			config.LogKeyKind, r.Kind,
			config.LogKeyID, r.Occurrence.Record.ID)
	}

	if err := errors.Join(errs...); err != nil {
		return count, fmt.Errorf("%s: %w", config.ErrNotifyFailed, err)
	}
	return count, nil
}

// rollDay forgets yesterday's deliveries. Callers hold d.mu.
func (d *Dispatcher) rollDay() {
	today := d.Clock.Now().Format(config.DateFormatISO)
	if today == d.day && d.sent != nil {
		return
	}
	d.day = today
	d.sent = make(map[string]struct{})
}

func (d *Dispatcher) message(r Reminder) Message {
	if d.FormatReminder != nil {
		return d.FormatReminder(r)
	}
	return DefaultReminderMessage(r)
}

func (d *Dispatcher) digest(reminders []Reminder) Message {
	if d.FormatDigest != nil {
		return d.FormatDigest(reminders)
	}
	return DefaultDigestMessage(reminders)
}

// DefaultReminderMessage renders r with the built-in English strings.
func DefaultReminderMessage(r Reminder) Message {
	name := r.Occurrence.Record.DisplayName
	if r.Kind == KindOnDay {
		return Message{
			Title: config.FallbackOnDayTitle,
			Body:  fmt.Sprintf(config.FallbackOnDayBody, name),
		}
	}
	return Message{
		Title: config.FallbackReminderTitle,
		Body: fmt.Sprintf(config.FallbackReminderBody, name, r.Occurrence.DaysUntil,
			r.Occurrence.OccursAt.Format(config.DateFormatShort)),
	}
}

// DefaultDigestMessage lists every reminder on its own line.
func DefaultDigestMessage(reminders []Reminder) Message {
	lines := make([]string, 0, len(reminders))
	for _, r := range reminders {
		lines = append(lines, fmt.Sprintf(config.FallbackDigestLine,
			r.Occurrence.OccursAt.Format(config.DateFormatShort),
			r.Occurrence.Record.DisplayName))
	}
	return Message{
		Title: config.FallbackDigestTitle,
		Body:  strings.Join(lines, config.FallbackDigestSep),
	}
}
