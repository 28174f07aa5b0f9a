// Package notify turns the roster and the user's settings into reminders and
// delivers them, at most once per day each.
package notify

import (
	"fmt"
	"slices"
	"time"

	"github.com/tartampluch/birthday-hub/internal/config"
	"github.com/tartampluch/birthday-hub/internal/engine"
	"github.com/tartampluch/birthday-hub/internal/settings"
)

// Kind distinguishes heads-up reminders from day-of notifications.
type Kind string

const (
	KindAdvance Kind = config.KindAdvance
	KindOnDay   Kind = config.KindOnDay
)

// Reminder is one birthday that deserves a notification now.
type Reminder struct {
	Occurrence engine.Occurrence
	Kind       Kind
}

// Key identifies the reminder for deduplication.
func (r Reminder) Key() string {
	return fmt.Sprintf(config.FormatReminderKey,
		r.Occurrence.Record.ID,
		r.Occurrence.OccursAt.Format(config.DateFormatISO),
		r.Kind)
}

// Plan selects the birthdays to announce at now. Nothing is planned when
// notifications are disabled.
func Plan(records []engine.BirthdayRecord, s settings.Settings, now time.Time) []Reminder {
	if !s.Enabled {
		return nil
	}

	var out []Reminder
	for _, occ := range engine.Upcoming(records, now, 0) {
		switch {
		case occ.IsToday:
			if s.NotifyOnDay {
				out = append(out, Reminder{Occurrence: occ, Kind: KindOnDay})
			}
		case occ.DaysUntil <= s.DaysInAdvance:
			out = append(out, Reminder{Occurrence: occ, Kind: KindAdvance})
		default:
			// Upcoming is sorted; everything after is further away.
			return out
		}
	}
	return out
}

// Channel is a delivery medium.
type Channel string

const (
	ChannelDesktop Channel = config.ChannelDesktop
	ChannelEmail   Channel = config.ChannelEmail
)

// Channels lists the media enabled by s.
func Channels(s settings.Settings) []Channel {
	var out []Channel
	if s.BrowserNotifications {
		out = append(out, ChannelDesktop)
	}
	if s.EmailNotifications {
		out = append(out, ChannelEmail)
	}
	return out
}

func hasChannel(s settings.Settings, c Channel) bool {
	return slices.Contains(Channels(s), c)
}
