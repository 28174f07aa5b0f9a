package engine

import (
	"bytes"
	"context"
	"crypto/sha256"
	"fmt"
	"log/slog"
	"time"

	"github.com/emersion/go-ical"
	"github.com/tartampluch/birthday-hub/internal/config"
)

// CalendarGenerator renders the roster as an iCalendar feed.
type CalendarGenerator struct {
	Clock Clock

	// FormatSummary allows the UI to inject localized strings into the logic layer.
	FormatSummary func(name string) string

	// ReminderDays adds a DISPLAY alarm that many days before each event; 0 disables it.
	ReminderDays int
}

// Generate builds one all-day event per record for the previous, current and
// next year so calendar clients can scroll around without a refresh.
func (g *CalendarGenerator) Generate(ctx context.Context, records []BirthdayRecord) ([]byte, error) {
	start := time.Now()

	if len(records) == 0 {
		var buf bytes.Buffer
		// A valid VCALENDAR even when empty keeps clients from flagging the feed.
		buf.WriteString(config.StubVCalendar)
		return buf.Bytes(), nil
	}

	cal := ical.NewCalendar()
	cal.Props.SetText(config.PropVersion, config.ICalVersion)
	cal.Props.SetText(config.PropProdid, config.ICalProdid)
	cal.Props.SetText(config.PropXWRCalName, config.ICalCalName)
	cal.Props.SetText(config.PropCalScale, config.ICalScale)
	cal.Props.SetText(config.PropMethod, config.ICalMethod)

	// RFC 7986: suggest a refresh interval.
	refreshProp := ical.NewProp(config.PropRefresh)
	refreshProp.SetDuration(config.DefaultICalRefresh)
	cal.Props.Set(refreshProp)

	// Birthdays follow the local calendar date; only the stamp is UTC.
	clock := g.Clock
	if clock == nil {
		clock = RealClock{}
	}
	now := clock.Now()
	dtStampProp := ical.NewProp(config.PropDTStamp)
	dtStampProp.SetDateTime(now.UTC())

	for _, r := range records {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		for _, e := range g.createEvents(r, now) {
			e.Props.Set(dtStampProp)
			cal.Children = append(cal.Children, e.Component)
		}
	}

	var buf bytes.Buffer
	if err := ical.NewEncoder(&buf).Encode(cal); err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrICalEncode, err)
	}

	slog.Debug("Calendar generated",
		config.LogKeyComponent, config.CompEngine,
		config.LogKeyRecords, len(records),
		config.LogKeyDuration, time.Since(start).Milliseconds())
	return buf.Bytes(), nil
}

// createEvents generates the events of one record around now's year.
func (g *CalendarGenerator) createEvents(r BirthdayRecord, now time.Time) []*ical.Event {
	uidBase := RecordUID(r)
	summary := fmt.Sprintf(config.FallbackSummary, r.DisplayName)
	if g.FormatSummary != nil {
		summary = g.FormatSummary(r.DisplayName)
	}

	currentYear := now.Year()
	events := make([]*ical.Event, 0, 3)
	for _, y := range []int{currentYear - 1, currentYear, currentYear + 1} {
		event := ical.NewEvent()
		event.Props.SetText(config.PropUID, fmt.Sprintf(config.FormatUID, uidBase, y, config.ICalDomain))
		event.Props.SetText(config.PropSummary, summary)

		dtStartProp := ical.NewProp(config.PropDTStart)
		dtStartProp.SetDate(DateIn(y, r.Month, r.Day, now.Location()))
		event.Props.Set(dtStartProp)

		if g.ReminderDays > 0 {
			addAlarm(event, fmt.Sprintf(config.FormatTrigger, g.ReminderDays), summary)
		}
		events = append(events, event)
	}
	return events
}

// RecordUID is a deterministic identifier stable across refreshes.
func RecordUID(r BirthdayRecord) string {
	input := fmt.Sprintf(config.FormatHashInput, r.ID, config.UIDSalt)
	hash := sha256.Sum256([]byte(input))
	return fmt.Sprintf("%x", hash[:config.UIDHashLength])
}

// addAlarm appends a DISPLAY alarm (notification) to the event.
func addAlarm(event *ical.Event, trigger, description string) {
	alarm := ical.NewComponent(config.ICalComponent)
	alarm.Props.SetText(config.PropAction, config.ICalAction)
	alarm.Props.SetText(config.PropDescription, description)

	// Set trigger manually to avoid "VALUE=TEXT" param
	triggerProp := ical.NewProp(config.PropTrigger)
	triggerProp.Value = trigger
	alarm.Props.Set(triggerProp)

	event.Children = append(event.Children, alarm)
}
