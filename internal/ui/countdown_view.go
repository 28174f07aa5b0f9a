package ui

import (
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	"github.com/tartampluch/birthday-hub/internal/config"
	"github.com/tartampluch/birthday-hub/internal/engine"
)

// countdownView shows the live time left until the next birthday.
type countdownView struct {
	app  *HubApp
	card *widget.Card
	next *widget.Label

	// days, hours, minutes, seconds
	digits [config.CountdownUnits]*canvas.Text

	task *engine.CountdownTask
}

func newCountdownView(app *HubApp) *countdownView {
	v := &countdownView{
		app:  app,
		next: widget.NewLabel(app.GetMsg(config.TKeyCountdownNone)),
	}
	v.next.Wrapping = fyne.TextWrapWord

	unitKeys := [config.CountdownUnits]string{
		config.TKeyUnitDays, config.TKeyUnitHours, config.TKeyUnitMinutes, config.TKeyUnitSeconds,
	}
	cells := make([]fyne.CanvasObject, 0, config.CountdownUnits)
	for i, key := range unitKeys {
		digit := canvas.NewText(config.EmptyValue, theme.Color(theme.ColorNamePrimary))
		digit.TextSize = config.CountdownDigitSize
		digit.TextStyle = fyne.TextStyle{Bold: true, Monospace: true}
		digit.Alignment = fyne.TextAlignCenter
		v.digits[i] = digit

		unit := widget.NewLabel(app.GetMsg(key))
		unit.Alignment = fyne.TextAlignCenter
		cells = append(cells, container.NewVBox(digit, unit))
	}

	v.card = widget.NewCard(app.GetMsg(config.TKeyCountdownTitle), "",
		container.NewVBox(v.next, container.NewGridWithColumns(config.CountdownUnits, cells...)))
	return v
}

// start counts down to the next birthday after today. When the target is
// reached the next one is resolved and the countdown starts over.
func (v *countdownView) start(records []engine.BirthdayRecord) {
	v.stop()

	occ, ok := engine.NextCountdownTarget(records, v.app.Clock.Now())
	if !ok {
		v.next.SetText(v.app.GetMsg(config.TKeyCountdownNone))
		v.show(engine.Remaining{Expired: true})
		return
	}

	v.next.SetText(v.app.GetMsgData(config.TKeyCountdownNext, map[string]any{
		config.TDataName: occ.Record.DisplayName,
		config.TDataDate: occ.OccursAt.Format(config.DateFormatDisplay),
	}))

	task := v.app.Countdown.Start(occ.OccursAt, func(rem engine.Remaining) {
		fyne.Do(func() {
			v.show(rem)
			if rem.Expired {
				v.start(v.app.Records())
			}
		})
	})
	v.task = task
}

// stop ends the running task. It must be called when the window goes away.
func (v *countdownView) stop() {
	if v.task != nil {
		v.task.Stop()
		v.task = nil
	}
}

func (v *countdownView) show(rem engine.Remaining) {
	values := [config.CountdownUnits]int64{rem.Days, rem.Hours, rem.Minutes, rem.Seconds}
	for i, d := range v.digits {
		if i == 0 {
			d.Text = fmt.Sprintf(config.FormatDayNumber, values[i])
		} else {
			d.Text = fmt.Sprintf(config.FormatClockUnit, values[i])
		}
		d.Refresh()
	}
}
