package ui

import (
	"fmt"
	"hash/fnv"
	"log/slog"
	"net/url"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	"github.com/tartampluch/birthday-hub/internal/card"
	"github.com/tartampluch/birthday-hub/internal/config"
	"github.com/tartampluch/birthday-hub/internal/engine"
)

// cardGrid renders the filtered, sorted and paginated roster as cards.
func (d *dashboard) cardGrid(records []engine.BirthdayRecord) fyne.CanvasObject {
	app := d.app
	now := app.Clock.Now()

	page, err := engine.Apply(records, d.query, now)
	if err != nil {
		// Only a programming error can get here: the page size is a constant.
		slog.Error(config.ErrQueryFailed, config.LogKeyError, err, config.LogKeyComponent, config.CompUI)
		return centered(app.GetMsg(config.TKeyEmptyFilter))
	}
	d.query.Page = page.Number

	sortLabels := []string{app.GetMsg(config.TKeySortDate), app.GetMsg(config.TKeySortName)}
	d.sortGroup = widget.NewRadioGroup(sortLabels, nil)
	d.sortGroup.Horizontal = true
	d.sortGroup.Required = true
	if d.query.Sort == engine.SortName {
		d.sortGroup.Selected = sortLabels[1]
	} else {
		d.sortGroup.Selected = sortLabels[0]
	}
	d.sortGroup.OnChanged = func(selected string) {
		d.query.Sort = engine.SortDate
		if selected == sortLabels[1] {
			d.query.Sort = engine.SortName
		}
		d.query.Page = 1
		d.renderView()
	}

	d.todayCheck = widget.NewCheck(app.GetMsg(config.TKeyTodayOnly), nil)
	d.todayCheck.Checked = d.query.TodayOnly
	d.todayCheck.OnChanged = func(on bool) {
		d.query.TodayOnly = on
		d.query.Page = 1
		d.renderView()
	}

	d.prevBtn = widget.NewButtonWithIcon(app.GetMsg(config.TKeyPagePrev), theme.NavigateBackIcon(), func() {
		d.query.Page--
		d.renderView()
	})
	d.nextBtn = widget.NewButtonWithIcon(app.GetMsg(config.TKeyPageNext), theme.NavigateNextIcon(), func() {
		d.query.Page++
		d.renderView()
	})
	if page.Number <= 1 {
		d.prevBtn.Disable()
	}
	if page.Number >= page.Pages {
		d.nextBtn.Disable()
	}
	d.pageLabel = widget.NewLabel(app.GetMsgData(config.TKeyPageStatus, map[string]any{
		config.TDataPage:  page.Number,
		config.TDataPages: page.Pages,
	}))

	controls := container.NewHBox(d.sortGroup, layout.NewSpacer(), d.todayCheck)
	pager := container.NewHBox(layout.NewSpacer(), d.prevBtn, d.pageLabel, d.nextBtn, layout.NewSpacer())

	if len(page.Items) == 0 {
		return container.NewBorder(controls, pager, nil, nil, centered(app.GetMsg(config.TKeyEmptyFilter)))
	}

	grid := container.NewGridWithColumns(config.CardGridColumns)
	for _, r := range page.Items {
		grid.Add(d.birthdayCard(engine.NextOccurrence(r, now)))
	}
	return container.NewBorder(controls, pager, nil, nil, container.NewVScroll(grid))
}

// listView lists the month's birthdays by next occurrence, one row each.
func (d *dashboard) listView(records []engine.BirthdayRecord) fyne.CanvasObject {
	app := d.app
	if d.query.Month != 0 {
		records = engine.FilterByMonth(records, d.query.Month)
	}
	occurrences := engine.Upcoming(records, app.Clock.Now(), 0)
	if len(occurrences) == 0 {
		return centered(app.GetMsg(config.TKeyEmptyFilter))
	}

	list := widget.NewList(
		func() int {
			return len(occurrences)
		},
		func() fyne.CanvasObject {
			name := widget.NewLabel(config.EmptyValue)
			name.TextStyle = fyne.TextStyle{Bold: true}
			date := widget.NewLabel(config.EmptyValue)
			when := widget.NewLabel(config.EmptyValue)
			btn := widget.NewButtonWithIcon(app.GetMsg(config.TKeyBtnCreate), theme.MailComposeIcon(), nil)
			return container.NewHBox(name, date, when, layout.NewSpacer(), btn)
		},
		func(id widget.ListItemID, o fyne.CanvasObject) {
			if id >= len(occurrences) {
				return
			}
			occ := occurrences[id]
			row := o.(*fyne.Container)
			row.Objects[0].(*widget.Label).SetText(occ.Record.DisplayName)
			row.Objects[1].(*widget.Label).SetText(occ.OccursAt.Format(config.DateFormatDisplay))
			row.Objects[2].(*widget.Label).SetText(d.whenText(occ))
			row.Objects[4].(*widget.Button).OnTapped = func() {
				app.ShowCardWindow(occ.Record.DisplayName)
			}
		},
	)
	return list
}

// calendarView shows the selected month (the current one when "all months"
// is picked) as a grid; tapping a day lists its birthdays underneath.
func (d *dashboard) calendarView(records []engine.BirthdayRecord) fyne.CanvasObject {
	now := d.app.Clock.Now()
	month := d.query.Month
	if month == 0 {
		month = now.Month()
	}
	grid := engine.MonthGrid(now.Year(), month, records, config.CalendarWeekStart, now.Location())

	cells := make([]fyne.CanvasObject, 0, config.DaysPerWeek*(config.CalendarWeeks+1))
	for i := range config.DaysPerWeek {
		name := time.Weekday((int(config.CalendarWeekStart) + i) % config.DaysPerWeek).String()
		header := widget.NewLabel(name[:config.WeekdayAbbrevLen])
		header.Alignment = fyne.TextAlignCenter
		header.TextStyle = fyne.TextStyle{Bold: true}
		cells = append(cells, header)
	}
	for _, week := range grid {
		for _, cell := range week {
			cells = append(cells, d.calendarCell(cell, now))
		}
	}
	calendar := container.NewGridWithColumns(config.DaysPerWeek, cells...)

	var selected []fyne.CanvasObject
	if !d.calendarDay.IsZero() {
		for _, r := range engine.FilterToday(records, d.calendarDay) {
			selected = append(selected, d.birthdayCard(engine.NextOccurrence(r, now)))
		}
	}
	details := container.NewGridWithColumns(config.CardGridColumns, selected...)
	return container.NewVScroll(container.NewVBox(calendar, details))
}

func (d *dashboard) calendarCell(cell engine.CalendarCell, now time.Time) fyne.CanvasObject {
	day := cell.Date
	btn := widget.NewButton(fmt.Sprintf(config.FormatDayNumber, day.Day()), func() {
		d.calendarDay = day
		d.renderView()
	})
	switch {
	case len(cell.Records) > 0:
		btn.Importance = widget.HighImportance
	case !cell.InMonth:
		btn.Importance = widget.LowImportance
	}

	names := make([]fyne.CanvasObject, 0, len(cell.Records))
	for _, r := range cell.Records {
		l := widget.NewLabel(r.DisplayName)
		l.Truncation = fyne.TextTruncateEllipsis
		names = append(names, l)
	}

	content := container.NewVBox(append([]fyne.CanvasObject{btn}, names...)...)
	if sameDay(day, now) {
		bg := canvas.NewRectangle(theme.Color(theme.ColorNameSelection))
		return container.NewStack(bg, content)
	}
	return content
}

// birthdayCard renders one person for the card grid and calendar details.
func (d *dashboard) birthdayCard(occ engine.Occurrence) fyne.CanvasObject {
	app := d.app
	r := occ.Record

	when := widget.NewLabel(d.whenText(occ))
	when.TextStyle = fyne.TextStyle{Bold: occ.IsToday}

	var actions []fyne.CanvasObject
	if link, err := url.Parse(engine.AvatarURL(r.AvatarSeed)); err == nil {
		actions = append(actions, widget.NewHyperlink(app.GetMsg(config.TKeyAvatarLink), link))
	}
	actions = append(actions, layout.NewSpacer(),
		widget.NewButtonWithIcon(app.GetMsg(config.TKeyBtnCreate), theme.MailComposeIcon(), func() {
			app.ShowCardWindow(r.DisplayName)
		}))
	footer := container.NewHBox(actions...)

	body := container.NewBorder(nil, footer, newAvatar(r), nil, when)
	return widget.NewCard(r.DisplayName, occ.OccursAt.Format(config.DateFormatDisplay), body)
}

// whenText is "Today!", "Tomorrow" or "In N days".
func (d *dashboard) whenText(occ engine.Occurrence) string {
	if occ.IsToday {
		return fmt.Sprintf(config.FormatBadgeLabel, config.TodayBadge, d.app.GetMsg(config.TKeyToday))
	}
	return d.app.GetPlural(config.TKeyDaysUntil, occ.DaysUntil, map[string]any{config.TDataDays: occ.DaysUntil})
}

// newAvatar draws the person's initials on a disc colored by their id. The
// picture itself lives behind the avatar link.
func newAvatar(r engine.BirthdayRecord) fyne.CanvasObject {
	h := fnv.New32a()
	_, _ = h.Write([]byte(r.ID))
	scheme := card.Schemes[h.Sum32()%uint32(len(card.Schemes))]

	disc := canvas.NewCircle(scheme.Color())
	text := canvas.NewText(initials(r.DisplayName), theme.Color(theme.ColorNameBackground))
	text.TextStyle = fyne.TextStyle{Bold: true}
	text.Alignment = fyne.TextAlignCenter

	return container.NewGridWrap(fyne.NewSquareSize(config.AvatarSize),
		container.NewStack(disc, container.NewCenter(text)))
}

// initials takes the upper-cased first letter of the leading words of name.
func initials(name string) string {
	out := make([]rune, 0, config.AvatarInitialsMax)
	for _, word := range strings.Fields(name) {
		if len(out) == config.AvatarInitialsMax {
			break
		}
		r, _ := utf8.DecodeRuneInString(word)
		out = append(out, unicode.ToUpper(r))
	}
	return string(out)
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
