package ui

import (
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	"github.com/tartampluch/birthday-hub/internal/config"
	"github.com/tartampluch/birthday-hub/internal/engine"
	"github.com/tartampluch/birthday-hub/internal/settings"
)

// dashboard is the main window: header, countdown, statistics and the roster
// rendered in the selected view.
type dashboard struct {
	app    *HubApp
	window fyne.Window

	monthSelect *widget.Select
	themeSelect *widget.Select
	viewSelect  *widget.Select

	countdown *countdownView
	stats     *statsView
	content   *fyne.Container

	query engine.Query
	view  settings.View

	// Card grid controls, rebuilt with every render.
	sortGroup  *widget.RadioGroup
	todayCheck *widget.Check
	prevBtn    *widget.Button
	nextBtn    *widget.Button
	pageLabel  *widget.Label

	// calendarDay is the day picked in the calendar view.
	calendarDay time.Time
}

// ShowDashboard opens the main window, or focuses it when already open.
func (app *HubApp) ShowDashboard() {
	if app.dashboard != nil {
		slog.Debug(config.MsgWindowFocus, config.LogKeyComponent, config.CompUI)
		app.dashboard.window.RequestFocus()
		return
	}

	slog.Info(config.MsgOpenDashboard, config.LogKeyComponent, config.CompUI)
	d := newDashboard(app)
	app.dashboard = d

	d.window.SetOnClosed(func() {
		d.countdown.stop()
		app.dashboard = nil
	})
	d.refresh()
	d.window.Show()
}

// refreshDashboard re-renders the open dashboard from any goroutine.
func (app *HubApp) refreshDashboard() {
	fyne.Do(func() {
		if app.dashboard != nil {
			app.dashboard.refresh()
		}
	})
}

func newDashboard(app *HubApp) *dashboard {
	s := app.Settings.Load()
	d := &dashboard{
		app:    app,
		window: app.App.NewWindow(app.GetMsg(config.TKeyWinDashboard)),
		view:   s.ViewPreference,
		query: engine.Query{
			Month:    app.Clock.Now().Month(),
			Sort:     engine.SortDate,
			PageSize: config.CardsPerPage,
			Page:     1,
		},
	}

	d.countdown = newCountdownView(app)
	d.stats = newStatsView(app)
	d.content = container.NewStack()

	side := container.NewVBox(d.countdown.card, d.stats.card)
	d.window.SetContent(container.NewBorder(d.buildHeader(s), nil, side, nil, d.content))
	d.window.Resize(fyne.NewSize(config.DashboardWidth, config.DashboardHeight))
	return d
}

func (d *dashboard) buildHeader(s settings.Settings) fyne.CanvasObject {
	app := d.app

	title := canvas.NewText(app.GetMsg(config.TKeyAppTitle), theme.Color(theme.ColorNameForeground))
	title.TextSize = config.TitleTextSize
	title.TextStyle = fyne.TextStyle{Bold: true}
	subtitle := widget.NewLabel(app.GetMsg(config.TKeyAppSubtitle))

	months := make([]string, 0, 13)
	months = append(months, app.GetMsg(config.TKeyAllMonths))
	for m := time.January; m <= time.December; m++ {
		months = append(months, m.String())
	}
	d.monthSelect = widget.NewSelect(months, nil)
	d.monthSelect.SetSelectedIndex(int(d.query.Month))
	d.monthSelect.OnChanged = func(string) {
		d.query.Month = time.Month(d.monthSelect.SelectedIndex())
		d.query.Page = 1
		d.calendarDay = time.Time{}
		d.renderView()
	}

	d.themeSelect = widget.NewSelect(app.themeLabels(), nil)
	d.themeSelect.SetSelectedIndex(indexOf(settings.Themes, s.Theme))
	d.themeSelect.OnChanged = func(string) {
		d.saveDisplay(func(s *settings.Settings) {
			s.Theme = settings.Themes[d.themeSelect.SelectedIndex()]
		})
	}

	d.viewSelect = widget.NewSelect(app.viewLabels(), nil)
	d.viewSelect.SetSelectedIndex(indexOf(settings.Views, d.view))
	d.viewSelect.OnChanged = func(string) {
		d.saveDisplay(func(s *settings.Settings) {
			s.ViewPreference = settings.Views[d.viewSelect.SelectedIndex()]
		})
	}

	reload := widget.NewButtonWithIcon(app.GetMsg(config.TKeyBtnReload), theme.ViewRefreshIcon(), func() {
		go app.performLoad(true)
	})
	settingsBtn := widget.NewButtonWithIcon(app.GetMsg(config.TKeyBtnSettings), theme.SettingsIcon(), func() {
		app.ShowSettingsWindow()
	})

	heading := container.NewVBox(title, subtitle)
	controls := container.NewHBox(d.monthSelect, d.viewSelect, d.themeSelect, reload, settingsBtn)
	return container.NewPadded(container.NewBorder(nil, nil, heading, controls, layout.NewSpacer()))
}

// saveDisplay persists a display preference picked in the header.
func (d *dashboard) saveDisplay(edit func(*settings.Settings)) {
	s := d.app.Settings.Load()
	edit(&s)
	if err := d.app.Settings.Save(s); err != nil {
		slog.Error(config.MsgSettingsInvalid, config.LogKeyError, err, config.LogKeyComponent, config.CompUI)
		return
	}
	d.app.applyTheme(s.Theme)
	d.setView(s.ViewPreference)
}

// setView switches the roster area to v.
func (d *dashboard) setView(v settings.View) {
	if d.view == v {
		return
	}
	d.view = v
	if d.viewSelect != nil && d.viewSelect.SelectedIndex() != indexOf(settings.Views, v) {
		onChanged := d.viewSelect.OnChanged
		d.viewSelect.OnChanged = nil
		d.viewSelect.SetSelectedIndex(indexOf(settings.Views, v))
		d.viewSelect.OnChanged = onChanged
	}
	d.renderView()
}

// refresh recomputes everything that depends on the roster or the date.
func (d *dashboard) refresh() {
	records := d.app.Records()
	d.stats.update(engine.ComputeStats(records, d.app.Clock.Now()))
	d.countdown.start(records)
	d.renderView()
}

// renderView rebuilds the roster area.
func (d *dashboard) renderView() {
	records := d.app.Records()

	var obj fyne.CanvasObject
	switch {
	case d.app.LoadErr() != nil:
		obj = centered(d.app.GetMsg(config.TKeyLoadFailed))
	case len(records) == 0:
		obj = centered(d.app.GetMsg(config.TKeyEmptyRoster))
	case d.view == settings.ViewList:
		obj = d.listView(records)
	case d.view == settings.ViewCalendar:
		obj = d.calendarView(records)
	default:
		obj = d.cardGrid(records)
	}

	d.content.Objects = []fyne.CanvasObject{obj}
	d.content.Refresh()
}

func (app *HubApp) themeLabels() []string {
	keys := map[settings.Theme]string{
		settings.ThemeLight:  config.TKeyThemeLight,
		settings.ThemeDark:   config.TKeyThemeDark,
		settings.ThemeSystem: config.TKeyThemeSystem,
	}
	out := make([]string, 0, len(settings.Themes))
	for _, t := range settings.Themes {
		out = append(out, app.GetMsg(keys[t]))
	}
	return out
}

func (app *HubApp) viewLabels() []string {
	keys := map[settings.View]string{
		settings.ViewCard:     config.TKeyViewCard,
		settings.ViewList:     config.TKeyViewList,
		settings.ViewCalendar: config.TKeyViewCalendar,
	}
	out := make([]string, 0, len(settings.Views))
	for _, v := range settings.Views {
		out = append(out, app.GetMsg(keys[v]))
	}
	return out
}

// statsView is the statistics card.
type statsView struct {
	card      *widget.Card
	total     *widget.Label
	today     *widget.Label
	thisMonth *widget.Label
	nextMonth *widget.Label
	popular   *widget.Label
}

func newStatsView(app *HubApp) *statsView {
	v := &statsView{
		total:     widget.NewLabel(config.EmptyValue),
		today:     widget.NewLabel(config.EmptyValue),
		thisMonth: widget.NewLabel(config.EmptyValue),
		nextMonth: widget.NewLabel(config.EmptyValue),
		popular:   widget.NewLabel(config.EmptyValue),
	}
	for _, l := range []*widget.Label{v.total, v.today, v.thisMonth, v.nextMonth, v.popular} {
		l.TextStyle = fyne.TextStyle{Bold: true}
		l.Alignment = fyne.TextAlignTrailing
	}

	grid := container.NewGridWithColumns(config.StatsColumns,
		widget.NewLabel(app.GetMsg(config.TKeyStatTotal)), v.total,
		widget.NewLabel(app.GetMsg(config.TKeyStatToday)), v.today,
		widget.NewLabel(app.GetMsg(config.TKeyStatThisMonth)), v.thisMonth,
		widget.NewLabel(app.GetMsg(config.TKeyStatNextMonth)), v.nextMonth,
		widget.NewLabel(app.GetMsg(config.TKeyStatPopular)), v.popular,
	)
	v.card = widget.NewCard(app.GetMsg(config.TKeyStatsTitle), "", grid)
	return v
}

func (v *statsView) update(s engine.Stats) {
	v.total.SetText(strconv.Itoa(s.Total))
	v.today.SetText(strconv.Itoa(s.Today))
	v.thisMonth.SetText(strconv.Itoa(s.ThisMonth))
	v.nextMonth.SetText(strconv.Itoa(s.NextMonth))
	if s.PopularMonthCount == 0 {
		v.popular.SetText(config.EmptyValue)
		return
	}
	v.popular.SetText(fmt.Sprintf(config.FormatPopularMonth, s.PopularMonth, s.PopularMonthCount))
}

func centered(text string) fyne.CanvasObject {
	l := widget.NewLabel(text)
	l.Alignment = fyne.TextAlignCenter
	return container.NewCenter(l)
}

func indexOf[T comparable](items []T, v T) int {
	for i, item := range items {
		if item == v {
			return i
		}
	}
	return 0
}
