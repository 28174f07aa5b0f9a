package ui

import (
	"context"
	_ "embed"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"
	"github.com/nicksnyder/go-i18n/v2/i18n"
	"github.com/tartampluch/birthday-hub/internal/config"
	"github.com/tartampluch/birthday-hub/internal/engine"
	"github.com/tartampluch/birthday-hub/internal/notify"
	"github.com/tartampluch/birthday-hub/internal/roster"
	"github.com/tartampluch/birthday-hub/internal/server"
	"github.com/tartampluch/birthday-hub/internal/settings"
	"github.com/zalando/go-keyring"
)

//go:embed Icon.svg
var appIconData []byte

// HubApp owns the UI state and the background services behind it.
type HubApp struct {
	App         fyne.App
	Preferences fyne.Preferences
	I18nBundle  *i18n.Bundle
	Localizer   *i18n.Localizer
	Ctx         context.Context

	Server     *server.FeedServer
	Loader     *roster.Loader
	Settings   *settings.Repository
	Dispatcher *notify.Dispatcher
	Countdown  *engine.Countdown
	Clock      engine.Clock

	// RosterOverride, when set, replaces the configured source with a local file.
	RosterOverride string

	Tray desktop.App
	Menu *fyne.Menu

	TrayStatusItem    *fyne.MenuItem
	TrayDashboardItem *fyne.MenuItem
	TrayRefreshItem   *fyne.MenuItem
	TraySettingsItem  *fyne.MenuItem

	configChan chan struct{}

	// Roster state, replaced wholesale on every load.
	recordsMut sync.RWMutex
	records    []engine.BirthdayRecord
	loadErr    error

	dashboard      *dashboard
	settingsWindow fyne.Window
	cardEditor     *cardEditor
}

// NewHubApp constructs the application and wires dependencies.
func NewHubApp(a fyne.App, ctx context.Context, srv *server.FeedServer, fetcher roster.Fetcher) *HubApp {
	a.SetIcon(fyne.NewStaticResource(config.IconFile, appIconData))

	app := &HubApp{
		App:         a,
		Preferences: a.Preferences(),
		Ctx:         ctx,
		Server:      srv,
		Loader:      &roster.Loader{Fetcher: fetcher},
		Settings:    settings.NewRepository(settings.PreferencesStore{Prefs: a.Preferences()}),
		configChan:  make(chan struct{}, config.ChannelBufferSize),
	}
	app.Dispatcher = notify.NewDispatcher(notify.NotifierFunc(app.sendDesktop), nil)
	app.Dispatcher.FormatReminder = app.reminderMessage
	app.Dispatcher.FormatDigest = app.digestMessage
	app.SetClock(engine.RealClock{})
	return app
}

// SetClock swaps the time source of every component at once.
func (app *HubApp) SetClock(c engine.Clock) {
	if app.Countdown != nil {
		app.Countdown.Stop()
	}
	app.Clock = c
	app.Loader.Clock = c
	app.Dispatcher.Clock = c
	app.Countdown = engine.NewCountdown(c)
}

// Run launches the application services and the main UI loop.
func (app *HubApp) Run() {
	app.SetupI18n()
	app.applyTheme(app.Settings.Load().Theme)
	app.watchPreferences()

	go func() {
		slog.Info(config.MsgServerListen,
			config.LogKeyPort, app.Server.Port,
			config.LogKeyComponent, config.CompUI)

		if err := app.Server.Start(app.Ctx); err != nil {
			slog.Error(config.ErrServerStartup,
				config.LogKeyError, err,
				config.LogKeyComponent, config.CompUI)

			app.App.SendNotification(fyne.NewNotification(
				config.TitleStartupError,
				fmt.Sprintf(config.MsgPortBusy, app.Server.Port)))
		}
	}()

	if desk, ok := app.App.(desktop.App); ok {
		app.Tray = desk
		app.Tray.SetSystemTrayIcon(app.App.Icon())
		app.setupTrayMenu()
	} else {
		slog.Warn(config.ErrTrayNotSupported,
			config.LogKeyComponent, config.CompUI)
	}

	app.ShowDashboard()

	go app.backgroundWorker()
	app.App.Run()
}

// watchPreferences wakes the worker when anything is saved, so a new source
// or reminder window is applied without waiting for the next tick.
func (app *HubApp) watchPreferences() {
	app.Preferences.AddChangeListener(func() {
		select {
		case app.configChan <- struct{}{}:
		default:
		}
	})
}

// setupTrayMenu constructs the system tray menu.
func (app *HubApp) setupTrayMenu() {
	app.TrayStatusItem = fyne.NewMenuItem(config.FallbackTrayLabel, func() {
		app.ShowDashboard()
	})

	app.TrayDashboardItem = fyne.NewMenuItem(app.GetMsg(config.TKeyMenuDashboard), func() {
		app.ShowDashboard()
	})

	app.TrayRefreshItem = fyne.NewMenuItem(app.GetMsg(config.TKeyMenuRefresh), func() {
		go app.performLoad(true)
	})

	app.TraySettingsItem = fyne.NewMenuItem(app.GetMsg(config.TKeyMenuSettings), func() {
		app.ShowSettingsWindow()
	})

	app.Menu = fyne.NewMenu(config.AppName,
		app.TrayStatusItem,
		fyne.NewMenuItemSeparator(),
		app.TrayDashboardItem,
		app.TrayRefreshItem,
		app.TraySettingsItem,
	)

	if app.Tray != nil {
		app.Tray.SetSystemTrayMenu(app.Menu)
	}
}

// backgroundWorker loads the roster, then keeps it and the reminders fresh.
func (app *HubApp) backgroundWorker() {
	log := slog.With(config.LogKeyComponent, config.CompWorker)

	app.performLoad(false)

	notifyTicker := app.Clock.NewTicker(config.NotifyCheckInterval)
	defer notifyTicker.Stop()
	rosterTicker := app.Clock.NewTicker(config.RosterRefreshInterval)
	defer rosterTicker.Stop()

	log.Info(config.MsgWorkerStart, config.LogKeyInterval, config.NotifyCheckInterval)

	for {
		select {
		case <-app.Ctx.Done():
			log.Info(config.MsgWorkerStop)
			app.Countdown.Stop()
			return

		case <-app.configChan:
			app.performLoad(false)

		case <-rosterTicker.C():
			app.performLoad(false)

		case <-notifyTicker.C():
			app.checkNotifications()
			// The day may have changed since the last load.
			app.updateTrayStatus(len(engine.FilterToday(app.Records(), app.Clock.Now())))
		}
	}
}

// performLoad runs the roster pipeline (Load -> Publish -> Notify -> Refresh).
func (app *HubApp) performLoad(manual bool) {
	slog.Info(config.MsgLoadRequested,
		config.LogKeyComponent, config.CompUI,
		config.LogKeyManual, manual)

	if manual {
		app.App.SendNotification(fyne.NewNotification(config.AppName, app.GetMsg(config.TKeyNotifStart)))
	}

	res, err := app.Loader.Load(app.Ctx, app.loadSource())
	if err != nil {
		slog.Error(config.MsgLoadFailed, config.LogKeyError, err, config.LogKeyComponent, config.CompUI)
		app.setRoster(nil, err)
		if manual {
			app.App.SendNotification(fyne.NewNotification(config.AppName, app.GetMsg(config.TKeyNotifError)))
		}
		app.updateTrayStatus(-1)
		app.refreshDashboard()
		return
	}

	app.setRoster(res.Records, nil)
	app.publish(res.Records)

	today := engine.FilterToday(res.Records, app.Clock.Now())
	for _, r := range today {
		slog.Info(config.MsgBdayToday,
			config.LogKeyComponent, config.CompUI,
			config.LogKeyName, r.DisplayName)
	}
	slog.Debug(config.MsgRosterApplied,
		config.LogKeyComponent, config.CompUI,
		config.LogKeyRecords, len(res.Records),
		config.LogKeyToday, len(today))
	app.updateTrayStatus(len(today))
	app.checkNotifications()
	app.refreshDashboard()

	if manual {
		app.App.SendNotification(fyne.NewNotification(config.AppName, app.GetMsg(config.TKeyNotifSuccess)))
	}
}

// publish refreshes both documents served by the feed server.
func (app *HubApp) publish(records []engine.BirthdayRecord) {
	s := app.Settings.Load()
	gen := &engine.CalendarGenerator{
		Clock:         app.Clock,
		FormatSummary: app.buildSummaryFormatter(),
	}
	if s.Enabled {
		gen.ReminderDays = s.DaysInAdvance
	}

	ics, err := gen.Generate(app.Ctx, records)
	if err != nil {
		slog.Error(config.ErrICalEncode, config.LogKeyError, err, config.LogKeyComponent, config.CompUI)
	} else {
		app.Server.UpdateCalendar(ics)
	}

	upcoming := engine.Upcoming(records, app.Clock.Now(), config.UpcomingFeedSize)
	if err := app.Server.UpdateUpcoming(server.NewUpcoming(upcoming)); err != nil {
		slog.Error(config.ErrJSONEncode, config.LogKeyError, err, config.LogKeyComponent, config.CompUI)
	}
}

// checkNotifications plans and delivers today's reminders.
func (app *HubApp) checkNotifications() {
	s := app.Settings.Load()
	reminders := notify.Plan(app.Records(), s, app.Clock.Now())

	if _, err := app.Dispatcher.Dispatch(reminders, s); err != nil {
		slog.Error(config.ErrNotifyFailed, config.LogKeyError, err, config.LogKeyComponent, config.CompUI)
	}
}

// Records returns the current roster. The slice must not be modified.
func (app *HubApp) Records() []engine.BirthdayRecord {
	app.recordsMut.RLock()
	defer app.recordsMut.RUnlock()
	return app.records
}

// LoadErr returns the error of the last load, if it failed.
func (app *HubApp) LoadErr() error {
	app.recordsMut.RLock()
	defer app.recordsMut.RUnlock()
	return app.loadErr
}

func (app *HubApp) setRoster(records []engine.BirthdayRecord, err error) {
	app.recordsMut.Lock()
	defer app.recordsMut.Unlock()
	if err == nil {
		app.records = records
	}
	app.loadErr = err
}

// updateTrayStatus shows how many birthdays are today; a negative count means
// the roster failed to load.
func (app *HubApp) updateTrayStatus(count int) {
	if app.Menu == nil || app.TrayStatusItem == nil {
		return
	}

	var label string
	switch {
	case count < 0:
		label = config.FallbackTrayError
	case count == 0:
		label = app.GetMsg(config.TKeyTrayStatusZero)
		if label == config.TKeyTrayStatusZero {
			label = fmt.Sprintf(config.FallbackTrayDefault, 0)
		}
	default:
		label = app.GetPlural(config.TKeyTrayStatus, count, nil)
		if label == config.TKeyTrayStatus {
			label = fmt.Sprintf(config.FallbackTrayDefault, count)
		}
	}

	fyne.Do(func() {
		app.TrayStatusItem.Label = label
		app.Menu.Refresh()
	})
}

// loadSource assembles the roster source from preferences and the keyring.
func (app *HubApp) loadSource() roster.Source {
	if app.RosterOverride != "" {
		return roster.Source{Mode: config.SourceModeLocal, LocalPath: app.RosterOverride}
	}

	src := roster.Source{
		Mode:      app.Preferences.StringWithFallback(config.PrefSourceMode, config.SourceModeEmbedded),
		LocalPath: app.Preferences.String(config.PrefLocalPath),
		WebURL:    app.Preferences.String(config.PrefWebURL),
		WebUser:   app.Preferences.String(config.PrefUsername),
	}

	if src.Mode == config.SourceModeWeb && src.WebUser != "" {
		if p, err := keyring.Get(config.KeyringService, src.WebUser); err == nil {
			src.WebPass = p
		} else {
			slog.Debug(config.MsgPassFail,
				config.LogKeyUser, src.WebUser,
				config.LogKeyError, err,
				config.LogKeyComponent, config.CompUI)
		}
	}
	return src
}

// sendDesktop delivers a notification through the Fyne driver.
func (app *HubApp) sendDesktop(msg notify.Message) error {
	app.App.SendNotification(fyne.NewNotification(msg.Title, msg.Body))
	return nil
}

// buildSummaryFormatter returns a closure that localizes the event summary.
func (app *HubApp) buildSummaryFormatter() func(name string) string {
	return func(name string) string {
		msg := app.GetMsgData(config.TKeyEvtSummary, map[string]any{config.TDataName: name})
		if msg == config.TKeyEvtSummary {
			return fmt.Sprintf(config.FallbackSummary, name)
		}
		return msg
	}
}

func (app *HubApp) reminderMessage(r notify.Reminder) notify.Message {
	if app.Localizer == nil {
		return notify.DefaultReminderMessage(r)
	}
	name := r.Occurrence.Record.DisplayName
	if r.Kind == notify.KindOnDay {
		return notify.Message{
			Title: app.GetMsg(config.TKeyOnDayTitle),
			Body:  app.GetMsgData(config.TKeyOnDayBody, map[string]any{config.TDataName: name}),
		}
	}
	return notify.Message{
		Title: app.GetMsg(config.TKeyReminderTitle),
		Body: app.GetPlural(config.TKeyReminderBody, r.Occurrence.DaysUntil, map[string]any{
			config.TDataName: name,
			config.TDataDays: r.Occurrence.DaysUntil,
			config.TDataDate: r.Occurrence.OccursAt.Format(config.DateFormatShort),
		}),
	}
}

func (app *HubApp) digestMessage(reminders []notify.Reminder) notify.Message {
	if app.Localizer == nil {
		return notify.DefaultDigestMessage(reminders)
	}
	lines := make([]string, 0, len(reminders))
	for _, r := range reminders {
		lines = append(lines, app.GetMsgData(config.TKeyDigestLine, map[string]any{
			config.TDataDate: r.Occurrence.OccursAt.Format(config.DateFormatShort),
			config.TDataName: r.Occurrence.Record.DisplayName,
		}))
	}
	return notify.Message{
		Title: app.GetPlural(config.TKeyDigestTitle, len(reminders), nil),
		Body:  strings.Join(lines, config.FallbackDigestSep),
	}
}
