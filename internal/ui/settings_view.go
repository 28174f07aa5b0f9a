package ui

import (
	"errors"
	"log/slog"
	"strconv"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	"github.com/tartampluch/birthday-hub/internal/config"
	"github.com/tartampluch/birthday-hub/internal/settings"
	"github.com/zalando/go-keyring"
)

// settingsWidgets holds references to UI elements to simplify data retrieval during save.
type settingsWidgets struct {
	enabled     *widget.Check
	daysSlider  *widget.Slider
	daysLabel   *widget.Label
	email       *widget.Check
	desktop     *widget.Check
	digest      *widget.Check
	onDay       *widget.Check
	themeSelect *widget.Select
	viewSelect  *widget.Select
	modeSelect  *widget.Select
	pathEntry   *widget.Entry
	urlEntry    *widget.Entry
	userEntry   *widget.Entry
	passEntry   *widget.Entry
	portEntry   *NumericalEntry
}

// sourceModes lists the roster modes in the order of the mode selector.
var sourceModes = []string{config.SourceModeEmbedded, config.SourceModeLocal, config.SourceModeWeb}

// ShowSettingsWindow displays the configuration dialog.
func (app *HubApp) ShowSettingsWindow() {
	if app.settingsWindow != nil {
		slog.Debug(config.MsgWindowFocus, config.LogKeyComponent, config.CompUISet)
		app.settingsWindow.RequestFocus()
		return
	}

	slog.Info(config.MsgOpenSettings, config.LogKeyComponent, config.CompUISet)
	w := app.App.NewWindow(app.GetMsg(config.TKeyWinSettings))
	app.settingsWindow = w

	sw := app.buildSettingsWidgets(app.Settings.Load())

	tabs := container.NewAppTabs(
		container.NewTabItemWithIcon(app.GetMsg(config.TKeyTabNotif), theme.MailComposeIcon(), app.buildNotifTab(sw)),
		container.NewTabItemWithIcon(app.GetMsg(config.TKeyTabDisplay), theme.ColorPaletteIcon(), app.buildDisplayTab(sw)),
		container.NewTabItemWithIcon(app.GetMsg(config.TKeyTabSource), theme.StorageIcon(), app.buildSourceTab(w, sw)),
	)

	btnSave := widget.NewButtonWithIcon(app.GetMsg(config.TKeyBtnSave), theme.DocumentSaveIcon(), func() {
		if app.saveSettings(sw, w) {
			w.Close()
		}
	})
	btnSave.Importance = widget.HighImportance
	btnCancel := widget.NewButtonWithIcon(app.GetMsg(config.TKeyBtnCancel), theme.CancelIcon(), func() { w.Close() })

	footer := widget.NewLabel(app.GetMsgData(config.TKeyLblFooter, map[string]any{config.TDataVer: config.Version}))
	footer.Alignment = fyne.TextAlignCenter
	footer.TextStyle = fyne.TextStyle{Italic: true}

	content := container.NewPadded(container.NewBorder(nil,
		container.NewVBox(container.NewGridWithColumns(config.LayoutColumnsDouble, btnCancel, btnSave), footer),
		nil, nil, tabs))

	w.SetContent(content)
	w.Resize(fyne.NewSize(config.SettingsWindowWidth, content.MinSize().Height))
	w.SetOnClosed(func() { app.settingsWindow = nil })
	w.Show()
}

func (app *HubApp) buildSettingsWidgets(s settings.Settings) *settingsWidgets {
	sw := &settingsWidgets{
		enabled:    widget.NewCheck(app.GetMsg(config.TKeyLblEnabled), nil),
		daysSlider: widget.NewSlider(config.MinDaysInAdvance, config.MaxDaysInAdvance),
		daysLabel:  widget.NewLabel(strconv.Itoa(s.DaysInAdvance)),
		email:      widget.NewCheck(app.GetMsg(config.TKeyLblEmail), nil),
		desktop:    widget.NewCheck(app.GetMsg(config.TKeyLblDesktop), nil),
		digest:     widget.NewCheck(app.GetMsg(config.TKeyLblDigest), nil),
		onDay:      widget.NewCheck(app.GetMsg(config.TKeyLblOnDay), nil),
		pathEntry:  widget.NewEntry(),
		urlEntry:   widget.NewEntry(),
		userEntry:  widget.NewEntry(),
		passEntry:  widget.NewPasswordEntry(),
		portEntry:  NewNumericalEntry(config.MinPort, config.MaxPort),
	}

	sw.enabled.SetChecked(s.Enabled)
	sw.email.SetChecked(s.EmailNotifications)
	sw.desktop.SetChecked(s.BrowserNotifications)
	sw.digest.SetChecked(s.DailyDigest)
	sw.onDay.SetChecked(s.NotifyOnDay)

	sw.daysSlider.Step = config.SettingsSliderStep
	sw.daysSlider.SetValue(float64(s.DaysInAdvance))
	sw.daysSlider.OnChanged = func(v float64) {
		sw.daysLabel.SetText(strconv.Itoa(int(v)))
	}

	sw.themeSelect = widget.NewSelect(app.themeLabels(), nil)
	sw.themeSelect.SetSelectedIndex(indexOf(settings.Themes, s.Theme))
	sw.viewSelect = widget.NewSelect(app.viewLabels(), nil)
	sw.viewSelect.SetSelectedIndex(indexOf(settings.Views, s.ViewPreference))

	sw.modeSelect = widget.NewSelect([]string{
		app.GetMsg(config.TKeyModeEmbedded),
		app.GetMsg(config.TKeyModeLocal),
		app.GetMsg(config.TKeyModeWeb),
	}, nil)

	sw.pathEntry.SetText(app.Preferences.String(config.PrefLocalPath))
	sw.urlEntry.SetText(app.Preferences.String(config.PrefWebURL))
	sw.userEntry.SetText(app.Preferences.String(config.PrefUsername))
	// Attempt to pre-fill password from secure storage
	if user := sw.userEntry.Text; user != "" {
		if pwd, err := keyring.Get(config.KeyringService, user); err == nil {
			sw.passEntry.SetText(pwd)
		}
	}

	sw.portEntry.SetText(app.Preferences.StringWithFallback(config.PrefServerPort, config.DefaultPort))
	sw.portEntry.Validator = func(s string) error {
		if err := sw.portEntry.check(s); err != nil {
			return app.portError(err)
		}
		return nil
	}
	return sw
}

func (app *HubApp) buildNotifTab(sw *settingsWidgets) fyne.CanvasObject {
	days := container.NewBorder(nil, nil, nil, sw.daysLabel, sw.daysSlider)
	form := widget.NewForm(widget.NewFormItem(app.GetMsg(config.TKeyLblDaysAdvance), days))

	channels := container.NewVBox(sw.email, sw.desktop, sw.digest, sw.onDay)

	// Everything but the master switch is moot while notifications are off.
	toggle := func(on bool) {
		for _, c := range []*widget.Check{sw.email, sw.desktop, sw.digest, sw.onDay} {
			if on {
				c.Enable()
			} else {
				c.Disable()
			}
		}
		if on {
			sw.daysSlider.Enable()
		} else {
			sw.daysSlider.Disable()
		}
	}
	sw.enabled.OnChanged = toggle
	toggle(sw.enabled.Checked)

	return container.NewVBox(sw.enabled, form, channels)
}

func (app *HubApp) buildDisplayTab(sw *settingsWidgets) fyne.CanvasObject {
	return widget.NewForm(
		widget.NewFormItem(app.GetMsg(config.TKeyLblTheme), sw.themeSelect),
		widget.NewFormItem(app.GetMsg(config.TKeyLblView), sw.viewSelect),
	)
}

// buildSourceTab constructs the roster source selection and the feed port.
func (app *HubApp) buildSourceTab(w fyne.Window, sw *settingsWidgets) fyne.CanvasObject {
	browseBtn := widget.NewButton(app.GetMsg(config.TKeyBtnBrowse), func() {
		d := dialog.NewFileOpen(func(r fyne.URIReadCloser, err error) {
			if err == nil && r != nil {
				sw.pathEntry.SetText(r.URI().Path())
				_ = r.Close()
			}
		}, w)
		d.SetFilter(storage.NewExtensionFileFilter([]string{config.ExtJSON, config.ExtTOML, config.ExtVCF, config.ExtVCard}))
		d.Show()
	})
	localForm := container.NewBorder(nil, nil, nil, browseBtn, sw.pathEntry)

	itemURL := widget.NewFormItem(app.GetMsg(config.TKeyLblURL), sw.urlEntry)
	itemURL.HintText = app.GetMsg(config.TKeyHelpURL)
	webForm := widget.NewForm(itemURL,
		widget.NewFormItem(app.GetMsg(config.TKeyLblUser), sw.userEntry),
		widget.NewFormItem(app.GetMsg(config.TKeyLblPass), sw.passEntry),
	)

	updateVis := func(string) {
		localForm.Hide()
		webForm.Hide()
		switch sourceModes[max(0, sw.modeSelect.SelectedIndex())] {
		case config.SourceModeLocal:
			localForm.Show()
		case config.SourceModeWeb:
			webForm.Show()
		}
	}
	sw.modeSelect.OnChanged = updateVis

	mode := app.Preferences.StringWithFallback(config.PrefSourceMode, config.SourceModeEmbedded)
	sw.modeSelect.SetSelectedIndex(indexOf(sourceModes, mode))
	updateVis(sw.modeSelect.Selected)

	itemPort := widget.NewFormItem(app.GetMsg(config.TKeyLblPort), sw.portEntry)
	itemPort.HintText = app.GetMsg(config.TKeyHelpPort)

	sourceCard := widget.NewCard(app.GetMsg(config.TKeyLblSource), "", container.NewVBox(sw.modeSelect, localForm, webForm))
	return container.NewVBox(sourceCard, widget.NewForm(itemPort))
}

// saveSettings validates and persists the form. It reports whether the window
// may close.
func (app *HubApp) saveSettings(sw *settingsWidgets, w fyne.Window) bool {
	slog.Info(config.MsgSettingsSaving, config.LogKeyComponent, config.CompUISet)

	if err := sw.portEntry.Validate(); err != nil {
		dialog.ShowError(err, w)
		return false
	}

	s := settings.Settings{
		Enabled:              sw.enabled.Checked,
		DaysInAdvance:        int(sw.daysSlider.Value),
		EmailNotifications:   sw.email.Checked,
		BrowserNotifications: sw.desktop.Checked,
		DailyDigest:          sw.digest.Checked,
		NotifyOnDay:          sw.onDay.Checked,
		Theme:                settings.Themes[max(0, sw.themeSelect.SelectedIndex())],
		ViewPreference:       settings.Views[max(0, sw.viewSelect.SelectedIndex())],
	}
	if err := app.Settings.Save(s); err != nil {
		slog.Warn(config.MsgSettingsInvalid, config.LogKeyError, err, config.LogKeyComponent, config.CompUISet)
		dialog.ShowError(err, w)
		return false
	}

	app.Preferences.SetString(config.PrefSourceMode, sourceModes[max(0, sw.modeSelect.SelectedIndex())])
	app.Preferences.SetString(config.PrefLocalPath, sw.pathEntry.Text)
	app.Preferences.SetString(config.PrefWebURL, sw.urlEntry.Text)
	app.Preferences.SetString(config.PrefUsername, sw.userEntry.Text)
	app.Preferences.SetString(config.PrefServerPort, sw.portEntry.Text)

	// Save password to Keyring only if provided
	if sw.userEntry.Text != "" && sw.passEntry.Text != "" {
		if err := keyring.Set(config.KeyringService, sw.userEntry.Text, sw.passEntry.Text); err != nil {
			slog.Error(config.MsgCredsSaveFail, config.LogKeyError, err, config.LogKeyComponent, config.CompUISet)
		}
	}

	app.applyTheme(s.Theme)
	if app.dashboard != nil {
		app.dashboard.setView(s.ViewPreference)
	}
	// The preferences listener wakes the worker, which reloads with the new source.
	return true
}

// portError translates a NumericalEntry failure for the port field.
func (app *HubApp) portError(err error) error {
	switch {
	case errors.Is(err, errNumberRequired):
		return errors.New(app.GetMsg(config.TKeyErrPortReq))
	case errors.Is(err, errNumberRange):
		return errors.New(app.GetMsg(config.TKeyErrPortRange))
	default:
		return errors.New(app.GetMsg(config.TKeyErrPortNum))
	}
}
