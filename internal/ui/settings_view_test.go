package ui

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tartampluch/birthday-hub/internal/config"
	"github.com/tartampluch/birthday-hub/internal/settings"
	"github.com/zalando/go-keyring"
)

// settingsForm builds the settings widgets the way the window does.
func settingsForm(t *testing.T, app *HubApp) *settingsWidgets {
	w := app.App.NewWindow("test")
	t.Cleanup(w.Close)

	sw := app.buildSettingsWidgets(app.Settings.Load())
	app.buildNotifTab(sw)
	app.buildDisplayTab(sw)
	app.buildSourceTab(w, sw)
	return sw
}

func TestSettings_FormReflectsStoredValues(t *testing.T) {
	app, _, _ := setupTestApp(t)
	s := settings.Defaults()
	s.DaysInAdvance = 9
	s.DailyDigest = true
	s.ViewPreference = settings.ViewCalendar
	require.NoError(t, app.Settings.Save(s))
	app.Preferences.SetString(config.PrefSourceMode, config.SourceModeLocal)
	app.Preferences.SetString(config.PrefLocalPath, "/data/team.toml")

	sw := settingsForm(t, app)

	assert.Equal(t, 9.0, sw.daysSlider.Value)
	assert.Equal(t, "9", sw.daysLabel.Text)
	assert.True(t, sw.digest.Checked)
	assert.Equal(t, app.GetMsg(config.TKeyViewCalendar), sw.viewSelect.Selected)
	assert.Equal(t, app.GetMsg(config.TKeyModeLocal), sw.modeSelect.Selected)
	assert.Equal(t, "/data/team.toml", sw.pathEntry.Text)
	assert.Equal(t, config.DefaultPort, sw.portEntry.Text)
}

func TestSettings_MasterSwitchDisablesChannels(t *testing.T) {
	app, _, _ := setupTestApp(t)
	sw := settingsForm(t, app)

	sw.enabled.SetChecked(false)
	assert.True(t, sw.email.Disabled())
	assert.True(t, sw.onDay.Disabled())
	assert.True(t, sw.daysSlider.Disabled())

	sw.enabled.SetChecked(true)
	assert.False(t, sw.digest.Disabled())
	assert.False(t, sw.daysSlider.Disabled())
}

func TestSettings_Save(t *testing.T) {
	keyring.MockInit()
	app, _, _ := setupTestApp(t)
	sw := settingsForm(t, app)
	w := app.App.NewWindow("test")
	defer w.Close()

	sw.daysSlider.SetValue(7)
	assert.Equal(t, "7", sw.daysLabel.Text)
	sw.email.SetChecked(true)
	sw.themeSelect.SetSelectedIndex(indexOf(settings.Themes, settings.ThemeLight))
	sw.modeSelect.SetSelectedIndex(indexOf(sourceModes, config.SourceModeWeb))
	sw.urlEntry.SetText("https://intranet.example.com/team.vcf")
	sw.userEntry.SetText("hr")
	sw.passEntry.SetText("hunter2")
	sw.portEntry.SetText("18081")

	require.True(t, app.saveSettings(sw, w))

	saved := app.Settings.Load()
	assert.Equal(t, 7, saved.DaysInAdvance)
	assert.True(t, saved.EmailNotifications)
	assert.Equal(t, settings.ThemeLight, saved.Theme)

	assert.Equal(t, config.SourceModeWeb, app.Preferences.String(config.PrefSourceMode))
	assert.Equal(t, "https://intranet.example.com/team.vcf", app.Preferences.String(config.PrefWebURL))
	assert.Equal(t, "18081", app.Preferences.String(config.PrefServerPort))

	pass, err := keyring.Get(config.KeyringService, "hr")
	require.NoError(t, err)
	assert.Equal(t, "hunter2", pass)

	// The stored password pre-fills the next form.
	assert.Equal(t, "hunter2", settingsForm(t, app).passEntry.Text)

	_, ok := app.App.Settings().Theme().(variantTheme)
	assert.True(t, ok, "The picked theme is applied immediately")
}

func TestSettings_InvalidPortBlocksSave(t *testing.T) {
	app, _, _ := setupTestApp(t)
	sw := settingsForm(t, app)
	w := app.App.NewWindow("test")
	defer w.Close()

	tests := []struct {
		text string
		msg  string
	}{
		{"", "A port is required"},
		{"70000", "The port must be between 1 and 65535"},
		{"0", "The port must be between 1 and 65535"},
	}

	for _, tt := range tests {
		t.Run(tt.msg, func(t *testing.T) {
			sw.portEntry.SetText(tt.text)
			sw.daysSlider.SetValue(12)

			err := sw.portEntry.Validate()
			require.Error(t, err)
			assert.Equal(t, tt.msg, err.Error())

			assert.False(t, app.saveSettings(sw, w))
			assert.Equal(t, config.DefaultDaysInAdvance, app.Settings.Load().DaysInAdvance, "Nothing is stored")
		})
	}
}

func TestSettings_PortErrorMapping(t *testing.T) {
	app, _, _ := setupTestApp(t)

	assert.EqualError(t, app.portError(errNumberRequired), "A port is required")
	assert.EqualError(t, app.portError(errNumberFormat), "The port must be a number")
	assert.EqualError(t, app.portError(errNumberRange), "The port must be between 1 and 65535")
}

func TestSettings_WindowSingleton(t *testing.T) {
	app, _, _ := setupTestApp(t)

	app.ShowSettingsWindow()
	w := app.settingsWindow
	require.NotNil(t, w)

	app.ShowSettingsWindow()
	assert.Same(t, w, app.settingsWindow)

	w.Close()
	assert.Nil(t, app.settingsWindow)
}
