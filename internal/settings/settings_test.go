package settings_test

import (
	"encoding/json"
	"errors"
	"testing"

	"fyne.io/fyne/v2/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tartampluch/birthday-hub/internal/config"
	"github.com/tartampluch/birthday-hub/internal/settings"
)

func TestDefaults(t *testing.T) {
	s := settings.Defaults()

	assert.Equal(t, settings.Settings{
		Enabled:              true,
		DaysInAdvance:        3,
		EmailNotifications:   true,
		BrowserNotifications: true,
		DailyDigest:          false,
		NotifyOnDay:          true,
		Theme:                settings.ThemeSystem,
		ViewPreference:       settings.ViewCard,
	}, s)
	assert.NoError(t, s.Validate())
}

func TestSettings_JSONFieldNames(t *testing.T) {
	data, err := json.Marshal(settings.Defaults())
	require.NoError(t, err)

	var fields map[string]any
	require.NoError(t, json.Unmarshal(data, &fields))

	for _, key := range []string{"enabled", "daysInAdvance", "emailNotifications", "browserNotifications", "dailyDigest", "notifyOnDay", "theme", "viewPreference"} {
		assert.Contains(t, fields, key)
	}
	assert.Len(t, fields, 8)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*settings.Settings)
		wantErr bool
	}{
		{"Defaults", func(*settings.Settings) {}, false},
		{"Lower bound", func(s *settings.Settings) { s.DaysInAdvance = 1 }, false},
		{"Upper bound", func(s *settings.Settings) { s.DaysInAdvance = 14 }, false},
		{"Zero days", func(s *settings.Settings) { s.DaysInAdvance = 0 }, true},
		{"Fifteen days", func(s *settings.Settings) { s.DaysInAdvance = 15 }, true},
		{"Unknown theme", func(s *settings.Settings) { s.Theme = "neon" }, true},
		{"Unknown view", func(s *settings.Settings) { s.ViewPreference = "table" }, true},
		{"Dark calendar", func(s *settings.Settings) { s.Theme, s.ViewPreference = settings.ThemeDark, settings.ViewCalendar }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := settings.Defaults()
			tt.mutate(&s)

			err := s.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, settings.ErrInvalidSettings)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestSanitize(t *testing.T) {
	s := settings.Defaults()
	s.DaysInAdvance = 40
	s.Theme = "neon"
	s.ViewPreference = ""
	s.DailyDigest = true

	fixed := s.Sanitize()

	assert.Equal(t, 14, fixed.DaysInAdvance)
	assert.Equal(t, settings.ThemeSystem, fixed.Theme)
	assert.Equal(t, settings.ViewCard, fixed.ViewPreference)
	assert.True(t, fixed.DailyDigest, "valid fields are kept")
	assert.NoError(t, fixed.Validate())

	s.DaysInAdvance = -3
	assert.Equal(t, 1, s.Sanitize().DaysInAdvance)
}

func TestRepository_RoundTrip(t *testing.T) {
	repo := settings.NewRepository(settings.NewMemoryStore())

	want := settings.Defaults()
	want.DaysInAdvance = 7
	want.DailyDigest = true
	want.Theme = settings.ThemeDark
	want.ViewPreference = settings.ViewList

	require.NoError(t, repo.Save(want))
	assert.Equal(t, want, repo.Load())
}

func TestRepository_LoadFallbacks(t *testing.T) {
	tests := []struct {
		name     string
		stored   *string
		expected func() settings.Settings
	}{
		{"Missing key", nil, settings.Defaults},
		{"Corrupt JSON", ptr("{not json"), settings.Defaults},
		{"Partial object keeps defaults", ptr(`{"dailyDigest": true}`), func() settings.Settings {
			s := settings.Defaults()
			s.DailyDigest = true
			return s
		}},
		{"Out of range repaired", ptr(`{"enabled": false, "daysInAdvance": 99, "theme": "neon"}`), func() settings.Settings {
			s := settings.Defaults()
			s.Enabled = false
			s.DaysInAdvance = 14
			return s
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := settings.NewMemoryStore()
			if tt.stored != nil {
				require.NoError(t, store.Set(config.SettingsKey, *tt.stored))
			}
			assert.Equal(t, tt.expected(), settings.NewRepository(store).Load())
		})
	}
}

func TestRepository_SaveRejectsInvalid(t *testing.T) {
	store := settings.NewMemoryStore()
	repo := settings.NewRepository(store)

	s := settings.Defaults()
	s.DaysInAdvance = 0

	assert.ErrorIs(t, repo.Save(s), settings.ErrInvalidSettings)
	_, ok := store.Get(config.SettingsKey)
	assert.False(t, ok, "nothing written")
}

type failingStore struct{ settings.MemoryStore }

func (failingStore) Set(string, string) error { return errors.New("disk full") }

func TestRepository_SaveStoreError(t *testing.T) {
	repo := settings.NewRepository(&failingStore{})

	err := repo.Save(settings.Defaults())

	assert.ErrorContains(t, err, config.ErrSettingsStore)
	assert.ErrorContains(t, err, "disk full")
}

func TestPreferencesStore(t *testing.T) {
	app := test.NewTempApp(t)
	repo := settings.NewRepository(settings.PreferencesStore{Prefs: app.Preferences()})

	assert.Equal(t, settings.Defaults(), repo.Load())

	s := settings.Defaults()
	s.Theme = settings.ThemeLight
	require.NoError(t, repo.Save(s))

	assert.Equal(t, settings.ThemeLight, repo.Load().Theme)
	assert.Contains(t, app.Preferences().String(config.SettingsKey), `"theme":"light"`)
}

func ptr(s string) *string { return &s }
