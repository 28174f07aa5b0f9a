// Package settings holds the user's notification and display preferences and
// persists them as one JSON object under a single key of a key-value store.
package settings

import (
	"errors"
	"fmt"

	"github.com/tartampluch/birthday-hub/internal/config"
)

// ErrInvalidSettings is returned by Validate and Save for out-of-range values.
var ErrInvalidSettings = errors.New(config.ErrInvalidSettings)

// Theme is the color variant of the dashboard.
type Theme string

const (
	ThemeLight  Theme = config.ThemeLight
	ThemeDark   Theme = config.ThemeDark
	ThemeSystem Theme = config.ThemeSystem
)

// Themes lists the valid themes in display order.
var Themes = []Theme{ThemeLight, ThemeDark, ThemeSystem}

// Valid reports whether t is a known theme.
func (t Theme) Valid() bool {
	switch t {
	case ThemeLight, ThemeDark, ThemeSystem:
		return true
	}
	return false
}

// View is the layout used for the roster area of the dashboard.
type View string

const (
	ViewCard     View = config.ViewCard
	ViewList     View = config.ViewList
	ViewCalendar View = config.ViewCalendar
)

// Views lists the valid views in display order.
var Views = []View{ViewCard, ViewList, ViewCalendar}

// Valid reports whether v is a known view.
func (v View) Valid() bool {
	switch v {
	case ViewCard, ViewList, ViewCalendar:
		return true
	}
	return false
}

// Settings is the persisted preferences object. The JSON field names are the
// stored format and must not change.
type Settings struct {
	Enabled              bool  `json:"enabled"`
	DaysInAdvance        int   `json:"daysInAdvance"`
	EmailNotifications   bool  `json:"emailNotifications"`
	BrowserNotifications bool  `json:"browserNotifications"`
	DailyDigest          bool  `json:"dailyDigest"`
	NotifyOnDay          bool  `json:"notifyOnDay"`
	Theme                Theme `json:"theme"`
	ViewPreference       View  `json:"viewPreference"`
}

// Defaults returns the settings used on first run.
func Defaults() Settings {
	return Settings{
		Enabled:              config.DefaultNotificationsEnabled,
		DaysInAdvance:        config.DefaultDaysInAdvance,
		EmailNotifications:   config.DefaultEmailNotifications,
		BrowserNotifications: config.DefaultBrowserNotifications,
		DailyDigest:          config.DefaultDailyDigest,
		NotifyOnDay:          config.DefaultNotifyOnDay,
		Theme:                config.DefaultTheme,
		ViewPreference:       config.DefaultView,
	}
}

// Validate checks ranges and enumerations.
func (s Settings) Validate() error {
	if s.DaysInAdvance < config.MinDaysInAdvance || s.DaysInAdvance > config.MaxDaysInAdvance {
		return fmt.Errorf("%w: daysInAdvance %d not in [%d, %d]",
			ErrInvalidSettings, s.DaysInAdvance, config.MinDaysInAdvance, config.MaxDaysInAdvance)
	}
	if !s.Theme.Valid() {
		return fmt.Errorf("%w: theme %q", ErrInvalidSettings, s.Theme)
	}
	if !s.ViewPreference.Valid() {
		return fmt.Errorf("%w: viewPreference %q", ErrInvalidSettings, s.ViewPreference)
	}
	return nil
}

// Sanitize returns a valid copy: DaysInAdvance is clamped and unknown
// enumerations fall back to their defaults.
func (s Settings) Sanitize() Settings {
	s.DaysInAdvance = max(config.MinDaysInAdvance, min(s.DaysInAdvance, config.MaxDaysInAdvance))
	if !s.Theme.Valid() {
		s.Theme = config.DefaultTheme
	}
	if !s.ViewPreference.Valid() {
		s.ViewPreference = config.DefaultView
	}
	return s
}
