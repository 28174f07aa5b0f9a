package settings

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/tartampluch/birthday-hub/internal/config"
)

// Repository reads and writes the settings object under config.SettingsKey.
type Repository struct {
	Store Store
}

// NewRepository creates a repository on top of store.
func NewRepository(store Store) *Repository {
	return &Repository{Store: store}
}

// Load never fails: a missing or unreadable value yields the defaults and
// out-of-range values are repaired.
func (r *Repository) Load() Settings {
	log := slog.With(config.LogKeyComponent, config.CompSettings)

	raw, ok := r.Store.Get(config.SettingsKey)
	if !ok {
		log.Info(config.MsgSettingsMissing)
		return Defaults()
	}

	// Fields absent from an older stored object keep their default value.
	s := Defaults()
	if err := json.Unmarshal([]byte(raw), &s); err != nil {
		log.Warn(config.MsgSettingsCorrupt, config.LogKeyError, err)
		return Defaults()
	}

	if err := s.Validate(); err != nil {
		log.Warn(config.MsgSettingsRepair, config.LogKeyError, err)
		s = s.Sanitize()
	}

	log.Debug(config.MsgSettingsLoaded,
		config.LogKeyTheme, s.Theme,
		config.LogKeyView, s.ViewPreference)
	return s
}

// Save validates and persists s. Invalid settings are rejected, not repaired.
func (r *Repository) Save(s Settings) error {
	if err := s.Validate(); err != nil {
		return err
	}

	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("%s: %w", config.ErrSettingsEncode, err)
	}
	if err := r.Store.Set(config.SettingsKey, string(data)); err != nil {
		return fmt.Errorf("%s: %w", config.ErrSettingsStore, err)
	}

	slog.Info(config.MsgSettingsSaved, config.LogKeyComponent, config.CompSettings)
	return nil
}
