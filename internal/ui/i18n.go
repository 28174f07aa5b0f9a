package ui

import (
	"embed"
	"encoding/json"
	"log/slog"
	"path"
	"strings"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	"github.com/tartampluch/birthday-hub/internal/config"
	"golang.org/x/text/language"
)

//go:embed locales/*.json
var localeFS embed.FS

// SetupI18n loads the embedded catalogs and builds the localizer.
func (app *HubApp) SetupI18n() {
	bundle := i18n.NewBundle(language.English)
	bundle.RegisterUnmarshalFunc("json", json.Unmarshal)

	entries, err := localeFS.ReadDir(config.LocalesDir)
	if err != nil {
		slog.Error(config.ErrLocalesAccess,
			config.LogKeyComponent, config.CompI18n,
			config.LogKeyError, err,
		)
		return
	}

	for _, entry := range entries {
		name := entry.Name()
		if !strings.HasPrefix(name, config.LocalePrefix) || !strings.HasSuffix(name, config.LocaleExt) {
			slog.Debug(config.MsgLocaleSkip,
				config.LogKeyComponent, config.CompI18n,
				config.LogKeyFile, name,
			)
			continue
		}

		if _, err := bundle.LoadMessageFileFS(localeFS, path.Join(config.LocalesDir, name)); err != nil {
			slog.Error(config.ErrLocaleLoad,
				config.LogKeyComponent, config.CompI18n,
				config.LogKeyFile, name,
				config.LogKeyError, err,
			)
			continue
		}
		slog.Debug(config.MsgLocaleLoaded,
			config.LogKeyComponent, config.CompI18n,
			config.LogKeyFile, name,
		)
	}

	app.I18nBundle = bundle
	app.Localizer = i18n.NewLocalizer(bundle, config.DefaultLanguage)
}

// GetMsg translates a key, falling back to the key itself.
func (app *HubApp) GetMsg(key string) string {
	return app.localize(&i18n.LocalizeConfig{MessageID: key}, key)
}

// GetMsgData translates a templated key.
func (app *HubApp) GetMsgData(key string, data map[string]any) string {
	return app.localize(&i18n.LocalizeConfig{MessageID: key, TemplateData: data}, key)
}

// GetPlural translates a key whose wording depends on count. Count is always
// available to the template.
func (app *HubApp) GetPlural(key string, count int, data map[string]any) string {
	if data == nil {
		data = make(map[string]any, 1)
	}
	data[config.TDataCount] = count
	return app.localize(&i18n.LocalizeConfig{
		MessageID:    key,
		TemplateData: data,
		PluralCount:  count,
	}, key)
}

func (app *HubApp) localize(lc *i18n.LocalizeConfig, fallback string) string {
	if app.Localizer == nil {
		return fallback
	}
	msg, err := app.Localizer.Localize(lc)
	if err != nil {
		slog.Debug(config.MsgTransMissing,
			config.LogKeyComponent, config.CompI18n,
			config.LogKeyKey, lc.MessageID,
			config.LogKeyError, err,
		)
		return fallback
	}
	return msg
}
