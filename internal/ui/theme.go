package ui

import (
	"image/color"
	"log/slog"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/theme"
	"github.com/tartampluch/birthday-hub/internal/config"
	"github.com/tartampluch/birthday-hub/internal/settings"
)

// variantTheme pins the default theme to one variant, ignoring the desktop's.
type variantTheme struct {
	fyne.Theme
	variant fyne.ThemeVariant
}

func (t variantTheme) Color(name fyne.ThemeColorName, _ fyne.ThemeVariant) color.Color {
	return t.Theme.Color(name, t.variant)
}

// themeFor maps the stored preference to a Fyne theme. System follows the OS.
func themeFor(t settings.Theme) fyne.Theme {
	switch t {
	case settings.ThemeLight:
		return variantTheme{Theme: theme.DefaultTheme(), variant: theme.VariantLight}
	case settings.ThemeDark:
		return variantTheme{Theme: theme.DefaultTheme(), variant: theme.VariantDark}
	default:
		return theme.DefaultTheme()
	}
}

func (app *HubApp) applyTheme(t settings.Theme) {
	app.App.Settings().SetTheme(themeFor(t))
	slog.Debug(config.MsgThemeApplied,
		config.LogKeyComponent, config.CompUI,
		config.LogKeyTheme, t)
}
