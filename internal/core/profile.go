package core

import "strings"

// DefaultTheme is the theme applied to profiles that never chose one.
const DefaultTheme = "light"

type (
	// Settings are the per-user display preferences.
	Settings struct {
		Currency      string
		Theme         string
		Notifications bool
	}

	// Profile is the per-user document that survives a data reset.
	Profile struct {
		Name        string
		Phone       string
		SavingsGoal float64
		Settings    Settings
	}
)

// DefaultSettings mirrors what a new account starts with.
func DefaultSettings() Settings {
	return Settings{Currency: DefaultCurrency, Theme: DefaultTheme, Notifications: true}
}

// Display returns the formatting configuration for s, falling back to
// fallback when no currency is set.
func (s Settings) Display(fallback string) DisplayConfig {
	code := strings.TrimSpace(s.Currency)
	if code == "" {
		code = fallback
	}
	if code == "" {
		code = DefaultCurrency
	}
	return DisplayConfig{Currency: strings.ToUpper(code)}
}
