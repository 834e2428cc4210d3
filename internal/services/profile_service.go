package services

import (
	"context"
	"fmt"
	"strings"

	"fintrack/internal/core"
	"fintrack/internal/ledger"
)

// ProfileService reads and updates the per-user profile and settings.
type ProfileService struct {
	store    ledger.ProfileStore
	currency string
}

// NewProfileService uses currency for users that never chose one.
func NewProfileService(store ledger.ProfileStore, currency string) *ProfileService {
	return &ProfileService{store: store, currency: currency}
}

func (s *ProfileService) GetProfile(ctx context.Context, userID string) (core.Profile, error) {
	p, err := s.store.GetProfile(ctx, userID)
	if err != nil {
		return core.Profile{}, fmt.Errorf("get profile: %w", err)
	}
	return p, nil
}

// UpdateProfile replaces the profile. Blank settings fall back to defaults.
func (s *ProfileService) UpdateProfile(ctx context.Context, userID string, p core.Profile) (core.Profile, error) {
	p.Name = strings.TrimSpace(p.Name)
	p.Phone = strings.TrimSpace(p.Phone)
	p.SavingsGoal = core.Finite(p.SavingsGoal)
	p.Settings.Currency = strings.ToUpper(strings.TrimSpace(p.Settings.Currency))
	if p.Settings.Currency == "" {
		p.Settings.Currency = s.Display(core.Settings{}).Currency
	}
	if strings.TrimSpace(p.Settings.Theme) == "" {
		p.Settings.Theme = core.DefaultTheme
	}
	if err := s.store.UpdateProfile(ctx, userID, p); err != nil {
		return core.Profile{}, fmt.Errorf("update profile: %w", err)
	}
	return p, nil
}

// Display returns the formatting configuration for settings.
func (s *ProfileService) Display(settings core.Settings) core.DisplayConfig {
	return settings.Display(s.currency)
}

// DisplayFor loads the user's settings and returns their formatting
// configuration.
func (s *ProfileService) DisplayFor(ctx context.Context, userID string) (core.DisplayConfig, error) {
	p, err := s.GetProfile(ctx, userID)
	if err != nil {
		return core.DisplayConfig{}, err
	}
	return s.Display(p.Settings), nil
}
