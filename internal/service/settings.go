package service

import (
	"context"

	"github.com/ecoverse/ecopress/internal/domain"
	"github.com/ecoverse/ecopress/internal/logger"
	"github.com/spf13/cast"
)

// SettingsResolver loads automation settings from the key/value store,
// retaining the documented default for any key that is absent or
// malformed. It never fails the batch: a store error degrades to the
// full default set.
type SettingsResolver struct {
	store  SettingStore
	logger *logger.Logger
}

// NewSettingsResolver creates a new SettingsResolver.
func NewSettingsResolver(store SettingStore, log *logger.Logger) *SettingsResolver {
	return &SettingsResolver{store: store, logger: log}
}

// Load resolves the settings for one invocation.
func (r *SettingsResolver) Load(ctx context.Context) domain.AutomationSettings {
	settings := domain.DefaultAutomationSettings()

	rows, err := r.store.GetAll(ctx)
	if err != nil {
		r.log(ctx).WithError(err).Warn("Failed to read settings table, using defaults")
		return settings
	}

	for _, row := range rows {
		switch row.Key {
		case domain.SettingArticlesPerExecution:
			if v, err := cast.ToIntE(row.Value); err == nil && v > 0 {
				settings.ArticlesPerExecution = v
			}
		case domain.SettingDailyTarget:
			if v, err := cast.ToIntE(row.Value); err == nil && v > 0 {
				settings.DailyTarget = v
			}
		case domain.SettingImageFallbackEnabled:
			if v, err := cast.ToBoolE(row.Value); err == nil {
				settings.ImageFallbackEnabled = v
			}
		case domain.SettingTrendingBoostEnabled:
			if v, err := cast.ToBoolE(row.Value); err == nil {
				settings.TrendingBoostEnabled = v
			}
		}
	}

	return settings
}

func (r *SettingsResolver) log(ctx context.Context) *logger.Logger {
	if l := logger.InContext(ctx); l != nil {
		return l
	}
	return r.logger
}
