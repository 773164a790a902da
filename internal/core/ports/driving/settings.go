package driving

import (
	"context"

	"github.com/custodia-labs/formwright/internal/core/domain"
)

// SettingsService manages application settings.
type SettingsService interface {
	// Get returns the effective settings: defaults, then the config file,
	// then environment overrides.
	Get() (*domain.AppSettings, error)

	// Set parses value for a known key and persists it.
	Set(key, value string) error

	// Unset removes a key so its default applies again.
	Unset(key string) error

	// Keys returns every settable key, sorted.
	Keys() []string

	// GetDefaults returns default settings.
	GetDefaults() domain.AppSettings

	// ValidateRemote checks the effective remote settings against the backend.
	ValidateRemote(ctx context.Context) error
}
