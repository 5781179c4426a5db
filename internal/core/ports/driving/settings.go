package driving

import "github.com/paterkleomenis/archstore/internal/core/domain"

// SettingsService manages application settings.
type SettingsService interface {
	// Get retrieves current application settings.
	Get() (*domain.AppSettings, error)

	// Save persists application settings.
	Save(settings *domain.AppSettings) error

	// SetSourceEnabled switches a source on or off.
	SetSourceEnabled(kind domain.SourceKind, enabled bool) error

	// SetValue updates a single setting by its configuration key,
	// e.g. "search.debounce" = "300ms".
	SetValue(key, value string) error

	// Validate checks that the current settings are usable.
	Validate() error

	// GetDefaults returns default settings.
	GetDefaults() domain.AppSettings

	// Reload re-reads settings from storage.
	Reload() error
}
