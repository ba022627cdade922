package driven

import "github.com/harborlight/docq/internal/core/domain"

// ConfigStore loads and persists application settings.
// The loaded Settings value object is constructed once and passed into
// component constructors; nothing reads configuration ambiently.
type ConfigStore interface {
	// Load reads settings from the backing store, applying defaults for
	// missing values.
	Load() (domain.Settings, error)

	// Save writes settings to the backing store.
	Save(settings domain.Settings) error

	// Path returns the backing file path for display purposes.
	Path() string
}
