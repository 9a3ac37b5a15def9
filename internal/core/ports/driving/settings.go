package driving

import "github.com/custodia-labs/admindesk/internal/core/domain"

// SettingsService resolves and updates client configuration.
type SettingsService interface {
	// Get resolves defaults, the config file and the environment into one config.
	Get() (domain.ClientConfig, error)

	// Set validates and persists a single configuration key.
	Set(key, value string) error

	// Keys lists the recognised configuration keys.
	Keys() []string

	// Path returns where the configuration is stored.
	Path() string
}
