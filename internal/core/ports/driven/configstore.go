package driven

// ConfigStore is the settings source behind SettingsService. Keys use dot
// notation ("api.base_url"); typed getters return the zero value when a key is
// missing or holds a different type.
type ConfigStore interface {
	// Get returns the raw value and whether the key is set.
	Get(key string) (any, bool)

	GetString(key string) string
	GetInt(key string) int
	// GetFloat also accepts integer values.
	GetFloat(key string) float64
	GetBool(key string) bool
	GetStringSlice(key string) []string

	// Set stores value and persists it before returning.
	Set(key string, value any) error

	// Path identifies where values are persisted.
	Path() string
}
