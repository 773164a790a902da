package driven

// ConfigStore provides access to application configuration.
// Keys use dot notation ("remote.url"); implementations handle persistence
// and type conversion.
type ConfigStore interface {
	// Get retrieves a configuration value by key.
	// Returns the value and a boolean indicating if the key exists.
	Get(key string) (any, bool)

	// GetString retrieves a string configuration value.
	// Returns empty string if key doesn't exist or isn't a string.
	GetString(key string) string

	// GetInt retrieves an integer configuration value.
	// Returns 0 if key doesn't exist or isn't an integer.
	GetInt(key string) int

	// GetBool retrieves a boolean configuration value.
	// Returns false if key doesn't exist or isn't a boolean.
	GetBool(key string) bool

	// Keys returns every configured key, sorted.
	Keys() []string

	// Set stores a configuration value and persists it immediately.
	Set(key string, value any) error

	// Unset removes a key and persists the change.
	Unset(key string) error

	// Path returns the configuration file path.
	Path() string
}
