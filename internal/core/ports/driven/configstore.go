package driven

// ConfigStore holds flat dot-notation configuration keys ("llm.model").
// Numeric getters widen or truncate; missing or mistyped keys yield zero values.
type ConfigStore interface {
	// Get returns the raw value of key and whether it is set.
	Get(key string) (any, bool)

	GetString(key string) string
	GetInt(key string) int
	GetFloat(key string) float64

	// Set changes key in memory. Save persists it.
	Set(key string, value any) error

	// Delete removes key in memory. Deleting a missing key is not an error.
	Delete(key string) error

	// Save writes the in-memory values back to storage.
	Save() error

	// Load replaces the in-memory values with what is in storage.
	Load() error

	// Path returns where the configuration is stored.
	Path() string
}
