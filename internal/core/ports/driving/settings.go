package driving

import "github.com/ALEX8642/LLM-chatbot/internal/core/domain"

// SettingsService reads and updates persisted configuration.
type SettingsService interface {
	// Keys returns every recognised config key, sorted.
	Keys() []string

	// Get returns the validated settings, with defaults for missing keys.
	Get() (domain.Settings, error)

	// Set parses, validates, and persists one key.
	Set(key, value string) error

	// Unset removes one key so its default applies again.
	Unset(key string) error

	// Value returns the stored value of key, if any.
	Value(key string) (any, bool)
}
