// Package file provides file-based configuration for manualqa.
//
// Adapters:
//   - ConfigStore: TOML configuration flattened into dot-notation keys
//   - LoadDotEnv: optional .env file merged into the process environment
package file
