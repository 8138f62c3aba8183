// Package driving defines the use cases the CLI, MCP server, and TUI call:
//
//   - AskService: answer one question against one manual, with citations
//   - IngestService: index documents into the dense and sparse stores
//   - CatalogService: list and look up ingested manuals
//   - HealthService: ping every configured backend
//   - SettingsService: read and persist configuration keys
//
// Implementations live in internal/core/services.
package driving
