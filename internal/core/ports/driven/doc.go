// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
//   - EmbeddingService: Converts text into fixed-dimension vectors
//   - DenseIndex: Vector storage and filtered similarity search (Qdrant)
//   - SparseIndex: Text storage and filtered lexical search (OpenSearch, SQLite FTS5)
//   - ChatStreamer: Streams a model response as decoded events
//   - PageExtractor: Splits a document file into page texts
//   - Splitter: Turns pages into overlapping word-window chunks
//   - CatalogStore: Manual catalog persistence (manuals.json)
//   - ConfigStore: Application configuration
//
// # Optional Interfaces
//
// These can be nil:
//
//   - MetricsRecorder: Pipeline metrics. Without it nothing is recorded.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven
