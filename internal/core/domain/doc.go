// Package domain defines the core entities for manualqa.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Chunk: a word-bounded slice of one manual page, the unit of indexing
//   - Manual: a catalog entry whose ID is the retrieval filter value
//   - RetrievedDocument: a chunk returned by one retrieval source
//   - Answer: the terminal, cited result of a question
//   - StreamEvent: one decoded fragment of a model response stream
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
