// Package services implements the core query and ingestion pipelines.
//
// Services depend only on domain types and the driven ports. They are
// constructed once at start-up by the composition root and shared by
// every request; no service holds request-scoped mutable state.
//
// # Query Path
//
//	RetrievalFuser -> BuildPrompt -> ChatStreamer -> CollectStream -> AnswerAssembler
//
// # Ingestion Path
//
//	PageExtractor -> Splitter -> IndexWriter -> CatalogStore
package services
