package domain

// RetrievalSource identifies which index produced a result.
type RetrievalSource string

// Retrieval sources.
const (
	// SourceDense is embedding similarity search.
	SourceDense RetrievalSource = "dense"

	// SourceSparse is lexical relevance search.
	SourceSparse RetrievalSource = "sparse"
)

// IsValid returns true if the source is recognised.
func (s RetrievalSource) IsValid() bool {
	return s == SourceDense || s == SourceSparse
}

// Other returns the opposite source.
func (s RetrievalSource) Other() RetrievalSource {
	if s == SourceSparse {
		return SourceDense
	}
	return SourceSparse
}

// RetrievedDocument is a chunk returned by one source.
// Score scales differ by source and are not comparable across sources.
type RetrievedDocument struct {
	Chunk  Chunk
	Score  float64
	Source RetrievalSource
}

// EvidenceSet is the fused, deduplicated, length-bounded evidence for one request.
type EvidenceSet struct {
	// Documents is the evidence window in fused order.
	Documents []RetrievedDocument

	// Stats describes how the set was produced.
	Stats RetrievalStats
}

// Len returns the number of evidence items.
func (e EvidenceSet) Len() int {
	return len(e.Documents)
}

// RetrievalStats reports per-source hit counts for one request.
type RetrievalStats struct {
	DenseHits  int `json:"dense_hits"`
	SparseHits int `json:"sparse_hits"`

	// Degraded names the source that failed, empty when both answered.
	Degraded RetrievalSource `json:"degraded,omitempty"`
}
