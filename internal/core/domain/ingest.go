package domain

// IngestOptions controls an ingestion run.
type IngestOptions struct {
	// Reset discards both index generations before writing.
	Reset bool
}

// WriteResult is the outcome of writing chunks to both stores.
// Counts reflect only what landed; a failed store reports zero.
type WriteResult struct {
	DenseWritten  int `json:"chunks_written_dense"`
	SparseWritten int `json:"chunks_written_sparse"`

	DenseError  string `json:"dense_error,omitempty"`
	SparseError string `json:"sparse_error,omitempty"`
}

// Add accumulates another result. The first error per store is kept.
func (r *WriteResult) Add(other WriteResult) {
	r.DenseWritten += other.DenseWritten
	r.SparseWritten += other.SparseWritten
	if r.DenseError == "" {
		r.DenseError = other.DenseError
	}
	if r.SparseError == "" {
		r.SparseError = other.SparseError
	}
}

// Partial returns true if exactly one store reported an error.
func (r WriteResult) Partial() bool {
	return (r.DenseError == "") != (r.SparseError == "")
}

// Failed returns true if both stores reported an error and nothing landed.
func (r WriteResult) Failed() bool {
	return r.DenseError != "" && r.SparseError != "" && r.DenseWritten == 0 && r.SparseWritten == 0
}

// ManualReport is the ingestion outcome for one document.
type ManualReport struct {
	Manual Manual `json:"manual"`
	File   string `json:"file"`
	Pages  int    `json:"pages"`
	Chunks int    `json:"chunks"`

	WriteResult
}

// IngestReport summarises an ingestion run.
type IngestReport struct {
	Manuals []ManualReport `json:"manuals"`

	// Skipped lists files that could not be read.
	Skipped []string `json:"skipped,omitempty"`

	// Totals sums the per-manual write results.
	Totals WriteResult `json:"totals"`
}
