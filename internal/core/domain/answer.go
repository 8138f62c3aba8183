package domain

// Citation references one evidence item shown to the model.
type Citation struct {
	Page    int     `json:"page"`
	Product *string `json:"product"`
}

// ManualSection is a display snippet of one evidence item.
type ManualSection struct {
	Page    int     `json:"page"`
	Product *string `json:"product"`
	Snippet string  `json:"snippet"`
}

// Answer is the terminal result of a question. It is never mutated
// after construction.
type Answer struct {
	Answer         string          `json:"answer"`
	Citations      []Citation      `json:"citations"`
	ManualSections []ManualSection `json:"manual_sections"`
	UsedModel      string          `json:"used_model"`
	TopPages       []int           `json:"top_pages"`
	ManualID       string          `json:"manual_id,omitempty"`

	// Partial is set when the model stream ended before its done signal.
	Partial bool `json:"partial,omitempty"`

	Retrieval RetrievalStats `json:"retrieval"`
}

// AskRequest is a question restricted to one manual.
type AskRequest struct {
	Query    string `json:"query"`
	ManualID string `json:"manual_id"`

	// Model overrides the configured model when set.
	Model string `json:"model,omitempty"`
}
