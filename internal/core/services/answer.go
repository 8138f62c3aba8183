package services

import (
	"strings"

	"github.com/ALEX8642/LLM-chatbot/internal/core/domain"
)

// TruncationMarker is appended to snippets cut at the budget.
const TruncationMarker = "…"

// AnswerAssembler builds the final Answer from the evidence window shown
// to the model and the model's text.
type AnswerAssembler struct {
	snippetChars int
}

// NewAnswerAssembler creates an assembler with the given snippet budget in characters.
func NewAnswerAssembler(snippetChars int) *AnswerAssembler {
	if snippetChars <= 0 {
		snippetChars = domain.DefaultSnippetChars
	}
	return &AnswerAssembler{snippetChars: snippetChars}
}

// AnswerInput is everything the assembler combines.
type AnswerInput struct {
	Text     string
	Model    string
	ManualID string
	Partial  bool
	Evidence domain.EvidenceSet
}

// Assemble returns one citation and one section per evidence item, in
// evidence order. TopPages keeps duplicates.
func (a *AnswerAssembler) Assemble(in AnswerInput) *domain.Answer {
	docs := in.Evidence.Documents
	citations := make([]domain.Citation, 0, len(docs))
	sections := make([]domain.ManualSection, 0, len(docs))
	pages := make([]int, 0, len(docs))

	for _, doc := range docs {
		page := doc.Chunk.Metadata.PageOrDefault()
		product := doc.Chunk.Metadata.ProductID

		citations = append(citations, domain.Citation{Page: page, Product: product})
		sections = append(sections, domain.ManualSection{
			Page:    page,
			Product: product,
			Snippet: Snippet(doc.Chunk.Content, a.snippetChars),
		})
		pages = append(pages, page)
	}

	return &domain.Answer{
		Answer:         in.Text,
		Citations:      citations,
		ManualSections: sections,
		UsedModel:      in.Model,
		TopPages:       pages,
		ManualID:       in.ManualID,
		Partial:        in.Partial,
		Retrieval:      in.Evidence.Stats,
	}
}

var newlines = strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ")

// Snippet flattens newlines and cuts text to budget characters, appending
// TruncationMarker when anything was cut.
func Snippet(text string, budget int) string {
	flat := strings.TrimSpace(newlines.Replace(text))
	runes := []rune(flat)
	if len(runes) <= budget {
		return flat
	}
	return string(runes[:budget]) + TruncationMarker
}
