package services

import (
	"strconv"
	"strings"

	"github.com/ALEX8642/LLM-chatbot/internal/core/domain"
)

const promptInstructions = `You are a careful technical support assistant.
Answer the user's question following these rules:
- Use the manual excerpts as the primary source of truth.
- Prefer exact terminology from the excerpts (e.g., feature names, selectors, parameters).
- If you cannot find enough information, say so clearly.
- You may combine steps across excerpts if they describe parts of the same procedure.
- Do not add extra interface elements or buttons unless named in the excerpts.
`

// noExcerpts stands in for the excerpt list when retrieval found nothing.
const noExcerpts = "(no excerpts were found in this manual)"

// BuildPrompt renders the fixed instruction template around the evidence
// window. Excerpt text is only whitespace-normalised.
func BuildPrompt(query string, evidence []domain.RetrievedDocument) string {
	var b strings.Builder
	b.WriteString(promptInstructions)
	b.WriteString("\nUser question:\n")
	b.WriteString(query)
	b.WriteString("\n\nManual excerpts:\n")

	if len(evidence) == 0 {
		b.WriteString(noExcerpts)
		b.WriteString("\n")
		return b.String()
	}

	for i, doc := range evidence {
		if i > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString("[Page ")
		b.WriteString(strconv.Itoa(doc.Chunk.Metadata.PageOrDefault()))
		b.WriteString("] ")
		b.WriteString(strings.Join(strings.Fields(doc.Chunk.Content), " "))
	}
	b.WriteString("\n")

	return b.String()
}
