package generate

import (
	"fmt"
	"strings"
)

// BuildPrompt assembles the generation prompt from the user query and the
// retrieved context chunks. With no context it produces a prompt that asks
// the model to explain that no document is selected.
func BuildPrompt(query string, contextChunks []string) string {
	if len(contextChunks) == 0 {
		return fmt.Sprintf(`You are a helpful assistant for a document question-answering tool.

The user asked: %q

No document content was retrieved for this question. Reply briefly and
explain that a document must be ingested and selected before questions
about it can be answered.`, query)
	}

	var b strings.Builder
	b.WriteString("You are an assistant answering questions about an ingested document.\n\n")
	b.WriteString("DOCUMENT CONTEXT:\n")
	b.WriteString(strings.Join(contextChunks, "\n\n"))
	b.WriteString("\n\nUSER QUESTION: ")
	b.WriteString(query)
	b.WriteString("\n\nAnswer using only the document context above. Reference specific passages where helpful, and say so plainly when the context does not contain the answer.")
	return b.String()
}
