package llm

import (
	"strings"

	"github.com/joseph-ayodele/docsum/constants"
)

const systemPrompt = "You are a careful document summarizer. Summarize only what the document says. " +
	"Do not invent facts, do not add commentary, and answer in plain text without markdown or HTML."

func lengthHint(length constants.Length) string {
	switch length {
	case constants.LengthShort:
		return "Write a short summary: a paragraph of 2-3 sentences and 3 key highlights."
	case constants.LengthLong:
		return "Write a detailed summary: a paragraph of 8-12 sentences and 6-10 key highlights."
	default:
		return "Write a medium-length summary: a paragraph of 4-6 sentences and 4-6 key highlights."
	}
}

// buildUserPrompt embeds the length hint, the two-label output contract and
// the (already truncated) document text.
func buildUserPrompt(text string, length constants.Length) string {
	var b strings.Builder
	b.WriteString(lengthHint(length))
	b.WriteString("\n\nUse exactly this format:\n")
	b.WriteString(LabelSummary)
	b.WriteString("\n<one paragraph>\n\n")
	b.WriteString(LabelHighlights)
	b.WriteString("\n- <highlight>\n- <highlight>\n\n")
	b.WriteString("Document text:\n")
	b.WriteString(text)
	return b.String()
}

// truncateRunes cuts s to at most max runes.
func truncateRunes(s string, max int) (string, bool) {
	if max <= 0 || len(s) <= max {
		return s, false
	}
	n := 0
	for i := range s {
		if n == max {
			return s[:i], true
		}
		n++
	}
	return s, false
}
