package llm

import (
	"regexp"
	"strings"
)

// Labels the model is asked to emit. Nothing outside this package should
// depend on their spelling.
const (
	LabelSummary    = "Summary Paragraph:"
	LabelHighlights = "Key Highlights:"

	// SummaryPrefix and HighlightsPrefix head the assembled result fields.
	SummaryPrefix    = LabelSummary + "\n"
	HighlightsPrefix = LabelHighlights + "\n"

	FallbackSummary    = "Could not generate a summary."
	FallbackHighlights = "No key highlights generated."
)

var (
	reSummary    = regexp.MustCompile(`(?is)Summary Paragraph:\s*(.*?)Key Highlights:`)
	reHighlights = regexp.MustCompile(`(?is)Key Highlights:\s*(.*)`)
)

type Sections struct {
	Paragraph  string
	Highlights string
}

// ParseSections splits a free-form model reply into its two labelled parts.
// It never fails: a missing label, or a label with nothing after it, yields
// the matching fallback text. Captured text is only trimmed.
func ParseSections(raw string) Sections {
	s := Sections{Paragraph: FallbackSummary, Highlights: FallbackHighlights}
	if m := reSummary.FindStringSubmatch(raw); m != nil {
		if p := strings.TrimSpace(m[1]); p != "" {
			s.Paragraph = p
		}
	}
	if m := reHighlights.FindStringSubmatch(raw); m != nil {
		if h := strings.TrimSpace(m[1]); h != "" {
			s.Highlights = h
		}
	}
	return s
}
