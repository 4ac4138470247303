package llm

import (
	"strings"
	"testing"
)

func TestParseSections(t *testing.T) {
	cases := []struct {
		name           string
		raw            string
		wantParagraph  string
		wantHighlights string
	}{
		{
			name:           "both labels",
			raw:            "Summary Paragraph: The plan is sound.\n\nKey Highlights:\n- Cheap\n- Fast\n",
			wantParagraph:  "The plan is sound.",
			wantHighlights: "- Cheap\n- Fast",
		},
		{
			name:           "case insensitive",
			raw:            "summary paragraph:\nLower case works.\nKEY HIGHLIGHTS: one",
			wantParagraph:  "Lower case works.",
			wantHighlights: "one",
		},
		{
			name:           "no labels",
			raw:            "Here is a summary without structure.",
			wantParagraph:  FallbackSummary,
			wantHighlights: FallbackHighlights,
		},
		{
			name:           "only highlights",
			raw:            "Key Highlights: - a",
			wantParagraph:  FallbackSummary,
			wantHighlights: "- a",
		},
		{
			name:           "summary without highlights label",
			raw:            "Summary Paragraph: dangling text",
			wantParagraph:  FallbackSummary,
			wantHighlights: FallbackHighlights,
		},
		{
			name:           "labels with empty bodies",
			raw:            "Summary Paragraph:\n\nKey Highlights:\n   ",
			wantParagraph:  FallbackSummary,
			wantHighlights: FallbackHighlights,
		},
		{
			name:           "empty",
			raw:            "",
			wantParagraph:  FallbackSummary,
			wantHighlights: FallbackHighlights,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ParseSections(tc.raw)
			if got.Paragraph != tc.wantParagraph {
				t.Errorf("paragraph = %q, want %q", got.Paragraph, tc.wantParagraph)
			}
			if got.Highlights != tc.wantHighlights {
				t.Errorf("highlights = %q, want %q", got.Highlights, tc.wantHighlights)
			}
		})
	}
}

func TestParseSections_KeepsAngleBrackets(t *testing.T) {
	raw := "Summary Paragraph:\nUse Vec<T> and Option<i32>; a<b and c>d hold &amp; <b>stay</b>.\nKey Highlights:\n- Map<K,V> is generic"
	got := ParseSections(raw)
	if got.Paragraph != "Use Vec<T> and Option<i32>; a<b and c>d hold &amp; <b>stay</b>." {
		t.Errorf("paragraph = %q", got.Paragraph)
	}
	if got.Highlights != "- Map<K,V> is generic" {
		t.Errorf("highlights = %q", got.Highlights)
	}
}

func TestPrefixesUseLabels(t *testing.T) {
	if !strings.HasPrefix(SummaryPrefix, LabelSummary) || !strings.HasPrefix(HighlightsPrefix, LabelHighlights) {
		t.Fatal("prefixes must start with their labels")
	}
}
