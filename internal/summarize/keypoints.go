package summarize

import (
	"regexp"
	"strings"
)

const (
	MaxKeyPoints = 7
	MinKeyPoints = 3
)

var reClause = regexp.MustCompile(`\s*[;:]\s*`)

// KeyPoints turns a summary into bullet items: one per sentence, trailing
// punctuation removed, case-insensitive duplicates dropped. A summary made
// only of punctuation becomes a single item holding the trimmed summary.
func KeyPoints(summary string) []string {
	items := dedupe(SplitSentences(summary))
	if len(items) == 0 {
		if s := strings.TrimSpace(summary); s != "" {
			return []string{s}
		}
		return nil
	}
	if len(items) < MinKeyPoints {
		var clauses []string
		for _, it := range items {
			clauses = append(clauses, reClause.Split(it, -1)...)
		}
		if clauses = dedupe(clauses); len(clauses) > len(items) {
			items = clauses
		}
	}
	if len(items) > MaxKeyPoints {
		keep := topIndices(scoreSentences(items), MaxKeyPoints)
		picked := make([]string, 0, len(keep))
		for _, i := range keep {
			picked = append(picked, items[i])
		}
		items = picked
	}
	return items
}

func dedupe(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		s = strings.TrimSpace(strings.TrimRight(strings.TrimSpace(s), ".?!…"))
		if s == "" {
			continue
		}
		key := strings.ToLower(s)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, s)
	}
	return out
}
