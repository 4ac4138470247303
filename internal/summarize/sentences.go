package summarize

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

var (
	reParagraph = regexp.MustCompile(`\n[ \t]*\n`)
	reWord      = regexp.MustCompile(`[\p{L}\p{N}]+(?:['’][\p{L}]+)?`)
)

// SplitSentences breaks text into sentences. Paragraph breaks always end a
// sentence; inside a paragraph a sentence ends at . ? or ! (plus any closing
// quotes or brackets) followed by whitespace.
func SplitSentences(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	var out []string
	for _, para := range reParagraph.Split(text, -1) {
		para = strings.Join(strings.Fields(para), " ")
		if para == "" {
			continue
		}
		out = append(out, splitParagraph(para)...)
	}
	return out
}

func splitParagraph(p string) []string {
	var out []string
	start := 0
	for i := 0; i < len(p); {
		r, size := utf8.DecodeRuneInString(p[i:])
		i += size
		if !isTerminal(r) {
			continue
		}
		j := i
		for j < len(p) {
			c, n := utf8.DecodeRuneInString(p[j:])
			if !isTerminal(c) && !isCloser(c) {
				break
			}
			j += n
		}
		if j == len(p) {
			break
		}
		next, _ := utf8.DecodeRuneInString(p[j:])
		if !unicode.IsSpace(next) {
			i = j
			continue
		}
		if s := strings.TrimSpace(p[start:j]); s != "" {
			out = append(out, s)
		}
		start = j
		i = j
	}
	if s := strings.TrimSpace(p[start:]); s != "" {
		out = append(out, s)
	}
	return out
}

func isTerminal(r rune) bool { return r == '.' || r == '?' || r == '!' }

func isCloser(r rune) bool {
	switch r {
	case '"', '\'', ')', ']', '}', '”', '’', '»':
		return true
	}
	return false
}

// contentWords returns the lower-cased words of s that carry meaning.
func contentWords(s string) []string {
	words := reWord.FindAllString(strings.ToLower(s), -1)
	out := words[:0]
	for _, w := range words {
		if utf8.RuneCountInString(w) < 2 || isStopword(w) {
			continue
		}
		out = append(out, w)
	}
	return out
}
