package summarize

import (
	"math"
	"sort"
	"strings"

	"github.com/joseph-ayodele/docsum/constants"
)

// Profile controls how many sentences a length selects:
// N = min(n, clamp(round(n*Ratio), Base, Cap)).
type Profile struct {
	Base  int
	Ratio float64
	Cap   int
}

// DefaultProfiles grow monotonically from short to long.
var DefaultProfiles = map[constants.Length]Profile{
	constants.LengthShort:  {Base: 3, Ratio: 0.10, Cap: 5},
	constants.LengthMedium: {Base: 6, Ratio: 0.20, Cap: 12},
	constants.LengthLong:   {Base: 10, Ratio: 0.30, Cap: 25},
}

// Extractive picks the highest-scoring sentences of a document. It holds no
// mutable state and is safe for concurrent use.
type Extractive struct {
	profiles map[constants.Length]Profile
}

func NewExtractive() *Extractive {
	return &Extractive{profiles: DefaultProfiles}
}

// Count returns how many of n sentences are kept for length.
func (e *Extractive) Count(n int, length constants.Length) int {
	p, ok := e.profiles[length]
	if !ok {
		p = e.profiles[constants.LengthMedium]
	}
	want := int(math.Round(float64(n) * p.Ratio))
	if want < p.Base {
		want = p.Base
	}
	if want > p.Cap {
		want = p.Cap
	}
	if want > n {
		want = n
	}
	return want
}

// Summarize returns the selected sentences in document order joined by a
// single space. Empty input yields "".
func (e *Extractive) Summarize(text string, length constants.Length) string {
	sentences := SplitSentences(text)
	if len(sentences) == 0 {
		return ""
	}
	keep := topIndices(scoreSentences(sentences), e.Count(len(sentences), length))
	picked := make([]string, 0, len(keep))
	for _, i := range keep {
		picked = append(picked, sentences[i])
	}
	return strings.Join(picked, " ")
}

// scoreSentences weights the average normalized term frequency of each
// sentence by its position and length.
func scoreSentences(sentences []string) []float64 {
	n := len(sentences)
	words := make([][]string, n)
	freq := map[string]int{}
	maxFreq := 0
	for i, s := range sentences {
		words[i] = contentWords(s)
		for _, w := range words[i] {
			freq[w]++
			if freq[w] > maxFreq {
				maxFreq = freq[w]
			}
		}
	}

	scores := make([]float64, n)
	for i, s := range sentences {
		if len(words[i]) == 0 || maxFreq == 0 {
			continue
		}
		var sum float64
		for _, w := range words[i] {
			sum += float64(freq[w]) / float64(maxFreq)
		}
		tf := sum / float64(len(words[i]))
		position := 1 + 0.25*(1-float64(i)/float64(n))
		scores[i] = tf * position * lengthWeight(len(strings.Fields(s)))
	}
	return scores
}

func lengthWeight(words int) float64 {
	switch {
	case words < 5:
		return 0.6
	case words > 40:
		return 0.75
	default:
		return 1
	}
}

// topIndices returns the k best indices, ties broken by position, sorted back
// into document order.
func topIndices(scores []float64, k int) []int {
	idx := make([]int, len(scores))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		if scores[idx[a]] != scores[idx[b]] {
			return scores[idx[a]] > scores[idx[b]]
		}
		return idx[a] < idx[b]
	})
	if k > len(idx) {
		k = len(idx)
	}
	keep := append([]int(nil), idx[:k]...)
	sort.Ints(keep)
	return keep
}
