// Package summarizer produces short extractive summaries used to describe
// freshly ingested documents.
package summarizer

import (
	"math"
	"regexp"
	"sort"
	"strings"
)

var (
	sentencePattern = regexp.MustCompile(`(?m)(?U)([^.!?]+[.!?])`)
	tokenPattern    = regexp.MustCompile(`[\p{L}\p{N}]+`)
)

// Frequency ranks sentences by normalized token frequency and returns the
// top sentences in their original order.
type Frequency struct{}

// NewFrequency creates a frequency-based extractive summarizer.
func NewFrequency() *Frequency { return &Frequency{} }

// Summarize returns at most maxSentences sentences selected by token
// frequency, preserving source order among the selected sentences.
func (f *Frequency) Summarize(text string, maxSentences int) (string, error) {
	if maxSentences <= 0 {
		maxSentences = 5
	}
	sentences := sentencePattern.FindAllString(text, -1)
	if len(sentences) == 0 {
		return strings.TrimSpace(text), nil
	}

	freq := map[string]float64{}
	for _, sent := range sentences {
		for _, tok := range tokens(sent) {
			freq[tok]++
		}
	}
	maxF := 0.0
	for _, v := range freq {
		if v > maxF {
			maxF = v
		}
	}
	if maxF > 0 {
		for k := range freq {
			freq[k] /= maxF
		}
	}

	type ranked struct {
		idx   int
		score float64
	}
	scores := make([]ranked, len(sentences))
	for i, sent := range sentences {
		toks := tokens(sent)
		score := 0.0
		for _, tok := range toks {
			score += freq[tok]
		}
		// Length normalization keeps long sentences from dominating.
		if n := float64(len(toks)); n > 0 {
			score /= math.Sqrt(n)
		}
		scores[i] = ranked{i, score}
	}
	sort.Slice(scores, func(i, j int) bool { return scores[i].score > scores[j].score })

	if maxSentences > len(scores) {
		maxSentences = len(scores)
	}
	selected := make([]int, maxSentences)
	for i := range selected {
		selected[i] = scores[i].idx
	}
	sort.Ints(selected)

	out := make([]string, len(selected))
	for i, idx := range selected {
		out[i] = strings.TrimSpace(sentences[idx])
	}
	return strings.Join(out, " "), nil
}

func tokens(text string) []string {
	return tokenPattern.FindAllString(strings.ToLower(text), -1)
}
