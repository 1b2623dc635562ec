package encoder

// defaultStopwords is a fixed English stop-word set. The exact list is an
// implementation detail; what matters is that ingestion and query share it.
func defaultStopwords() map[string]struct{} {
	words := []string{
		"the", "and", "but", "for", "are", "was", "were", "been", "being",
		"this", "that", "these", "those", "from", "down", "over", "under",
		"again", "further", "than", "such", "into", "about", "between",
		"through", "during", "before", "after", "above", "below", "out",
		"off", "own", "same", "too", "very", "can", "will", "just", "don",
		"should", "now", "then", "else", "with", "not", "you", "your",
		"they", "them", "their", "what", "which", "who", "whom", "has",
		"have", "had", "does", "did", "doing", "would", "could",
	}
	m := make(map[string]struct{}, len(words))
	for _, w := range words {
		m[w] = struct{}{}
	}
	return m
}
