package knowledge

import (
	"context"
	"sort"
	"strings"
)

// KeywordRetriever ranks chunks by how many question words they contain.
type KeywordRetriever struct {
	corpus *Corpus
	topK   int
}

// NewKeywordRetriever builds a keyword retriever over corpus.
func NewKeywordRetriever(corpus *Corpus, topK int) *KeywordRetriever {
	if topK < 1 {
		topK = DefaultTopK
	}
	return &KeywordRetriever{corpus: corpus, topK: topK}
}

// Retrieve returns the best matching chunks. With no match at all the first
// chunks of the corpus are used.
func (r *KeywordRetriever) Retrieve(_ context.Context, question string) string {
	if r.corpus == nil || len(r.corpus.Chunks) == 0 {
		return DefaultContext
	}

	words := strings.Fields(strings.ToLower(question))

	type scored struct {
		score int
		chunk string
	}
	var hits []scored
	for _, chunk := range r.corpus.Chunks {
		lower := strings.ToLower(chunk)
		score := 0
		for _, w := range words {
			if strings.Contains(lower, w) {
				score++
			}
		}
		if score > 0 {
			hits = append(hits, scored{score: score, chunk: chunk})
		}
	}

	if len(hits) == 0 {
		return join(r.corpus.Chunks[:min(r.topK, len(r.corpus.Chunks))])
	}

	sort.SliceStable(hits, func(i, j int) bool { return hits[i].score > hits[j].score })

	top := make([]string, 0, r.topK)
	for _, h := range hits[:min(r.topK, len(hits))] {
		top = append(top, h.chunk)
	}
	return join(top)
}
