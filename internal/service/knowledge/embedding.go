package knowledge

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/google/generative-ai-go/genai"
	"github.com/sirupsen/logrus"
)

// Embedder turns texts into vectors. Document and query embeddings may use
// different task types.
type Embedder interface {
	EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error)
	EmbedQuery(ctx context.Context, text string) ([]float32, error)
}

// EmbeddingRetriever finds the chunks nearest to the question by L2 distance.
// The index is built on first use; any embedding failure falls back to the
// keyword retriever.
type EmbeddingRetriever struct {
	corpus   *Corpus
	embedder Embedder
	fallback Retriever
	topK     int
	log      logrus.FieldLogger

	mu      sync.Mutex
	vectors [][]float32
}

// NewEmbeddingRetriever builds a retriever that embeds corpus with embedder.
func NewEmbeddingRetriever(corpus *Corpus, embedder Embedder, topK int, log logrus.FieldLogger) *EmbeddingRetriever {
	if topK < 1 {
		topK = DefaultTopK
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &EmbeddingRetriever{
		corpus:   corpus,
		embedder: embedder,
		fallback: NewKeywordRetriever(corpus, topK),
		topK:     topK,
		log:      log,
	}
}

// Retrieve returns the topK nearest chunks joined by the context separator.
func (r *EmbeddingRetriever) Retrieve(ctx context.Context, question string) string {
	if r.corpus == nil || len(r.corpus.Chunks) == 0 {
		return DefaultContext
	}

	vectors, err := r.index(ctx)
	if err != nil {
		r.log.WithError(err).Warn("embedding index unavailable, using keyword retrieval")
		return r.fallback.Retrieve(ctx, question)
	}

	query, err := r.embedder.EmbedQuery(ctx, question)
	if err != nil {
		r.log.WithError(err).Warn("question embedding failed, using keyword retrieval")
		return r.fallback.Retrieve(ctx, question)
	}

	return join(r.nearest(vectors, query))
}

func (r *EmbeddingRetriever) index(ctx context.Context) ([][]float32, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.vectors != nil {
		return r.vectors, nil
	}

	vectors, err := r.embedder.EmbedDocuments(ctx, r.corpus.Chunks)
	if err != nil {
		return nil, err
	}
	if len(vectors) != len(r.corpus.Chunks) {
		return nil, fmt.Errorf("embedder returned %d vectors for %d chunks", len(vectors), len(r.corpus.Chunks))
	}

	r.vectors = vectors
	r.log.WithField("chunks", len(vectors)).Info("knowledge embedding index built")
	return vectors, nil
}

func (r *EmbeddingRetriever) nearest(vectors [][]float32, query []float32) []string {
	order := make([]int, len(vectors))
	dist := make([]float64, len(vectors))
	for i, v := range vectors {
		order[i] = i
		dist[i] = squaredL2(v, query)
	}
	sort.SliceStable(order, func(a, b int) bool { return dist[order[a]] < dist[order[b]] })

	k := min(r.topK, len(order))
	out := make([]string, 0, k)
	for _, i := range order[:k] {
		out = append(out, r.corpus.Chunks[i])
	}
	return out
}

// squaredL2 treats missing trailing dimensions as zero.
func squaredL2(a, b []float32) float64 {
	n := max(len(a), len(b))
	var sum float64
	for i := 0; i < n; i++ {
		var x, y float64
		if i < len(a) {
			x = float64(a[i])
		}
		if i < len(b) {
			y = float64(b[i])
		}
		d := x - y
		sum += d * d
	}
	return sum
}

// maxBatch is the largest batch the embedding endpoint accepts.
const maxBatch = 100

// GeminiEmbedder embeds text with a Gemini embedding model.
type GeminiEmbedder struct {
	documents *genai.EmbeddingModel
	queries   *genai.EmbeddingModel
}

// NewGeminiEmbedder uses model (for example "text-embedding-004") from client.
func NewGeminiEmbedder(client *genai.Client, model string) *GeminiEmbedder {
	documents := client.EmbeddingModel(model)
	documents.TaskType = genai.TaskTypeRetrievalDocument

	queries := client.EmbeddingModel(model)
	queries.TaskType = genai.TaskTypeRetrievalQuery

	return &GeminiEmbedder{documents: documents, queries: queries}
}

// EmbedDocuments embeds texts in batches.
func (e *GeminiEmbedder) EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, 0, len(texts))
	for start := 0; start < len(texts); start += maxBatch {
		end := min(start+maxBatch, len(texts))

		batch := e.documents.NewBatch()
		for _, t := range texts[start:end] {
			batch.AddContent(genai.Text(t))
		}

		res, err := e.documents.BatchEmbedContents(ctx, batch)
		if err != nil {
			return nil, fmt.Errorf("failed to embed documents: %w", err)
		}
		for _, emb := range res.Embeddings {
			if emb == nil {
				return nil, fmt.Errorf("embedding response missing a vector")
			}
			out = append(out, emb.Values)
		}
	}
	return out, nil
}

// EmbedQuery embeds a single question.
func (e *GeminiEmbedder) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	res, err := e.queries.EmbedContent(ctx, genai.Text(text))
	if err != nil {
		return nil, fmt.Errorf("failed to embed question: %w", err)
	}
	if res.Embedding == nil {
		return nil, fmt.Errorf("embedding response missing a vector")
	}
	return res.Embedding.Values, nil
}
