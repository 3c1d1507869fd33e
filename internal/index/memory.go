package index

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/tmc/langchaingo/embeddings"
	"github.com/tmc/langchaingo/schema"
)

// Memory is an in-process vector index: documents are embedded once at
// startup and queries are answered by brute-force cosine similarity. The
// index is shared across requests and safe for concurrent searches.
type Memory struct {
	embedder embeddings.Embedder
	topK     int

	mu      sync.RWMutex
	vectors [][]float32
	docs    []schema.Document
}

// NewMemory creates an empty index. topK bounds the number of documents a
// search returns.
func NewMemory(embedder embeddings.Embedder, topK int) *Memory {
	if topK <= 0 {
		topK = 4
	}
	return &Memory{embedder: embedder, topK: topK}
}

// Index embeds the documents in one batch and replaces the index contents.
func (m *Memory) Index(ctx context.Context, docs []schema.Document) error {
	if len(docs) == 0 {
		m.mu.Lock()
		m.vectors, m.docs = nil, nil
		m.mu.Unlock()
		return nil
	}

	texts := make([]string, len(docs))
	for i, doc := range docs {
		texts[i] = doc.PageContent
	}

	vectors, err := m.embedder.EmbedDocuments(ctx, texts)
	if err != nil {
		return fmt.Errorf("embed documents: %w", err)
	}
	if len(vectors) != len(docs) {
		return fmt.Errorf("embedding count mismatch: got %d, want %d", len(vectors), len(docs))
	}

	m.mu.Lock()
	m.vectors = vectors
	m.docs = docs
	m.mu.Unlock()
	return nil
}

// Len returns the number of indexed document chunks.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.docs)
}

// Search returns up to topK documents ranked by cosine similarity to the
// query, most similar first. Ties keep insertion order. An empty index
// yields an empty result, not an error.
func (m *Memory) Search(ctx context.Context, query string) ([]schema.Document, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if len(m.docs) == 0 {
		return []schema.Document{}, nil
	}

	queryVec, err := m.embedder.EmbedQuery(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	scores := make([]float64, len(m.vectors))
	for i, vec := range m.vectors {
		scores[i] = cosine(queryVec, vec)
	}

	order := make([]int, len(scores))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return scores[order[a]] > scores[order[b]]
	})

	k := m.topK
	if k > len(order) {
		k = len(order)
	}
	results := make([]schema.Document, 0, k)
	for _, idx := range order[:k] {
		doc := m.docs[idx]
		doc.Score = float32(scores[idx])
		results = append(results, doc)
	}
	return results, nil
}

func cosine(a, b []float32) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var dot, normA, normB float64
	for i := 0; i < n; i++ {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
