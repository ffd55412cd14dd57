package vector

import (
	"context"
	"sort"

	"github.com/cloudwego/eino/components/embedding"
)

// Passage is an embedded chunk of a document
type Passage struct {
	Content    string
	ChunkIndex int
	Vector     []float64
}

// SearchResult is a passage with its similarity to the query
type SearchResult struct {
	Passage Passage
	Score   float64
}

// MemoryIndex ranks the passages of one document against queries.
// It lives for a single question and is not safe for concurrent writes.
type MemoryIndex struct {
	embeddings *EmbeddingService
	passages   []Passage
}

// NewMemoryIndex creates an empty index backed by embedder
func NewMemoryIndex(embedder embedding.Embedder) *MemoryIndex {
	return &MemoryIndex{embeddings: NewEmbeddingService(embedder)}
}

// AddChunks embeds all chunks in one batch and adds them to the index
func (m *MemoryIndex) AddChunks(ctx context.Context, chunks []Chunk) error {
	if len(chunks) == 0 {
		return nil
	}
	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Content
	}
	vectors, err := m.embeddings.EmbedBatch(ctx, texts)
	if err != nil {
		return err
	}
	for i, c := range chunks {
		m.passages = append(m.passages, Passage{
			Content:    c.Content,
			ChunkIndex: c.ChunkIndex,
			Vector:     vectors[i],
		})
	}
	return nil
}

// Search returns the topK passages most similar to query, best first.
// Equal scores keep document order.
func (m *MemoryIndex) Search(ctx context.Context, query string, topK int) ([]SearchResult, error) {
	if topK <= 0 || len(m.passages) == 0 {
		return []SearchResult{}, nil
	}
	queryVec, err := m.embeddings.Embed(ctx, query)
	if err != nil {
		return nil, err
	}

	results := make([]SearchResult, len(m.passages))
	for i, p := range m.passages {
		results[i] = SearchResult{Passage: p, Score: CosineSimilarity(queryVec, p.Vector)}
	}
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	if len(results) > topK {
		results = results[:topK]
	}
	return results, nil
}

// Count returns the number of indexed passages
func (m *MemoryIndex) Count() int {
	return len(m.passages)
}
