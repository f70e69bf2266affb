package vectorindex

import (
	"context"
	"fmt"

	"glamvoice/internal/apperr"
)

// Chunk is one indexable piece of a document, tagged with its owner so the
// document's vectors can be removed as a unit later.
type Chunk struct {
	Text   string
	FileID int64
	Index  int64
}

// Match is one retrieval hit, most similar first.
type Match struct {
	Text   string
	FileID int64
	Score  float32
}

// Embedder turns text into vectors. Implemented by the LLM embedding client.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
}

// Store is the vector database surface the index needs.
type Store interface {
	Insert(ctx context.Context, vectors [][]float32, fileIDs, chunkIndexes []int64, contents []string) error
	Search(ctx context.Context, vector []float32, topK int) ([]Match, error)
	DeleteByFileID(ctx context.Context, fileID int64) error
}

// Index embeds chunks and round-trips them through the vector store.
type Index struct {
	store     Store
	embedder  Embedder
	batchSize int
}

func New(store Store, embedder Embedder, batchSize int) *Index {
	if batchSize <= 0 {
		batchSize = 16
	}
	return &Index{store: store, embedder: embedder, batchSize: batchSize}
}

// Add embeds and stores all chunks. Batches keep a big document from
// exceeding the embedding endpoint's per-request limits.
func (i *Index) Add(ctx context.Context, chunks []Chunk) error {
	if len(chunks) == 0 {
		return nil
	}

	for start := 0; start < len(chunks); start += i.batchSize {
		end := start + i.batchSize
		if end > len(chunks) {
			end = len(chunks)
		}
		batch := chunks[start:end]

		texts := make([]string, len(batch))
		fileIDs := make([]int64, len(batch))
		chunkIndexes := make([]int64, len(batch))
		for j, ch := range batch {
			texts[j] = ch.Text
			fileIDs[j] = ch.FileID
			chunkIndexes[j] = ch.Index
		}

		vectors, err := i.embedder.EmbedBatch(ctx, texts)
		if err != nil {
			return apperr.Upstream(err, "embed document chunks failed")
		}
		if len(vectors) != len(batch) {
			return apperr.Upstream(fmt.Errorf("%d chunks, %d vectors", len(batch), len(vectors)), "embedding count mismatch")
		}

		if err := i.store.Insert(ctx, vectors, fileIDs, chunkIndexes, texts); err != nil {
			return apperr.Upstream(err, "store document vectors failed")
		}
	}
	return nil
}

// Query embeds the query text and returns the topK nearest chunks.
func (i *Index) Query(ctx context.Context, text string, topK int) ([]Match, error) {
	if topK <= 0 {
		topK = 3
	}
	vector, err := i.embedder.Embed(ctx, text)
	if err != nil {
		return nil, apperr.Upstream(err, "embed query failed")
	}
	matches, err := i.store.Search(ctx, vector, topK)
	if err != nil {
		return nil, apperr.Upstream(err, "vector search failed")
	}
	return matches, nil
}

// DeleteByFileID removes every vector tagged with the document.
func (i *Index) DeleteByFileID(ctx context.Context, fileID int64) error {
	if err := i.store.DeleteByFileID(ctx, fileID); err != nil {
		return apperr.Upstream(err, "delete document vectors failed")
	}
	return nil
}
