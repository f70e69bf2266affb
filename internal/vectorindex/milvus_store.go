package vectorindex

import (
	"context"

	"glamvoice/internal/platform/milvus"
)

// MilvusStore binds the shared Milvus client to one collection.
type MilvusStore struct {
	client     *milvus.Client
	collection string
}

func NewMilvusStore(client *milvus.Client, collection string) *MilvusStore {
	return &MilvusStore{client: client, collection: collection}
}

func (s *MilvusStore) Insert(ctx context.Context, vectors [][]float32, fileIDs, chunkIndexes []int64, contents []string) error {
	return s.client.Insert(ctx, s.collection, vectors, fileIDs, chunkIndexes, contents)
}

func (s *MilvusStore) Search(ctx context.Context, vector []float32, topK int) ([]Match, error) {
	hits, err := s.client.Search(ctx, s.collection, vector, topK)
	if err != nil {
		return nil, err
	}
	matches := make([]Match, len(hits))
	for i, h := range hits {
		matches[i] = Match{Text: h.Content, FileID: h.FileID, Score: h.Score}
	}
	return matches, nil
}

func (s *MilvusStore) DeleteByFileID(ctx context.Context, fileID int64) error {
	return s.client.DeleteByFileID(ctx, s.collection, fileID)
}
