// Package milvus wraps the Milvus SDK client behind the small surface the
// vector index needs: one chunk collection with a fixed schema, batch insert,
// cosine ANN search, and delete-by-filter.
package milvus

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/milvus-io/milvus/client/v2/column"
	"github.com/milvus-io/milvus/client/v2/entity"
	"github.com/milvus-io/milvus/client/v2/index"
	"github.com/milvus-io/milvus/client/v2/milvusclient"

	"glamvoice/internal/apperr"
)

const (
	fieldID         = "id"
	fieldEmbedding  = "embedding"
	fieldFileID     = "file_id"
	fieldChunkIndex = "chunk_index"
	fieldContent    = "content"
)

type Options struct {
	Address  string
	Username string
	Password string
	Database string
	// Timeout bounds the dial and every data-path call.
	Timeout time.Duration
}

// Client wraps the Milvus SDK client.
type Client struct {
	client  *milvusclient.Client
	timeout time.Duration
}

func New(ctx context.Context, opts Options) (*Client, error) {
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}
	dialCtx, cancel := context.WithTimeout(ctx, opts.Timeout)
	defer cancel()

	c, err := milvusclient.New(dialCtx, &milvusclient.ClientConfig{
		Address:  opts.Address,
		Username: opts.Username,
		Password: opts.Password,
		DBName:   opts.Database,
	})
	if err != nil {
		return nil, fmt.Errorf("connect to milvus failed: %w", err)
	}
	return &Client{client: c, timeout: opts.Timeout}, nil
}

// opCtx bounds one data-path operation. Request contexts carry no deadline
// of their own, and a stalled gRPC stream must not hang the request forever.
func (c *Client) opCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, c.timeout)
}

// Ping verifies the server answers metadata requests.
func (c *Client) Ping(ctx context.Context, collection string) error {
	ctx, cancel := c.opCtx(ctx)
	defer cancel()
	if _, err := c.client.HasCollection(ctx, milvusclient.NewHasCollectionOption(collection)); err != nil {
		return fmt.Errorf("milvus health check failed: %w", err)
	}
	return nil
}

func (c *Client) Close(ctx context.Context) error {
	return c.client.Close(ctx)
}

// EnsureCollection creates the chunk collection with the given vector
// dimensionality, or verifies the dimensionality of an existing one.
// A dimension mismatch means the embedding model changed without re-indexing,
// which is rejected rather than silently corrupting similarity scores.
func (c *Client) EnsureCollection(ctx context.Context, name string, dim int) error {
	ctx, cancel := c.opCtx(ctx)
	defer cancel()

	exists, err := c.client.HasCollection(ctx, milvusclient.NewHasCollectionOption(name))
	if err != nil {
		return fmt.Errorf("check collection existence failed: %w", err)
	}

	if exists {
		existingDim, err := c.collectionDimension(ctx, name)
		if err != nil {
			return err
		}
		if existingDim != dim {
			return apperr.Consistency(
				"collection %q has vector dimension %d but the active embedding model produces %d; re-index before switching models",
				name, existingDim, dim,
			)
		}
		return c.loadCollection(ctx, name)
	}

	schema := entity.NewSchema().
		WithName(name).
		WithDescription("embedded text chunks of uploaded tutorial documents").
		WithAutoID(true).
		WithField(entity.NewField().
			WithName(fieldID).
			WithDataType(entity.FieldTypeInt64).
			WithIsPrimaryKey(true).
			WithIsAutoID(true)).
		WithField(entity.NewField().
			WithName(fieldEmbedding).
			WithDataType(entity.FieldTypeFloatVector).
			WithDim(int64(dim))).
		WithField(entity.NewField().
			WithName(fieldFileID).
			WithDataType(entity.FieldTypeInt64)).
		WithField(entity.NewField().
			WithName(fieldChunkIndex).
			WithDataType(entity.FieldTypeInt64)).
		WithField(entity.NewField().
			WithName(fieldContent).
			WithDataType(entity.FieldTypeVarChar).
			WithMaxLength(65535))

	if err := c.client.CreateCollection(ctx, milvusclient.NewCreateCollectionOption(name, schema)); err != nil {
		return fmt.Errorf("create collection failed: %w", err)
	}

	idx := index.NewIvfFlatIndex(entity.COSINE, 128)
	createIdxTask, err := c.client.CreateIndex(ctx, milvusclient.NewCreateIndexOption(name, fieldEmbedding, idx))
	if err != nil {
		return fmt.Errorf("create vector index failed: %w", err)
	}
	if err := createIdxTask.Await(ctx); err != nil {
		return fmt.Errorf("wait for vector index failed: %w", err)
	}

	return c.loadCollection(ctx, name)
}

func (c *Client) collectionDimension(ctx context.Context, name string) (int, error) {
	coll, err := c.client.DescribeCollection(ctx, milvusclient.NewDescribeCollectionOption(name))
	if err != nil {
		return 0, fmt.Errorf("describe collection failed: %w", err)
	}
	for _, f := range coll.Schema.Fields {
		if f.Name != fieldEmbedding {
			continue
		}
		raw, ok := f.TypeParams["dim"]
		if !ok {
			break
		}
		dim, err := strconv.Atoi(raw)
		if err != nil {
			return 0, fmt.Errorf("parse collection dimension %q failed: %w", raw, err)
		}
		return dim, nil
	}
	return 0, apperr.Consistency("collection %q has no %s vector field", name, fieldEmbedding)
}

func (c *Client) loadCollection(ctx context.Context, name string) error {
	loadTask, err := c.client.LoadCollection(ctx, milvusclient.NewLoadCollectionOption(name))
	if err != nil {
		return fmt.Errorf("load collection failed: %w", err)
	}
	if err := loadTask.Await(ctx); err != nil {
		return fmt.Errorf("wait for collection loading failed: %w", err)
	}
	return nil
}

// Insert writes one batch of chunks. All slices must have equal length.
// A flush follows every insert so freshly indexed documents are immediately
// searchable; ingestion is rare enough that the cost does not matter.
func (c *Client) Insert(ctx context.Context, collection string, vectors [][]float32, fileIDs, chunkIndexes []int64, contents []string) error {
	if len(vectors) == 0 {
		return nil
	}
	ctx, cancel := c.opCtx(ctx)
	defer cancel()
	if len(fileIDs) != len(vectors) || len(chunkIndexes) != len(vectors) || len(contents) != len(vectors) {
		return fmt.Errorf("insert column length mismatch: %d vectors, %d file ids, %d chunk indexes, %d contents",
			len(vectors), len(fileIDs), len(chunkIndexes), len(contents))
	}

	cols := []column.Column{
		column.NewColumnFloatVector(fieldEmbedding, len(vectors[0]), vectors),
		column.NewColumnInt64(fieldFileID, fileIDs),
		column.NewColumnInt64(fieldChunkIndex, chunkIndexes),
		column.NewColumnVarChar(fieldContent, contents),
	}

	if _, err := c.client.Insert(ctx, milvusclient.NewColumnBasedInsertOption(collection, cols...)); err != nil {
		return fmt.Errorf("insert chunks failed: %w", err)
	}

	flushTask, err := c.client.Flush(ctx, milvusclient.NewFlushOption(collection))
	if err != nil {
		return fmt.Errorf("flush collection failed: %w", err)
	}
	if err := flushTask.Await(ctx); err != nil {
		return fmt.Errorf("wait for flush failed: %w", err)
	}
	return nil
}

// Hit is one search result.
type Hit struct {
	Content string
	FileID  int64
	Score   float32
}

// Search returns the topK nearest chunks by cosine similarity, best first.
func (c *Client) Search(ctx context.Context, collection string, vector []float32, topK int) ([]Hit, error) {
	ctx, cancel := c.opCtx(ctx)
	defer cancel()

	results, err := c.client.Search(ctx, milvusclient.NewSearchOption(
		collection,
		topK,
		[]entity.Vector{entity.FloatVector(vector)},
	).WithANNSField(fieldEmbedding).
		WithSearchParam("nprobe", "16").
		WithOutputFields(fieldContent, fieldFileID))
	if err != nil {
		return nil, fmt.Errorf("search failed: %w", err)
	}

	if len(results) == 0 {
		return []Hit{}, nil
	}

	rs := results[0]
	hits := make([]Hit, 0, rs.ResultCount)
	for i := 0; i < rs.ResultCount; i++ {
		hit := Hit{Score: rs.Scores[i]}
		for _, field := range rs.Fields {
			switch col := field.(type) {
			case *column.ColumnVarChar:
				if col.Name() == fieldContent {
					hit.Content = col.Data()[i]
				}
			case *column.ColumnInt64:
				if col.Name() == fieldFileID {
					hit.FileID = col.Data()[i]
				}
			}
		}
		hits = append(hits, hit)
	}
	return hits, nil
}

// DeleteByFileID removes every chunk tagged with fileID. Deleting a file id
// that owns no chunks is a no-op, not an error.
func (c *Client) DeleteByFileID(ctx context.Context, collection string, fileID int64) error {
	ctx, cancel := c.opCtx(ctx)
	defer cancel()

	expr := fmt.Sprintf("%s == %d", fieldFileID, fileID)
	if _, err := c.client.Delete(ctx, milvusclient.NewDeleteOption(collection).WithExpr(expr)); err != nil {
		return fmt.Errorf("delete chunks for file %d failed: %w", fileID, err)
	}
	return nil
}
