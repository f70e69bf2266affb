package app

import (
	"context"
	"log"

	"glamvoice/internal/apperr"
	"glamvoice/internal/extract"
	"glamvoice/internal/model"
	"glamvoice/internal/repository"
	"glamvoice/internal/textsplit"
	"glamvoice/internal/vectorindex"
)

// chunkIndex is the slice of the vector index the document service needs.
type chunkIndex interface {
	Add(ctx context.Context, chunks []vectorindex.Chunk) error
	DeleteByFileID(ctx context.Context, fileID int64) error
}

// DocumentService owns the knowledge base: ingesting uploads into MySQL and
// the vector index, listing them, and removing them from both stores.
type DocumentService struct {
	docs     *repository.DocumentRepository
	index    chunkIndex
	splitter textsplit.Splitter
}

func NewDocumentService(docs *repository.DocumentRepository, index chunkIndex, splitter textsplit.Splitter) *DocumentService {
	return &DocumentService{docs: docs, index: index, splitter: splitter}
}

// Ingest extracts, records, chunks, and indexes one uploaded file. If
// indexing fails the document record is rolled back so the catalog never
// lists a document whose chunks are not searchable.
func (s *DocumentService) Ingest(ctx context.Context, fileName string, data []byte) (*model.Document, error) {
	if !extract.Allowed(fileName) {
		return nil, apperr.Validation("unsupported file type for %q, allowed: pdf, docx, html", fileName)
	}
	if len(data) == 0 {
		return nil, apperr.Validation("uploaded file is empty")
	}

	text, err := extract.Text(fileName, data)
	if err != nil {
		return nil, err
	}

	doc, err := s.docs.Insert(fileName)
	if err != nil {
		return nil, apperr.Upstream(err, "save document record failed")
	}

	pieces := s.splitter.Split(text)
	chunks := make([]vectorindex.Chunk, len(pieces))
	for i, piece := range pieces {
		chunks[i] = vectorindex.Chunk{
			Text:   piece,
			FileID: int64(doc.ID),
			Index:  int64(i),
		}
	}

	if err := s.index.Add(ctx, chunks); err != nil {
		// roll back the record, otherwise /list-docs would advertise a
		// document that retrieval can never see
		if _, delErr := s.docs.Delete(doc.ID); delErr != nil {
			log.Printf("[doc] rollback of document %d failed, record is orphaned: %v", doc.ID, delErr)
		}
		return nil, err
	}

	log.Printf("[doc] ingested %q as document %d (%d chunks)", fileName, doc.ID, len(chunks))
	return doc, nil
}

// List returns all documents, newest upload first.
func (s *DocumentService) List() ([]model.Document, error) {
	docs, err := s.docs.List()
	if err != nil {
		return nil, apperr.Upstream(err, "list documents failed")
	}
	return docs, nil
}

// Delete removes a document and its vectors. Vectors go first: if that
// fails the record stays so the caller can retry; a record without vectors
// would be unreachable garbage.
func (s *DocumentService) Delete(ctx context.Context, id uint) error {
	doc, err := s.docs.Get(id)
	if err != nil {
		return apperr.Upstream(err, "load document failed")
	}
	if doc == nil {
		return apperr.NotFound("document %d does not exist", id)
	}

	if err := s.index.DeleteByFileID(ctx, int64(id)); err != nil {
		return err
	}

	deleted, err := s.docs.Delete(id)
	if err != nil {
		return apperr.Upstream(err, "delete document record failed")
	}
	if !deleted {
		return apperr.NotFound("document %d does not exist", id)
	}
	log.Printf("[doc] deleted document %d (%s)", id, doc.FileName)
	return nil
}
