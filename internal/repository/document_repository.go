package repository

import (
	"fmt"

	"gorm.io/gorm"

	"glamvoice/internal/model"
)

type DocumentRepository struct {
	db *gorm.DB
}

func NewDocumentRepository(db *gorm.DB) *DocumentRepository {
	return &DocumentRepository{db: db}
}

// Insert creates a record with a server-assigned timestamp and returns it.
func (r *DocumentRepository) Insert(fileName string) (*model.Document, error) {
	doc := &model.Document{FileName: fileName}
	if err := r.db.Create(doc).Error; err != nil {
		return nil, fmt.Errorf("insert document record failed: %w", err)
	}
	return doc, nil
}

// List returns all documents, newest upload first. Empty slice on no data.
func (r *DocumentRepository) List() ([]model.Document, error) {
	docs := make([]model.Document, 0)
	if err := r.db.Order("upload_timestamp DESC, id DESC").Find(&docs).Error; err != nil {
		return nil, fmt.Errorf("list documents failed: %w", err)
	}
	return docs, nil
}

// Get returns the document with the given id, or nil when absent.
func (r *DocumentRepository) Get(id uint) (*model.Document, error) {
	var doc model.Document
	if err := r.db.First(&doc, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("get document failed: %w", err)
	}
	return &doc, nil
}

// Delete removes the record and reports whether it existed. Idempotent.
func (r *DocumentRepository) Delete(id uint) (bool, error) {
	res := r.db.Delete(&model.Document{}, id)
	if res.Error != nil {
		return false, fmt.Errorf("delete document record failed: %w", res.Error)
	}
	return res.RowsAffected > 0, nil
}
