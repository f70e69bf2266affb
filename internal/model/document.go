package model

import "time"

// Document is the metadata record for an uploaded source file. Its ID tags
// every chunk indexed into the vector store; deleting the document cascades
// to those chunks through the vector index, not through SQL.
type Document struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	FileName        string    `gorm:"size:256;not null" json:"file_name"`
	UploadTimestamp time.Time `gorm:"autoCreateTime;index" json:"upload_timestamp"`
}
