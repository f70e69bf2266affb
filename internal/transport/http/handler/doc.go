package handler

import (
	"io"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"glamvoice/internal/app"
	"glamvoice/internal/transport/http/response"
)

const maxUploadSize = 10 << 20 // 10 MB

type DocHandler struct {
	docService *app.DocumentService
}

type DeleteDocRequest struct {
	FileID uint `json:"file_id" binding:"required"`
}

type DocumentResponse struct {
	FileID          uint      `json:"file_id"`
	FileName        string    `json:"file_name"`
	UploadTimestamp time.Time `json:"upload_timestamp"`
}

func NewDocHandler(docService *app.DocumentService) *DocHandler {
	return &DocHandler{docService: docService}
}

// Upload accepts a multipart form with "file" and ingests it into the
// knowledge base.
func (h *DocHandler) Upload(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "missing file")
		return
	}
	if file.Size > maxUploadSize {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "file too large (max 10MB)")
		return
	}

	f, err := file.Open()
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "failed to read file")
		return
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "failed to read file")
		return
	}

	doc, err := h.docService.Ingest(c.Request.Context(), file.Filename, data)
	if err != nil {
		log.Printf("[http] upload of %q failed: %v", file.Filename, err)
		response.FromError(c, err, "document ingestion failed")
		return
	}

	response.OK(c, DocumentResponse{
		FileID:          doc.ID,
		FileName:        doc.FileName,
		UploadTimestamp: doc.UploadTimestamp,
	})
}

func (h *DocHandler) List(c *gin.Context) {
	docs, err := h.docService.List()
	if err != nil {
		log.Printf("[http] list documents failed: %v", err)
		response.FromError(c, err, "list documents failed")
		return
	}

	items := make([]DocumentResponse, len(docs))
	for i, d := range docs {
		items[i] = DocumentResponse{
			FileID:          d.ID,
			FileName:        d.FileName,
			UploadTimestamp: d.UploadTimestamp,
		}
	}
	response.OK(c, items)
}

func (h *DocHandler) Delete(c *gin.Context) {
	var req DeleteDocRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid request payload")
		return
	}

	if err := h.docService.Delete(c.Request.Context(), req.FileID); err != nil {
		log.Printf("[http] delete document %d failed: %v", req.FileID, err)
		response.FromError(c, err, "delete document failed")
		return
	}

	response.OK(c, gin.H{"deleted_file_id": req.FileID})
}
