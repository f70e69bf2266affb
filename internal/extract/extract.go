package extract

import (
	"path/filepath"
	"strings"

	"glamvoice/internal/apperr"
)

// Supported upload formats. Anything else is rejected before extraction.
var allowedExtensions = map[string]bool{
	".pdf":  true,
	".docx": true,
	".html": true,
}

// Allowed reports whether the file name carries a supported extension.
func Allowed(fileName string) bool {
	return allowedExtensions[strings.ToLower(filepath.Ext(fileName))]
}

// Text extracts the plain text of an uploaded document by extension.
// Unsupported extensions return a validation error; a supported file that
// cannot be parsed returns a validation error too, since the payload is the
// caller's input.
func Text(fileName string, data []byte) (string, error) {
	ext := strings.ToLower(filepath.Ext(fileName))
	switch ext {
	case ".pdf":
		return pdfText(data)
	case ".docx":
		return docxText(data)
	case ".html":
		return htmlText(data)
	default:
		return "", apperr.Validation("unsupported file type %q, allowed: pdf, docx, html", ext)
	}
}
