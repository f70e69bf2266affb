package extract

import (
	"bytes"
	"strings"

	"github.com/ledongthuc/pdf"

	"glamvoice/internal/apperr"
)

func pdfText(data []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", apperr.Validation("cannot parse pdf: %v", err)
	}

	var sb strings.Builder
	totalPage := reader.NumPage()
	for pageIndex := 1; pageIndex <= totalPage; pageIndex++ {
		page := reader.Page(pageIndex)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			// keep going, a single broken page should not sink the upload
			continue
		}
		sb.WriteString(text)
		sb.WriteString("\n")
	}

	result := strings.TrimSpace(sb.String())
	if result == "" {
		return "", apperr.Validation("pdf contains no extractable text")
	}
	return result, nil
}
