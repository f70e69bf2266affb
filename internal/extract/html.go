package extract

import (
	"bytes"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"glamvoice/internal/apperr"
)

func htmlText(data []byte) (string, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(data))
	if err != nil {
		return "", apperr.Validation("cannot parse html: %v", err)
	}

	doc.Find("script, style, noscript").Remove()

	root := doc.Find("body")
	if root.Length() == 0 {
		root = doc.Selection
	}

	var sb strings.Builder
	root.Each(func(_ int, s *goquery.Selection) {
		sb.WriteString(s.Text())
	})

	result := collapseWhitespace(sb.String())
	if result == "" {
		return "", apperr.Validation("html contains no extractable text")
	}
	return result, nil
}

// collapseWhitespace normalizes runs of blank space so chunk boundaries land
// on real content instead of markup indentation.
func collapseWhitespace(s string) string {
	fields := strings.Fields(s)
	return strings.Join(fields, " ")
}
