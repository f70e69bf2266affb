package extract

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"glamvoice/internal/apperr"
)

// docxText walks word/document.xml inside the docx zip container and joins
// the text runs, one line per paragraph. Enough for chunking; formatting is
// deliberately ignored.
func docxText(data []byte) (string, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", apperr.Validation("cannot open docx container: %v", err)
	}

	var docXML io.ReadCloser
	for _, f := range zr.File {
		if f.Name == "word/document.xml" {
			docXML, err = f.Open()
			if err != nil {
				return "", fmt.Errorf("open docx document.xml failed: %w", err)
			}
			break
		}
	}
	if docXML == nil {
		return "", apperr.Validation("docx has no word/document.xml")
	}
	defer docXML.Close()

	text, err := wordXMLText(docXML)
	if err != nil {
		return "", apperr.Validation("cannot parse docx xml: %v", err)
	}
	if text == "" {
		return "", apperr.Validation("docx contains no extractable text")
	}
	return text, nil
}

func wordXMLText(r io.Reader) (string, error) {
	decoder := xml.NewDecoder(r)

	var sb strings.Builder
	var inText bool
	for {
		tok, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Local == "t" {
				inText = true
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inText = false
			case "p":
				sb.WriteString("\n")
			}
		case xml.CharData:
			if inText {
				sb.Write(t)
			}
		}
	}
	return strings.TrimSpace(sb.String()), nil
}
