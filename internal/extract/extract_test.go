package extract

import (
	"archive/zip"
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"glamvoice/internal/apperr"
)

func TestAllowed(t *testing.T) {
	assert.True(t, Allowed("guide.pdf"))
	assert.True(t, Allowed("Lesson.DOCX"))
	assert.True(t, Allowed("tutorial.html"))
	assert.False(t, Allowed("notes.txt"))
	assert.False(t, Allowed("archive.zip"))
	assert.False(t, Allowed("noextension"))
}

func TestTextUnsupportedExtension(t *testing.T) {
	_, err := Text("malware.exe", []byte("x"))
	assert.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))
}

func TestHTMLTextStripsMarkup(t *testing.T) {
	html := []byte(`<html><head><style>body{color:red}</style></head>
<body><h1>Son môi</h1><script>alert(1)</script><p>Bước 1: thoa đều.</p></body></html>`)

	text, err := Text("lesson.html", html)
	assert.NoError(t, err)
	assert.Contains(t, text, "Son môi")
	assert.Contains(t, text, "Bước 1: thoa đều.")
	assert.NotContains(t, text, "alert")
	assert.NotContains(t, text, "color:red")
}

func TestHTMLTextEmptyBody(t *testing.T) {
	_, err := Text("empty.html", []byte("<html><body>   </body></html>"))
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))
}

func TestDocxText(t *testing.T) {
	doc := buildDocx(t, `<?xml version="1.0"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
  <w:body>
    <w:p><w:r><w:t>Trang điểm cơ bản</w:t></w:r></w:p>
    <w:p><w:r><w:t>Dùng đầu ngón tay</w:t></w:r><w:r><w:t> để tán kem.</w:t></w:r></w:p>
  </w:body>
</w:document>`)

	text, err := Text("basics.docx", doc)
	assert.NoError(t, err)
	assert.Contains(t, text, "Trang điểm cơ bản")
	assert.Contains(t, text, "Dùng đầu ngón tay để tán kem.")
}

func TestDocxTextMissingDocumentXML(t *testing.T) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("word/other.xml")
	assert.NoError(t, err)
	_, err = w.Write([]byte("<x/>"))
	assert.NoError(t, err)
	assert.NoError(t, zw.Close())

	_, err = Text("broken.docx", buf.Bytes())
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))
}

func TestPDFTextGarbage(t *testing.T) {
	_, err := Text("fake.pdf", []byte("this is not a pdf"))
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))
}

func buildDocx(t *testing.T, documentXML string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("word/document.xml")
	assert.NoError(t, err)
	_, err = w.Write([]byte(documentXML))
	assert.NoError(t, err)
	assert.NoError(t, zw.Close())
	return buf.Bytes()
}
