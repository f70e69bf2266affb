package intent

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func writeVocab(t *testing.T, lines string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "vocab.txt")
	assert.NoError(t, os.WriteFile(path, []byte(lines), 0o644))
	return path
}

const testVocab = "[PAD]\n[UNK]\n[CLS]\n[SEP]\nhello\nmake\n##up\nhow\nto\napply\n?\n"

func TestTokenizerEncodeBasic(t *testing.T) {
	tok, err := NewTokenizer(writeVocab(t, testVocab), 8)
	assert.NoError(t, err)

	ids, mask := tok.Encode("hello makeup")

	// [CLS] hello make ##up [SEP] [PAD] [PAD] [PAD]
	assert.Equal(t, []int64{2, 4, 5, 6, 3, 0, 0, 0}, ids)
	assert.Equal(t, []int64{1, 1, 1, 1, 1, 0, 0, 0}, mask)
}

func TestTokenizerPunctuationAndUnknown(t *testing.T) {
	tok, err := NewTokenizer(writeVocab(t, testVocab), 8)
	assert.NoError(t, err)

	ids, _ := tok.Encode("How to apply xyzzy?")

	// [CLS] how to apply [UNK] ? [SEP] [PAD]
	assert.Equal(t, []int64{2, 7, 8, 9, 1, 10, 3, 0}, ids)
}

func TestTokenizerTruncatesToMaxLen(t *testing.T) {
	tok, err := NewTokenizer(writeVocab(t, testVocab), 4)
	assert.NoError(t, err)

	ids, mask := tok.Encode("hello hello hello hello hello")

	assert.Equal(t, 4, len(ids))
	assert.Equal(t, 4, len(mask))
	assert.Equal(t, int64(2), ids[0])
	assert.Equal(t, int64(3), ids[3]) // [SEP] always closes the sequence
}

func TestTokenizerRejectsVocabWithoutSpecials(t *testing.T) {
	_, err := NewTokenizer(writeVocab(t, "hello\nworld\n"), 8)
	assert.Error(t, err)
}
