package textsplit

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitEmpty(t *testing.T) {
	s := New(1000, 200)
	assert.Nil(t, s.Split(""))
	assert.Nil(t, s.Split("   \n\t  "))
}

func TestSplitShortTextSingleChunk(t *testing.T) {
	s := New(1000, 200)
	chunks := s.Split("hello world")
	assert.Equal(t, []string{"hello world"}, chunks)
}

func TestSplitWindowAndOverlap(t *testing.T) {
	s := New(10, 4)
	text := strings.Repeat("abcdef", 4) // 24 runes
	chunks := s.Split(text)

	assert.Equal(t, 4, len(chunks))
	for i := 0; i < len(chunks)-1; i++ {
		assert.Equal(t, 10, len([]rune(chunks[i])))
	}
	// consecutive chunks share the overlap suffix/prefix
	for i := 0; i < len(chunks)-1; i++ {
		tail := []rune(chunks[i])
		head := []rune(chunks[i+1])
		assert.Equal(t, string(tail[len(tail)-4:]), string(head[:4]))
	}
}

func TestSplitCountsRunesNotBytes(t *testing.T) {
	s := New(5, 1)
	text := strings.Repeat("màu", 3) // 9 runes, multi-byte accents
	chunks := s.Split(text)

	assert.Equal(t, 2, len(chunks))
	assert.Equal(t, 5, len([]rune(chunks[0])))
	assert.Equal(t, 5, len([]rune(chunks[1])))
}

func TestSplitDropsWhitespaceOnlyWindows(t *testing.T) {
	s := New(4, 0)
	chunks := s.Split("abcd    efgh")

	assert.Equal(t, []string{"abcd", "efgh"}, chunks)
	for _, c := range chunks {
		assert.NotEmpty(t, strings.TrimSpace(c))
	}
}

func TestNewClampsBadOverlap(t *testing.T) {
	s := New(100, 100)
	assert.Equal(t, 20, s.Overlap)

	s = New(0, -1)
	assert.Equal(t, 1000, s.Size)
}
