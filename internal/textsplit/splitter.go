package textsplit

import "strings"

// Splitter cuts text into overlapping rune windows. Overlap keeps sentences
// that straddle a boundary retrievable from both neighbouring chunks.
type Splitter struct {
	Size    int
	Overlap int
}

func New(size, overlap int) Splitter {
	if size <= 0 {
		size = 1000
	}
	if overlap < 0 || overlap >= size {
		overlap = size / 5
	}
	return Splitter{Size: size, Overlap: overlap}
}

// Split returns the chunks of text in order. Whitespace-only windows are
// dropped, so every returned chunk has at least one non-space rune. Each
// chunk except possibly the last has exactly Size runes.
func (s Splitter) Split(text string) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	runes := []rune(text)
	if len(runes) <= s.Size {
		return []string{text}
	}

	step := s.Size - s.Overlap
	var chunks []string
	for start := 0; start < len(runes); start += step {
		end := start + s.Size
		last := false
		if end >= len(runes) {
			end = len(runes)
			last = true
		}
		if chunk := string(runes[start:end]); strings.TrimSpace(chunk) != "" {
			chunks = append(chunks, chunk)
		}
		if last {
			break
		}
	}
	return chunks
}
