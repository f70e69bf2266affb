package intent

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"unicode"
)

const (
	clsToken = "[CLS]"
	sepToken = "[SEP]"
	padToken = "[PAD]"
	unkToken = "[UNK]"
)

// Tokenizer is a WordPiece tokenizer over a BERT-style vocab.txt, one token
// per line, line number = token id.
type Tokenizer struct {
	vocab  map[string]int64
	maxLen int
}

func NewTokenizer(vocabPath string, maxLen int) (*Tokenizer, error) {
	if maxLen <= 0 {
		maxLen = 64
	}

	f, err := os.Open(vocabPath)
	if err != nil {
		return nil, fmt.Errorf("open vocab: %w", err)
	}
	defer f.Close()

	vocab := make(map[string]int64)
	sc := bufio.NewScanner(f)
	var id int64
	for sc.Scan() {
		vocab[strings.TrimSpace(sc.Text())] = id
		id++
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read vocab: %w", err)
	}
	for _, special := range []string{clsToken, sepToken, padToken, unkToken} {
		if _, ok := vocab[special]; !ok {
			return nil, fmt.Errorf("vocab is missing %s", special)
		}
	}
	return &Tokenizer{vocab: vocab, maxLen: maxLen}, nil
}

// Encode returns input ids and attention mask, both of length maxLen:
// [CLS] tokens... [SEP] padded with [PAD].
func (t *Tokenizer) Encode(text string) ([]int64, []int64) {
	words := basicTokenize(text)

	ids := make([]int64, 0, t.maxLen)
	ids = append(ids, t.vocab[clsToken])
	for _, w := range words {
		if len(ids) >= t.maxLen-1 {
			break
		}
		for _, id := range t.wordpiece(w) {
			if len(ids) >= t.maxLen-1 {
				break
			}
			ids = append(ids, id)
		}
	}
	ids = append(ids, t.vocab[sepToken])

	mask := make([]int64, t.maxLen)
	for i := range ids {
		mask[i] = 1
	}
	for len(ids) < t.maxLen {
		ids = append(ids, t.vocab[padToken])
	}
	return ids, mask
}

// wordpiece splits a word greedily into the longest known pieces, with the
// "##" continuation prefix after the first piece.
func (t *Tokenizer) wordpiece(word string) []int64 {
	runes := []rune(word)
	var pieces []int64
	start := 0
	for start < len(runes) {
		end := len(runes)
		var found int64 = -1
		for end > start {
			piece := string(runes[start:end])
			if start > 0 {
				piece = "##" + piece
			}
			if id, ok := t.vocab[piece]; ok {
				found = id
				break
			}
			end--
		}
		if found < 0 {
			return []int64{t.vocab[unkToken]}
		}
		pieces = append(pieces, found)
		start = end
	}
	return pieces
}

// basicTokenize lowercases and splits on whitespace, breaking punctuation
// into standalone tokens the way BERT's basic tokenizer does.
func basicTokenize(text string) []string {
	text = strings.ToLower(strings.TrimSpace(text))
	var words []string
	var current strings.Builder
	flush := func() {
		if current.Len() > 0 {
			words = append(words, current.String())
			current.Reset()
		}
	}
	for _, r := range text {
		switch {
		case unicode.IsSpace(r):
			flush()
		case unicode.IsPunct(r):
			flush()
			words = append(words, string(r))
		default:
			current.WriteRune(r)
		}
	}
	flush()
	return words
}
