package embedding

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Tokenizer produces token IDs for BERT-style models (input_ids, attention_mask, token_type_ids).
// All three slices have length maxTokens; positions past the text are padding with mask 0.
type Tokenizer interface {
	Tokenize(text string, maxTokens int) (inputIDs, attentionMask, tokenTypeIDs []int64)
}

const (
	clsToken = "[CLS]"
	sepToken = "[SEP]"
	unkToken = "[UNK]"
	padToken = "[PAD]"

	defaultCLSID = 101
	defaultSEPID = 102

	maxCharsPerWord = 100
)

// HashTokenizer is a word-split tokenizer with hash-based token IDs (for testing or fallback
// when no vocabulary file is configured).
type HashTokenizer struct{}

// Tokenize splits text into words and produces padded token IDs up to maxTokens.
func (t *HashTokenizer) Tokenize(text string, maxTokens int) (inputIDs, attentionMask, tokenTypeIDs []int64) {
	words := SplitWords(text)
	ids := make([]int64, len(words))
	for i, word := range words {
		ids[i] = int64(HashString(word) % 30000)
	}
	return frame(ids, defaultCLSID, defaultSEPID, 0, maxTokens)
}

// WordPieceTokenizer implements uncased BERT tokenization over a vocab.txt file:
// lowercasing, accent stripping, punctuation splitting and greedy longest-match word pieces.
type WordPieceTokenizer struct {
	vocab map[string]int64
	clsID int64
	sepID int64
	unkID int64
	padID int64
}

// LoadWordPieceTokenizer reads a vocab.txt (one token per line, line number = id).
func LoadWordPieceTokenizer(path string) (*WordPieceTokenizer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open vocab: %w", err)
	}
	defer f.Close()

	var tokens []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		tokens = append(tokens, strings.TrimRight(scanner.Text(), "\r"))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read vocab: %w", err)
	}
	return NewWordPieceTokenizer(tokens)
}

// NewWordPieceTokenizer builds a tokenizer from an ordered token list.
func NewWordPieceTokenizer(tokens []string) (*WordPieceTokenizer, error) {
	vocab := make(map[string]int64, len(tokens))
	for i, tok := range tokens {
		if _, dup := vocab[tok]; !dup {
			vocab[tok] = int64(i)
		}
	}
	t := &WordPieceTokenizer{vocab: vocab}
	for _, special := range []struct {
		token string
		id    *int64
	}{{clsToken, &t.clsID}, {sepToken, &t.sepID}, {unkToken, &t.unkID}, {padToken, &t.padID}} {
		id, ok := vocab[special.token]
		if !ok {
			return nil, fmt.Errorf("vocab is missing %s", special.token)
		}
		*special.id = id
	}
	return t, nil
}

// Tokenize converts text into framed, padded WordPiece IDs.
func (t *WordPieceTokenizer) Tokenize(text string, maxTokens int) (inputIDs, attentionMask, tokenTypeIDs []int64) {
	var ids []int64
	for _, word := range basicTokenize(text) {
		ids = append(ids, t.wordPieces(word)...)
	}
	return frame(ids, t.clsID, t.sepID, t.padID, maxTokens)
}

func (t *WordPieceTokenizer) wordPieces(word string) []int64 {
	chars := []rune(word)
	if len(chars) > maxCharsPerWord {
		return []int64{t.unkID}
	}
	var pieces []int64
	for start := 0; start < len(chars); {
		end := len(chars)
		found := int64(-1)
		for end > start {
			sub := string(chars[start:end])
			if start > 0 {
				sub = "##" + sub
			}
			if id, ok := t.vocab[sub]; ok {
				found = id
				break
			}
			end--
		}
		if found < 0 {
			return []int64{t.unkID}
		}
		pieces = append(pieces, found)
		start = end
	}
	return pieces
}

// stripAccents builds a fresh chain per call; transformers carry state.
func stripAccents() transform.Transformer {
	return transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
}

// basicTokenize lowercases, strips accents, and splits on whitespace and punctuation.
func basicTokenize(text string) []string {
	cleaned, _, err := transform.String(stripAccents(), strings.ToLower(text))
	if err != nil {
		cleaned = strings.ToLower(text)
	}
	var (
		words []string
		cur   strings.Builder
	)
	flush := func() {
		if cur.Len() > 0 {
			words = append(words, cur.String())
			cur.Reset()
		}
	}
	for _, r := range cleaned {
		switch {
		case r == 0 || r == unicode.ReplacementChar || unicode.IsControl(r) && !unicode.IsSpace(r):
			continue
		case unicode.IsSpace(r):
			flush()
		case isPunctuation(r):
			flush()
			words = append(words, string(r))
		default:
			cur.WriteRune(r)
		}
	}
	flush()
	return words
}

func isPunctuation(r rune) bool {
	if (r >= 33 && r <= 47) || (r >= 58 && r <= 64) || (r >= 91 && r <= 96) || (r >= 123 && r <= 126) {
		return true
	}
	return unicode.IsPunct(r)
}

// frame wraps ids in [CLS] ... [SEP], truncating and padding to maxTokens.
func frame(ids []int64, clsID, sepID, padID int64, maxTokens int) (inputIDs, attentionMask, tokenTypeIDs []int64) {
	if maxTokens < 2 {
		maxTokens = 256
	}
	if len(ids) > maxTokens-2 {
		ids = ids[:maxTokens-2]
	}
	inputIDs = make([]int64, maxTokens)
	attentionMask = make([]int64, maxTokens)
	tokenTypeIDs = make([]int64, maxTokens)
	for i := range inputIDs {
		inputIDs[i] = padID
	}

	inputIDs[0] = clsID
	attentionMask[0] = 1
	pos := 1
	for _, id := range ids {
		inputIDs[pos] = id
		attentionMask[pos] = 1
		pos++
	}
	inputIDs[pos] = sepID
	attentionMask[pos] = 1
	return inputIDs, attentionMask, tokenTypeIDs
}

// SplitWords splits text on whitespace and returns non-empty words.
func SplitWords(text string) []string {
	return strings.Fields(text)
}

// HashString returns a deterministic non-negative hash for use as a simple token ID.
func HashString(s string) int {
	h := 0
	for _, c := range s {
		h = 31*h + int(c)
	}
	if h < 0 {
		h = -h
	}
	if h < 0 { // -MinInt overflows
		h = 0
	}
	return h
}
