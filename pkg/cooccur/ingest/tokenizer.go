package ingest

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// Tokenizer splits raw text into lowercase alphabetic words and drops
// stopwords. Anything that is not a letter separates words, so digits and
// punctuation never reach the output.
type Tokenizer struct {
	stopwords map[string]struct{}
}

// NewTokenizer creates a new tokenizer with the given stopword list
func NewTokenizer(stopwords []string) *Tokenizer {
	stops := make(map[string]struct{}, len(stopwords))
	for _, w := range stopwords {
		w = normalize(strings.TrimSpace(w))
		if w == "" {
			continue
		}
		stops[w] = struct{}{}
	}
	return &Tokenizer{stopwords: stops}
}

// Tokenize splits text into normalized tokens, removing stopwords.
func (t *Tokenizer) Tokenize(text string) []string {
	var tokens []string
	var current strings.Builder

	flush := func() {
		if current.Len() == 0 {
			return
		}
		word := current.String()
		current.Reset()
		if !t.IsStopword(word) {
			tokens = append(tokens, word)
		}
	}

	for _, r := range norm.NFC.String(text) {
		if unicode.IsLetter(r) || unicode.Is(unicode.Mn, r) {
			current.WriteRune(unicode.ToLower(r))
			continue
		}
		flush()
	}
	flush()

	return tokens
}

// IsStopword reports whether word is on the stoplist. The check is made on
// the lowercase surface form.
func (t *Tokenizer) IsStopword(word string) bool {
	_, ok := t.stopwords[normalize(word)]
	return ok
}

// Stopwords returns the number of configured stopwords.
func (t *Tokenizer) Stopwords() int {
	return len(t.stopwords)
}

func normalize(s string) string {
	return strings.ToLower(norm.NFC.String(s))
}
