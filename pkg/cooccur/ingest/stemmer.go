package ingest

import (
	"strings"

	"github.com/kljensen/snowball"

	"github.com/cognicore/cooccur/pkg/cooccur/internalerr"
)

// Languages lists the stemming languages understood by NewStemmer.
var Languages = []string{"english", "french", "hungarian", "norwegian", "russian", "spanish", "swedish"}

// Stemmer reduces words to their snowball stem. A zero Stemmer (no
// language) returns words unchanged.
type Stemmer struct {
	language string
}

// NewStemmer returns a stemmer for language. An empty language or "none"
// disables stemming.
func NewStemmer(language string) (*Stemmer, error) {
	language = strings.ToLower(strings.TrimSpace(language))
	if language == "" || language == "none" {
		return &Stemmer{}, nil
	}
	if _, err := snowball.Stem("running", language, true); err != nil {
		return nil, internalerr.Config("unsupported stemming language %q (supported: %s)", language, strings.Join(Languages, ", "))
	}
	return &Stemmer{language: language}, nil
}

// Language returns the configured language, or "" when stemming is off.
func (s *Stemmer) Language() string {
	if s == nil {
		return ""
	}
	return s.language
}

// Stem returns the stem of word.
func (s *Stemmer) Stem(word string) string {
	if s == nil || s.language == "" {
		return word
	}
	stemmed, err := snowball.Stem(word, s.language, true)
	if err != nil || stemmed == "" {
		return word
	}
	return stemmed
}
