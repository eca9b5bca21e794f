package ingest

import "strings"

// Pipeline orchestrates the cleaning flow:
// text → tokenization → stopword removal → stemming
type Pipeline struct {
	tokenizer *Tokenizer
	stemmer   *Stemmer
}

// NewPipeline creates a cleaning pipeline with the given components. A nil
// stemmer leaves tokens unstemmed.
func NewPipeline(tokenizer *Tokenizer, stemmer *Stemmer) *Pipeline {
	if tokenizer == nil {
		tokenizer = NewTokenizer(nil)
	}
	return &Pipeline{
		tokenizer: tokenizer,
		stemmer:   stemmer,
	}
}

// Process runs a document through the pipeline and returns its tokens.
func (p *Pipeline) Process(text string) []string {
	tokens := p.tokenizer.Tokenize(text)
	for i, tok := range tokens {
		tokens[i] = p.stemmer.Stem(tok)
	}
	return tokens
}

// Clean returns the clean text of a document: its tokens joined by single
// spaces, ready to be split again with strings.Fields.
func (p *Pipeline) Clean(text string) string {
	return strings.Join(p.Process(text), " ")
}
