package corpus

import (
	"sort"
	"strings"

	"github.com/cognicore/cooccur/pkg/cooccur/internalerr"
)

// Document is one cleaned text: an ordered token sequence plus the metadata
// attributes it can be grouped by. Documents are not modified after loading.
type Document struct {
	ID     string
	Tokens []string
	Attrs  map[string]string
}

// NewDocument tokenizes clean text on whitespace.
func NewDocument(id, cleanText string, attrs map[string]string) Document {
	if attrs == nil {
		attrs = map[string]string{}
	}
	return Document{
		ID:     id,
		Tokens: Tokenize(cleanText),
		Attrs:  attrs,
	}
}

// Tokenize splits clean text on runs of whitespace.
func Tokenize(cleanText string) []string {
	return strings.Fields(cleanText)
}

// Attr returns the value of a metadata attribute.
func (d Document) Attr(key string) (string, bool) {
	v, ok := d.Attrs[key]
	return v, ok
}

// Validate checks that the document has an id to join metadata on.
func (d Document) Validate() error {
	if strings.TrimSpace(d.ID) == "" {
		return internalerr.Input("document id is required")
	}
	return nil
}

// Corpus is an ordered collection of documents.
type Corpus struct {
	Docs []Document
}

// New wraps docs in a Corpus.
func New(docs []Document) Corpus {
	return Corpus{Docs: docs}
}

// Len returns the number of documents.
func (c Corpus) Len() int {
	return len(c.Docs)
}

// Tokens returns each document's token slice, in corpus order.
func (c Corpus) Tokens() [][]string {
	out := make([][]string, len(c.Docs))
	for i, d := range c.Docs {
		out[i] = d.Tokens
	}
	return out
}

// Attributes returns the sorted union of attribute names over all documents.
func (c Corpus) Attributes() []string {
	seen := make(map[string]struct{})
	for _, d := range c.Docs {
		for k := range d.Attrs {
			seen[k] = struct{}{}
		}
	}
	out := make([]string, 0, len(seen))
	for k := range seen {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
