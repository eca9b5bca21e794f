package pmi

import "github.com/cognicore/cooccur/pkg/cooccur/window"

// Counts holds the frequency and cooccurrence tables for one seed word over
// one scope (a whole corpus or a single group). A Counts is built fresh per
// run and is not safe for concurrent use.
type Counts struct {
	Seed   string
	Window int
	Docs   int64            // number of documents added
	Total  int64            // sum of all token frequencies
	Freq   map[string]int64 // occurrences per token, every target position
	Cooc   map[string]int64 // occurrences per token inside the seed's windows, seed excluded
}

// NewCounts creates empty tables for the given seed and window radius.
func NewCounts(seed string, n int) *Counts {
	return &Counts{
		Seed:   seed,
		Window: n,
		Freq:   make(map[string]int64),
		Cooc:   make(map[string]int64),
	}
}

// AddDocument updates both tables from one tokenized document. Other
// occurrences of the seed inside a seed window are not counted, so the seed
// never cooccurs with itself.
func (c *Counts) AddDocument(tokens []string) {
	c.Docs++
	for target, context := range window.Contexts(tokens, c.Window) {
		c.Freq[target]++
		c.Total++
		if target != c.Seed {
			continue
		}
		for _, w := range context {
			if w == c.Seed {
				continue
			}
			c.Cooc[w]++
		}
	}
}

// GetTokenCount returns the frequency of a token
func (c *Counts) GetTokenCount(t string) int64 {
	return c.Freq[t]
}

// GetCooccurrence returns how often t appeared in a window of the seed
func (c *Counts) GetCooccurrence(t string) int64 {
	return c.Cooc[t]
}

// SeedCount returns the frequency of the seed word
func (c *Counts) SeedCount() int64 {
	return c.Freq[c.Seed]
}

// UniqueTokens returns the number of distinct tokens seen
func (c *Counts) UniqueTokens() int {
	return len(c.Freq)
}

// CooccurringTokens returns the number of distinct tokens with a nonzero
// cooccurrence count.
func (c *Counts) CooccurringTokens() int {
	return len(c.Cooc)
}
