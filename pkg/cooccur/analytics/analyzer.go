// Package analytics aggregates plain token statistics over a corpus. It
// backs the word-count tool and the corpus summary logged before a run.
package analytics

import (
	"encoding/csv"
	"io"
	"sort"
	"strconv"
)

// Analyzer aggregates corpus-level token counts.
type Analyzer struct {
	totalDocs   int64
	totalTokens int64
	tokenCount  map[string]int64
	tokenDF     map[string]int64
}

// NewAnalyzer creates an empty analyzer.
func NewAnalyzer() *Analyzer {
	return &Analyzer{
		tokenCount: make(map[string]int64),
		tokenDF:    make(map[string]int64),
	}
}

// Process consumes one document's tokens.
func (a *Analyzer) Process(tokens []string) {
	a.totalDocs++

	seen := make(map[string]struct{}, len(tokens))
	for _, tok := range tokens {
		if tok == "" {
			continue
		}
		a.totalTokens++
		a.tokenCount[tok]++
		if _, ok := seen[tok]; ok {
			continue
		}
		seen[tok] = struct{}{}
		a.tokenDF[tok]++
	}
}

// Stats exposes the aggregated counts.
type Stats struct {
	TotalDocs   int64
	TotalTokens int64
	Counts      map[string]int64 // occurrences
	DocFreq     map[string]int64 // documents containing the token
}

// Snapshot returns a copy of the accumulated statistics.
func (a *Analyzer) Snapshot() Stats {
	counts := make(map[string]int64, len(a.tokenCount))
	for tok, n := range a.tokenCount {
		counts[tok] = n
	}
	df := make(map[string]int64, len(a.tokenDF))
	for tok, n := range a.tokenDF {
		df[tok] = n
	}
	return Stats{
		TotalDocs:   a.totalDocs,
		TotalTokens: a.totalTokens,
		Counts:      counts,
		DocFreq:     df,
	}
}

// UniqueTokens returns the vocabulary size.
func (s Stats) UniqueTokens() int {
	return len(s.Counts)
}

// Entry is one row of a frequency ranking.
type Entry struct {
	Rank      int
	Word      string
	Frequency int64
}

// MostCommon ranks words by frequency, highest first. Equal frequencies are
// ordered by word so the ranking is stable across runs. A non-positive limit
// returns every word.
func (s Stats) MostCommon(limit int) []Entry {
	entries := make([]Entry, 0, len(s.Counts))
	for word, n := range s.Counts {
		entries = append(entries, Entry{Word: word, Frequency: n})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Frequency == entries[j].Frequency {
			return entries[i].Word < entries[j].Word
		}
		return entries[i].Frequency > entries[j].Frequency
	})
	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	for i := range entries {
		entries[i].Rank = i + 1
	}
	return entries
}

// WriteCSV writes a ranking with a Rank,Word,Frequency header.
func WriteCSV(w io.Writer, entries []Entry) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"Rank", "Word", "Frequency"}); err != nil {
		return err
	}
	for _, e := range entries {
		row := []string{strconv.Itoa(e.Rank), e.Word, strconv.FormatInt(e.Frequency, 10)}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
