package pmi

import (
	"math"
	"sort"
)

// Score is one ranked entry.
type Score struct {
	Token string
	Value float64
}

// Ranking is an ordered list of scores, highest first.
type Ranking []Score

// TopK returns the k highest-scoring entries, ordered descending by score.
// Equal scores are ordered by token ascending so output is reproducible.
// k <= 0 returns every entry. NaN and infinite scores are dropped.
func TopK(scores map[string]float64, k int) Ranking {
	out := make(Ranking, 0, len(scores))
	for tok, v := range scores {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		out = append(out, Score{Token: tok, Value: v})
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Value == out[j].Value {
			return out[i].Token < out[j].Token
		}
		return out[i].Value > out[j].Value
	})

	if k > 0 && len(out) > k {
		out = out[:k]
	}
	return out
}

// Tokens returns the ranked tokens in order.
func (r Ranking) Tokens() []string {
	out := make([]string, len(r))
	for i, s := range r {
		out[i] = s.Token
	}
	return out
}

// Map converts the ranking back to a token -> score mapping.
func (r Ranking) Map() map[string]float64 {
	out := make(map[string]float64, len(r))
	for _, s := range r {
		out[s.Token] = s.Value
	}
	return out
}
