// Package window produces (target, context) pairs from a token sequence using
// a symmetric sliding window.
package window

import "iter"

// Span returns the half-open bounds [lo, hi) of the window of radius n around
// position i in a sequence of the given length. Bounds are clipped to the
// sequence; there is no wraparound. Negative radii are treated as zero.
func Span(i, length, n int) (lo, hi int) {
	if n < 0 {
		n = 0
	}
	lo = max(i-n, 0)
	hi = min(i+n+1, length)
	return lo, hi
}

// Contexts yields one (target, context) pair per token position, in document
// order. The context holds the tokens within n positions on either side of
// the target, in order, excluding the target's own position.
//
// The sequence is recomputed on every range, so it can be iterated any number
// of times. Each yielded context is a fresh slice owned by the caller.
func Contexts(tokens []string, n int) iter.Seq2[string, []string] {
	return func(yield func(string, []string) bool) {
		for i, target := range tokens {
			lo, hi := Span(i, len(tokens), n)
			context := make([]string, 0, hi-lo-1)
			context = append(context, tokens[lo:i]...)
			context = append(context, tokens[i+1:hi]...)
			if !yield(target, context) {
				return
			}
		}
	}
}

// Pair is a materialized (target, context) pair.
type Pair struct {
	Target  string
	Context []string
}

// Pairs collects Contexts into a slice. Intended for small inputs and tests;
// counting code should range over Contexts directly.
func Pairs(tokens []string, n int) []Pair {
	out := make([]Pair, 0, len(tokens))
	for target, context := range Contexts(tokens, n) {
		out = append(out, Pair{Target: target, Context: context})
	}
	return out
}
