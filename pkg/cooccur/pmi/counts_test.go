package pmi

import (
	"strings"
	"testing"
)

func TestCountsBasic(t *testing.T) {
	counts := NewCounts("a", 1)
	counts.AddDocument([]string{"a", "b", "c"})

	if counts.Docs != 1 {
		t.Errorf("Expected 1 document, got %d", counts.Docs)
	}
	if counts.Total != 3 {
		t.Errorf("Expected 3 total tokens, got %d", counts.Total)
	}
	if counts.GetTokenCount("c") != 1 {
		t.Error("Token 'c' should have count 1")
	}
	if counts.GetCooccurrence("b") != 1 {
		t.Errorf("b should cooccur once with seed, got %d", counts.GetCooccurrence("b"))
	}
	if counts.GetCooccurrence("c") != 0 {
		t.Error("c lies outside the seed's window and should not cooccur")
	}
}

func TestCountsFrequencyEveryPosition(t *testing.T) {
	counts := NewCounts("seed", 2)
	counts.AddDocument([]string{"x", "y", "x", "x"})
	counts.AddDocument([]string{"y", "x"})

	// Frequencies count every occurrence, even when the seed never appears.
	if counts.GetTokenCount("x") != 4 {
		t.Errorf("x: got %d, want 4", counts.GetTokenCount("x"))
	}
	if counts.GetTokenCount("y") != 2 {
		t.Errorf("y: got %d, want 2", counts.GetTokenCount("y"))
	}
	if counts.Total != 6 {
		t.Errorf("total: got %d, want 6", counts.Total)
	}
	if counts.CooccurringTokens() != 0 {
		t.Errorf("no seed, expected empty cooccurrence table, got %d", counts.CooccurringTokens())
	}
}

func TestCountsCooccurrenceAcrossDocuments(t *testing.T) {
	counts := NewCounts("a", 1)
	counts.AddDocument([]string{"a", "b", "c", "b", "a"})
	counts.AddDocument([]string{"b", "a", "d"})

	// doc1: a@0 -> [b], a@4 -> [b]; doc2: a@1 -> [b d]
	if got := counts.GetCooccurrence("b"); got != 3 {
		t.Errorf("b: got %d, want 3", got)
	}
	if got := counts.GetCooccurrence("d"); got != 1 {
		t.Errorf("d: got %d, want 1", got)
	}
	if got := counts.GetCooccurrence("c"); got != 0 {
		t.Errorf("c: got %d, want 0", got)
	}
	if counts.SeedCount() != 3 {
		t.Errorf("seed count: got %d, want 3", counts.SeedCount())
	}
}

func TestCountsSeedNeverCooccursWithItself(t *testing.T) {
	counts := NewCounts("a", 1)
	counts.AddDocument(strings.Fields("a a a"))

	if counts.GetTokenCount("a") != 3 {
		t.Errorf("frequency(a): got %d, want 3", counts.GetTokenCount("a"))
	}
	if counts.GetCooccurrence("a") != 0 {
		t.Errorf("cooccurrence(a, a): got %d, want 0", counts.GetCooccurrence("a"))
	}
}

func TestCountsEmptyDocument(t *testing.T) {
	counts := NewCounts("a", 3)
	counts.AddDocument([]string{})

	if counts.Docs != 1 {
		t.Error("Empty document should still increment doc count")
	}
	if counts.UniqueTokens() != 0 {
		t.Error("Empty document should not add tokens")
	}
}

func TestCountsWindowMonotonicity(t *testing.T) {
	docs := [][]string{
		strings.Fields("the quick brown fox jumps over the lazy dog"),
		strings.Fields("a lazy fox naps while the quick dog runs"),
		strings.Fields("fox"),
		strings.Fields("dog and fox and cat and bird and fox"),
	}

	var prev map[string]int64
	for n := 0; n <= 10; n++ {
		counts := NewCounts("fox", n)
		for _, doc := range docs {
			counts.AddDocument(doc)
		}
		for tok := range prev {
			if counts.GetCooccurrence(tok) == 0 {
				t.Errorf("n=%d lost cooccurring token %q present at n=%d", n, tok, n-1)
			}
		}
		prev = counts.Cooc
	}
}

func TestCountsNonExistentToken(t *testing.T) {
	counts := NewCounts("a", 1)
	counts.AddDocument([]string{"a", "b"})

	if counts.GetTokenCount("nonexistent") != 0 {
		t.Error("Non-existent token should have count 0")
	}
	if counts.GetCooccurrence("nonexistent") != 0 {
		t.Error("Non-existent token should have cooccurrence 0")
	}
}
