package ingest

import (
	"reflect"
	"strings"
	"testing"
)

func TestTokenizerBasic(t *testing.T) {
	tokenizer := NewTokenizer([]string{"the", "a", "and", "of"})

	tokens := tokenizer.Tokenize("The quick brown fox jumps over the lazy dog")

	expected := []string{"quick", "brown", "fox", "jumps", "over", "lazy", "dog"}
	if !reflect.DeepEqual(tokens, expected) {
		t.Errorf("Expected %v, got %v", expected, tokens)
	}
}

func TestTokenizerLettersOnly(t *testing.T) {
	tokenizer := NewTokenizer(nil)

	tokens := tokenizer.Tokenize("GPT-4 won 3 times, in 1999! e-mail")

	expected := []string{"gpt", "won", "times", "in", "e", "mail"}
	if !reflect.DeepEqual(tokens, expected) {
		t.Errorf("Expected %v, got %v", expected, tokens)
	}
}

func TestTokenizerCaseNormalization(t *testing.T) {
	tokenizer := NewTokenizer([]string{})

	for _, tok := range tokenizer.Tokenize("BERT Transformer \u00c6BLE") {
		if tok != strings.ToLower(tok) {
			t.Errorf("Token %s should be lowercased", tok)
		}
	}
}

func TestTokenizerNFC(t *testing.T) {
	tokenizer := NewTokenizer([]string{"caf\u00e9"})

	// decomposed form of the stopword must still match
	tokens := tokenizer.Tokenize("cafe\u0301 cr\u00e8me")
	if len(tokens) != 1 || tokens[0] != "cr\u00e8me" {
		t.Errorf("Expected only the composed second word, got %q", tokens)
	}
}

func TestTokenizerStopwordsCaseInsensitive(t *testing.T) {
	tokenizer := NewTokenizer([]string{"  Og ", ""})

	if tokenizer.Stopwords() != 1 {
		t.Fatalf("blank entries should be ignored, got %d stopwords", tokenizer.Stopwords())
	}
	if got := tokenizer.Tokenize("Hund OG kat"); !reflect.DeepEqual(got, []string{"hund", "kat"}) {
		t.Errorf("unexpected tokens %v", got)
	}
}

func TestTokenizerEmpty(t *testing.T) {
	tokenizer := NewTokenizer(nil)
	if got := tokenizer.Tokenize("  ... 123 "); len(got) != 0 {
		t.Errorf("Expected no tokens, got %v", got)
	}
}
