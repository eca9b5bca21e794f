package textenc

import (
	"io"
	"strings"
	"testing"
)

func decode(t *testing.T, s, name string) string {
	t.Helper()
	r, err := NewReader(strings.NewReader(s), name)
	if err != nil {
		t.Fatalf("NewReader: %v", err)
	}
	b, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	return string(b)
}

func TestDecodeLatin1(t *testing.T) {
	// "blåbær" in ISO-8859-1
	raw := string([]byte{'b', 'l', 0xe5, 'b', 0xe6, 'r'})

	if got := decode(t, raw, "iso-8859-1"); got != "blåbær" {
		t.Errorf("got %q, want %q", got, "blåbær")
	}
}

func TestDecodeUTF8Normalizes(t *testing.T) {
	// "e" + combining acute accent composes to "é"
	if got := decode(t, "cafe\u0301", "utf-8"); got != "caf\u00e9" {
		t.Errorf("got %q, want NFC form", got)
	}
}

func TestNewReaderUnknownEncoding(t *testing.T) {
	if _, err := NewReader(strings.NewReader("x"), "klingon-1"); err == nil {
		t.Error("expected error for unknown encoding")
	}
}

func TestLookupUnknown(t *testing.T) {
	if _, err := Lookup("klingon-1"); err == nil {
		t.Error("expected error for unknown encoding")
	}
	enc, err := Lookup("")
	if err != nil || enc != nil {
		t.Errorf("empty name should mean UTF-8 passthrough, got %v, %v", enc, err)
	}
}
