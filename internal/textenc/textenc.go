// Package textenc decodes legacy-encoded text files (stop lists, metadata
// exports) into UTF-8.
package textenc

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Lookup resolves an IANA encoding name such as "iso-8859-1" or
// "windows-1252". Empty, "utf-8" and "utf8" resolve to nil, meaning no
// decoding is needed.
func Lookup(name string) (encoding.Encoding, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "utf-8", "utf8":
		return nil, nil
	}
	enc, err := ianaindex.IANA.Encoding(name)
	if err != nil {
		return nil, fmt.Errorf("unknown encoding %q: %w", name, err)
	}
	if enc == nil {
		return nil, fmt.Errorf("unsupported encoding %q", name)
	}
	return enc, nil
}

// NewReader wraps r so that it yields NFC-normalized UTF-8.
func NewReader(r io.Reader, name string) (io.Reader, error) {
	enc, err := Lookup(name)
	if err != nil {
		return nil, err
	}
	if enc == nil {
		return transform.NewReader(r, norm.NFC), nil
	}
	return transform.NewReader(r, transform.Chain(enc.NewDecoder(), norm.NFC)), nil
}
