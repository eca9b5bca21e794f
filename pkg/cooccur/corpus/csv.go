package corpus

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/cognicore/cooccur/internal/textenc"
	"github.com/cognicore/cooccur/pkg/cooccur/internalerr"
)

// Options describes how to read a tabular dataset.
type Options struct {
	IDColumn   string // empty: the 1-based row number is the id
	TextColumn string // whitespace-joined clean tokens
	Comma      rune   // field separator, CSV only; 0 means ','
	Encoding   string // IANA name; empty means UTF-8
}

// Load reads documents from a CSV, TSV or JSONL file, chosen by extension.
func Load(path string, opts Options) ([]Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: open dataset %s: %v", internalerr.ErrInvalidInput, path, err)
	}
	defer f.Close()

	var docs []Document
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".csv":
		docs, err = ReadCSV(f, opts)
	case ".tsv":
		if opts.Comma == 0 {
			opts.Comma = '\t'
		}
		docs, err = ReadCSV(f, opts)
	case ".jsonl", ".ndjson":
		docs, err = ReadJSONL(f, opts)
	default:
		return nil, internalerr.Input("unsupported dataset format %q", ext)
	}
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return docs, nil
}

// ReadCSV reads documents from CSV with a header row. Columns other than the
// id and text columns become document attributes; unnamed columns (such as
// an exported row index) are ignored.
func ReadCSV(r io.Reader, opts Options) ([]Document, error) {
	if opts.TextColumn == "" {
		return nil, internalerr.Config("text column is required")
	}

	dec, err := textenc.NewReader(r, opts.Encoding)
	if err != nil {
		return nil, internalerr.Config("%v", err)
	}
	cr := csv.NewReader(dec)
	if opts.Comma != 0 {
		cr.Comma = opts.Comma
	}

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, internalerr.Input("empty dataset")
	}
	if err != nil {
		return nil, internalerr.Input("read header: %v", err)
	}
	if len(header) > 0 {
		header[0] = trimBOM(header[0])
	}

	textIdx := columnIndex(header, opts.TextColumn)
	if textIdx < 0 {
		return nil, internalerr.Input("missing text column %q", opts.TextColumn)
	}
	idIdx := -1
	if opts.IDColumn != "" {
		if idIdx = columnIndex(header, opts.IDColumn); idIdx < 0 {
			return nil, internalerr.Input("missing id column %q", opts.IDColumn)
		}
	}

	var docs []Document
	for row := 1; ; row++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, internalerr.Input("%v", err)
		}

		attrs := make(map[string]string, len(header))
		for i, name := range header {
			if i == textIdx || i == idIdx || name == "" {
				continue
			}
			attrs[name] = rec[i]
		}

		id := strconv.Itoa(row)
		if idIdx >= 0 {
			id = rec[idIdx]
		}
		d := NewDocument(id, rec[textIdx], attrs)
		if err := d.Validate(); err != nil {
			return nil, fmt.Errorf("row %d: %w", row, err)
		}
		docs = append(docs, d)
	}
	return docs, nil
}

func columnIndex(header []string, name string) int {
	for i, h := range header {
		if h == name {
			return i
		}
	}
	return -1
}

// Record is one row of a cleaned dataset: the raw text, its clean form and
// any metadata attributes attached while cleaning.
type Record struct {
	ID        string
	Text      string
	CleanText string
	Attrs     map[string]string
}

// WriteCSV writes records with an id,text,clean_text header followed by one
// column per attribute name, sorted. A record lacking an attribute gets an
// empty cell.
func WriteCSV(w io.Writer, records []Record) error {
	seen := make(map[string]struct{})
	for _, rec := range records {
		for k := range rec.Attrs {
			seen[k] = struct{}{}
		}
	}
	names := make([]string, 0, len(seen))
	for k := range seen {
		names = append(names, k)
	}
	sort.Strings(names)

	cw := csv.NewWriter(w)
	if err := cw.Write(append([]string{"id", "text", "clean_text"}, names...)); err != nil {
		return err
	}
	for _, rec := range records {
		row := make([]string, 0, 3+len(names))
		row = append(row, rec.ID, rec.Text, rec.CleanText)
		for _, name := range names {
			row = append(row, rec.Attrs[name])
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
