package corpus

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/cognicore/cooccur/internal/textenc"
	"github.com/cognicore/cooccur/pkg/cooccur/internalerr"
)

// Metadata holds per-document attributes keyed by document id.
type Metadata struct {
	Columns []string                     // attribute columns, id column excluded
	Rows    map[string]map[string]string // id -> column -> value
}

// LoadMetadata reads a metadata table from path.
func LoadMetadata(path string, opts Options) (Metadata, error) {
	f, err := os.Open(path)
	if err != nil {
		return Metadata{}, fmt.Errorf("%w: open metadata %s: %v", internalerr.ErrInvalidInput, path, err)
	}
	defer f.Close()

	md, err := ReadMetadata(f, opts)
	if err != nil {
		return Metadata{}, fmt.Errorf("load metadata %s: %w", path, err)
	}
	return md, nil
}

// ReadMetadata reads a delimited metadata table with a header row. The id
// column (opts.IDColumn) must be present and unique.
func ReadMetadata(r io.Reader, opts Options) (Metadata, error) {
	if opts.IDColumn == "" {
		return Metadata{}, internalerr.Config("metadata id column is required")
	}

	dec, err := textenc.NewReader(r, opts.Encoding)
	if err != nil {
		return Metadata{}, internalerr.Config("%v", err)
	}
	cr := csv.NewReader(dec)
	if opts.Comma != 0 {
		cr.Comma = opts.Comma
	}

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return Metadata{}, internalerr.Input("empty metadata")
	}
	if err != nil {
		return Metadata{}, internalerr.Input("read metadata header: %v", err)
	}
	if len(header) > 0 {
		header[0] = trimBOM(header[0])
	}
	idIdx := columnIndex(header, opts.IDColumn)
	if idIdx < 0 {
		return Metadata{}, internalerr.Input("missing metadata id column %q", opts.IDColumn)
	}

	md := Metadata{Rows: make(map[string]map[string]string)}
	for i, name := range header {
		if i != idIdx && name != "" {
			md.Columns = append(md.Columns, name)
		}
	}

	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return Metadata{}, internalerr.Input("%v", err)
		}
		id := rec[idIdx]
		if _, dup := md.Rows[id]; dup {
			return Metadata{}, internalerr.Input("duplicate metadata id %q", id)
		}
		row := make(map[string]string, len(md.Columns))
		for i, name := range header {
			if i == idIdx || name == "" {
				continue
			}
			row[name] = rec[i]
		}
		md.Rows[id] = row
	}
	return md, nil
}

// Merge joins metadata attributes onto documents by id. Documents without a
// metadata row are dropped, like an inner join; the count of dropped
// documents is returned. When a metadata column collides with an existing
// attribute, the document's value is kept as name+"_x" and the metadata
// value as name+"_y".
func Merge(docs []Document, md Metadata) ([]Document, int) {
	out := make([]Document, 0, len(docs))
	dropped := 0
	for _, d := range docs {
		row, ok := md.Rows[d.ID]
		if !ok {
			dropped++
			continue
		}
		out = append(out, Document{ID: d.ID, Tokens: d.Tokens, Attrs: mergeAttrs(d.Attrs, row, md.Columns)})
	}
	return out, dropped
}

// MergeRecords attaches metadata to cleaned records the same way Merge does
// for documents. The id, text and clean_text columns count as existing
// attributes, so a metadata column of the same name is split into _x/_y.
func MergeRecords(records []Record, md Metadata) ([]Record, int) {
	out := make([]Record, 0, len(records))
	dropped := 0
	for _, rec := range records {
		row, ok := md.Rows[rec.ID]
		if !ok {
			dropped++
			continue
		}

		base := make(map[string]string, len(rec.Attrs)+3)
		for k, v := range rec.Attrs {
			base[k] = v
		}
		base["id"], base["text"], base["clean_text"] = rec.ID, rec.Text, rec.CleanText

		attrs := mergeAttrs(base, row, md.Columns)
		delete(attrs, "id")
		delete(attrs, "text")
		delete(attrs, "clean_text")

		rec.Attrs = attrs
		out = append(out, rec)
	}
	return out, dropped
}

func mergeAttrs(existing, row map[string]string, columns []string) map[string]string {
	attrs := make(map[string]string, len(existing)+len(row))
	for k, v := range existing {
		attrs[k] = v
	}
	for _, name := range columns {
		v := row[name]
		if old, clash := existing[name]; clash {
			delete(attrs, name)
			attrs[name+"_x"] = old
			attrs[name+"_y"] = v
			continue
		}
		attrs[name] = v
	}
	return attrs
}

func trimBOM(s string) string {
	const bom = "\ufeff"
	if len(s) >= len(bom) && s[:len(bom)] == bom {
		return s[len(bom):]
	}
	return s
}
