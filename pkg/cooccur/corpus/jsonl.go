package corpus

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/cognicore/cooccur/internal/textenc"
	"github.com/cognicore/cooccur/pkg/cooccur/internalerr"
)

const maxJSONLLine = 64 << 20

// ReadJSONL reads one JSON object per line. The text field must be a string;
// other scalar fields become attributes. Blank lines are skipped and a
// malformed line is an input error.
func ReadJSONL(r io.Reader, opts Options) ([]Document, error) {
	if opts.TextColumn == "" {
		return nil, internalerr.Config("text field is required")
	}

	dec, err := textenc.NewReader(r, opts.Encoding)
	if err != nil {
		return nil, internalerr.Config("%v", err)
	}

	sc := bufio.NewScanner(dec)
	sc.Buffer(make([]byte, 0, 64*1024), maxJSONLLine)

	var docs []Document
	line := 0
	for sc.Scan() {
		line++
		raw := bytes.TrimSpace(sc.Bytes())
		if len(raw) == 0 {
			continue
		}

		fields := make(map[string]any)
		jd := json.NewDecoder(bytes.NewReader(raw))
		jd.UseNumber()
		if err := jd.Decode(&fields); err != nil {
			return nil, internalerr.Input("line %d: %v", line, err)
		}

		text, ok := fields[opts.TextColumn].(string)
		if !ok {
			return nil, internalerr.Input("line %d: field %q missing or not a string", line, opts.TextColumn)
		}

		id := strconv.Itoa(len(docs) + 1)
		if opts.IDColumn != "" {
			v, ok := fields[opts.IDColumn]
			if !ok {
				return nil, internalerr.Input("line %d: missing id field %q", line, opts.IDColumn)
			}
			id = scalarString(v)
		}

		attrs := make(map[string]string, len(fields))
		for k, v := range fields {
			if k == opts.TextColumn || k == opts.IDColumn {
				continue
			}
			attrs[k] = scalarString(v)
		}
		d := NewDocument(id, text, attrs)
		if err := d.Validate(); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		docs = append(docs, d)
	}
	if err := sc.Err(); err != nil {
		return nil, internalerr.Input("line %d: %v", line+1, err)
	}
	return docs, nil
}

func scalarString(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case json.Number:
		return x.String()
	case bool:
		return strconv.FormatBool(x)
	default:
		b, err := json.Marshal(x)
		if err != nil {
			return fmt.Sprint(x)
		}
		return strings.TrimSpace(string(b))
	}
}
