// Package report serializes association rankings. A ranking is written as a
// mapping from token to score that keeps rank order; grouped reports map
// each group key (sorted) to its ranking.
package report

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/cognicore/cooccur/pkg/cooccur/corpus"
	"github.com/cognicore/cooccur/pkg/cooccur/internalerr"
	"github.com/cognicore/cooccur/pkg/cooccur/pmi"
)

// Format is a report serialization format.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatFor picks the format from a file extension.
func FormatFor(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	default:
		return "", internalerr.Config("unsupported report extension %q (want .json, .yaml or .yml)", filepath.Ext(path))
	}
}

// Report is the result of one run: a single ranking, or one per group.
type Report struct {
	Grouped bool
	Overall pmi.Ranking
	Groups  map[string]pmi.Ranking
}

// Ungrouped builds a report for a whole-corpus run.
func Ungrouped(r pmi.Ranking) Report {
	return Report{Overall: r}
}

// ByGroup builds a report for a grouped run.
func ByGroup(groups map[string]pmi.Ranking) Report {
	if groups == nil {
		groups = map[string]pmi.Ranking{}
	}
	return Report{Grouped: true, Groups: groups}
}

// GroupKeys returns the group keys in output order, the same order the
// corpus partition uses.
func (r Report) GroupKeys() []string {
	keys := make([]string, 0, len(r.Groups))
	for k := range r.Groups {
		keys = append(keys, k)
	}
	corpus.SortKeys(keys)
	return keys
}

// MarshalJSON writes rankings as JSON objects whose member order is rank
// order.
func (r Report) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	if !r.Grouped {
		if err := writeRankingJSON(&buf, r.Overall); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	}

	buf.WriteByte('{')
	for i, key := range r.GroupKeys() {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(key)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		if err := writeRankingJSON(&buf, r.Groups[key]); err != nil {
			return nil, err
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func writeRankingJSON(buf *bytes.Buffer, ranking pmi.Ranking) error {
	buf.WriteByte('{')
	for i, s := range ranking {
		if math.IsNaN(s.Value) || math.IsInf(s.Value, 0) {
			return fmt.Errorf("non-finite score for %q", s.Token)
		}
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(s.Token)
		if err != nil {
			return err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.WriteString(formatScore(s.Value))
	}
	buf.WriteByte('}')
	return nil
}

// MarshalYAML builds an ordered mapping node.
func (r Report) MarshalYAML() (interface{}, error) {
	if !r.Grouped {
		return rankingNode(r.Overall)
	}
	root := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for _, key := range r.GroupKeys() {
		value, err := rankingNode(r.Groups[key])
		if err != nil {
			return nil, err
		}
		root.Content = append(root.Content, stringNode(key), value)
	}
	return root, nil
}

func rankingNode(ranking pmi.Ranking) (*yaml.Node, error) {
	node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for _, s := range ranking {
		if math.IsNaN(s.Value) || math.IsInf(s.Value, 0) {
			return nil, fmt.Errorf("non-finite score for %q", s.Token)
		}
		node.Content = append(node.Content,
			stringNode(s.Token),
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!float", Value: formatScore(s.Value)},
		)
	}
	return node, nil
}

func stringNode(s string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: s}
}

// formatScore renders the shortest representation that round-trips, always
// as a float literal so YAML readers do not see an integer.
func formatScore(v float64) string {
	s := strconv.FormatFloat(v, 'g', -1, 64)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s
}

// Encode writes r to w in the given format. JSON is indented by two spaces
// and ends with a newline.
func Encode(w io.Writer, format Format, r Report) error {
	switch format {
	case FormatJSON:
		raw, err := r.MarshalJSON()
		if err != nil {
			return err
		}
		var out bytes.Buffer
		if err := json.Indent(&out, raw, "", "  "); err != nil {
			return err
		}
		out.WriteByte('\n')
		_, err = w.Write(out.Bytes())
		return err
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(r); err != nil {
			return err
		}
		return enc.Close()
	default:
		return internalerr.Config("unknown report format %q", format)
	}
}

// Write serializes r to path, creating parent directories. The file is
// replaced atomically so a failed run never leaves a partial report.
func Write(path string, r Report) error {
	format, err := FormatFor(path)
	if err != nil {
		return err
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create report directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("create temp report: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := Encode(tmp, format, r); err != nil {
		tmp.Close()
		return fmt.Errorf("encode report: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
