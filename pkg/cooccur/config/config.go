package config

import (
	"bytes"
	"errors"
	"io"
	"os"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/cognicore/cooccur/internal/textenc"
	"github.com/cognicore/cooccur/pkg/cooccur/corpus"
	"github.com/cognicore/cooccur/pkg/cooccur/internalerr"
	"github.com/cognicore/cooccur/pkg/cooccur/pmi"
	"github.com/cognicore/cooccur/pkg/cooccur/report"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "COOCCUR_"

// GroupFailure decides what a grouped run does when one group fails.
type GroupFailure string

const (
	// FailFast aborts the run on the first failing group.
	FailFast GroupFailure = "fail"
	// SkipFailed drops failing groups from the report and carries on.
	SkipFailed GroupFailure = "skip"
)

// Run holds everything needed for one association run.
type Run struct {
	Seed         string       `yaml:"seed"`
	GroupBy      string       `yaml:"group_by"`
	TopK         int          `yaml:"top_k"`
	NContext     int          `yaml:"n_context"`
	OutFile      string       `yaml:"out_file"`
	Dataset      Dataset      `yaml:"dataset"`
	Metadata     Metadata     `yaml:"metadata"`
	Scoring      pmi.Config   `yaml:"scoring"`
	GroupFailure GroupFailure `yaml:"group_failure"`
	Workers      int          `yaml:"workers"`
	LogLevel     string       `yaml:"log_level"`
}

// Dataset locates the cleaned documents.
type Dataset struct {
	Path       string `yaml:"path"`
	IDColumn   string `yaml:"id_column"`
	TextColumn string `yaml:"text_column"`
	Separator  string `yaml:"separator"`
	Encoding   string `yaml:"encoding"`
}

// Metadata locates the optional per-document attribute table.
type Metadata struct {
	Path      string `yaml:"path"` // empty: no merge
	IDColumn  string `yaml:"id_column"`
	Separator string `yaml:"separator"`
	Encoding  string `yaml:"encoding"`
}

// Default returns the built-in configuration. Seed is left empty.
func Default() Run {
	return Run{
		TopK:     50,
		NContext: 5,
		OutFile:  "results/cooccurrences.json",
		Dataset: Dataset{
			Path:       "dataset/clean_data.csv",
			IDColumn:   "id",
			TextColumn: "clean_text",
			Separator:  ",",
			Encoding:   "utf-8",
		},
		Metadata: Metadata{
			IDColumn:  "ID-dok",
			Separator: ";",
			Encoding:  "iso-8859-1",
		},
		Scoring:      pmi.DefaultConfig(),
		GroupFailure: FailFast,
		Workers:      1,
		LogLevel:     "info",
	}
}

// LoadRun reads a YAML run file on top of the defaults. Unknown keys are
// rejected.
func LoadRun(path string) (Run, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, internalerr.Config("read %s: %v", path, err)
	}
	if err := cfg.decode(data); err != nil {
		return cfg, internalerr.Config("parse %s: %v", path, err)
	}
	return cfg, nil
}

func (r *Run) decode(data []byte) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(r); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// LookupFunc matches os.LookupEnv.
type LookupFunc func(key string) (string, bool)

// ApplyEnv overrides fields from COOCCUR_* variables. Empty values are
// ignored.
func (r *Run) ApplyEnv(lookup LookupFunc) error {
	if lookup == nil {
		lookup = os.LookupEnv
	}
	get := func(key string) (string, bool) {
		v, ok := lookup(EnvPrefix + key)
		v = strings.TrimSpace(v)
		return v, ok && v != ""
	}
	getInt := func(key string, dst *int) error {
		v, ok := get(key)
		if !ok {
			return nil
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return internalerr.Config("%s%s: %q is not an integer", EnvPrefix, key, v)
		}
		*dst = n
		return nil
	}
	getFloat := func(key string, dst *float64) error {
		v, ok := get(key)
		if !ok {
			return nil
		}
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return internalerr.Config("%s%s: %q is not a number", EnvPrefix, key, v)
		}
		*dst = f
		return nil
	}

	strs := map[string]*string{
		"SEED":              &r.Seed,
		"GROUP_BY":          &r.GroupBy,
		"OUT_FILE":          &r.OutFile,
		"DATASET":           &r.Dataset.Path,
		"ID_COLUMN":         &r.Dataset.IDColumn,
		"TEXT_COLUMN":       &r.Dataset.TextColumn,
		"METADATA":          &r.Metadata.Path,
		"METADATA_ID":       &r.Metadata.IDColumn,
		"METADATA_ENCODING": &r.Metadata.Encoding,
		"LOG_LEVEL":         &r.LogLevel,
	}
	for key, dst := range strs {
		if v, ok := get(key); ok {
			*dst = v
		}
	}
	if v, ok := get("POLICY"); ok {
		r.Scoring.Policy = pmi.Policy(v)
	}
	if v, ok := get("METRIC"); ok {
		r.Scoring.Metric = pmi.Metric(v)
	}
	if v, ok := get("GROUP_FAILURE"); ok {
		r.GroupFailure = GroupFailure(v)
	}

	if err := getInt("TOP_K", &r.TopK); err != nil {
		return err
	}
	if err := getInt("N_CONTEXT", &r.NContext); err != nil {
		return err
	}
	if err := getInt("WORKERS", &r.Workers); err != nil {
		return err
	}
	return getFloat("EPSILON", &r.Scoring.Epsilon)
}

// Validate checks the whole run configuration.
func (r Run) Validate() error {
	if strings.TrimSpace(r.Seed) == "" {
		return internalerr.Config("seed word is required")
	}
	if r.NContext < 1 {
		return internalerr.Config("n_context must be at least 1, got %d", r.NContext)
	}
	if r.TopK < 0 {
		return internalerr.Config("top_k must not be negative, got %d", r.TopK)
	}
	if r.Workers < 0 {
		return internalerr.Config("workers must not be negative, got %d", r.Workers)
	}
	switch r.GroupFailure {
	case FailFast, SkipFailed:
	default:
		return internalerr.Config("unknown group_failure %q (want fail or skip)", r.GroupFailure)
	}
	if err := r.Scoring.Validate(); err != nil {
		return err
	}
	if _, err := report.FormatFor(r.OutFile); err != nil {
		return err
	}
	if _, err := logrus.ParseLevel(r.LogLevel); err != nil {
		return internalerr.Config("log_level: %v", err)
	}

	if r.Dataset.Path == "" {
		return internalerr.Config("dataset path is required")
	}
	if r.Dataset.TextColumn == "" {
		return internalerr.Config("dataset text column is required")
	}
	if _, err := r.Dataset.Options(); err != nil {
		return err
	}
	if r.Metadata.Path != "" {
		if _, err := r.Metadata.Options(); err != nil {
			return err
		}
	}
	return nil
}

// Options converts the dataset settings for the corpus readers.
func (d Dataset) Options() (corpus.Options, error) {
	comma, err := separator(d.Separator)
	if err != nil {
		return corpus.Options{}, err
	}
	if _, err := textenc.Lookup(d.Encoding); err != nil {
		return corpus.Options{}, internalerr.Config("dataset encoding: %v", err)
	}
	return corpus.Options{
		IDColumn:   d.IDColumn,
		TextColumn: d.TextColumn,
		Comma:      comma,
		Encoding:   d.Encoding,
	}, nil
}

// Options converts the metadata settings for corpus.LoadMetadata.
func (m Metadata) Options() (corpus.Options, error) {
	if m.IDColumn == "" {
		return corpus.Options{}, internalerr.Config("metadata id column is required")
	}
	comma, err := separator(m.Separator)
	if err != nil {
		return corpus.Options{}, err
	}
	if _, err := textenc.Lookup(m.Encoding); err != nil {
		return corpus.Options{}, internalerr.Config("metadata encoding: %v", err)
	}
	return corpus.Options{
		IDColumn: m.IDColumn,
		Comma:    comma,
		Encoding: m.Encoding,
	}, nil
}

// separator turns a configured separator into a CSV comma rune. An empty
// value means the reader default.
func separator(s string) (rune, error) {
	switch s {
	case "":
		return 0, nil
	case `\t`, "tab":
		return '\t', nil
	}
	r, size := utf8.DecodeRuneInString(s)
	if size != len(s) || r == utf8.RuneError || r == '"' || r == '\r' || r == '\n' {
		return 0, internalerr.Config("separator must be a single character, got %q", s)
	}
	return r, nil
}
