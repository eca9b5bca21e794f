package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/cognicore/cooccur/pkg/cooccur/internalerr"
	"github.com/cognicore/cooccur/pkg/cooccur/pmi"
)

func validRun() Run {
	cfg := Default()
	cfg.Seed = "river"
	return cfg
}

func TestDefaults(t *testing.T) {
	cfg := Default()

	if cfg.TopK != 50 || cfg.NContext != 5 {
		t.Errorf("unexpected top_k/n_context defaults: %d/%d", cfg.TopK, cfg.NContext)
	}
	if cfg.OutFile != "results/cooccurrences.json" {
		t.Errorf("unexpected out_file default %q", cfg.OutFile)
	}
	if cfg.Metadata.IDColumn != "ID-dok" || cfg.Metadata.Separator != ";" || cfg.Metadata.Encoding != "iso-8859-1" {
		t.Errorf("unexpected metadata defaults %+v", cfg.Metadata)
	}
	if cfg.Scoring.Policy != pmi.PolicyExclude {
		t.Errorf("default policy should be exclude, got %q", cfg.Scoring.Policy)
	}

	if err := validRun().Validate(); err != nil {
		t.Errorf("defaults plus seed should validate: %v", err)
	}
}

func TestLoadRun(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.yaml")
	content := `seed: bank
group_by: region
n_context: 3
dataset:
  path: data/docs.jsonl
scoring:
  policy: smooth
  epsilon: 0.5
workers: 4
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadRun(path)
	if err != nil {
		t.Fatalf("LoadRun: %v", err)
	}

	if cfg.Seed != "bank" || cfg.GroupBy != "region" || cfg.NContext != 3 || cfg.Workers != 4 {
		t.Errorf("unexpected run %+v", cfg)
	}
	if cfg.Dataset.Path != "data/docs.jsonl" {
		t.Errorf("dataset path: got %q", cfg.Dataset.Path)
	}
	// unset nested fields keep their defaults
	if cfg.Dataset.TextColumn != "clean_text" {
		t.Errorf("text column default lost: %q", cfg.Dataset.TextColumn)
	}
	if cfg.Scoring.Policy != pmi.PolicySmooth || cfg.Scoring.Epsilon != 0.5 || cfg.Scoring.Metric != pmi.MetricPMI {
		t.Errorf("unexpected scoring %+v", cfg.Scoring)
	}
	if cfg.TopK != 50 {
		t.Errorf("top_k default lost: %d", cfg.TopK)
	}
}

func TestLoadRunErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := LoadRun(filepath.Join(dir, "missing.yaml"))
	if !errors.Is(err, internalerr.ErrInvalidConfig) {
		t.Errorf("missing file: expected config error, got %v", err)
	}

	path := filepath.Join(dir, "typo.yaml")
	if err := os.WriteFile(path, []byte("sead: river\n"), 0644); err != nil {
		t.Fatal(err)
	}
	_, err = LoadRun(path)
	if !errors.Is(err, internalerr.ErrInvalidConfig) {
		t.Errorf("unknown key: expected config error, got %v", err)
	}
}

func TestLoadRunEmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.yaml")
	if err := os.WriteFile(path, nil, 0644); err != nil {
		t.Fatal(err)
	}
	cfg, err := LoadRun(path)
	if err != nil {
		t.Fatalf("empty file should load defaults: %v", err)
	}
	if cfg.NContext != 5 {
		t.Errorf("expected defaults, got %+v", cfg)
	}
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		"COOCCUR_SEED":      "loan",
		"COOCCUR_TOP_K":     "10",
		"COOCCUR_METRIC":    "npmi",
		"COOCCUR_METADATA":  "dataset/meta.csv",
		"COOCCUR_GROUP_BY":  "  ",
		"COOCCUR_EPSILON":   "0.25",
		"UNRELATED_SETTING": "x",
	}
	lookup := func(key string) (string, bool) {
		v, ok := env[key]
		return v, ok
	}

	cfg := Default()
	cfg.GroupBy = "year"
	if err := cfg.ApplyEnv(lookup); err != nil {
		t.Fatalf("ApplyEnv: %v", err)
	}

	if cfg.Seed != "loan" || cfg.TopK != 10 || cfg.Scoring.Metric != pmi.MetricNPMI {
		t.Errorf("unexpected overrides %+v", cfg)
	}
	if cfg.Metadata.Path != "dataset/meta.csv" {
		t.Errorf("metadata path: got %q", cfg.Metadata.Path)
	}
	if cfg.GroupBy != "year" {
		t.Errorf("blank env value should not override, got %q", cfg.GroupBy)
	}
	if cfg.Scoring.Epsilon != 0.25 {
		t.Errorf("epsilon: got %g", cfg.Scoring.Epsilon)
	}
}

func TestApplyEnvBadInt(t *testing.T) {
	lookup := func(key string) (string, bool) {
		if key == "COOCCUR_N_CONTEXT" {
			return "five", true
		}
		return "", false
	}
	cfg := Default()
	err := cfg.ApplyEnv(lookup)
	if !errors.Is(err, internalerr.ErrInvalidConfig) {
		t.Errorf("expected config error, got %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Run)
	}{
		{"empty seed", func(r *Run) { r.Seed = " " }},
		{"zero n_context", func(r *Run) { r.NContext = 0 }},
		{"negative top_k", func(r *Run) { r.TopK = -1 }},
		{"negative workers", func(r *Run) { r.Workers = -2 }},
		{"unknown group failure", func(r *Run) { r.GroupFailure = "retry" }},
		{"unknown policy", func(r *Run) { r.Scoring.Policy = "ignore" }},
		{"unknown metric", func(r *Run) { r.Scoring.Metric = "tfidf" }},
		{"unknown report format", func(r *Run) { r.OutFile = "out.xml" }},
		{"bad log level", func(r *Run) { r.LogLevel = "loud" }},
		{"no dataset", func(r *Run) { r.Dataset.Path = "" }},
		{"multi-char separator", func(r *Run) { r.Dataset.Separator = ";;" }},
		{"unknown encoding", func(r *Run) { r.Metadata.Path = "m.csv"; r.Metadata.Encoding = "klingon-1" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validRun()
			tt.mutate(&cfg)
			if err := cfg.Validate(); !errors.Is(err, internalerr.ErrInvalidConfig) {
				t.Errorf("expected config error, got %v", err)
			}
		})
	}
}

func TestTopKZeroAllowed(t *testing.T) {
	cfg := validRun()
	cfg.TopK = 0
	if err := cfg.Validate(); err != nil {
		t.Errorf("top_k 0 means no limit: %v", err)
	}
}

func TestSeparator(t *testing.T) {
	tests := map[string]rune{
		"":    0,
		",":   ',',
		";":   ';',
		`\t`:  '\t',
		"tab": '\t',
		"|":   '|',
	}
	for in, want := range tests {
		got, err := separator(in)
		if err != nil {
			t.Errorf("separator(%q): %v", in, err)
			continue
		}
		if got != want {
			t.Errorf("separator(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestMetadataOptions(t *testing.T) {
	opts, err := Default().Metadata.Options()
	if err != nil {
		t.Fatalf("Options: %v", err)
	}
	if opts.IDColumn != "ID-dok" || opts.Comma != ';' || opts.Encoding != "iso-8859-1" {
		t.Errorf("unexpected options %+v", opts)
	}
}
