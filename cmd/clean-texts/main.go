package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/cognicore/cooccur/internal/logging"
	"github.com/cognicore/cooccur/pkg/cooccur/config"
	"github.com/cognicore/cooccur/pkg/cooccur/corpus"
	"github.com/cognicore/cooccur/pkg/cooccur/ingest"
	"github.com/cognicore/cooccur/pkg/cooccur/store/sqlite"
)

type options struct {
	InputDir         string
	Output           string
	StoplistPath     string
	StoplistEncoding string
	Language         string
	Metadata         config.Metadata // empty path: records carry no attributes
}

func main() {
	var (
		input    = flag.String("input", "dataset/data", "Directory of .txt and .html files")
		output   = flag.String("output", "dataset/clean_data.csv", "Clean dataset to write (.csv or .db)")
		stoplist = flag.String("stoplist", "", "Extra stop words, one per line or a YAML terms list")
		encoding = flag.String("stoplist-encoding", "iso-8859-1", "Encoding of a plain-text stoplist")
		language = flag.String("language", "", "Snowball stemming language (empty disables stemming)")
		logLevel = flag.String("log-level", "info", "Log level")
	)
	md := config.Default().Metadata
	flag.StringVar(&md.Path, "metadata", "", "Metadata table to join onto the records by file name")
	flag.StringVar(&md.IDColumn, "metadata-id", md.IDColumn, "Metadata id column")
	flag.StringVar(&md.Separator, "metadata-separator", md.Separator, "Metadata field separator")
	flag.StringVar(&md.Encoding, "metadata-encoding", md.Encoding, "Metadata file encoding")
	flag.Parse()

	logger, err := logging.New(*logLevel, os.Stderr)
	if err != nil {
		logrus.Fatalf("logger: %v", err)
	}

	n, err := run(context.Background(), options{
		InputDir:         *input,
		Output:           *output,
		StoplistPath:     *stoplist,
		StoplistEncoding: *encoding,
		Language:         *language,
		Metadata:         md,
	}, logger)
	if err != nil {
		logger.WithError(err).Fatal("Cleaning failed")
	}
	logger.WithFields(logrus.Fields{"documents": n, "output": *output}).Info("Saved clean texts")
}

// run cleans every text file in opts.InputDir and writes the records to
// opts.Output. It returns the number of documents written.
func run(ctx context.Context, opts options, log *logrus.Entry) (int, error) {
	loader := config.Loader{
		StoplistPath:     opts.StoplistPath,
		StoplistEncoding: opts.StoplistEncoding,
		Language:         opts.Language,
	}
	components, err := loader.Load()
	if err != nil {
		return 0, fmt.Errorf("load configs: %w", err)
	}
	log.WithFields(logrus.Fields{
		"stopwords": components.Tokenizer.Stopwords(),
		"language":  components.Stemmer.Language(),
	}).Info("Collected stop words")

	files, err := collectFiles(opts.InputDir)
	if err != nil {
		return 0, err
	}
	log.WithField("files", len(files)).Info("Collected text files")

	records := make([]corpus.Record, 0, len(files))
	for _, path := range files {
		rec, err := cleanFile(path, components.Pipeline)
		if err != nil {
			return 0, err
		}
		records = append(records, rec)
	}

	if opts.Metadata.Path != "" {
		records, err = attachMetadata(records, opts.Metadata, log)
		if err != nil {
			return 0, err
		}
	}

	if err := writeRecords(ctx, opts.Output, records); err != nil {
		return 0, err
	}
	return len(records), nil
}

// attachMetadata joins the metadata table onto the records by id. Records
// without a metadata row are dropped.
func attachMetadata(records []corpus.Record, md config.Metadata, log *logrus.Entry) ([]corpus.Record, error) {
	mdOpts, err := md.Options()
	if err != nil {
		return nil, err
	}
	table, err := corpus.LoadMetadata(md.Path, mdOpts)
	if err != nil {
		return nil, err
	}
	merged, dropped := corpus.MergeRecords(records, table)
	log.WithFields(logrus.Fields{
		"path":    md.Path,
		"columns": len(table.Columns),
		"dropped": dropped,
	}).Info("Attached metadata")
	return merged, nil
}

func collectFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read input directory: %w", err)
	}
	var files []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(e.Name())) {
		case ".txt", ".html", ".htm":
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(files)
	return files, nil
}

func cleanFile(path string, pipeline *ingest.Pipeline) (corpus.Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return corpus.Record{}, err
	}
	text := string(data)

	ext := filepath.Ext(path)
	if e := strings.ToLower(ext); e == ".html" || e == ".htm" {
		text = ingest.StripHTML(text)
	}

	return corpus.Record{
		ID:        strings.TrimSuffix(filepath.Base(path), ext),
		Text:      text,
		CleanText: pipeline.Clean(text),
	}, nil
}

func writeRecords(ctx context.Context, path string, records []corpus.Record) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".db", ".sqlite", ".sqlite3":
		st, err := sqlite.Open(ctx, path)
		if err != nil {
			return fmt.Errorf("open store: %w", err)
		}
		defer st.Close()
		return st.UpsertRecords(ctx, records)
	case ".csv":
		f, err := os.Create(path)
		if err != nil {
			return err
		}
		if err := corpus.WriteCSV(f, records); err != nil {
			f.Close()
			return err
		}
		return f.Close()
	default:
		return fmt.Errorf("unsupported output format %q (want .csv or .db)", filepath.Ext(path))
	}
}
