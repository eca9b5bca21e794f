package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"github.com/cognicore/cooccur/internal/logging"
	"github.com/cognicore/cooccur/pkg/cooccur"
	"github.com/cognicore/cooccur/pkg/cooccur/analytics"
	"github.com/cognicore/cooccur/pkg/cooccur/config"
)

func main() {
	var (
		input    = flag.String("input", "dataset/clean_data.csv", "Clean dataset (.csv, .tsv, .jsonl or .db)")
		column   = flag.String("column", "clean_text", "Column holding the clean text")
		output   = flag.String("output", "word-count/results/wordcount.csv", "CSV file to write, - for stdout")
		limit    = flag.Int("limit", 0, "Keep only the N most frequent words (0 keeps all)")
		logLevel = flag.String("log-level", "info", "Log level")
	)
	flag.Parse()

	logger, err := logging.New(*logLevel, os.Stderr)
	if err != nil {
		logrus.Fatalf("logger: %v", err)
	}

	stats, err := countWords(context.Background(), *input, *column)
	if err != nil {
		logger.WithError(err).Fatal("Counting failed")
	}
	logger.WithFields(logrus.Fields{
		"docs":       stats.TotalDocs,
		"tokens":     stats.TotalTokens,
		"vocabulary": stats.UniqueTokens(),
	}).Info("Counted words")

	if err := writeCounts(*output, stats.MostCommon(*limit)); err != nil {
		logger.WithError(err).Fatal("Saving word counts failed")
	}
}

// countWords tallies every whitespace-separated word of the text column.
func countWords(ctx context.Context, path, column string) (analytics.Stats, error) {
	docs, err := cooccur.LoadDataset(ctx, config.Dataset{
		Path:       path,
		TextColumn: column,
	})
	if err != nil {
		return analytics.Stats{}, err
	}

	analyzer := analytics.NewAnalyzer()
	for _, d := range docs {
		analyzer.Process(d.Tokens)
	}
	return analyzer.Snapshot(), nil
}

func writeCounts(path string, entries []analytics.Entry) error {
	if path == "-" {
		return analytics.WriteCSV(os.Stdout, entries)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f, entries); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func write(w io.Writer, entries []analytics.Entry) error {
	if err := analytics.WriteCSV(w, entries); err != nil {
		return fmt.Errorf("write word counts: %w", err)
	}
	return nil
}
