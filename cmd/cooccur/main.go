package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"log"
	"os"
	"os/signal"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/cognicore/cooccur/internal/logging"
	"github.com/cognicore/cooccur/pkg/cooccur"
	"github.com/cognicore/cooccur/pkg/cooccur/config"
	"github.com/cognicore/cooccur/pkg/cooccur/internalerr"
	"github.com/cognicore/cooccur/pkg/cooccur/pmi"
)

const usage = `Usage: cooccur run <seed> [flags]

Computes the context words most associated with <seed> by PMI and writes
them to a JSON or YAML report.

Flags:
`

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Fatalf("load .env: %v", err)
	}

	cfg, err := parseArgs(os.Args[1:], os.LookupEnv, os.Stderr)
	if errors.Is(err, flag.ErrHelp) {
		return
	}
	if err != nil {
		log.Fatal(err)
	}

	logger, err := logging.New(cfg.LogLevel, os.Stderr)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	res, err := cooccur.ComputeAssociations(ctx, cfg, logger)
	if err != nil {
		stop()
		logger.WithError(err).Fatal("Run failed")
	}
	logger.WithFields(logrus.Fields{
		"out_file": cfg.OutFile,
		"skipped":  len(res.Skipped),
	}).Info("Done")
}

// parseArgs resolves the run configuration. Later sources win: built-in
// defaults, the -config YAML file, COOCCUR_* environment variables, then
// command-line arguments.
func parseArgs(args []string, lookup config.LookupFunc, stderr io.Writer) (config.Run, error) {
	if len(args) == 0 || args[0] != "run" {
		fmt.Fprint(stderr, usage)
		return config.Run{}, internalerr.Config("expected the run command")
	}

	fset := flag.NewFlagSet("run", flag.ContinueOnError)
	fset.SetOutput(stderr)
	fset.Usage = func() {
		fmt.Fprint(stderr, usage)
		fset.PrintDefaults()
	}

	var (
		configPath   string
		groupBy      string
		outFile      string
		dataset      string
		metadata     string
		policy       string
		metric       string
		groupFailure string
		logLevel     string
		topK         int
		nContext     int
		workers      int
	)
	def := config.Default()
	fset.StringVar(&configPath, "config", "", "YAML run configuration file")
	fset.StringVar(&groupBy, "g", "", "Metadata column to group results by (shorthand)")
	fset.StringVar(&groupBy, "group_by", "", "Metadata column to group results by")
	fset.StringVar(&outFile, "o", def.OutFile, "Report file, .json or .yaml (shorthand)")
	fset.StringVar(&outFile, "out_file", def.OutFile, "Report file, .json or .yaml")
	fset.IntVar(&topK, "k", def.TopK, "Top K context words to output, 0 for all (shorthand)")
	fset.IntVar(&topK, "top_k", def.TopK, "Top K context words to output, 0 for all")
	fset.IntVar(&nContext, "n", def.NContext, "Context words to consider in each direction (shorthand)")
	fset.IntVar(&nContext, "n_context", def.NContext, "Context words to consider in each direction")
	fset.StringVar(&dataset, "dataset", def.Dataset.Path, "Clean dataset (.csv, .tsv, .jsonl or .db)")
	fset.StringVar(&metadata, "metadata", "", "Metadata table merged on document id")
	fset.StringVar(&policy, "policy", string(def.Scoring.Policy), "Zero-cooccurrence policy: exclude or smooth")
	fset.StringVar(&metric, "metric", string(def.Scoring.Metric), "Association metric: pmi or npmi")
	fset.StringVar(&groupFailure, "group-failure", string(def.GroupFailure), "On a failing group: fail or skip")
	fset.IntVar(&workers, "workers", def.Workers, "Groups scored concurrently")
	fset.StringVar(&logLevel, "log-level", def.LogLevel, "Log level")

	var positional []string
	rest := args[1:]
	for {
		if err := fset.Parse(rest); err != nil {
			if errors.Is(err, flag.ErrHelp) {
				return config.Run{}, err
			}
			return config.Run{}, internalerr.Config("%v", err)
		}
		rest = fset.Args()
		if len(rest) == 0 {
			break
		}
		positional = append(positional, rest[0])
		rest = rest[1:]
	}
	if len(positional) > 1 {
		return config.Run{}, internalerr.Config("expected one seed word, got %d arguments", len(positional))
	}

	cfg := def
	if configPath != "" {
		var err error
		if cfg, err = config.LoadRun(configPath); err != nil {
			return config.Run{}, err
		}
	}
	if err := cfg.ApplyEnv(lookup); err != nil {
		return config.Run{}, err
	}

	set := make(map[string]bool)
	fset.Visit(func(f *flag.Flag) { set[f.Name] = true })
	given := func(names ...string) bool {
		for _, n := range names {
			if set[n] {
				return true
			}
		}
		return false
	}

	if len(positional) == 1 {
		cfg.Seed = positional[0]
	}
	if given("g", "group_by") {
		cfg.GroupBy = groupBy
	}
	if given("o", "out_file") {
		cfg.OutFile = outFile
	}
	if given("k", "top_k") {
		cfg.TopK = topK
	}
	if given("n", "n_context") {
		cfg.NContext = nContext
	}
	if given("dataset") {
		cfg.Dataset.Path = dataset
	}
	if given("metadata") {
		cfg.Metadata.Path = metadata
	}
	if given("policy") {
		cfg.Scoring.Policy = pmi.Policy(policy)
	}
	if given("metric") {
		cfg.Scoring.Metric = pmi.Metric(metric)
	}
	if given("group-failure") {
		cfg.GroupFailure = config.GroupFailure(groupFailure)
	}
	if given("workers") {
		cfg.Workers = workers
	}
	if given("log-level") {
		cfg.LogLevel = logLevel
	}

	return cfg, cfg.Validate()
}
