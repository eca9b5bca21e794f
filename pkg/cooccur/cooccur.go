// Package cooccur finds the context words most associated with a seed word
// across a corpus of cleaned documents. Words are counted in a sliding
// window around each seed occurrence and ranked by pointwise mutual
// information, for the whole corpus or separately for each metadata group.
package cooccur

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/cognicore/cooccur/internal/logging"
	"github.com/cognicore/cooccur/pkg/cooccur/analytics"
	"github.com/cognicore/cooccur/pkg/cooccur/config"
	"github.com/cognicore/cooccur/pkg/cooccur/corpus"
	"github.com/cognicore/cooccur/pkg/cooccur/internalerr"
	"github.com/cognicore/cooccur/pkg/cooccur/pmi"
	"github.com/cognicore/cooccur/pkg/cooccur/report"
	"github.com/cognicore/cooccur/pkg/cooccur/store/sqlite"
)

// Options configures one association run.
type Options struct {
	Seed         string
	GroupBy      string // empty: score the whole corpus
	TopK         int    // 0: keep every scored token
	Window       int    // context radius on each side of the seed
	PMI          pmi.Config
	GroupFailure config.GroupFailure
	Workers      int // groups scored concurrently; <= 1 is sequential
	Logger       *logrus.Entry
}

// OptionsFromConfig maps a run configuration onto Options.
func OptionsFromConfig(cfg config.Run, log *logrus.Entry) Options {
	return Options{
		Seed:         cfg.Seed,
		GroupBy:      cfg.GroupBy,
		TopK:         cfg.TopK,
		Window:       cfg.NContext,
		PMI:          cfg.Scoring,
		GroupFailure: cfg.GroupFailure,
		Workers:      cfg.Workers,
		Logger:       log,
	}
}

// Validate checks the options before any counting starts.
func (o Options) Validate() error {
	if strings.TrimSpace(o.Seed) == "" {
		return internalerr.Config("seed word is required")
	}
	if o.Window < 1 {
		return internalerr.Config("window radius must be at least 1, got %d", o.Window)
	}
	if o.TopK < 0 {
		return internalerr.Config("top_k must not be negative, got %d", o.TopK)
	}
	if o.Workers < 0 {
		return internalerr.Config("workers must not be negative, got %d", o.Workers)
	}
	switch o.GroupFailure {
	case "", config.FailFast, config.SkipFailed:
	default:
		return internalerr.Config("unknown group failure policy %q", o.GroupFailure)
	}
	return o.pmiConfig().Validate()
}

func (o Options) pmiConfig() pmi.Config {
	return pmi.NewCalculatorFromConfig(o.PMI).Config()
}

func (o Options) logger() *logrus.Entry {
	if o.Logger == nil {
		return logging.Discard()
	}
	return o.Logger
}

// Result is the outcome of a run. Skipped holds the groups dropped under
// the skip failure policy.
type Result struct {
	Report  report.Report
	Skipped map[string]error
}

// Score ranks the context words of the seed over docs.
func Score(docs corpus.Corpus, opts Options) (pmi.Ranking, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	return score(docs, opts, pmi.NewCalculatorFromConfig(opts.PMI))
}

func score(docs corpus.Corpus, opts Options, calc *pmi.Calculator) (pmi.Ranking, error) {
	counts := pmi.NewCounts(opts.Seed, opts.Window)
	for _, d := range docs.Docs {
		counts.AddDocument(d.Tokens)
	}
	scores, err := counts.Scores(calc)
	if err != nil {
		return nil, err
	}
	opts.logger().WithFields(logrus.Fields{
		"docs":       len(docs.Docs),
		"tokens":     counts.Total,
		"seed_count": counts.SeedCount(),
		"scored":     len(scores),
	}).Debug("Scored context words")
	return pmi.TopK(scores, opts.TopK), nil
}

// Run scores the corpus once, or once per group when GroupBy is set. Groups
// are independent: each gets fresh frequency and cooccurrence tables and
// its own total, so a word's score in one group never depends on another.
func Run(ctx context.Context, c corpus.Corpus, opts Options) (Result, error) {
	if err := opts.Validate(); err != nil {
		return Result{}, err
	}
	log := opts.logger().WithField("seed", opts.Seed)
	calc := pmi.NewCalculatorFromConfig(opts.PMI)

	if opts.GroupBy == "" {
		if err := ctx.Err(); err != nil {
			return Result{}, err
		}
		ranking, err := score(c, opts, calc)
		if err != nil {
			return Result{}, err
		}
		log.WithField("results", len(ranking)).Info("Calculated top context words for the whole corpus")
		return Result{Report: report.Ungrouped(ranking)}, nil
	}

	// a seed missing from the whole corpus is an input error, not a run
	// where every group is skipped
	if seedCount(c, opts.Seed) == 0 {
		return Result{}, fmt.Errorf("%q: %w", opts.Seed, internalerr.ErrSeedNotFound)
	}

	groups, err := c.Partition(opts.GroupBy)
	if err != nil {
		return Result{}, err
	}
	log.WithFields(logrus.Fields{
		"group_by": opts.GroupBy,
		"groups":   len(groups),
	}).Info("Calculating top context words for each group")

	rankings := make([]pmi.Ranking, len(groups))
	failures := make([]error, len(groups))
	skip := opts.GroupFailure == config.SkipFailed

	workers := opts.Workers
	if workers < 1 {
		workers = 1
	}

	// Under fail-fast a group is dropped only once a group earlier in key
	// order has failed, so the reported failure is the same for any number
	// of workers.
	var firstFailed atomic.Int64
	firstFailed.Store(int64(len(groups)))

	var g errgroup.Group
	g.SetLimit(workers)
	for i, grp := range groups {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			if !skip && firstFailed.Load() < int64(i) {
				return nil
			}
			gopts := opts
			gopts.Logger = log.WithField("group", grp.Key)
			ranking, err := score(grp.Corpus(), gopts, calc)
			if err != nil {
				failures[i] = &internalerr.GroupError{Group: grp.Key, Err: err}
				if !skip {
					lowerTo(&firstFailed, int64(i))
				}
				return nil
			}
			rankings[i] = ranking
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Result{}, err
	}
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	out := make(map[string]pmi.Ranking, len(groups))
	var skipped map[string]error
	for i, grp := range groups {
		if failures[i] != nil {
			if !skip {
				return Result{}, failures[i]
			}
			if skipped == nil {
				skipped = make(map[string]error)
			}
			skipped[grp.Key] = failures[i]
			log.WithError(failures[i]).WithField("group", grp.Key).Warn("Skipping group")
			continue
		}
		out[grp.Key] = rankings[i]
	}
	if len(out) == 0 {
		for _, ferr := range failures {
			if ferr != nil {
				return Result{}, fmt.Errorf("no group could be scored: %w", ferr)
			}
		}
		return Result{}, internalerr.Input("no groups to score")
	}
	return Result{Report: report.ByGroup(out), Skipped: skipped}, nil
}

func seedCount(c corpus.Corpus, seed string) int {
	n := 0
	for _, d := range c.Docs {
		for _, tok := range d.Tokens {
			if tok == seed {
				n++
			}
		}
	}
	return n
}

func lowerTo(v *atomic.Int64, n int64) {
	for {
		cur := v.Load()
		if n >= cur || v.CompareAndSwap(cur, n) {
			return
		}
	}
}

// LoadDataset reads the configured dataset. SQLite files written by
// clean-texts are recognized by extension; everything else goes through the
// tabular readers.
func LoadDataset(ctx context.Context, ds config.Dataset) ([]corpus.Document, error) {
	switch strings.ToLower(filepath.Ext(ds.Path)) {
	case ".db", ".sqlite", ".sqlite3":
		// opening a missing file would create an empty database
		if _, err := os.Stat(ds.Path); err != nil {
			return nil, fmt.Errorf("%w: open dataset %s: %v", internalerr.ErrInvalidInput, ds.Path, err)
		}
		st, err := sqlite.Open(ctx, ds.Path)
		if err != nil {
			return nil, fmt.Errorf("%w: open dataset %s: %v", internalerr.ErrInvalidInput, ds.Path, err)
		}
		defer st.Close()
		return st.Documents(ctx)
	}

	opts, err := ds.Options()
	if err != nil {
		return nil, err
	}
	return corpus.Load(ds.Path, opts)
}

// ComputeAssociations runs the whole pipeline for cfg: load the dataset,
// merge metadata, score, and write the report to cfg.OutFile. The report is
// written only when every group succeeded or was skipped.
func ComputeAssociations(ctx context.Context, cfg config.Run, log *logrus.Entry) (Result, error) {
	if err := cfg.Validate(); err != nil {
		return Result{}, err
	}
	if log == nil {
		log = logging.Discard()
	}

	log.WithField("path", cfg.Dataset.Path).Info("Loading data")
	docs, err := LoadDataset(ctx, cfg.Dataset)
	if err != nil {
		return Result{}, err
	}

	if cfg.Metadata.Path != "" {
		log.WithField("path", cfg.Metadata.Path).Info("Loading metadata")
		mdOpts, err := cfg.Metadata.Options()
		if err != nil {
			return Result{}, err
		}
		md, err := corpus.LoadMetadata(cfg.Metadata.Path, mdOpts)
		if err != nil {
			return Result{}, err
		}
		var dropped int
		docs, dropped = corpus.Merge(docs, md)
		if dropped > 0 {
			log.WithField("dropped", dropped).Warn("Documents without metadata were dropped")
		}
	}

	summary := analytics.NewAnalyzer()
	for _, d := range docs {
		summary.Process(d.Tokens)
	}
	stats := summary.Snapshot()
	log.WithFields(logrus.Fields{
		"docs":       stats.TotalDocs,
		"tokens":     stats.TotalTokens,
		"vocabulary": stats.UniqueTokens(),
		"seed_count": stats.Counts[cfg.Seed],
	}).Info("Corpus loaded")

	res, err := Run(ctx, corpus.New(docs), OptionsFromConfig(cfg, log))
	if err != nil {
		return Result{}, err
	}

	log.WithField("path", cfg.OutFile).Info("Saving results")
	if err := report.Write(cfg.OutFile, res.Report); err != nil {
		return Result{}, fmt.Errorf("write report: %w", err)
	}
	return res, nil
}
