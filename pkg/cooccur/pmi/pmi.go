package pmi

import (
	"fmt"
	"math"

	"github.com/cognicore/cooccur/pkg/cooccur/internalerr"
)

// Policy decides what happens to tokens that never cooccur with the seed,
// where log2 of a zero joint probability is undefined.
type Policy string

const (
	// PolicyExclude omits zero-cooccurrence tokens from the score map.
	PolicyExclude Policy = "exclude"
	// PolicySmooth adds epsilon to the joint and marginal counts so every
	// in-scope token gets a finite score.
	PolicySmooth Policy = "smooth"
)

// Metric selects the association score.
type Metric string

const (
	MetricPMI  Metric = "pmi"  // log2 ratio, unbounded
	MetricNPMI Metric = "npmi" // PMI / -log2 P(seed,w), in [-1, 1]
)

// Config controls PMI computation
type Config struct {
	Policy  Policy  `yaml:"policy"`
	Metric  Metric  `yaml:"metric"`
	Epsilon float64 `yaml:"epsilon"` // smoothing constant, PolicySmooth only
}

// DefaultConfig returns the exclude policy with plain PMI.
func DefaultConfig() Config {
	return Config{
		Policy:  PolicyExclude,
		Metric:  MetricPMI,
		Epsilon: 1.0,
	}
}

// Validate checks policy, metric and epsilon.
func (c Config) Validate() error {
	switch c.Policy {
	case PolicyExclude, PolicySmooth:
	default:
		return internalerr.Config("unknown zero-cooccurrence policy %q", c.Policy)
	}
	switch c.Metric {
	case MetricPMI, MetricNPMI:
	default:
		return internalerr.Config("unknown metric %q", c.Metric)
	}
	if c.Policy == PolicySmooth && c.Epsilon <= 0 {
		return internalerr.Config("smoothing epsilon must be positive, got %g", c.Epsilon)
	}
	return nil
}

// Calculator handles PMI (Pointwise Mutual Information) calculations
type Calculator struct {
	cfg Config
}

// NewCalculator creates an exclude-policy PMI calculator.
func NewCalculator() *Calculator {
	return NewCalculatorFromConfig(DefaultConfig())
}

// NewCalculatorFromConfig creates a calculator from cfg. Empty fields fall
// back to the defaults.
func NewCalculatorFromConfig(cfg Config) *Calculator {
	def := DefaultConfig()
	if cfg.Policy == "" {
		cfg.Policy = def.Policy
	}
	if cfg.Metric == "" {
		cfg.Metric = def.Metric
	}
	if cfg.Epsilon <= 0 {
		cfg.Epsilon = def.Epsilon
	}
	return &Calculator{cfg: cfg}
}

// Config returns the effective configuration.
func (c *Calculator) Config() Config {
	return c.cfg
}

// PMI calculates the pointwise mutual information of the seed and a context
// token in base 2:
//
//	PMI(s,w) = log2( P(s,w) / (P(s) * P(w)) )
//
// Where:
//   - P(s,w) = nSW / N, nSW = times w appeared in a window of the seed
//   - P(s) = nS / N, P(w) = nW / N, frequencies over every target position
//   - N = total token occurrences in scope
//
// Under PolicySmooth nSW, nS and nW are each increased by epsilon. The
// second result is false when the score is undefined: N, nS or nW is zero,
// or nSW is zero under PolicyExclude.
func (c *Calculator) PMI(nSW, nS, nW, N int64) (float64, bool) {
	if N <= 0 || nS <= 0 || nW <= 0 {
		return 0, false
	}

	joint, seed, word := float64(nSW), float64(nS), float64(nW)
	if c.cfg.Policy == PolicySmooth {
		joint += c.cfg.Epsilon
		seed += c.cfg.Epsilon
		word += c.cfg.Epsilon
	}
	if joint <= 0 {
		return 0, false
	}

	n := float64(N)
	score := math.Log2((joint / n) / ((seed / n) * (word / n)))
	if math.IsNaN(score) || math.IsInf(score, 0) {
		return 0, false
	}
	return score, true
}

// NPMI calculates normalized PMI (range: -1 to 1)
// NPMI(s,w) = PMI(s,w) / -log2(P(s,w))
//
// A joint probability of 1 has no normalizer and is reported as undefined.
func (c *Calculator) NPMI(nSW, nS, nW, N int64) (float64, bool) {
	pmi, ok := c.PMI(nSW, nS, nW, N)
	if !ok {
		return 0, false
	}

	joint := float64(nSW)
	if c.cfg.Policy == PolicySmooth {
		joint += c.cfg.Epsilon
	}
	logPSW := math.Log2(joint / float64(N))
	if logPSW == 0 || math.IsNaN(logPSW) || math.IsInf(logPSW, 0) {
		return 0, false
	}
	return pmi / -logPSW, true
}

// Score dispatches to PMI or NPMI according to the configured metric.
func (c *Calculator) Score(nSW, nS, nW, N int64) (float64, bool) {
	if c.cfg.Metric == MetricNPMI {
		return c.NPMI(nSW, nS, nW, N)
	}
	return c.PMI(nSW, nS, nW, N)
}

// Scores computes the association score of every in-scope token with the
// seed. Tokens whose score is undefined under the calculator's policy are
// omitted, and so is the seed itself. It returns ErrSeedNotFound when the
// seed never occurs.
func (c *Counts) Scores(calc *Calculator) (map[string]float64, error) {
	nS := c.SeedCount()
	if nS == 0 {
		return nil, fmt.Errorf("%q: %w", c.Seed, internalerr.ErrSeedNotFound)
	}

	scores := make(map[string]float64, len(c.Cooc))
	for w, nW := range c.Freq {
		if w == c.Seed {
			continue
		}
		score, ok := calc.Score(c.Cooc[w], nS, nW, c.Total)
		if !ok {
			continue
		}
		scores[w] = score
	}
	return scores, nil
}

// Estimate builds fresh tables from docs and scores every token against seed.
func Estimate(seed string, docs [][]string, n int, calc *Calculator) (map[string]float64, error) {
	counts := NewCounts(seed, n)
	for _, doc := range docs {
		counts.AddDocument(doc)
	}
	return counts.Scores(calc)
}
