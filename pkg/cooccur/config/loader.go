package config

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/cognicore/cooccur/internal/textenc"
	"github.com/cognicore/cooccur/pkg/cooccur/ingest"
)

// Stoplist represents the stopword list configuration
type Stoplist struct {
	Terms []string `yaml:"terms"`
}

// LoadStoplist loads stopwords from a YAML file with a terms list, or from
// a plain text file with one word per line in the given encoding.
func LoadStoplist(path, encoding string) (*Stoplist, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		var sl Stoplist
		if err := yaml.Unmarshal(data, &sl); err != nil {
			return nil, err
		}
		return &sl, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r, err := textenc.NewReader(f, encoding)
	if err != nil {
		return nil, err
	}

	sl := &Stoplist{}
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		sl.Terms = append(sl.Terms, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return sl, nil
}

// Loader loads the cleaning configuration and constructs components
type Loader struct {
	StoplistPath     string
	StoplistEncoding string // plain-text stoplists only
	Language         string // snowball language; empty disables stemming
}

// Components holds all loaded cleaning components
type Components struct {
	Tokenizer *ingest.Tokenizer
	Stemmer   *ingest.Stemmer
	Pipeline  *ingest.Pipeline
}

// Load reads the stoplist and returns initialized components
func (l *Loader) Load() (*Components, error) {
	comp := &Components{}

	if l.StoplistPath != "" {
		stoplist, err := LoadStoplist(l.StoplistPath, l.StoplistEncoding)
		if err != nil {
			return nil, fmt.Errorf("load stoplist: %w", err)
		}
		comp.Tokenizer = ingest.NewTokenizer(stoplist.Terms)
	} else {
		comp.Tokenizer = ingest.NewTokenizer([]string{})
	}

	stemmer, err := ingest.NewStemmer(l.Language)
	if err != nil {
		return nil, err
	}
	comp.Stemmer = stemmer
	comp.Pipeline = ingest.NewPipeline(comp.Tokenizer, comp.Stemmer)

	return comp, nil
}
