// Package logging builds the structured loggers shared by the command-line
// tools.
package logging

import (
	"io"
	"os"

	"github.com/oklog/ulid/v2"
	"github.com/sirupsen/logrus"
)

// New returns a text logger at the given level writing to w (stderr when
// nil). Every entry carries a run_id unique to this process.
func New(level string, w io.Writer) (*logrus.Entry, error) {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return nil, err
	}
	if w == nil {
		w = os.Stderr
	}

	logger := logrus.New()
	logger.SetOutput(w)
	logger.SetLevel(lvl)
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	return logger.WithField("run_id", NewRunID()), nil
}

// NewRunID returns a fresh lexically sortable run identifier.
func NewRunID() string {
	return ulid.Make().String()
}

// Discard returns an entry that drops everything, for tests and library
// callers that pass no logger.
func Discard() *logrus.Entry {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logrus.NewEntry(logger)
}
