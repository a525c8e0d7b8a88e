// Package mcmclog writes one JSON line per logged step: the named
// parameters a run was configured to trace, plus any named scalar
// log-probabilities the caller supplies alongside them.
package mcmclog

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/aspartik-go/b3/state"
)

var (
	// ErrInvalidLogEvery is returned when a Logger's LogEvery is less
	// than 1.
	ErrInvalidLogEvery = errors.New("mcmclog: LogEvery must be at least 1")
	// ErrUnknownParameter is returned when a Logger names a parameter
	// that does not exist in the state being logged.
	ErrUnknownParameter = errors.New("mcmclog: unknown parameter")
	// ErrWrite is returned when writing a log line to Dst fails.
	ErrWrite = errors.New("mcmclog: write failed")
)

// Logger writes a JSON-lines trace of a chain's parameters every LogEvery
// steps.
type Logger struct {
	LogEvery int
	Dst      io.Writer

	// Parameters names the parameters written on every logged line. They
	// are written as one JSON object keyed by name, so the output order is
	// encoding/json's sorted key order, not the configured order.
	Parameters []string
}

type line struct {
	Index         int                        `json:"index"`
	Parameters    map[string]json.RawMessage `json:"parameters"`
	Distributions map[string]float64         `json:"distributions,omitempty"`
}

// Log writes one JSON line for index if index is a multiple of LogEvery,
// and is otherwise a no-op. distributions is written verbatim under the
// "distributions" key; pass nil if the caller has nothing to report.
//
// Unlike the source this is grounded on, which kept a global mutable table
// of named distribution values set by a separate log_distribution call,
// distributions is supplied directly by the driver on each Log call, so
// there is no shared table to keep in sync across steps.
func (l *Logger) Log(s *state.State, index int, distributions map[string]float64) error {
	if l.LogEvery < 1 {
		return fmt.Errorf("%w, got %d", ErrInvalidLogEvery, l.LogEvery)
	}
	if index%l.LogEvery != 0 {
		return nil
	}

	params := make(map[string]json.RawMessage, len(l.Parameters))
	for _, name := range l.Parameters {
		p, ok := s.Param(name)
		if !ok {
			return fmt.Errorf("%w: %q", ErrUnknownParameter, name)
		}
		raw, err := json.Marshal(p)
		if err != nil {
			return err
		}
		params[name] = raw
	}

	out, err := json.Marshal(line{Index: index, Parameters: params, Distributions: distributions})
	if err != nil {
		return err
	}
	out = append(out, '\n')
	if _, err := l.Dst.Write(out); err != nil {
		return fmt.Errorf("%w: %w", ErrWrite, err)
	}
	return nil
}
