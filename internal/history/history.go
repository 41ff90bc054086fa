// Package history keeps the outcome of past runs so callers can fetch
// output that was too large to show inline.
package history

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/deixis/localeshell/shell"
)

// Status summarises how a run ended.
type Status string

const (
	// Exited means the process ran to completion, whatever its exit code.
	Exited Status = "exited"
	// Failed means the process exited non-zero and the run was checked.
	Failed Status = "failed"
	// TimedOut means the process was killed after exceeding its timeout.
	TimedOut Status = "timeout"
	// Canceled means the caller gave up before the process exited.
	Canceled Status = "canceled"
	// Error means the process could not be started or waited for.
	Error Status = "error"
)

// Store persists and retrieves run records.
type Store interface {
	Save(rec *Record) error
	Load(id string) (*Record, error)
}

// Record is the stored form of a run.
type Record struct {
	ID       string        `json:"id"`
	Command  string        `json:"command"`
	Args     []string      `json:"args,omitempty"`
	Locale   string        `json:"locale"`
	Status   Status        `json:"status"`
	ExitCode int           `json:"exit_code"`
	Stdout   string        `json:"stdout,omitempty"`
	Stderr   string        `json:"stderr,omitempty"`
	Error    string        `json:"error,omitempty"`
	Started  time.Time     `json:"started"`
	Duration time.Duration `json:"duration"`
}

// New builds a record from the return values of shell.Run. id is used
// when the run failed before a Result was produced.
func New(id, command, locale string, res *shell.Result, err error) *Record {
	rec := &Record{ID: id, Command: command, Locale: locale, Status: Exited}
	if res != nil {
		rec.fill(res)
	}
	if err == nil {
		return rec
	}

	rec.Error = err.Error()
	var (
		exitErr    *shell.ExitError
		timeoutErr *shell.TimeoutError
	)
	switch {
	case errors.As(err, &exitErr):
		rec.fill(exitErr.Result)
		rec.Status = Failed
	case errors.As(err, &timeoutErr):
		rec.ID = timeoutErr.RunID
		rec.Status = TimedOut
		rec.ExitCode = -1
		rec.Stdout = string(timeoutErr.Stdout)
		rec.Stderr = string(timeoutErr.Stderr)
		rec.Duration = timeoutErr.Elapsed
	case errors.Is(err, context.Canceled):
		rec.Status = Canceled
		rec.ExitCode = -1
	default:
		rec.Status = Error
		rec.ExitCode = -1
	}
	return rec
}

func (r *Record) fill(res *shell.Result) {
	r.ID = res.RunID
	r.Args = res.Args
	r.ExitCode = res.ExitCode
	r.Stdout = string(res.Stdout)
	r.Stderr = string(res.Stderr)
	r.Started = res.Started
	r.Duration = res.Duration
}

// ErrNotFound is returned by Load for unknown run IDs.
var ErrNotFound = errors.New("run not found")

func notFound(id string) error {
	return fmt.Errorf("run %s: %w", id, ErrNotFound)
}
