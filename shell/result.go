package shell

import (
	"bytes"
	"fmt"
	"time"
)

// Result holds the outcome of a command execution.
type Result struct {
	RunID    string        // unique identifier for this run
	Command  string        // command line as given to Run
	Args     []string      // argv actually executed
	Env      []string      // child environment, sorted KEY=value
	ExitCode int           // exit status; -N when killed by signal N
	Stdout   []byte        // captured stdout, nil unless captured
	Stderr   []byte        // captured stderr, nil unless captured
	Text     bool          // true if line endings were normalised
	Started  time.Time     // when the process was started
	Duration time.Duration // wall-clock time until exit
}

// Success reports whether the process exited with status 0.
func (r *Result) Success() bool {
	return r.ExitCode == 0
}

// StdoutString returns the captured stdout as a string.
func (r *Result) StdoutString() string {
	return string(r.Stdout)
}

// StderrString returns the captured stderr as a string.
func (r *Result) StderrString() string {
	return string(r.Stderr)
}

func (r *Result) String() string {
	return fmt.Sprintf("Result(run_id=%s, args=%q, exit_code=%d, stdout=%q, stderr=%q, duration=%s)",
		r.RunID, r.Args, r.ExitCode, r.Stdout, r.Stderr, r.Duration.Round(time.Millisecond))
}

// normalizeNewlines converts \r\n and lone \r to \n.
func normalizeNewlines(b []byte) []byte {
	if bytes.IndexByte(b, '\r') < 0 {
		return b
	}
	b = bytes.ReplaceAll(b, []byte("\r\n"), []byte("\n"))
	return bytes.ReplaceAll(b, []byte("\r"), []byte("\n"))
}
