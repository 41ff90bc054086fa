package shell

import (
	"context"
	"errors"
	"fmt"
	"time"
)

var (
	// ErrEmptyCommand is returned when the command line has no words.
	ErrEmptyCommand = errors.New("empty command")
	// ErrTimeout matches every *TimeoutError.
	ErrTimeout = errors.New("command timed out")
	// ErrNonZeroExit matches every *ExitError.
	ErrNonZeroExit = errors.New("command exited with non-zero status")
)

// TimeoutError is returned when the child did not exit within the timeout.
// The child's process group has been killed by the time it is returned.
type TimeoutError struct {
	RunID   string
	Command string
	Timeout time.Duration
	Elapsed time.Duration
	Stdout  []byte // output captured before the kill
	Stderr  []byte
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("command %q timed out after %s", e.Command, e.Timeout)
}

// Is matches ErrTimeout and context.DeadlineExceeded.
func (e *TimeoutError) Is(target error) bool {
	return target == ErrTimeout || target == context.DeadlineExceeded
}

// ExitError is returned by Run with the Check option when the child exits
// with a non-zero status. It carries the full Result.
type ExitError struct {
	*Result
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("command %q returned non-zero exit status %d", e.Command, e.ExitCode)
}

func (e *ExitError) Is(target error) bool {
	return target == ErrNonZeroExit
}
