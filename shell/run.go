package shell

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"maps"
	"os"
	"os/exec"
	"slices"
	"strings"
	"time"

	"github.com/google/shlex"
	"github.com/google/uuid"
)

// waitDelay bounds how long Wait keeps reading pipes after the child is
// killed or has exited while a descendant still holds them open.
const waitDelay = time.Second

type runOptions struct {
	timeout  time.Duration
	stdout   Target
	stderr   Target
	env      map[string]string
	dir      string
	check    bool
	useShell bool
	text     bool
}

// RunOption configures a single Run.
type RunOption func(*runOptions)

// Timeout bounds the wall-clock time the child may run.
func Timeout(d time.Duration) RunOption {
	return func(o *runOptions) {
		o.timeout = d
	}
}

// Stdout selects the destination of the child's standard output.
func Stdout(t Target) RunOption {
	return func(o *runOptions) {
		o.stdout = t
	}
}

// Stderr selects the destination of the child's standard error.
func Stderr(t Target) RunOption {
	return func(o *runOptions) {
		o.stderr = t
	}
}

// Env replaces the environment passed to the child. The locale variable
// is still added when env does not define it.
func Env(env map[string]string) RunOption {
	return func(o *runOptions) {
		o.env = env
	}
}

// Dir sets the child's working directory.
func Dir(dir string) RunOption {
	return func(o *runOptions) {
		o.dir = dir
	}
}

// Check makes a non-zero exit status an *ExitError.
func Check() RunOption {
	return func(o *runOptions) {
		o.check = true
	}
}

// Direct executes the tokenized command line without an intermediate shell.
func Direct() RunOption {
	return func(o *runOptions) {
		o.useShell = false
	}
}

// Binary returns captured output as produced, without newline
// normalisation.
func Binary() RunOption {
	return func(o *runOptions) {
		o.text = false
	}
}

// Run executes command and waits for it to exit.
//
// By default the command line is handed to the system shell unparsed.
// With Direct it is split using POSIX shell quoting rules and the first
// word is executed as the program. Failures to start the process are
// returned as reported by os/exec.
func (s *Shell) Run(ctx context.Context, command string, opts ...RunOption) (*Result, error) {
	o := runOptions{
		timeout:  s.timeout,
		stdout:   Capture(),
		stderr:   Capture(),
		useShell: true,
		text:     true,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.timeout <= 0 {
		return nil, fmt.Errorf("invalid timeout %s", o.timeout)
	}
	if err := o.stdout.validate(); err != nil {
		return nil, fmt.Errorf("stdout: %w", err)
	}
	if err := o.stderr.validate(); err != nil {
		return nil, fmt.Errorf("stderr: %w", err)
	}

	argv, err := buildArgv(command, o.useShell)
	if err != nil {
		return nil, err
	}
	env := s.childEnv(o.env)

	runID := uuid.New().String()
	log := s.log.WithField("run_id", runID)
	log.Debugf("Running shell command '%s'", command)

	runCtx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()

	cmd := exec.CommandContext(runCtx, argv[0], argv[1:]...)
	cmd.Env = env
	cmd.Dir = o.dir
	cmd.WaitDelay = waitDelay
	configureProcess(cmd)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = o.stdout.bind(&stdout, os.Stdout)
	cmd.Stderr = o.stderr.bind(&stderr, os.Stderr)

	started := time.Now()
	if err := cmd.Start(); err != nil {
		return nil, err
	}
	waitErr := cmd.Wait()
	elapsed := time.Since(started)

	if waitErr != nil && runCtx.Err() != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		log.Debugf("Timed out after %s", elapsed.Round(time.Millisecond))
		return nil, &TimeoutError{
			RunID:   runID,
			Command: command,
			Timeout: o.timeout,
			Elapsed: elapsed,
			Stdout:  captured(o, o.stdout, stdout.Bytes()),
			Stderr:  captured(o, o.stderr, stderr.Bytes()),
		}
	}
	if waitErr != nil && !isExitStatus(waitErr) {
		return nil, fmt.Errorf("waiting for %q: %w", command, waitErr)
	}

	res := &Result{
		RunID:    runID,
		Command:  command,
		Args:     argv,
		Env:      env,
		ExitCode: exitCode(cmd.ProcessState),
		Stdout:   captured(o, o.stdout, stdout.Bytes()),
		Stderr:   captured(o, o.stderr, stderr.Bytes()),
		Text:     o.text,
		Started:  started,
		Duration: elapsed,
	}
	log.Debugf("Got result %s", res)

	if o.check && res.ExitCode != 0 {
		return nil, &ExitError{Result: res}
	}
	return res, nil
}

// isExitStatus reports whether err only describes how the process exited,
// as opposed to a failure to collect its output. ErrWaitDelay means the
// process exited but a descendant kept the pipes open.
func isExitStatus(err error) bool {
	var exitErr *exec.ExitError
	return errors.As(err, &exitErr) || errors.Is(err, exec.ErrWaitDelay)
}

func captured(o runOptions, t Target, b []byte) []byte {
	if !t.captures() {
		return nil
	}
	if b == nil {
		b = []byte{}
	}
	if o.text {
		return normalizeNewlines(b)
	}
	return b
}

func buildArgv(command string, useShell bool) ([]string, error) {
	if strings.TrimSpace(command) == "" {
		return nil, ErrEmptyCommand
	}
	if useShell {
		return shellArgv(command), nil
	}
	argv, err := shlex.Split(command)
	if err != nil {
		return nil, fmt.Errorf("parsing command %q: %w", command, err)
	}
	if len(argv) == 0 {
		return nil, ErrEmptyCommand
	}
	return argv, nil
}

// childEnv resolves the base environment and adds the locale variable
// when it is not already defined. base is never modified.
func (s *Shell) childEnv(base map[string]string) []string {
	var env map[string]string
	if base != nil {
		env = maps.Clone(base)
	} else {
		env = environ()
	}
	if name, value := s.LocaleEnv(); name != "" {
		if _, ok := env[name]; !ok {
			env[name] = value
		}
	}

	list := make([]string, 0, len(env))
	for _, k := range slices.Sorted(maps.Keys(env)) {
		list = append(list, k+"="+env[k])
	}
	return list
}

func environ() map[string]string {
	env := make(map[string]string)
	for _, kv := range os.Environ() {
		k, v, ok := strings.Cut(kv, "=")
		if !ok || k == "" {
			continue
		}
		env[k] = v
	}
	return env
}
