package main

import (
	"context"
	"fmt"
	"os/exec"
	"testing"
	"time"

	"github.com/sirupsen/logrus/hooks/test"

	"github.com/deixis/localeshell/shell"
)

func TestExitStatus(t *testing.T) {
	tests := []struct {
		name string
		res  *shell.Result
		err  error
		want int
	}{
		{"success", &shell.Result{ExitCode: 0}, nil, 0},
		{"unchecked failure", &shell.Result{ExitCode: 3}, nil, 3},
		{"killed", &shell.Result{ExitCode: -9}, nil, 137},
		{"checked failure", nil, &shell.ExitError{Result: &shell.Result{ExitCode: 4}}, 4},
		{"timeout", nil, &shell.TimeoutError{Command: "sleep 5", Timeout: time.Second}, 124},
		{"not found", nil, &exec.Error{Name: "nope", Err: exec.ErrNotFound}, 127},
		{"other", nil, fmt.Errorf("waiting: %w", context.Canceled), 1},
	}
	for _, tt := range tests {
		if got := exitStatus(tt.res, tt.err); got != tt.want {
			t.Errorf("%s: exitStatus = %d, want %d", tt.name, got, tt.want)
		}
	}
}

func TestCommandLine(t *testing.T) {
	tests := []struct {
		words []string
		want  string
	}{
		{[]string{"ls | head"}, "ls | head"},
		{[]string{"echo", "hello"}, "echo hello"},
		{[]string{"printf", "%s|", "a b", "c"}, "printf '%s|' 'a b' c"},
		{[]string{"echo", "it's"}, `echo 'it'"'"'s'`},
		{[]string{"echo", ""}, "echo ''"},
	}
	for _, tt := range tests {
		if got := commandLine(tt.words); got != tt.want {
			t.Errorf("commandLine(%q) = %q, want %q", tt.words, got, tt.want)
		}
	}
}

func TestCommandLine_PreservesWords(t *testing.T) {
	logger, _ := test.NewNullLogger()
	sh := shell.New(shell.WithLogger(logger))
	command := commandLine([]string{"printf", "%s|", "a b", "c", "x|y", "it's"})
	want := "a b|c|x|y|it's|"

	for _, tt := range []struct {
		name string
		opts []shell.RunOption
	}{
		{"shell", nil},
		{"direct", []shell.RunOption{shell.Direct()}},
	} {
		res, err := sh.Run(context.Background(), command, tt.opts...)
		if err != nil {
			t.Fatalf("%s: Run(%q): %v", tt.name, command, err)
		}
		if got := res.StdoutString(); got != want {
			t.Errorf("%s: stdout = %q, want %q", tt.name, got, want)
		}
	}
}
