package mcp

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/deixis/localeshell/internal/history"
	"github.com/deixis/localeshell/shell"
	"github.com/google/uuid"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type runParams struct {
	Command string            `json:"command" jsonschema:"the command line to run, e.g. ls -la | head"`
	Timeout float64           `json:"timeout_seconds,omitempty" jsonschema:"maximum run time in seconds. Defaults to the configured timeout."`
	Env     map[string]string `json:"env,omitempty" jsonschema:"replacement environment for the command. Defaults to the server environment."`
	Check   bool              `json:"check,omitempty" jsonschema:"report a non-zero exit status as a tool error"`
	Direct  bool              `json:"direct,omitempty" jsonschema:"execute without /bin/sh, splitting the command with POSIX quoting rules"`
	Dir     string            `json:"dir,omitempty" jsonschema:"working directory. Defaults to the client root or the server working directory."`
}

func (h *handler) runHandler(ctx context.Context, req *mcp.CallToolRequest, params runParams) (*mcp.CallToolResult, any, error) {
	if strings.TrimSpace(params.Command) == "" {
		return errorResult("command is required")
	}
	if params.Timeout < 0 {
		return errorResult("timeout_seconds must be positive")
	}

	dir := params.Dir
	if dir == "" {
		dir = h.workDir()
	}
	opts := []shell.RunOption{shell.Dir(dir)}
	if params.Timeout > 0 {
		opts = append(opts, shell.Timeout(time.Duration(params.Timeout*float64(time.Second))))
	}
	if params.Env != nil {
		opts = append(opts, shell.Env(params.Env))
	}
	if params.Check {
		opts = append(opts, shell.Check())
	}
	if params.Direct {
		opts = append(opts, shell.Direct())
	}

	loc := h.shell.Locale()
	res, err := h.shell.Run(ctx, params.Command, opts...)
	rec := history.New(uuid.NewString(), params.Command, loc.String(), res, err)

	// Save results for shell_inspect.
	_ = h.store.Save(rec)

	text := formatRun(rec, h.maxOutput)
	if rec.Status != history.Exited {
		return errorResult(text)
	}
	return textResult(text)
}

func formatRun(rec *history.Record, maxOutput int) string {
	var b strings.Builder

	switch rec.Status {
	case history.Exited, history.Failed:
		fmt.Fprintf(&b, "Status: %s (exit code %d)\n", rec.Status, rec.ExitCode)
	default:
		fmt.Fprintf(&b, "Status: %s\n", rec.Status)
	}
	fmt.Fprintf(&b, "Run: %s\n", rec.ID)
	fmt.Fprintf(&b, "Locale: %s\n", rec.Locale)
	if rec.Duration > 0 {
		fmt.Fprintf(&b, "Duration: %s\n", rec.Duration.Round(time.Millisecond))
	}
	if rec.Error != "" {
		fmt.Fprintf(&b, "Error: %s\n", rec.Error)
	}

	truncated := false
	for _, stream := range []struct {
		name, data string
	}{
		{"Stdout", rec.Stdout},
		{"Stderr", rec.Stderr},
	} {
		if stream.data == "" {
			continue
		}
		fmt.Fprintln(&b)
		fmt.Fprintf(&b, "%s:\n", stream.name)
		data := stream.data
		if len(data) > maxOutput {
			data = truncate(data, maxOutput)
			truncated = true
		}
		b.WriteString(data)
		if !strings.HasSuffix(data, "\n") {
			fmt.Fprintln(&b)
		}
		if len(data) < len(stream.data) {
			fmt.Fprintf(&b, "... (%d of %d bytes shown)\n", len(data), len(stream.data))
		}
	}

	if truncated {
		fmt.Fprintln(&b)
		fmt.Fprintf(&b, "Inspect with shell_inspect(run_id=%q).\n", rec.ID)
	}

	return b.String()
}

// truncate cuts s to at most n bytes without splitting a UTF-8 sequence.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
