package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type inspectParams struct {
	RunID  string `json:"run_id" jsonschema:"the run ID from a shell_run result"`
	Stream string `json:"stream,omitempty" jsonschema:"stdout, stderr or both (default both)"`
}

func (h *handler) inspectHandler(ctx context.Context, req *mcp.CallToolRequest, params inspectParams) (*mcp.CallToolResult, any, error) {
	if params.RunID == "" {
		return errorResult("run_id is required")
	}
	stream := params.Stream
	if stream == "" {
		stream = "both"
	}
	if stream != "stdout" && stream != "stderr" && stream != "both" {
		return errorResult(fmt.Sprintf("unknown stream %q: want stdout, stderr or both", params.Stream))
	}

	rec, err := h.store.Load(params.RunID)
	if err != nil {
		return errorResult(fmt.Sprintf("Failed to load run %s: %v", params.RunID, err))
	}

	switch stream {
	case "stdout":
		return textResult(rec.Stdout)
	case "stderr":
		return textResult(rec.Stderr)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Run: %s (%s, exit code %d)\n", rec.ID, rec.Status, rec.ExitCode)
	fmt.Fprintf(&b, "Command: %s\n", rec.Command)
	fmt.Fprintln(&b)
	fmt.Fprintln(&b, "Stdout:")
	b.WriteString(rec.Stdout)
	fmt.Fprintln(&b)
	fmt.Fprintln(&b, "Stderr:")
	b.WriteString(rec.Stderr)
	return textResult(b.String())
}
