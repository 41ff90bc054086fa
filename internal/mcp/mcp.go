// Package mcp provides the localeshell MCP server, registering the shell
// tools and publishing model instructions.
package mcp

import (
	"context"
	_ "embed"
	"net/url"
	"sync"
	"time"

	"github.com/deixis/localeshell"
	"github.com/deixis/localeshell/internal/config"
	"github.com/deixis/localeshell/internal/history"
	"github.com/deixis/localeshell/shell"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

//go:embed instructions.md
var Instructions string

// handler holds shared dependencies for all tool handlers.
type handler struct {
	shell     *shell.Shell
	store     history.Store
	maxOutput int

	mu  sync.Mutex
	dir string // working directory for runs; updated from client roots
}

// NewServer creates an MCP server with all localeshell tools registered.
// Commands run in dir unless the client reports a file root.
func NewServer(cfg *config.Config, sh *shell.Shell, store history.Store, dir string) *mcp.Server {
	h := &handler{
		shell:     sh,
		store:     store,
		maxOutput: cfg.MaxOutputBytes(),
		dir:       dir,
	}

	opts := &mcp.ServerOptions{
		Instructions: Instructions,
		Capabilities: &mcp.ServerCapabilities{
			Tools: &mcp.ToolCapabilities{ListChanged: false},
		},
		InitializedHandler: func(ctx context.Context, req *mcp.InitializedRequest) {
			h.updateDirFromRoots(ctx, req.Session)
		},
	}
	s := mcp.NewServer(&mcp.Implementation{Name: "localeshell", Version: localeshell.Version}, opts)

	mcp.AddTool(s, &mcp.Tool{
		Name: "shell_run",
		Description: `Run a command line and return its exit code and output.

The command goes through /bin/sh unless direct=true, in which case it is split with
POSIX quoting rules and executed without a shell. The locale variable (LC_ALL by default)
is set from the current locale unless the environment already defines it.
Large output is truncated; fetch it in full with shell_inspect.`,
	}, h.runHandler)

	mcp.AddTool(s, &mcp.Tool{
		Name: "shell_locale",
		Description: `Show or change the locale injected into commands.

Without a name, reports the current locale and the supported ones.
With a name (e.g. "italian"), switches to it.`,
	}, h.localeHandler)

	mcp.AddTool(s, &mcp.Tool{
		Name:        "shell_inspect",
		Description: "Return the full stdout and/or stderr of a previous shell_run.",
	}, h.inspectHandler)

	return s
}

// updateDirFromRoots queries the client for MCP roots and runs subsequent
// commands in the first file root.
func (h *handler) updateDirFromRoots(ctx context.Context, session *mcp.ServerSession) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	roots, err := session.ListRoots(ctx, &mcp.ListRootsParams{})
	if err != nil {
		return
	}
	if len(roots.Roots) == 0 {
		return
	}

	u, err := url.Parse(roots.Roots[0].URI)
	if err != nil || u.Scheme != "file" {
		return
	}

	h.mu.Lock()
	h.dir = u.Path
	h.mu.Unlock()
}

func (h *handler) workDir() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.dir
}

// textResult is a helper to build a text-only tool result.
func textResult(text string) (*mcp.CallToolResult, any, error) {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
	}, nil, nil
}

// errorResult is a helper to build an error tool result.
func errorResult(text string) (*mcp.CallToolResult, any, error) {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
		IsError: true,
	}, nil, nil
}
