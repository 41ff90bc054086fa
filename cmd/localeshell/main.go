// Command localeshell runs shell commands with a configured locale.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/exec"
	"os/signal"
	"strings"
	"time"

	"github.com/deixis/localeshell"
	"github.com/deixis/localeshell/internal/config"
	"github.com/deixis/localeshell/internal/history"
	lsmcp "github.com/deixis/localeshell/internal/mcp"
	"github.com/deixis/localeshell/locale"
	"github.com/alessio/shellescape"
	"github.com/deixis/localeshell/shell"
	"github.com/google/uuid"
	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/sirupsen/logrus"
)

func main() {
	log.SetFlags(0)
	log.SetPrefix("localeshell: ")

	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	cmd := os.Args[1]
	args := os.Args[2:]

	var err error
	code := 0
	switch cmd {
	case "run":
		code, err = runMain(args)
	case "locale":
		err = localeMain(args)
	case "mcp":
		err = mcpMain(args)
	case "version":
		fmt.Println(localeshell.Version)
	case "help", "-h", "--help":
		usage()
	default:
		fmt.Fprintf(os.Stderr, "localeshell: unknown command %q\n", cmd)
		usage()
		os.Exit(2)
	}

	if err != nil {
		log.Fatal(err)
	}
	os.Exit(code)
}

func usage() {
	fmt.Fprintln(os.Stderr, `Usage: localeshell <command> [flags]

Commands:
  run         Run a command line with the configured locale
  locale      List supported locales
  mcp         Start the MCP server
  version     Print the version
  help        Show this help

Use "localeshell <command> -h" for command-specific flags.`)
}

// --- run ---

// runMain returns the exit status of the child, or an error when the
// command could not be set up.
func runMain(args []string) (int, error) {
	fs := flag.NewFlagSet("run", flag.ExitOnError)
	timeoutFlag := fs.Duration("timeout", 0, "override configured timeout (e.g. 30s)")
	checkFlag := fs.Bool("check", false, "treat a non-zero exit status as an error")
	directFlag := fs.Bool("direct", false, "execute without /bin/sh, splitting the command with POSIX quoting rules")
	binaryFlag := fs.Bool("binary", false, "do not normalise line endings (with -json)")
	jsonFlag := fs.Bool("json", false, "capture output and print the run as JSON")
	localeFlag := fs.String("locale", "", "locale to inject (e.g. italian)")
	verboseFlag := fs.Bool("v", false, "verbose output")
	_ = fs.Parse(args)

	command := commandLine(fs.Args())
	if strings.TrimSpace(command) == "" {
		return 0, errors.New("run: no command given")
	}
	setVerbose(*verboseFlag)

	sh, err := newShell()
	if err != nil {
		return 0, err
	}
	if *localeFlag != "" {
		if err := sh.SetLocale(*localeFlag); err != nil {
			return 0, err
		}
	}

	var opts []shell.RunOption
	if *timeoutFlag > 0 {
		opts = append(opts, shell.Timeout(*timeoutFlag))
	}
	if *checkFlag {
		opts = append(opts, shell.Check())
	}
	if *directFlag {
		opts = append(opts, shell.Direct())
	}
	if *binaryFlag {
		opts = append(opts, shell.Binary())
	}
	if !*jsonFlag {
		opts = append(opts, shell.Stdout(shell.Inherit()), shell.Stderr(shell.Inherit()))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	loc := sh.Locale()
	res, err := sh.Run(ctx, command, opts...)

	if *jsonFlag {
		rec := history.New(uuid.NewString(), command, loc.String(), res, err)
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if encErr := enc.Encode(rec); encErr != nil {
			return 0, encErr
		}
	}

	return exitStatus(res, err), nil
}

// commandLine rebuilds the command line from the words the invoking shell
// already split. A single word is taken as a complete command line, so
// `localeshell run 'ls | head'` still pipes. Multiple words are quoted
// before joining so their boundaries and metacharacters survive the
// second parse.
func commandLine(words []string) string {
	if len(words) == 1 {
		return words[0]
	}
	quoted := make([]string, len(words))
	for i, w := range words {
		quoted[i] = shellescape.Quote(w)
	}
	return strings.Join(quoted, " ")
}

// exitStatus maps the outcome of a run to the process exit status.
func exitStatus(res *shell.Result, err error) int {
	var exitErr *shell.ExitError
	switch {
	case err == nil:
		if res.ExitCode < 0 {
			return 128 - res.ExitCode
		}
		return res.ExitCode
	case errors.As(err, &exitErr):
		log.Print(err)
		return exitErr.ExitCode
	case errors.Is(err, shell.ErrTimeout):
		log.Print(err)
		return 124
	case errors.Is(err, exec.ErrNotFound):
		log.Print(err)
		return 127
	default:
		log.Print(err)
		return 1
	}
}

// --- locale ---

func localeMain(args []string) error {
	fs := flag.NewFlagSet("locale", flag.ExitOnError)
	_ = fs.Parse(args)

	sh, err := newShell()
	if err != nil {
		return err
	}
	name, _ := sh.LocaleEnv()
	for _, l := range locale.All() {
		marker := " "
		if l == sh.Locale() {
			marker = "*"
		}
		fmt.Printf("%s %-10s %s=%s\n", marker, l, name, l.Tag())
	}
	return nil
}

// --- mcp ---

func mcpMain(args []string) error {
	fs := flag.NewFlagSet("mcp", flag.ExitOnError)
	instructions := fs.Bool("instructions", false, "print model instructions and exit")
	httpAddr := fs.String("http", "", "start HTTP server on address (e.g. :9090)")
	historyDir := fs.String("history", "", "directory for run history (default: a temp directory)")
	verboseFlag := fs.Bool("v", false, "verbose logging to stderr")
	_ = fs.Parse(args)

	if *instructions {
		fmt.Print(lsmcp.Instructions)
		return nil
	}
	setVerbose(*verboseFlag)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	return serve(ctx, *httpAddr, *historyDir)
}

func serve(ctx context.Context, httpAddr, historyDir string) error {
	workspace, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("determining workspace: %w", err)
	}

	loaded, err := config.Load(workspace)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	cfg := loaded.Config

	sh, err := cfg.Shell(logrus.StandardLogger())
	if err != nil {
		return err
	}
	store := history.NewLRUStore(cfg.HistorySize(), history.NewDiskStore(historyDir))

	server := lsmcp.NewServer(cfg, sh, store, workspace)

	if httpAddr != "" {
		return serveHTTP(ctx, server, httpAddr)
	}
	return server.Run(ctx, &mcpsdk.StdioTransport{})
}

func serveHTTP(ctx context.Context, server *mcpsdk.Server, addr string) error {
	handler := mcpsdk.NewStreamableHTTPHandler(
		func(_ *http.Request) *mcpsdk.Server { return server },
		nil,
	)

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		_ = httpServer.Close()
	}()

	log.Printf("listening on %s", addr)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("http server: %w", err)
	}
	return nil
}

// --- shared ---

func newShell() (*shell.Shell, error) {
	workspace, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("determining workspace: %w", err)
	}
	loaded, err := config.Load(workspace)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return loaded.Config.Shell(logrus.StandardLogger())
}

// setVerbose routes debug traces to stderr. logrus writes to stderr by
// default, so only the level changes.
func setVerbose(verbose bool) {
	if verbose {
		logrus.SetLevel(logrus.DebugLevel)
	}
}
