// Package cli implements the CLI command structure for gitdo.
package cli

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"

	"github.com/nibzard/gitdo/internal/config"
	"github.com/nibzard/gitdo/internal/store"
)

// Version is set via ldflags at build time.
var Version = "dev"

// Run executes the gitdo CLI.
func Run(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("gitdo", flag.ContinueOnError)
	fs.Usage = func() {
		printUsage(fs, os.Stderr)
	}
	help := fs.Bool("help", false, "Show help")
	fs.BoolVar(help, "h", false, "Show help")
	showVersion := fs.Bool("version", false, "Show version")
	fs.BoolVar(showVersion, "v", false, "Show version")

	// Global flags
	cfg, err := config.Load(fs, args)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if *help {
		printUsage(fs, os.Stdout)
		return nil
	}
	if *showVersion {
		return versionCommand()
	}

	logger := newLogger(cfg)

	remaining := fs.Args()
	if len(remaining) == 0 {
		printUsage(fs, os.Stderr)
		return fmt.Errorf("no command given")
	}
	subcommand := remaining[0]
	remaining = remaining[1:]

	switch subcommand {
	case "init":
		return initCommand(cfg, logger)
	case "add":
		return addCommand(cfg, logger, remaining)
	case "list", "ls":
		return listCommand(cfg, logger, remaining)
	case "start":
		return startCommand(cfg, logger, remaining)
	case "complete":
		return completeCommand(cfg, logger, remaining)
	case "remove", "rm":
		return removeCommand(cfg, logger, remaining)
	case "import-md":
		return importCommand(cfg, logger, remaining)
	case "tui":
		return tuiCommand(ctx, cfg, remaining)
	case "version":
		return versionCommand()
	case "help", "--help", "-h":
		printUsage(fs, os.Stdout)
		return nil
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", subcommand)
		printUsage(fs, os.Stderr)
		return fmt.Errorf("unknown command: %s", subcommand)
	}
}

// newLogger builds the console logger used for diagnostics. Task output
// itself goes to stdout; the logger handles status and warning messages.
func newLogger(cfg *config.Config) *log.Logger {
	level := log.InfoLevel
	if parsed, err := log.ParseLevel(cfg.LogLevel); err == nil {
		level = parsed
	}
	return log.NewWithOptions(os.Stderr, log.Options{
		Level:           level,
		ReportTimestamp: false,
		Prefix:          "gitdo",
	})
}

// openStore returns the store for the current invocation: the explicit
// --dir/GITDO_DIR base when given, otherwise the nearest ancestor of the
// working directory containing a .gitdo directory.
func openStore(cfg *config.Config) *store.Store {
	if cfg.Dir != "" {
		return store.New(cfg.Dir)
	}
	return store.New(store.Discover(cfg.WorkDir))
}

// requireInitialized fails with ErrNotInitialized unless the store exists.
func requireInitialized(st *store.Store) error {
	if !st.IsInitialized() {
		return fmt.Errorf("%w: run 'gitdo init' first", store.ErrNotInitialized)
	}
	return nil
}

func versionCommand() error {
	fmt.Printf("gitdo %s\n", Version)
	return nil
}

func printUsage(fs *flag.FlagSet, w io.Writer) {
	fmt.Fprintf(w, "gitdo - plan your work from the command line\n\n")
	fmt.Fprintf(w, "Usage:\n")
	fmt.Fprintf(w, "  gitdo [flags] <command> [args]\n\n")
	fmt.Fprintf(w, "Commands:\n")
	fmt.Fprintf(w, "  init                    Initialize a gitdo project in the current directory\n")
	fmt.Fprintf(w, "  add <title>             Add a new task\n")
	fmt.Fprintf(w, "  list                    List tasks (-s/--status filter, -a/--all)\n")
	fmt.Fprintf(w, "  start <id-prefix>       Mark a task as in progress\n")
	fmt.Fprintf(w, "  complete <id-prefix>    Mark a task as completed\n")
	fmt.Fprintf(w, "  remove <id-prefix>      Remove a task\n")
	fmt.Fprintf(w, "  import-md <file>        Import tasks from markdown checkboxes\n")
	fmt.Fprintf(w, "                          (--skip-duplicates, --dry-run)\n")
	fmt.Fprintf(w, "  tui                     Interactive task viewer\n")
	fmt.Fprintf(w, "  version                 Show version\n")
	fmt.Fprintf(w, "  help                    Show this help\n\n")
	fmt.Fprintf(w, "Flags:\n")
	fs.PrintDefaults()
}
