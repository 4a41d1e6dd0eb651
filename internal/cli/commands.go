package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"sort"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/nibzard/gitdo/internal/config"
	"github.com/nibzard/gitdo/internal/markdown"
	"github.com/nibzard/gitdo/internal/store"
	"github.com/nibzard/gitdo/internal/task"
	"github.com/nibzard/gitdo/internal/ui"
)

// initCommand initializes a store in the current directory. It never uses
// discovery, so projects can be nested inside other projects.
func initCommand(cfg *config.Config, logger *log.Logger) error {
	base := cfg.Dir
	if base == "" {
		base = cfg.WorkDir
	}
	st := store.New(base)

	if st.IsInitialized() {
		logger.Warn("gitdo is already initialized in this directory")
		return nil
	}
	if err := st.Init(); err != nil {
		return fmt.Errorf("initializing store: %w", err)
	}
	logger.Info("gitdo initialized", "dir", st.DirPath())
	return nil
}

func addCommand(cfg *config.Config, logger *log.Logger, args []string) error {
	if len(args) != 1 || strings.TrimSpace(args[0]) == "" {
		return fmt.Errorf("usage: gitdo add <title>")
	}

	st := openStore(cfg)
	if err := requireInitialized(st); err != nil {
		return err
	}

	created, err := st.Add(args[0])
	if err != nil {
		return fmt.Errorf("adding task: %w", err)
	}
	styles := newStyles(cfg.NoColor)
	fmt.Printf("%s Added task: %s\n", styles.Check(), created.Title)
	fmt.Printf("  %s\n", styles.Dim.Render("ID: "+shortID(created.ID)))
	return nil
}

func listCommand(cfg *config.Config, logger *log.Logger, args []string) error {
	flags := flag.NewFlagSet("gitdo list", flag.ContinueOnError)
	statusFilter := flags.String("status", "", "Filter by status (pending|inprogress|completed)")
	flags.StringVar(statusFilter, "s", "", "Filter by status (shorthand)")
	all := flags.Bool("all", false, "Show all tasks")
	flags.BoolVar(all, "a", false, "Show all tasks (shorthand)")
	if err := flags.Parse(args); err != nil {
		return err
	}
	if len(flags.Args()) > 0 {
		return fmt.Errorf("unexpected arguments: %v", flags.Args())
	}

	st := openStore(cfg)
	if err := requireInitialized(st); err != nil {
		return err
	}

	tasks, err := st.Load()
	if err != nil {
		return err
	}

	if !*all {
		switch {
		case *statusFilter != "":
			status := task.Status(strings.ToLower(*statusFilter))
			if !status.Valid() {
				return fmt.Errorf("invalid status %q (pending|inprogress|completed)", *statusFilter)
			}
			tasks = filterByStatus(tasks, status)
		case !cfg.ListAll:
			// Default view hides completed tasks.
			var open []task.Task
			for _, t := range tasks {
				if t.Status != task.StatusCompleted {
					open = append(open, t)
				}
			}
			tasks = open
		}
	}

	if len(tasks) == 0 {
		fmt.Println("No tasks found.")
		return nil
	}

	// Display order: inprogress, pending, completed; insertion order
	// within each group.
	sort.SliceStable(tasks, func(i, j int) bool {
		return statusRank(tasks[i].Status) < statusRank(tasks[j].Status)
	})

	fmt.Print(renderTaskTable(tasks, newStyles(cfg.NoColor)))
	return nil
}

func statusRank(s task.Status) int {
	switch s {
	case task.StatusInProgress:
		return 0
	case task.StatusPending:
		return 1
	case task.StatusCompleted:
		return 2
	}
	return 3
}

func filterByStatus(tasks []task.Task, status task.Status) []task.Task {
	var filtered []task.Task
	for _, t := range tasks {
		if t.Status == status {
			filtered = append(filtered, t)
		}
	}
	return filtered
}

func startCommand(cfg *config.Config, logger *log.Logger, args []string) error {
	return transitionCommand(cfg, args, "start", "marked as in progress", (*store.Store).Start)
}

func completeCommand(cfg *config.Config, logger *log.Logger, args []string) error {
	return transitionCommand(cfg, args, "complete", "marked as completed", (*store.Store).Complete)
}

func removeCommand(cfg *config.Config, logger *log.Logger, args []string) error {
	return transitionCommand(cfg, args, "remove", "removed", (*store.Store).Remove)
}

// transitionCommand is the shared shape of start/complete/remove: one
// id-prefix argument, a store operation returning found/not-found, and a
// non-zero exit when nothing matched.
func transitionCommand(cfg *config.Config, args []string, name, done string, op func(*store.Store, string) (bool, error)) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: gitdo %s <id-prefix>", name)
	}
	prefix := args[0]

	st := openStore(cfg)
	if err := requireInitialized(st); err != nil {
		return err
	}

	found, err := op(st, prefix)
	if err != nil {
		return err
	}
	if !found {
		return fmt.Errorf("task %s not found", prefix)
	}
	styles := newStyles(cfg.NoColor)
	fmt.Printf("%s Task %s %s\n", styles.Check(), prefix, done)
	return nil
}

func importCommand(cfg *config.Config, logger *log.Logger, args []string) error {
	flags := flag.NewFlagSet("gitdo import-md", flag.ContinueOnError)
	skipDuplicates := flags.Bool("skip-duplicates", false, "Skip tasks with duplicate titles")
	dryRun := flags.Bool("dry-run", false, "Preview tasks without importing")
	if err := flags.Parse(args); err != nil {
		return err
	}
	if len(flags.Args()) != 1 {
		return fmt.Errorf("usage: gitdo import-md <file> [--skip-duplicates] [--dry-run]")
	}
	path := flags.Arg(0)

	st := openStore(cfg)
	if err := requireInitialized(st); err != nil {
		return err
	}

	tasks, err := markdown.ParseFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return fmt.Errorf("file not found: %s", path)
	case errors.Is(err, fs.ErrPermission):
		return fmt.Errorf("cannot read file: %s", path)
	case err != nil:
		return err
	}

	if len(tasks) == 0 {
		fmt.Printf("No checkbox items found in %s\n", path)
		return nil
	}

	styles := newStyles(cfg.NoColor)
	fmt.Printf("Found %d task(s) in %s:\n", len(tasks), path)
	fmt.Print(renderPreviewTable(tasks, styles))

	if *dryRun {
		fmt.Println(styles.Dim.Render("Dry run - no tasks were imported"))
		return nil
	}

	imported, skipped, err := st.Import(tasks, *skipDuplicates)
	if err != nil {
		return fmt.Errorf("importing tasks: %w", err)
	}

	fmt.Printf("%s Imported %d task(s)\n", styles.Check(), imported)
	if skipped > 0 {
		logger.Warn("skipped duplicates", "count", skipped)
	}
	return nil
}

func tuiCommand(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) > 0 {
		return fmt.Errorf("unexpected arguments: %v", args)
	}
	st := openStore(cfg)
	if err := requireInitialized(st); err != nil {
		return err
	}
	return ui.Run(ctx, st)
}

// shortID returns the display form of a task id.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
