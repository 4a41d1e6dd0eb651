package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/nibzard/gitdo/internal/gitdodir"
	"github.com/nibzard/gitdo/internal/task"
)

var (
	// ErrNotInitialized reports that the store directory or tasks file is
	// missing. The CLI checks for it before running mutating commands.
	ErrNotInitialized = errors.New("gitdo is not initialized")

	// ErrCorrupt reports that the tasks file exists but cannot be parsed
	// or fails validation.
	ErrCorrupt = errors.New("corrupt task store")
)

// Store owns the on-disk task collection inside <base>/.gitdo/tasks.json.
// Every operation is a self-contained load, mutate, save cycle; the slices
// it returns are independent snapshots.
type Store struct {
	base string
}

// New creates a store rooted at the given base directory. The base is used
// verbatim; use Discover to locate the nearest initialized ancestor first.
func New(base string) *Store {
	return &Store{base: base}
}

// Base returns the base directory the store is rooted at.
func (s *Store) Base() string {
	return s.base
}

// DirPath returns the path of the store directory.
func (s *Store) DirPath() string {
	return gitdodir.DirPath(s.base)
}

// TasksPath returns the path of the tasks file.
func (s *Store) TasksPath() string {
	return gitdodir.TasksPath(s.base)
}

// Init creates the store directory and an empty tasks file. It is
// idempotent: an existing directory is left alone and an existing tasks
// file is never overwritten.
func (s *Store) Init() error {
	if err := os.MkdirAll(s.DirPath(), 0755); err != nil {
		return fmt.Errorf("create store dir: %w", err)
	}
	if _, err := os.Stat(s.TasksPath()); errors.Is(err, fs.ErrNotExist) {
		return s.Save([]task.Task{})
	}
	return nil
}

// IsInitialized returns true if both the store directory and the tasks
// file exist.
func (s *Store) IsInitialized() bool {
	fi, err := os.Stat(s.DirPath())
	if err != nil || !fi.IsDir() {
		return false
	}
	_, err = os.Stat(s.TasksPath())
	return err == nil
}

// Load reads and parses the tasks file. A missing file yields an empty
// collection. Invalid JSON or records missing required fields yield an
// error wrapping ErrCorrupt.
func (s *Store) Load() ([]task.Task, error) {
	data, err := os.ReadFile(s.TasksPath())
	if errors.Is(err, fs.ErrNotExist) {
		return []task.Task{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read tasks file: %w", err)
	}

	if err := validateTasks(data); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}

	var tasks []task.Task
	if err := json.Unmarshal(data, &tasks); err != nil {
		return nil, fmt.Errorf("%w: parse tasks file: %v", ErrCorrupt, err)
	}
	return tasks, nil
}

// Save writes the whole collection to the tasks file with 2-space
// indentation. The write is a plain whole-file overwrite; last writer wins.
func (s *Store) Save(tasks []task.Task) error {
	if tasks == nil {
		tasks = []task.Task{}
	}
	data, err := json.MarshalIndent(tasks, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal tasks: %w", err)
	}

	// Add trailing newline
	data = append(data, '\n')

	if err := os.WriteFile(s.TasksPath(), data, 0644); err != nil {
		return fmt.Errorf("write tasks file: %w", err)
	}
	return nil
}

// Add creates a new pending task with the given title, appends it to the
// collection and saves. The created task is returned.
func (s *Store) Add(title string) (task.Task, error) {
	tasks, err := s.Load()
	if err != nil {
		return task.Task{}, err
	}
	t := task.New(title)
	tasks = append(tasks, t)
	if err := s.Save(tasks); err != nil {
		return task.Task{}, err
	}
	return t, nil
}

// Get returns the first task in collection order whose id starts with the
// given prefix, or nil if none matches. A short prefix that matches several
// tasks silently resolves to the first match.
func (s *Store) Get(idPrefix string) (*task.Task, error) {
	tasks, err := s.Load()
	if err != nil {
		return nil, err
	}
	for i := range tasks {
		if strings.HasPrefix(tasks[i].ID, idPrefix) {
			t := tasks[i]
			return &t, nil
		}
	}
	return nil, nil
}

// Start marks the first task matching the id prefix as in progress.
// It returns false, without saving, if no task matches.
func (s *Store) Start(idPrefix string) (bool, error) {
	return s.update(idPrefix, (*task.Task).Start)
}

// Complete marks the first task matching the id prefix as completed.
// It returns false, without saving, if no task matches.
func (s *Store) Complete(idPrefix string) (bool, error) {
	return s.update(idPrefix, (*task.Task).Complete)
}

func (s *Store) update(idPrefix string, apply func(*task.Task)) (bool, error) {
	tasks, err := s.Load()
	if err != nil {
		return false, err
	}
	for i := range tasks {
		if strings.HasPrefix(tasks[i].ID, idPrefix) {
			apply(&tasks[i])
			if err := s.Save(tasks); err != nil {
				return false, err
			}
			return true, nil
		}
	}
	return false, nil
}

// Remove deletes the first task matching the id prefix, preserving the
// order of the remaining tasks. It returns false, without saving, if no
// task matches.
func (s *Store) Remove(idPrefix string) (bool, error) {
	tasks, err := s.Load()
	if err != nil {
		return false, err
	}
	for i := range tasks {
		if strings.HasPrefix(tasks[i].ID, idPrefix) {
			tasks = append(tasks[:i], tasks[i+1:]...)
			if err := s.Save(tasks); err != nil {
				return false, err
			}
			return true, nil
		}
	}
	return false, nil
}

// Import appends the incoming tasks to the collection in order and saves
// once. With skipDuplicates set, incoming tasks whose title exactly matches
// an existing task, or an earlier incoming task, are dropped and counted as
// skipped. Duplicate detection is title-based and case-sensitive.
func (s *Store) Import(incoming []task.Task, skipDuplicates bool) (imported, skipped int, err error) {
	tasks, err := s.Load()
	if err != nil {
		return 0, 0, err
	}

	seen := make(map[string]struct{}, len(tasks))
	if skipDuplicates {
		for _, t := range tasks {
			seen[t.Title] = struct{}{}
		}
	}

	for _, t := range incoming {
		if skipDuplicates {
			if _, dup := seen[t.Title]; dup {
				skipped++
				continue
			}
			seen[t.Title] = struct{}{}
		}
		tasks = append(tasks, t)
		imported++
	}

	if err := s.Save(tasks); err != nil {
		return 0, 0, err
	}
	return imported, skipped, nil
}
