package store

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/nibzard/gitdo/internal/task"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s := New(t.TempDir())
	if err := s.Init(); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	return s
}

func TestInitIsIdempotent(t *testing.T) {
	s := New(t.TempDir())

	if s.IsInitialized() {
		t.Fatal("expected uninitialized store")
	}
	if err := s.Init(); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	if !s.IsInitialized() {
		t.Fatal("expected initialized store")
	}

	if _, err := s.Add("survivor"); err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	// A second init must not error and must not erase existing tasks.
	if err := s.Init(); err != nil {
		t.Fatalf("second Init failed: %v", err)
	}
	tasks, err := s.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(tasks) != 1 || tasks[0].Title != "survivor" {
		t.Errorf("tasks after re-init: got %v, want the single survivor task", tasks)
	}
}

func TestIsInitializedNeedsTasksFile(t *testing.T) {
	base := t.TempDir()
	s := New(base)
	if err := os.MkdirAll(s.DirPath(), 0755); err != nil {
		t.Fatal(err)
	}
	if s.IsInitialized() {
		t.Error("store dir without tasks file should not count as initialized")
	}
}

func TestLoadMissingFileIsEmpty(t *testing.T) {
	s := New(t.TempDir())
	tasks, err := s.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(tasks) != 0 {
		t.Errorf("expected empty collection, got %d tasks", len(tasks))
	}
}

func TestAdd(t *testing.T) {
	s := newTestStore(t)

	created, err := s.Add("Write docs")
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if created.Title != "Write docs" {
		t.Errorf("Title: got %q, want %q", created.Title, "Write docs")
	}

	tasks, err := s.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(tasks) != 1 || tasks[0].ID != created.ID {
		t.Errorf("expected the created task to be persisted, got %v", tasks)
	}
}

func TestInsertionOrderPreserved(t *testing.T) {
	s := newTestStore(t)
	titles := []string{"first", "second", "third"}
	for _, title := range titles {
		if _, err := s.Add(title); err != nil {
			t.Fatalf("Add(%q) failed: %v", title, err)
		}
	}

	tasks, err := s.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	for i, title := range titles {
		if tasks[i].Title != title {
			t.Errorf("tasks[%d]: got %q, want %q", i, tasks[i].Title, title)
		}
	}
}

func TestGetPrefixReturnsFirstMatch(t *testing.T) {
	s := newTestStore(t)
	now := time.Now().UTC()
	seeded := []task.Task{
		{ID: "abc111", Title: "one", Status: task.StatusPending, CreatedAt: now},
		{ID: "abc222", Title: "two", Status: task.StatusPending, CreatedAt: now},
		{ID: "xyz333", Title: "three", Status: task.StatusPending, CreatedAt: now},
	}
	if err := s.Save(seeded); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	tests := []struct {
		prefix    string
		wantTitle string
		wantFound bool
	}{
		{"abc111", "one", true},
		{"abc", "one", true}, // ambiguous prefix resolves to the first match
		{"xyz", "three", true},
		{"", "one", true}, // empty prefix matches everything, first wins
		{"nope", "", false},
	}

	for _, tt := range tests {
		got, err := s.Get(tt.prefix)
		if err != nil {
			t.Fatalf("Get(%q) failed: %v", tt.prefix, err)
		}
		if tt.wantFound != (got != nil) {
			t.Errorf("Get(%q): found=%v, want %v", tt.prefix, got != nil, tt.wantFound)
			continue
		}
		if got != nil && got.Title != tt.wantTitle {
			t.Errorf("Get(%q): got %q, want %q", tt.prefix, got.Title, tt.wantTitle)
		}
	}
}

func TestStart(t *testing.T) {
	s := newTestStore(t)
	created, err := s.Add("task")
	if err != nil {
		t.Fatal(err)
	}

	found, err := s.Start(created.ID[:8])
	if err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if !found {
		t.Fatal("Start: expected true for existing task")
	}

	got, err := s.Get(created.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Status != task.StatusInProgress {
		t.Errorf("Status: got %q, want %q", got.Status, task.StatusInProgress)
	}

	found, err = s.Start("doesnotexist")
	if err != nil {
		t.Fatalf("Start miss failed: %v", err)
	}
	if found {
		t.Error("Start: expected false for unknown prefix")
	}
}

func TestComplete(t *testing.T) {
	s := newTestStore(t)
	created, err := s.Add("task")
	if err != nil {
		t.Fatal(err)
	}

	found, err := s.Complete(created.ID[:8])
	if err != nil {
		t.Fatalf("Complete failed: %v", err)
	}
	if !found {
		t.Fatal("Complete: expected true for existing task")
	}

	got, err := s.Get(created.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Status != task.StatusCompleted {
		t.Errorf("Status: got %q, want %q", got.Status, task.StatusCompleted)
	}
	if got.CompletedAt == nil {
		t.Fatal("expected CompletedAt to be set")
	}

	// Completing again restamps CompletedAt.
	first := *got.CompletedAt
	time.Sleep(10 * time.Millisecond)
	if _, err := s.Complete(created.ID); err != nil {
		t.Fatal(err)
	}
	got, err = s.Get(created.ID)
	if err != nil {
		t.Fatal(err)
	}
	if !got.CompletedAt.After(first) {
		t.Errorf("CompletedAt not restamped: first %v, second %v", first, got.CompletedAt)
	}
}

func TestRemove(t *testing.T) {
	s := newTestStore(t)
	keep, err := s.Add("keep")
	if err != nil {
		t.Fatal(err)
	}
	drop, err := s.Add("drop")
	if err != nil {
		t.Fatal(err)
	}

	found, err := s.Remove(drop.ID[:8])
	if err != nil {
		t.Fatalf("Remove failed: %v", err)
	}
	if !found {
		t.Fatal("Remove: expected true for existing task")
	}

	tasks, err := s.Load()
	if err != nil {
		t.Fatal(err)
	}
	if len(tasks) != 1 || tasks[0].ID != keep.ID {
		t.Errorf("expected only the kept task, got %v", tasks)
	}
}

func TestRemoveMissLeavesFileUntouched(t *testing.T) {
	s := newTestStore(t)
	if _, err := s.Add("task"); err != nil {
		t.Fatal(err)
	}

	before, err := os.ReadFile(s.TasksPath())
	if err != nil {
		t.Fatal(err)
	}

	found, err := s.Remove("doesnotexist")
	if err != nil {
		t.Fatalf("Remove miss failed: %v", err)
	}
	if found {
		t.Error("Remove: expected false for unknown prefix")
	}

	after, err := os.ReadFile(s.TasksPath())
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(before, after) {
		t.Error("tasks file changed on a no-op remove")
	}
}

func TestImport(t *testing.T) {
	s := newTestStore(t)
	if _, err := s.Add("Duplicate task"); err != nil {
		t.Fatal(err)
	}

	incoming := []task.Task{
		task.New("Duplicate task"),
		task.New("Unique task"),
	}

	imported, skipped, err := s.Import(incoming, true)
	if err != nil {
		t.Fatalf("Import failed: %v", err)
	}
	if imported != 1 || skipped != 1 {
		t.Errorf("counts: got imported=%d skipped=%d, want 1/1", imported, skipped)
	}

	tasks, err := s.Load()
	if err != nil {
		t.Fatal(err)
	}
	count := 0
	for _, tk := range tasks {
		if tk.Title == "Duplicate task" {
			count++
		}
	}
	if count != 1 {
		t.Errorf("expected exactly one %q, got %d", "Duplicate task", count)
	}
}

func TestImportSkipsInBatchDuplicates(t *testing.T) {
	s := newTestStore(t)

	incoming := []task.Task{
		task.New("Same title"),
		task.New("Same title"),
		task.New("Other"),
	}

	imported, skipped, err := s.Import(incoming, true)
	if err != nil {
		t.Fatalf("Import failed: %v", err)
	}
	if imported != 2 || skipped != 1 {
		t.Errorf("counts: got imported=%d skipped=%d, want 2/1", imported, skipped)
	}
}

func TestImportWithoutDedup(t *testing.T) {
	s := newTestStore(t)
	if _, err := s.Add("Duplicate task"); err != nil {
		t.Fatal(err)
	}

	imported, skipped, err := s.Import([]task.Task{task.New("Duplicate task")}, false)
	if err != nil {
		t.Fatalf("Import failed: %v", err)
	}
	if imported != 1 || skipped != 0 {
		t.Errorf("counts: got imported=%d skipped=%d, want 1/0", imported, skipped)
	}

	tasks, err := s.Load()
	if err != nil {
		t.Fatal(err)
	}
	if len(tasks) != 2 {
		t.Errorf("expected duplicate titles kept, got %d tasks", len(tasks))
	}
}

func TestImportDedupIsCaseSensitive(t *testing.T) {
	s := newTestStore(t)
	if _, err := s.Add("duplicate task"); err != nil {
		t.Fatal(err)
	}

	imported, skipped, err := s.Import([]task.Task{task.New("Duplicate Task")}, true)
	if err != nil {
		t.Fatalf("Import failed: %v", err)
	}
	if imported != 1 || skipped != 0 {
		t.Errorf("counts: got imported=%d skipped=%d, want 1/0 (match is case-sensitive)", imported, skipped)
	}
}

func TestLoadCorrupt(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"not json", "this is not json"},
		{"wrong shape", `{"tasks": []}`},
		{"record missing status", `[{"id": "abc", "title": "x", "created_at": "2024-01-01T00:00:00Z"}]`},
		{"record missing id", `[{"title": "x", "status": "pending", "created_at": "2024-01-01T00:00:00Z"}]`},
		{"invalid status tag", `[{"id": "abc", "title": "x", "status": "done", "created_at": "2024-01-01T00:00:00Z", "completed_at": null}]`},
		{"unparseable timestamp", `[{"id": "abc", "title": "x", "status": "pending", "created_at": "yesterday", "completed_at": null}]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestStore(t)
			if err := os.WriteFile(s.TasksPath(), []byte(tt.content), 0644); err != nil {
				t.Fatal(err)
			}

			_, err := s.Load()
			if !errors.Is(err, ErrCorrupt) {
				t.Errorf("expected ErrCorrupt, got %v", err)
			}
		})
	}
}

func TestSaveFormat(t *testing.T) {
	s := newTestStore(t)

	data, err := os.ReadFile(s.TasksPath())
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "[]\n" {
		t.Errorf("empty store file: got %q, want %q", data, "[]\n")
	}

	if _, err := s.Add("task"); err != nil {
		t.Fatal(err)
	}
	data, err = os.ReadFile(s.TasksPath())
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.HasSuffix(data, []byte("\n")) {
		t.Error("tasks file should end with a newline")
	}
	if !bytes.Contains(data, []byte(`"completed_at": null`)) {
		t.Errorf("pending task should persist a null completed_at, got:\n%s", data)
	}
}

func TestPaths(t *testing.T) {
	s := New("/base")
	if got, want := s.DirPath(), filepath.Join("/base", ".gitdo"); got != want {
		t.Errorf("DirPath: got %q, want %q", got, want)
	}
	if got, want := s.TasksPath(), filepath.Join("/base", ".gitdo", "tasks.json"); got != want {
		t.Errorf("TasksPath: got %q, want %q", got, want)
	}
}
