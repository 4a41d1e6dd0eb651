// Package markdown extracts checkbox items from markdown documents.
package markdown

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/nibzard/gitdo/internal/task"
)

// Item is a single extracted checkbox line.
type Item struct {
	Title string
	Done  bool
}

// checkboxLine matches "- [ ] title", "- [x] title" or "- [X] title" at
// any indentation depth. Nesting carries no meaning; items are flattened.
var checkboxLine = regexp.MustCompile(`^\s*-\s+\[([ xX])\]\s+(.+)$`)

// Extract returns the checkbox items found in content, in document order.
// Lines that are not checkbox items (headings, prose, plain bullets,
// malformed brackets) are skipped; extraction never fails.
func Extract(content string) []Item {
	var items []Item
	for _, line := range strings.Split(content, "\n") {
		m := checkboxLine.FindStringSubmatch(strings.TrimRight(line, "\r"))
		if m == nil {
			continue
		}
		items = append(items, Item{
			Title: strings.TrimRight(m[2], " \t"),
			Done:  m[1] == "x" || m[1] == "X",
		})
	}
	return items
}

// ParseFile reads a markdown file and builds one task per checkbox item,
// preserving extraction order. Completed items get the complete transition
// applied so their CompletedAt is set.
//
// The returned error wraps the underlying filesystem error, so callers can
// distinguish a missing file (errors.Is(err, fs.ErrNotExist)) from an
// unreadable one (errors.Is(err, fs.ErrPermission)).
func ParseFile(path string) ([]task.Task, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read markdown file: %w", err)
	}

	items := Extract(string(data))
	tasks := make([]task.Task, 0, len(items))
	for _, item := range items {
		t := task.New(item.Title)
		if item.Done {
			t.Complete()
		}
		tasks = append(tasks, t)
	}

	return tasks, nil
}
