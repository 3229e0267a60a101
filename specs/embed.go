// Package specs provides embedded default validation range documents.
//
// One Markdown document is embedded per standard locomotion task. These
// are the ranges shipped with the validator; a spec directory on disk
// overrides them task by task.
//
// Usage:
//
//	data, err := specs.ReadTask("level_walking")
//	if err != nil {
//	    return err
//	}
//	taskSpec, err := spec.ParseMarkdown(data)
package specs

import (
	"embed"
	"fmt"
	"sort"
	"strings"
)

// Embedded default range documents, one per task.
//
//go:embed ranges/*.md
var Ranges embed.FS

const rangesDir = "ranges"

// Tasks returns the tasks with embedded default ranges, sorted.
func Tasks() ([]string, error) {
	entries, err := Ranges.ReadDir(rangesDir)
	if err != nil {
		return nil, fmt.Errorf("reading embedded ranges: %w", err)
	}

	tasks := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".md") {
			continue
		}
		tasks = append(tasks, strings.TrimSuffix(entry.Name(), ".md"))
	}
	sort.Strings(tasks)
	return tasks, nil
}

// ReadTask reads the embedded default range document for a task.
func ReadTask(task string) ([]byte, error) {
	path := rangesDir + "/" + task + ".md"
	data, err := Ranges.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("no embedded ranges for task %q: %w", task, err)
	}
	return data, nil
}

// HasTask checks whether embedded default ranges exist for a task.
func HasTask(task string) bool {
	_, err := Ranges.ReadFile(rangesDir + "/" + task + ".md")
	return err == nil
}
