package spec

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/jmontp/LocoHub-sub002/cache"
	"github.com/jmontp/LocoHub-sub002/specs"
)

// ErrNotFound is returned when no ranges exist for a task, neither in
// the spec directory nor among the embedded defaults.
var ErrNotFound = errors.New("no validation ranges for task")

// CacheMetrics receives spec cache hit/miss events.
// *locovalidator.Metrics satisfies it.
type CacheMetrics interface {
	RecordCacheHit()
	RecordCacheMiss()
}

// Manager resolves validation range specs by task name.
//
// Resolution order: the spec directory (if configured) first, then the
// embedded defaults. Parsed specs are LRU-cached.
type Manager struct {
	dir     string
	cache   *cache.Cache[string, *TaskSpec]
	metrics CacheMetrics
}

// ManagerOption configures a Manager.
type ManagerOption func(*Manager)

// WithDir sets the spec directory. Files named <task>.md override the
// embedded defaults for that task.
func WithDir(dir string) ManagerOption {
	return func(m *Manager) {
		m.dir = dir
	}
}

// WithCacheSize sets the parsed-spec cache capacity.
func WithCacheSize(size int) ManagerOption {
	return func(m *Manager) {
		m.cache = cache.New[string, *TaskSpec](size)
	}
}

// WithCacheMetrics wires cache hit/miss events to a metrics collector.
func WithCacheMetrics(cm CacheMetrics) ManagerOption {
	return func(m *Manager) {
		m.metrics = cm
	}
}

// NewManager creates a spec manager.
func NewManager(opts ...ManagerOption) *Manager {
	m := &Manager{
		cache: cache.New[string, *TaskSpec](64),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Load resolves the validation spec for a task.
// The returned spec is shared; callers that mutate it must Clone first.
func (m *Manager) Load(task string) (*TaskSpec, error) {
	if task == "" {
		return nil, fmt.Errorf("empty task name")
	}

	if ts, ok := m.cache.Get(task); ok {
		if m.metrics != nil {
			m.metrics.RecordCacheHit()
		}
		return ts, nil
	}
	if m.metrics != nil {
		m.metrics.RecordCacheMiss()
	}

	data, err := m.read(task)
	if err != nil {
		return nil, err
	}

	ts, err := ParseMarkdown(data)
	if err != nil {
		return nil, fmt.Errorf("parsing spec for task %q: %w", task, err)
	}
	if ts.Task != task {
		return nil, fmt.Errorf("spec file for task %q declares task %q", task, ts.Task)
	}

	m.cache.Set(task, ts)
	return ts, nil
}

// read fetches the raw spec document, preferring the spec directory.
func (m *Manager) read(task string) ([]byte, error) {
	if m.dir != "" {
		path := filepath.Join(m.dir, task+".md")
		data, err := os.ReadFile(path)
		if err == nil {
			return data, nil
		}
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("reading spec %s: %w", path, err)
		}
	}

	if specs.HasTask(task) {
		return specs.ReadTask(task)
	}

	return nil, fmt.Errorf("%w: %s", ErrNotFound, task)
}

// Has reports whether ranges exist for a task.
func (m *Manager) Has(task string) bool {
	if m.dir != "" {
		if _, err := os.Stat(filepath.Join(m.dir, task+".md")); err == nil {
			return true
		}
	}
	return specs.HasTask(task)
}

// Tasks returns the sorted union of tasks available from the spec
// directory and the embedded defaults.
func (m *Manager) Tasks() ([]string, error) {
	seen := make(map[string]bool)

	embedded, err := specs.Tasks()
	if err != nil {
		return nil, err
	}
	for _, task := range embedded {
		seen[task] = true
	}

	if m.dir != "" {
		entries, err := os.ReadDir(m.dir)
		if err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("reading spec directory %s: %w", m.dir, err)
		}
		for _, entry := range entries {
			if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".md") {
				continue
			}
			seen[strings.TrimSuffix(entry.Name(), ".md")] = true
		}
	}

	tasks := make([]string, 0, len(seen))
	for task := range seen {
		tasks = append(tasks, task)
	}
	sort.Strings(tasks)
	return tasks, nil
}

// Save writes a spec document to the spec directory and refreshes the cache.
func (m *Manager) Save(ts *TaskSpec) error {
	if m.dir == "" {
		return fmt.Errorf("manager has no spec directory configured")
	}

	data, err := RenderMarkdown(ts)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(m.dir, 0o755); err != nil {
		return fmt.Errorf("creating spec directory: %w", err)
	}

	path := filepath.Join(m.dir, ts.Task+".md")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing spec %s: %w", path, err)
	}

	m.cache.Set(ts.Task, ts.Clone())
	return nil
}

// CacheStats returns spec cache statistics.
func (m *Manager) CacheStats() cache.Stats {
	return m.cache.Stats()
}
