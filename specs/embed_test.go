package specs

import (
	"strings"
	"testing"
)

func TestTasks(t *testing.T) {
	tasks, err := Tasks()
	if err != nil {
		t.Fatalf("Tasks() error: %v", err)
	}
	if len(tasks) == 0 {
		t.Fatal("no embedded tasks")
	}

	found := make(map[string]bool, len(tasks))
	for _, task := range tasks {
		found[task] = true
	}
	for _, want := range []string{"level_walking", "incline_walking", "decline_walking", "stair_ascent", "stair_descent", "run", "sit_to_stand"} {
		if !found[want] {
			t.Errorf("Tasks() missing %q", want)
		}
	}

	// Sorted output
	for i := 1; i < len(tasks); i++ {
		if tasks[i-1] > tasks[i] {
			t.Errorf("Tasks() not sorted: %q before %q", tasks[i-1], tasks[i])
		}
	}
}

func TestReadTask(t *testing.T) {
	data, err := ReadTask("level_walking")
	if err != nil {
		t.Fatalf("ReadTask() error: %v", err)
	}
	if !strings.Contains(string(data), "```yaml") {
		t.Error("embedded document has no yaml payload block")
	}
	if !strings.Contains(string(data), "task: level_walking") {
		t.Error("embedded document does not declare its task")
	}
}

func TestReadTask_Unknown(t *testing.T) {
	if _, err := ReadTask("moonwalk"); err == nil {
		t.Error("ReadTask for unknown task should fail")
	}
}

func TestHasTask(t *testing.T) {
	if !HasTask("run") {
		t.Error("HasTask(run) = false; want true")
	}
	if HasTask("moonwalk") {
		t.Error("HasTask(moonwalk) = true; want false")
	}
}
