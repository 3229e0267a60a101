package locovalidator

import (
	"sync"
	"testing"
)

func TestResult_AddIssue(t *testing.T) {
	r := NewResult()

	if !r.Valid {
		t.Fatal("new result should be valid")
	}

	r.AddIssue(Issue{Severity: SeverityWarning, Code: IssueTypeCoverage})
	if !r.Valid {
		t.Error("warning should not invalidate result")
	}

	r.AddIssue(Issue{Severity: SeverityError, Code: IssueTypeOutOfRange})
	if r.Valid {
		t.Error("error should invalidate result")
	}

	if len(r.Issues) != 2 {
		t.Errorf("len(Issues) = %d; want 2", len(r.Issues))
	}
}

func TestResult_Counts(t *testing.T) {
	r := NewResult()
	r.AddError(IssueTypeOutOfRange, "too high", "level_walking")
	r.AddError(IssueTypeMissingColumn, "no phase column", "")
	r.AddWarning(IssueTypeCoverage, "no ranges for variable", "level_walking")
	r.AddIssue(Issue{Severity: SeverityInformation, Code: IssueTypeInformational})

	if got := r.ErrorCount(); got != 2 {
		t.Errorf("ErrorCount() = %d; want 2", got)
	}
	if got := r.WarningCount(); got != 1 {
		t.Errorf("WarningCount() = %d; want 1", got)
	}
	if got := r.InfoCount(); got != 1 {
		t.Errorf("InfoCount() = %d; want 1", got)
	}
	if !r.HasErrors() {
		t.Error("HasErrors() = false; want true")
	}
	if !r.HasWarnings() {
		t.Error("HasWarnings() = false; want true")
	}
	if got := len(r.Errors()); got != 2 {
		t.Errorf("len(Errors()) = %d; want 2", got)
	}
	if got := len(r.Warnings()); got != 1 {
		t.Errorf("len(Warnings()) = %d; want 1", got)
	}
}

func TestResult_IssuesForTask(t *testing.T) {
	r := NewResult()
	r.AddError(IssueTypeOutOfRange, "a", "level_walking")
	r.AddError(IssueTypeOutOfRange, "b", "run")
	r.AddWarning(IssueTypeCoverage, "c", "level_walking")

	if got := len(r.IssuesForTask("level_walking")); got != 2 {
		t.Errorf("IssuesForTask(level_walking) = %d issues; want 2", got)
	}
	if got := len(r.IssuesForTask("stair_ascent")); got != 0 {
		t.Errorf("IssuesForTask(stair_ascent) = %d issues; want 0", got)
	}
}

func TestResult_Merge(t *testing.T) {
	a := NewResult()
	a.AddWarning(IssueTypeCoverage, "w", "run")
	a.AddStrides(10)

	b := NewResult()
	b.AddError(IssueTypeOutOfRange, "e", "run")
	b.AddStrides(5)

	a.Merge(b)

	if a.Valid {
		t.Error("merged result should be invalid")
	}
	if len(a.Issues) != 2 {
		t.Errorf("len(Issues) = %d; want 2", len(a.Issues))
	}
	if a.StridesChecked != 15 {
		t.Errorf("StridesChecked = %d; want 15", a.StridesChecked)
	}

	// Merging nil is a no-op
	a.Merge(nil)
	if len(a.Issues) != 2 {
		t.Errorf("len(Issues) after nil merge = %d; want 2", len(a.Issues))
	}
}

func TestResult_Clone(t *testing.T) {
	r := NewResult()
	r.Dataset = "gtech_2023_phase.parquet"
	r.Tasks = append(r.Tasks, "level_walking")
	r.AddError(IssueTypeOutOfRange, "e", "level_walking")
	r.AddStrides(3)

	clone := r.Clone()

	if clone.Dataset != r.Dataset {
		t.Errorf("clone Dataset = %q; want %q", clone.Dataset, r.Dataset)
	}
	if clone.StridesChecked != 3 {
		t.Errorf("clone StridesChecked = %d; want 3", clone.StridesChecked)
	}

	// Mutating the clone must not affect the original
	clone.AddError(IssueTypeProcessing, "x", "")
	if len(r.Issues) != 1 {
		t.Errorf("original issues mutated: len = %d; want 1", len(r.Issues))
	}
}

func TestResult_Pool(t *testing.T) {
	r := AcquireResult()
	if !r.Valid || len(r.Issues) != 0 {
		t.Error("acquired result should be reset")
	}

	r.AddError(IssueTypeOutOfRange, "e", "run")
	r.Release()

	r2 := AcquireResult()
	if !r2.Valid || len(r2.Issues) != 0 {
		t.Error("reacquired result should be reset")
	}
	r2.Release()

	// Releasing nil must not panic
	var nilResult *Result
	nilResult.Release()
}

func TestResult_ConcurrentAddIssue(t *testing.T) {
	r := NewResult()

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				r.AddIssue(Issue{Severity: SeverityWarning, Code: IssueTypeCoverage})
			}
		}()
	}
	wg.Wait()

	if got := len(r.Issues); got != 1600 {
		t.Errorf("len(Issues) = %d; want 1600", got)
	}
}
