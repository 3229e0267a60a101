package check

import (
	"math"

	lv "github.com/jmontp/LocoHub-sub002"
)

// ErrorIssue creates an error issue with common fields set.
func ErrorIssue(code lv.IssueType, diagnostics, task, check string) lv.Issue {
	return lv.Error(code).Diagnostics(diagnostics).Task(task).Check(check).Build()
}

// WarningIssue creates a warning issue with common fields set.
func WarningIssue(code lv.IssueType, diagnostics, task, check string) lv.Issue {
	return lv.Warning(code).Diagnostics(diagnostics).Task(task).Check(check).Build()
}

// InformationIssue creates an informational issue with common fields set.
func InformationIssue(code lv.IssueType, diagnostics, task, check string) lv.Issue {
	return lv.Info(code).Diagnostics(diagnostics).Task(task).Check(check).Build()
}

// countNonFinite returns the number of NaN or infinite samples in vals.
func countNonFinite(vals []float64) int {
	bad := 0
	for _, v := range vals {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			bad++
		}
	}
	return bad
}
