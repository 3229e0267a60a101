package check

import (
	"math"

	lv "github.com/jmontp/LocoHub-sub002"
	"github.com/jmontp/LocoHub-sub002/dataset"
	"github.com/jmontp/LocoHub-sub002/pipeline"
	"github.com/jmontp/LocoHub-sub002/spec"
)

// gridStride builds a well-formed stride on the uniform phase grid.
func gridStride(subject, task string, step, points int, features map[string]float64) *dataset.Stride {
	s := &dataset.Stride{
		Subject:  subject,
		Task:     task,
		Step:     step,
		Features: make(map[string][]float64, len(features)),
	}
	for i := 0; i < points; i++ {
		s.Phase = append(s.Phase, 100*float64(i)/float64(points))
	}
	for name, value := range features {
		vals := make([]float64, points)
		for i := range vals {
			vals[i] = value
		}
		s.Features[name] = vals
	}
	return s
}

// testContext assembles a pipeline context from strides and specs.
func testContext(strides []*dataset.Stride, specs map[string]*spec.TaskSpec) *pipeline.Context {
	columns := []string{"subject", "task", "step", "phase_percent"}
	seen := make(map[string]bool)
	for _, s := range strides {
		for name := range s.Features {
			if !seen[name] {
				seen[name] = true
				columns = append(columns, name)
			}
		}
	}

	ds := &dataset.Dataset{
		Path:    "test.parquet",
		Columns: columns,
		Strides: strides,
	}

	pctx := pipeline.NewContext()
	pctx.Dataset = ds
	pctx.StridesByTask = ds.ByTask()
	pctx.Options = lv.DefaultOptions()
	pctx.Result = lv.NewResult()
	for task, ts := range specs {
		pctx.Specs[task] = ts
	}
	return pctx
}

func kneeSpec(task string, min, max float64) *spec.TaskSpec {
	ts := &spec.TaskSpec{
		Task:           task,
		PointsPerCycle: 150,
		Checkpoints:    make(map[int]spec.Checkpoint),
	}
	for _, phase := range spec.DefaultCheckpoints {
		ts.Checkpoints[phase] = spec.Checkpoint{
			"knee_flexion_angle_ipsi_rad": {Min: min, Max: max},
		}
	}
	return ts
}

func issuesByCode(issues []lv.Issue, code lv.IssueType) []lv.Issue {
	var out []lv.Issue
	for _, issue := range issues {
		if issue.Code == code {
			out = append(out, issue)
		}
	}
	return out
}

var nan = math.NaN()
