package check

import (
	"context"
	"fmt"

	lv "github.com/jmontp/LocoHub-sub002"
	"github.com/jmontp/LocoHub-sub002/pipeline"
	"github.com/jmontp/LocoHub-sub002/units"
)

// SchemaCheck validates the dataset table structure.
// It checks that:
// - The dataset holds at least one stride
// - All meta columns required by the format version are present
// - Feature column names follow the standard naming grammar
// - Units are valid for their measurement kind
type SchemaCheck struct {
	version lv.FormatVersion
}

// NewSchemaCheck creates a new schema validation check.
func NewSchemaCheck(version lv.FormatVersion) *SchemaCheck {
	return &SchemaCheck{version: version}
}

// Name returns the check name.
func (c *SchemaCheck) Name() string {
	return "schema"
}

// Validate performs schema validation.
func (c *SchemaCheck) Validate(ctx context.Context, pctx *pipeline.Context) []lv.Issue {
	var issues []lv.Issue

	select {
	case <-ctx.Done():
		return issues
	default:
	}

	if pctx.Dataset == nil {
		issues = append(issues, ErrorIssue(
			lv.IssueTypeStructure,
			"No dataset loaded",
			"",
			c.Name(),
		))
		return issues
	}

	for _, required := range lv.RequiredColumns(c.version) {
		if !pctx.Dataset.HasColumn(required) {
			issues = append(issues, ErrorIssue(
				lv.IssueTypeMissingColumn,
				fmt.Sprintf("Dataset is missing required column %q", required),
				"",
				c.Name(),
			))
		}
	}

	if len(pctx.Dataset.Strides) == 0 {
		issues = append(issues, ErrorIssue(
			lv.IssueTypeStructure,
			"Dataset holds no strides",
			"",
			c.Name(),
		))
		return issues
	}

	for _, col := range pctx.Dataset.Features() {
		if _, err := units.Parse(col); err != nil {
			issues = append(issues, lv.Warning(lv.IssueTypeVariableName).
				Diagnostics(fmt.Sprintf("Non-standard feature column: %v", err)).
				Variable(col).
				Check(c.Name()).
				Build())
		}
	}

	return issues
}

// SchemaCheckConfig returns the standard configuration for the schema check.
func SchemaCheckConfig(version lv.FormatVersion) *pipeline.CheckConfig {
	return &pipeline.CheckConfig{
		Check:    NewSchemaCheck(version),
		Priority: pipeline.PriorityFirst,
		Parallel: true,
		Required: true,
		Enabled:  true,
	}
}
