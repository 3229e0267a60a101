// Package report renders validation runs as Markdown, JSON and styled
// terminal output.
package report

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/glamour"

	lv "github.com/jmontp/LocoHub-sub002"
	"github.com/jmontp/LocoHub-sub002/quality"
)

// DefaultMaxIssues caps the number of issues listed in rendered output.
// The JSON form always carries the full list.
const DefaultMaxIssues = 50

// TaskSummary aggregates issue counts for one task.
type TaskSummary struct {
	Task     string `json:"task"`
	Errors   int    `json:"errors"`
	Warnings int    `json:"warnings"`
	Infos    int    `json:"infos"`
}

// RunSummary is one prior validation run shown in the trend section.
type RunSummary struct {
	StartedAt time.Time `json:"startedAt"`
	Valid     bool      `json:"valid"`
	Strides   int       `json:"strides"`
	Errors    int       `json:"errors"`
	Warnings  int       `json:"warnings"`
}

// Report is a renderable snapshot of one validation run.
type Report struct {
	Dataset        string              `json:"dataset"`
	GeneratedAt    time.Time           `json:"generatedAt"`
	Valid          bool                `json:"valid"`
	StridesChecked int                 `json:"stridesChecked"`
	Errors         int                 `json:"errors"`
	Warnings       int                 `json:"warnings"`
	Infos          int                 `json:"infos"`
	Tasks          []TaskSummary       `json:"tasks"`
	Issues         []lv.Issue          `json:"issues"`
	Assessment     *quality.Assessment `json:"assessment,omitempty"`
	History        []RunSummary        `json:"history,omitempty"`

	// MaxIssues limits the issue list in Markdown output, 0 means default
	MaxIssues int `json:"-"`
}

// New builds a report from a validation result.
// The result's issues are copied; the report stays valid after Release.
func New(result *lv.Result) *Report {
	r := &Report{
		Dataset:        result.Dataset,
		GeneratedAt:    time.Now().UTC(),
		Valid:          result.Valid,
		StridesChecked: result.StridesChecked,
		Errors:         result.ErrorCount(),
		Warnings:       result.WarningCount(),
		Infos:          result.InfoCount(),
		Issues:         append([]lv.Issue(nil), result.Issues...),
	}

	byTask := make(map[string]*TaskSummary)
	for _, task := range result.Tasks {
		byTask[task] = &TaskSummary{Task: task}
	}
	for _, issue := range r.Issues {
		if issue.Task == "" {
			continue
		}
		ts, ok := byTask[issue.Task]
		if !ok {
			ts = &TaskSummary{Task: issue.Task}
			byTask[issue.Task] = ts
		}
		switch {
		case issue.IsError():
			ts.Errors++
		case issue.IsWarning():
			ts.Warnings++
		default:
			ts.Infos++
		}
	}

	names := make([]string, 0, len(byTask))
	for name := range byTask {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		r.Tasks = append(r.Tasks, *byTask[name])
	}

	return r
}

// WithAssessment attaches a quality assessment to the report.
func (r *Report) WithAssessment(a *quality.Assessment) *Report {
	r.Assessment = a
	return r
}

// WithHistory attaches prior runs for the trend section, newest first.
func (r *Report) WithHistory(runs []RunSummary) *Report {
	r.History = runs
	return r
}

// JSON renders the report as indented JSON.
func (r *Report) JSON() ([]byte, error) {
	return json.MarshalIndent(r, "", "  ")
}

// Markdown renders the report as a Markdown document.
func (r *Report) Markdown() string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Validation Report: %s\n\n", r.Dataset)
	fmt.Fprintf(&b, "Generated %s\n\n", r.GeneratedAt.Format(time.RFC3339))

	status := "PASS"
	if !r.Valid {
		status = "FAIL"
	}
	b.WriteString("## Summary\n\n")
	fmt.Fprintf(&b, "| Status | Strides | Errors | Warnings | Info |\n")
	fmt.Fprintf(&b, "|--------|---------|--------|----------|------|\n")
	fmt.Fprintf(&b, "| %s | %d | %d | %d | %d |\n\n",
		status, r.StridesChecked, r.Errors, r.Warnings, r.Infos)

	if len(r.Tasks) > 0 {
		b.WriteString("## Tasks\n\n")
		b.WriteString("| Task | Errors | Warnings | Info |\n")
		b.WriteString("|------|--------|----------|------|\n")
		for _, ts := range r.Tasks {
			fmt.Fprintf(&b, "| %s | %d | %d | %d |\n", ts.Task, ts.Errors, ts.Warnings, ts.Infos)
		}
		b.WriteString("\n")
	}

	if r.Assessment != nil {
		r.writeAssessment(&b)
	}

	if len(r.History) > 0 {
		r.writeHistory(&b)
	}

	if len(r.Issues) > 0 {
		r.writeIssues(&b)
	}

	return b.String()
}

func (r *Report) writeAssessment(b *strings.Builder) {
	a := r.Assessment
	b.WriteString("## Quality\n\n")
	fmt.Fprintf(b, "Grade **%s** with a %.1f%% stride pass rate and %.1f%% range coverage.\n\n",
		a.Grade, 100*a.PassRate, 100*a.Coverage)

	b.WriteString("| Task | Strides | Pass rate | Ranges |\n")
	b.WriteString("|------|---------|-----------|--------|\n")
	for _, tq := range a.Tasks {
		ranges := "yes"
		if !tq.HasSpec {
			ranges = "none"
		}
		fmt.Fprintf(b, "| %s | %d | %.1f%% | %s |\n", tq.Task, tq.Strides, 100*tq.PassRate, ranges)
	}
	b.WriteString("\n")
}

func (r *Report) writeHistory(b *strings.Builder) {
	b.WriteString("## Recent Runs\n\n")
	b.WriteString("| Started | Status | Strides | Errors | Warnings |\n")
	b.WriteString("|---------|--------|---------|--------|----------|\n")
	for _, run := range r.History {
		status := "PASS"
		if !run.Valid {
			status = "FAIL"
		}
		fmt.Fprintf(b, "| %s | %s | %d | %d | %d |\n",
			run.StartedAt.Format("2006-01-02 15:04"), status, run.Strides, run.Errors, run.Warnings)
	}
	b.WriteString("\n")
}

func (r *Report) writeIssues(b *strings.Builder) {
	max := r.MaxIssues
	if max <= 0 {
		max = DefaultMaxIssues
	}

	b.WriteString("## Issues\n\n")
	for i, issue := range r.Issues {
		if i >= max {
			fmt.Fprintf(b, "\n…and %d more issues (see JSON output for the full list).\n", len(r.Issues)-max)
			break
		}
		fmt.Fprintf(b, "- **%s** `%s`: %s%s\n", issue.Severity, issue.Code, issue.Diagnostics, issueLocus(issue))
	}
	b.WriteString("\n")
}

// issueLocus formats the locus fields an issue carries, if any.
func issueLocus(issue lv.Issue) string {
	var parts []string
	if issue.Task != "" {
		parts = append(parts, "task="+issue.Task)
	}
	if issue.Variable != "" {
		parts = append(parts, "variable="+issue.Variable)
	}
	if issue.Subject != "" {
		parts = append(parts, fmt.Sprintf("stride=%s/%d", issue.Subject, issue.Stride))
	}
	if issue.PhasePercent >= 0 {
		parts = append(parts, fmt.Sprintf("phase=%.0f%%", issue.PhasePercent))
	}
	if len(parts) == 0 {
		return ""
	}
	return " (" + strings.Join(parts, ", ") + ")"
}

// Terminal renders the Markdown form with ANSI styling for terminals.
func (r *Report) Terminal() (string, error) {
	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(100),
	)
	if err != nil {
		return "", fmt.Errorf("creating terminal renderer: %w", err)
	}

	out, err := renderer.Render(r.Markdown())
	if err != nil {
		return "", fmt.Errorf("rendering report: %w", err)
	}
	return out, nil
}
