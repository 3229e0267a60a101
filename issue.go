package locovalidator

// IssueSeverity represents the severity of a validation issue.
type IssueSeverity string

const (
	// SeverityFatal indicates the issue is fatal and validation cannot continue.
	SeverityFatal IssueSeverity = "fatal"
	// SeverityError indicates a validation error that causes the dataset to be invalid.
	SeverityError IssueSeverity = "error"
	// SeverityWarning indicates a potential problem that should be reviewed.
	SeverityWarning IssueSeverity = "warning"
	// SeverityInformation indicates informational feedback.
	SeverityInformation IssueSeverity = "information"
)

// IssueType represents the type of validation issue.
type IssueType string

const (
	// IssueTypeStructure indicates a structural issue with the dataset file.
	IssueTypeStructure IssueType = "structure"
	// IssueTypeMissingColumn indicates a required column is missing.
	IssueTypeMissingColumn IssueType = "missing-column"
	// IssueTypeVariableName indicates a feature column name that does not
	// follow the standard naming grammar.
	IssueTypeVariableName IssueType = "variable-name"
	// IssueTypeUnit indicates an unrecognized measurement unit.
	IssueTypeUnit IssueType = "unit"
	// IssueTypePhaseStructure indicates a stride with a malformed phase column.
	IssueTypePhaseStructure IssueType = "phase-structure"
	// IssueTypeOutOfRange indicates a value outside its validation range.
	IssueTypeOutOfRange IssueType = "out-of-range"
	// IssueTypeMissingSpec indicates no validation ranges exist for a task.
	IssueTypeMissingSpec IssueType = "missing-spec"
	// IssueTypeCoverage indicates a mismatch between spec'd variables and
	// the columns actually present in the dataset.
	IssueTypeCoverage IssueType = "coverage"
	// IssueTypeNaN indicates excessive missing or non-finite values.
	IssueTypeNaN IssueType = "nan-density"
	// IssueTypeProcessing indicates a processing error.
	IssueTypeProcessing IssueType = "processing"
	// IssueTypeTimeout indicates a timeout occurred.
	IssueTypeTimeout IssueType = "timeout"
	// IssueTypeInformational indicates informational content.
	IssueTypeInformational IssueType = "informational"
)

// Issue represents a single validation issue.
type Issue struct {
	// Severity of the issue (error, warning, information)
	Severity IssueSeverity `json:"severity"`

	// Code identifying the type of issue
	Code IssueType `json:"code"`

	// Diagnostics contains human-readable details about the issue
	Diagnostics string `json:"diagnostics,omitempty"`

	// Task is the locomotion task the issue belongs to (e.g. "level_walking")
	Task string `json:"task,omitempty"`

	// Variable is the feature column the issue belongs to
	Variable string `json:"variable,omitempty"`

	// Subject identifies the subject whose data triggered the issue
	Subject string `json:"subject,omitempty"`

	// Stride is the stride (step) number within subject+task, -1 if not
	// applicable. Serialized without omitempty so that stride 0 survives
	// the round trip.
	Stride int `json:"stride"`

	// PhasePercent is the checkpoint phase in percent gait cycle, -1 if
	// not applicable. Serialized without omitempty so that phase 0
	// survives the round trip.
	PhasePercent float64 `json:"phasePercent"`

	// Check is the validation check that generated this issue
	Check string `json:"check,omitempty"`
}

// IsError returns true if this is an error or fatal issue.
func (i Issue) IsError() bool {
	return i.Severity == SeverityError || i.Severity == SeverityFatal
}

// IsWarning returns true if this is a warning.
func (i Issue) IsWarning() bool {
	return i.Severity == SeverityWarning
}

// String returns a human-readable representation of the issue.
func (i Issue) String() string {
	locus := ""
	if i.Task != "" {
		locus = " [" + i.Task
		if i.Variable != "" {
			locus += "/" + i.Variable
		}
		locus += "]"
	}
	return string(i.Severity) + ": " + i.Diagnostics + locus
}

// IssueBuilder provides a fluent API for building issues.
type IssueBuilder struct {
	issue Issue
}

// NewIssue creates a new IssueBuilder.
func NewIssue(severity IssueSeverity, code IssueType) *IssueBuilder {
	return &IssueBuilder{
		issue: Issue{
			Severity:     severity,
			Code:         code,
			Stride:       -1,
			PhasePercent: -1,
		},
	}
}

// Error creates an error issue.
func Error(code IssueType) *IssueBuilder {
	return NewIssue(SeverityError, code)
}

// Warning creates a warning issue.
func Warning(code IssueType) *IssueBuilder {
	return NewIssue(SeverityWarning, code)
}

// Info creates an informational issue.
func Info(code IssueType) *IssueBuilder {
	return NewIssue(SeverityInformation, code)
}

// Diagnostics sets the diagnostic message.
func (b *IssueBuilder) Diagnostics(msg string) *IssueBuilder {
	b.issue.Diagnostics = msg
	return b
}

// Task sets the locomotion task.
func (b *IssueBuilder) Task(task string) *IssueBuilder {
	b.issue.Task = task
	return b
}

// Variable sets the feature column name.
func (b *IssueBuilder) Variable(name string) *IssueBuilder {
	b.issue.Variable = name
	return b
}

// Stride sets the subject and stride number.
func (b *IssueBuilder) Stride(subject string, step int) *IssueBuilder {
	b.issue.Subject = subject
	b.issue.Stride = step
	return b
}

// AtPhase sets the checkpoint phase in percent gait cycle.
func (b *IssueBuilder) AtPhase(percent float64) *IssueBuilder {
	b.issue.PhasePercent = percent
	return b
}

// Check sets the validation check name.
func (b *IssueBuilder) Check(name string) *IssueBuilder {
	b.issue.Check = name
	return b
}

// Build returns the constructed issue.
func (b *IssueBuilder) Build() Issue {
	return b.issue
}
