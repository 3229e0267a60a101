// Package units defines the standard naming grammar for biomechanical
// feature columns and the registry of recognized measurement units.
//
// Standard feature names follow the pattern
//
//	<joint>_<motion>_<measurement>_<side>_<unit>
//
// for example knee_flexion_angle_ipsi_rad or
// hip_adduction_moment_contra_Nm_kg. The side token splits the name:
// everything before it is joint/motion/measurement, everything after it
// is the unit (units may themselves contain underscores, e.g. rad_s).
package units

import (
	"fmt"
	"strings"
)

// Side identifies which leg a feature belongs to, relative to the
// phase-indexing leg.
type Side string

const (
	// SideIpsi is the ipsilateral (phase-indexing) leg.
	SideIpsi Side = "ipsi"
	// SideContra is the contralateral leg.
	SideContra Side = "contra"
)

// Variable is a parsed standard feature column name.
type Variable struct {
	Joint       string
	Motion      string
	Measurement string
	Side        Side
	Unit        string
}

// Name reassembles the standard column name.
func (v Variable) Name() string {
	return strings.Join([]string{v.Joint, v.Motion, v.Measurement, string(v.Side), v.Unit}, "_")
}

// measurementUnits maps each measurement kind to its allowed units.
var measurementUnits = map[string][]string{
	"angle":    {"rad", "deg"},
	"velocity": {"rad_s", "deg_s"},
	"moment":   {"Nm", "Nm_kg"},
	"power":    {"W", "W_kg"},
	"force":    {"N", "BW"},
	"position": {"m"},
}

// Meta column names of a phase-indexed dataset.
const (
	ColSubject  = "subject"
	ColTask     = "task"
	ColTaskInfo = "task_info"
	ColStep     = "step"
	ColPhase    = "phase_percent"
)

// metaColumns are the non-feature columns of a phase-indexed dataset.
var metaColumns = map[string]bool{
	ColSubject:  true,
	ColTask:     true,
	ColTaskInfo: true,
	ColStep:     true,
	ColPhase:    true,
}

// IsMetaColumn reports whether name is a reserved meta column.
func IsMetaColumn(name string) bool {
	return metaColumns[name]
}

// KnownMeasurement reports whether the measurement kind is recognized.
func KnownMeasurement(measurement string) bool {
	_, ok := measurementUnits[measurement]
	return ok
}

// KnownUnit reports whether unit is valid for the given measurement.
func KnownUnit(measurement, unit string) bool {
	for _, u := range measurementUnits[measurement] {
		if u == unit {
			return true
		}
	}
	return false
}

// Units returns the allowed units for a measurement kind.
func Units(measurement string) []string {
	us := measurementUnits[measurement]
	out := make([]string, len(us))
	copy(out, us)
	return out
}

// Parse parses a standard feature column name.
// It returns an error describing the first grammar violation found.
func Parse(name string) (Variable, error) {
	var v Variable

	if name == "" {
		return v, fmt.Errorf("empty variable name")
	}
	if IsMetaColumn(name) {
		return v, fmt.Errorf("%q is a meta column, not a feature", name)
	}

	tokens := strings.Split(name, "_")

	// Locate the side token; it anchors the grammar.
	sideIdx := -1
	for i, tok := range tokens {
		if tok == string(SideIpsi) || tok == string(SideContra) {
			sideIdx = i
			break
		}
	}
	if sideIdx < 0 {
		return v, fmt.Errorf("variable %q has no side token (ipsi or contra)", name)
	}
	if sideIdx < 3 {
		return v, fmt.Errorf("variable %q needs joint, motion and measurement before the side token", name)
	}
	if sideIdx == len(tokens)-1 {
		return v, fmt.Errorf("variable %q has no unit after the side token", name)
	}

	v.Joint = tokens[0]
	v.Motion = strings.Join(tokens[1:sideIdx-1], "_")
	v.Measurement = tokens[sideIdx-1]
	v.Side = Side(tokens[sideIdx])
	v.Unit = strings.Join(tokens[sideIdx+1:], "_")

	if !KnownMeasurement(v.Measurement) {
		return v, fmt.Errorf("variable %q has unknown measurement %q", name, v.Measurement)
	}
	if !KnownUnit(v.Measurement, v.Unit) {
		return v, fmt.Errorf("variable %q has unit %q, not valid for %s (allowed: %s)",
			name, v.Unit, v.Measurement, strings.Join(measurementUnits[v.Measurement], ", "))
	}

	return v, nil
}

// IsStandard reports whether name parses as a standard feature column.
func IsStandard(name string) bool {
	_, err := Parse(name)
	return err == nil
}

// FeatureColumns filters a column list down to feature columns, in order.
// Meta columns are skipped; non-parsing names are included so callers can
// report them.
func FeatureColumns(columns []string) []string {
	var features []string
	for _, col := range columns {
		if !IsMetaColumn(col) {
			features = append(features, col)
		}
	}
	return features
}
