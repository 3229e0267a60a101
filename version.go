package locovalidator

// FormatVersion represents a version of the standardized dataset format.
type FormatVersion string

// Supported dataset format versions.
const (
	// V1 is the original phase-indexed format (150 points per cycle)
	V1 FormatVersion = "v1"
	// V2 adds contralateral feature columns and task metadata
	V2 FormatVersion = "v2"
)

// String returns the version string.
func (v FormatVersion) String() string {
	return string(v)
}

// IsValid returns true if this is a supported dataset format version.
func (v FormatVersion) IsValid() bool {
	switch v {
	case V1, V2:
		return true
	default:
		return false
	}
}

// versionConfig holds format-version-specific configuration.
type versionConfig struct {
	// PointsPerCycle is the canonical sample count per gait cycle
	PointsPerCycle int

	// PhaseColumn is the name of the phase column in this format
	PhaseColumn string

	// RequiredColumns are the meta columns every dataset must carry
	RequiredColumns []string
}

// versionConfigs maps format versions to their configurations.
var versionConfigs = map[FormatVersion]versionConfig{
	V1: {
		PointsPerCycle:  150,
		PhaseColumn:     "phase_percent",
		RequiredColumns: []string{"subject", "task", "step", "phase_percent"},
	},
	V2: {
		PointsPerCycle:  150,
		PhaseColumn:     "phase_percent",
		RequiredColumns: []string{"subject", "task", "task_info", "step", "phase_percent"},
	},
}

// getVersionConfig returns the configuration for a dataset format version.
func getVersionConfig(v FormatVersion) (versionConfig, bool) {
	cfg, ok := versionConfigs[v]
	return cfg, ok
}

// RequiredColumns returns the meta columns required by a format version.
// Unknown versions fall back to the V1 column set.
func RequiredColumns(v FormatVersion) []string {
	cfg, ok := getVersionConfig(v)
	if !ok {
		cfg = versionConfigs[V1]
	}
	cols := make([]string, len(cfg.RequiredColumns))
	copy(cols, cfg.RequiredColumns)
	return cols
}
