// Package settings holds build metadata and per-run options shared by the
// bookgrid commands.
package settings

// CliBinaryName is the canonical binary name.
const CliBinaryName = "bookgrid"

// VersionInformation is populated at build time via ldflags.
var VersionInformation = VersionInfo{
	Commit:       "unknown",
	BuildVersion: "v0.0.0-nightly",
	BuildTime:    "unknown",
}

// VersionInfo holds the commit hash, semantic version and build timestamp.
type VersionInfo struct {
	Commit       string `json:"commit" yaml:"commit"`
	BuildVersion string `json:"version" yaml:"version"`
	BuildTime    string `json:"buildTime" yaml:"buildTime"`
}

// Run holds the options of a single invocation.
type Run struct {
	MinLogLevel int8
	LogFile     string
	LogFormat   string
	ConfigFile  string
	NoColor     bool
	IsQuiet     bool
	ExitOnError bool
}

// NewCliParams returns the defaults used by the CLI.
func NewCliParams() *Run {
	return &Run{
		LogFormat:   "json",
		ExitOnError: true,
	}
}

// LogsToFile reports whether log output is redirected away from stderr.
func (r *Run) LogsToFile() bool {
	return r != nil && r.LogFile != ""
}
