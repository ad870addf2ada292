// Package paths provides centralized path handling for savesvc.
// It implements XDG Base Directory specification compliance and
// keeps the well-known defaults inherited from the variable server
// deployment layout in one place.
package paths

import (
	"path/filepath"

	"github.com/adrg/xdg"
)

// Environment variable names
const (
	// EnvOutputFile overrides the output configuration file path
	EnvOutputFile = "SAVESVC_OUTPUT"

	// EnvTriggerVar overrides the trigger variable name
	EnvTriggerVar = "SAVESVC_TRIGGER"
)

// Well-known defaults and file names.
// The output file and trigger variable defaults match the ones the
// loadconfig utility and the variable server expect; changing them
// breaks interop with existing deployments.
const (
	// DefaultOutputFile is the default persisted configuration file
	DefaultOutputFile = "/tmp/usersettings.cfg"

	// DefaultTriggerVar is the default trigger variable name
	DefaultTriggerVar = "/sys/config/save"

	// AppDirName is the directory name for savesvc-specific files
	AppDirName = "savesvc"

	// LogFileName is the name of the log file
	LogFileName = "savesvc.log"

	// StagingSuffix is appended to the output path to form the staging file
	StagingSuffix = ".tmp"
)

// StagingPath derives the staging file path for an output file.
// The staging file must live next to the final file so the
// publishing rename stays on one filesystem.
func StagingPath(outputFile string) string {
	return outputFile + StagingSuffix
}

// LogFilePath returns the path to the savesvc log file under the
// XDG state directory.
func LogFilePath() string {
	return filepath.Join(xdg.StateHome, AppDirName, LogFileName)
}

// ConfigSearchPaths returns the locations probed for a settings file,
// in priority order. The first existing file wins.
func ConfigSearchPaths() []string {
	names := []string{"savesvc.toml", "savesvc.yaml"}
	dirs := []string{
		filepath.Join(xdg.ConfigHome, AppDirName),
		filepath.Join("/etc", AppDirName),
	}

	var paths []string
	for _, dir := range dirs {
		for _, name := range names {
			paths = append(paths, filepath.Join(dir, name))
		}
	}
	return paths
}
