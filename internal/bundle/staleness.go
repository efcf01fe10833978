package bundle

import (
	"github.com/spf13/afero"

	"github.com/iVampireSP/asmbundle/internal/fileutil"
)

// StalenessChecker decides whether a previously generated unit can be
// reused. It only reads filesystem metadata.
type StalenessChecker struct {
	fs afero.Fs
}

// NewStalenessChecker creates a checker over fs.
func NewStalenessChecker(fs afero.Fs) *StalenessChecker {
	return &StalenessChecker{fs: fs}
}

// ShouldSkip reports whether regeneration of outputPath can be skipped.
//
// configPath is the resolved configuration file, or "" when none was
// resolved; configCopyPath is where the copy of the last bundled
// configuration lives. Any error while probing the filesystem means
// freshness cannot be confirmed and the result is false.
func (c *StalenessChecker) ShouldSkip(assemblyPath, outputPath, configPath, configCopyPath string, skipEnabled bool) bool {
	skip, _ := c.Check(assemblyPath, outputPath, configPath, configCopyPath, skipEnabled)
	return skip
}

// Check is ShouldSkip with the reason regeneration is needed, or "up to date".
func (c *StalenessChecker) Check(assemblyPath, outputPath, configPath, configCopyPath string, skipEnabled bool) (bool, string) {
	if !skipEnabled {
		return false, "skipping disabled"
	}

	outTime, err := fileutil.ModTime(c.fs, outputPath)
	if err != nil {
		return false, "output missing"
	}
	asmTime, err := fileutil.ModTime(c.fs, assemblyPath)
	if err != nil {
		return false, "assembly missing"
	}
	if outTime.Before(asmTime) {
		return false, "assembly newer than output"
	}

	copyExists, err := fileutil.FileExists(c.fs, configCopyPath)
	if err != nil {
		return false, "config copy unreadable"
	}

	if configPath == "" {
		if copyExists {
			return false, "config removed"
		}
		return true, "up to date"
	}

	if !copyExists {
		return false, "config added"
	}
	cfgTime, err := fileutil.ModTime(c.fs, configPath)
	if err != nil {
		return false, "config unreadable"
	}
	copyTime, err := fileutil.ModTime(c.fs, configCopyPath)
	if err != nil {
		return false, "config copy unreadable"
	}
	if copyTime.Before(cfgTime) {
		return false, "config newer than copy"
	}
	return true, "up to date"
}
