package bundle

import (
	"path/filepath"
	"strings"
)

// ConfigFileName returns the configuration file name expected for name.
func ConfigFileName(name string) string {
	return name + ".config"
}

// ResolveConfig finds the configuration file belonging to the assembly with
// the given symbol name. The base name of each candidate is compared against
// "<name>.config" without regard to case, and the first match in candidates
// order wins. ok is false when nothing matches.
func ResolveConfig(name string, candidates []string) (path string, ok bool) {
	want := ConfigFileName(name)
	for _, c := range candidates {
		if strings.EqualFold(filepath.Base(c), want) {
			return c, true
		}
	}
	return "", false
}
