// Package main implements asmbundle, a generator that embeds managed
// assemblies into C source so a statically linked native host can load them
// without touching the filesystem.
//
// For every assembly asmbundle writes one C unit holding the assembly bytes as
// a static array, the bytes of its matching "<name>.config" file when there is
// one, and three functions named after the assembly: a getter for the
// assembly, a getter for its configuration and an empty cleanup hook.
//
// Generation flow:
//
//  1. Locate the project root: walk up from cwd to find .asmbundle.yaml
//  2. Merge flags, ASMBUNDLE_* environment and the config file
//  3. Expand arguments into assemblies (*.dll, *.exe) and config files (*.config),
//     dropping paths matched by exclude patterns and .bundleignore
//  4. Derive one symbol name per assembly, rejecting duplicates
//  5. For each assembly:
//     resolve "<name>.config" case-insensitively → staleness check → emit
//  6. Optionally write a registry unit and a YAML results manifest
//
// Usage:
//
//	asmbundle generate -o obj/bundles bin/Release/publish
package main

import (
	"fmt"
	"os"
	"path/filepath"
)

// ProjectConfigName is the config file looked up from cwd upwards.
const ProjectConfigName = ".asmbundle.yaml"

func main() {
	if err := execute(newRootCmd()); err != nil {
		os.Exit(1)
	}
}

// findProjectRoot walks up from dir to find the directory containing
// .asmbundle.yaml.
func findProjectRoot(dir string) (string, error) {
	for {
		if _, err := os.Stat(filepath.Join(dir, ProjectConfigName)); err == nil {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", fmt.Errorf("%s not found in any parent directory", ProjectConfigName)
}
