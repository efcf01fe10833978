package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
)

// Inputs are the files one run works on, in discovery order.
type Inputs struct {
	Assemblies  []string
	ConfigFiles []string
}

func isAssembly(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".dll", ".exe":
		return true
	}
	return false
}

func isConfigFile(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".config")
}

// Discoverer expands command line paths into Inputs.
type Discoverer struct {
	fs        afero.Fs
	ignore    []IgnorePattern
	outputDir string
}

// NewDiscoverer creates a discoverer. Configuration copies written by earlier
// runs never feed back in: a walk skips outputDir when it is a subdirectory,
// and skips the *.config files directly inside it when the walk starts at or
// below it.
func NewDiscoverer(fs afero.Fs, ignore []IgnorePattern, outputDir string) *Discoverer {
	if abs, err := filepath.Abs(outputDir); err == nil {
		outputDir = abs
	}
	return &Discoverer{fs: fs, ignore: ignore, outputDir: outputDir}
}

// Discover expands args. Explicit files are taken as given: *.config files
// are configuration candidates and anything else is an assembly. Directories
// are walked in lexical order for *.dll, *.exe and *.config files, skipping
// ignored paths.
func (d *Discoverer) Discover(args []string) (*Inputs, error) {
	in := &Inputs{}
	for _, arg := range args {
		info, err := d.fs.Stat(arg)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", arg, err)
		}
		if !info.IsDir() {
			if isConfigFile(arg) {
				in.ConfigFiles = append(in.ConfigFiles, arg)
			} else {
				in.Assemblies = append(in.Assemblies, arg)
			}
			continue
		}
		if err := d.walk(arg, in); err != nil {
			return nil, err
		}
	}
	return in, nil
}

func (d *Discoverer) walk(root string, in *Inputs) error {
	err := afero.Walk(d.fs, root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}

		if info.IsDir() {
			if rel == "." {
				return nil
			}
			if d.isOutputDir(path) || IsIgnored(rel, true, d.ignore) {
				return filepath.SkipDir
			}
			return nil
		}
		if IsIgnored(rel, false, d.ignore) {
			return nil
		}

		switch {
		case isAssembly(path):
			in.Assemblies = append(in.Assemblies, path)
		case isConfigFile(path):
			if d.isOutputDir(filepath.Dir(path)) {
				return nil
			}
			in.ConfigFiles = append(in.ConfigFiles, path)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("walk %s: %w", root, err)
	}
	return nil
}

func (d *Discoverer) isOutputDir(path string) bool {
	abs, err := filepath.Abs(path)
	if err != nil {
		return false
	}
	return abs == d.outputDir
}
