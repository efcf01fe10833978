package main

import (
	"fmt"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"

	"github.com/iVampireSP/asmbundle/internal/bundle"
)

// ResultsManifest is the results file handed back to the calling build.
type ResultsManifest struct {
	GeneratedFiles     []string `yaml:"generated_files"`
	BundledConfigFiles []string `yaml:"bundled_config_files"`
	Skipped            []string `yaml:"skipped,omitempty"`
}

func newResultsManifest(res *bundle.Result) ResultsManifest {
	m := ResultsManifest{
		GeneratedFiles:     res.GeneratedFiles,
		BundledConfigFiles: res.BundledConfigFiles,
	}
	// Empty lists are written as [] so consumers never see null.
	if m.GeneratedFiles == nil {
		m.GeneratedFiles = []string{}
	}
	if m.BundledConfigFiles == nil {
		m.BundledConfigFiles = []string{}
	}
	for _, u := range res.Units {
		if u.Skipped {
			m.Skipped = append(m.Skipped, u.OutputPath)
		}
	}
	return m
}

// writeResults writes the manifest for res to path as YAML.
func writeResults(fs afero.Fs, path string, res *bundle.Result) error {
	data, err := yaml.Marshal(newResultsManifest(res))
	if err != nil {
		return fmt.Errorf("encode results: %w", err)
	}
	if err := afero.WriteFile(fs, path, data, 0o644); err != nil {
		return fmt.Errorf("write results %s: %w", path, err)
	}
	return nil
}
