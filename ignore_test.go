package main

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseIgnorePatterns(t *testing.T) {
	patterns := ParseIgnorePatterns([]string{
		"# comment",
		"",
		"  obj/  ",
		"!keep.dll",
		"*.pdb",
	})

	assert.Equal(t, []IgnorePattern{
		{Pattern: "obj", DirOnly: true},
		{Pattern: "keep.dll", Negation: true},
		{Pattern: "*.pdb"},
	}, patterns)
}

func TestIsIgnored(t *testing.T) {
	patterns := ParseIgnorePatterns([]string{
		"obj/",
		"*.resources.dll",
		"!Keep.resources.dll",
		"/Root.dll",
		"ref/net8.0",
	})

	tests := []struct {
		path  string
		isDir bool
		want  bool
	}{
		{"obj", true, true},
		{"obj", false, false},
		{"sub/obj", true, true},
		{"de/App.resources.dll", false, true},
		{"de/Keep.resources.dll", false, false},
		{"Root.dll", false, true},
		{"sub/Root.dll", false, false},
		{"ref/net8.0/App.dll", false, true},
		{"App.dll", false, false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, IsIgnored(tt.path, tt.isDir, patterns))
		})
	}
}

func TestLoadIgnoreFile(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, IgnoreFileName, []byte("# generated\nobj/\n*.pdb\n"), 0o644))

	assert.Len(t, LoadIgnoreFile(fs, IgnoreFileName), 2)
	assert.Nil(t, LoadIgnoreFile(fs, "missing"))
}
