package main

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seed(t *testing.T, fs afero.Fs, paths ...string) {
	t.Helper()
	for _, p := range paths {
		require.NoError(t, afero.WriteFile(fs, p, []byte("x"), 0o644))
	}
}

func TestDiscover_WalksDirectoriesInOrder(t *testing.T) {
	fs := afero.NewMemMapFs()
	seed(t, fs,
		"/in/b.dll",
		"/in/A.exe",
		"/in/a.config",
		"/in/readme.txt",
		"/in/sub/C.DLL",
		"/in/sub/C.config",
	)

	in, err := NewDiscoverer(fs, nil, "/out").Discover([]string{"/in"})
	require.NoError(t, err)

	assert.Equal(t, []string{"/in/A.exe", "/in/b.dll", "/in/sub/C.DLL"}, in.Assemblies)
	assert.Equal(t, []string{"/in/a.config", "/in/sub/C.config"}, in.ConfigFiles)
}

func TestDiscover_ExplicitFiles(t *testing.T) {
	fs := afero.NewMemMapFs()
	seed(t, fs, "/in/App.bin", "/in/App.config")

	in, err := NewDiscoverer(fs, nil, "/out").Discover([]string{"/in/App.config", "/in/App.bin"})
	require.NoError(t, err)

	assert.Equal(t, []string{"/in/App.bin"}, in.Assemblies)
	assert.Equal(t, []string{"/in/App.config"}, in.ConfigFiles)
}

func TestDiscover_SkipsIgnoredAndOutputDir(t *testing.T) {
	fs := afero.NewMemMapFs()
	seed(t, fs,
		"/in/App.dll",
		"/in/App.pdb.dll",
		"/in/obj/Temp.dll",
		"/in/bundles/App.config",
	)
	ignore := ParseIgnorePatterns([]string{"obj/", "*.pdb.dll"})

	in, err := NewDiscoverer(fs, ignore, "/in/bundles").Discover([]string{"/in"})
	require.NoError(t, err)

	assert.Equal(t, []string{"/in/App.dll"}, in.Assemblies)
	assert.Empty(t, in.ConfigFiles)
}

func TestDiscover_OutputDirIsWalkRoot(t *testing.T) {
	fs := afero.NewMemMapFs()
	seed(t, fs,
		"/proj/App.dll",
		"/proj/App.config",
		"/proj/cfg/App.config",
	)

	in, err := NewDiscoverer(fs, nil, "/proj").Discover([]string{"/proj"})
	require.NoError(t, err)

	assert.Equal(t, []string{"/proj/App.dll"}, in.Assemblies)
	assert.Equal(t, []string{"/proj/cfg/App.config"}, in.ConfigFiles)
}

func TestDiscover_WalkRootInsideOutputDir(t *testing.T) {
	fs := afero.NewMemMapFs()
	seed(t, fs,
		"/proj/App.config",
		"/proj/bin/App.dll",
		"/proj/bin/App.config",
	)

	in, err := NewDiscoverer(fs, nil, "/proj").Discover([]string{"/proj/bin"})
	require.NoError(t, err)

	assert.Equal(t, []string{"/proj/bin/App.dll"}, in.Assemblies)
	assert.Equal(t, []string{"/proj/bin/App.config"}, in.ConfigFiles)
}

func TestDiscover_MissingPath(t *testing.T) {
	_, err := NewDiscoverer(afero.NewMemMapFs(), nil, "/out").Discover([]string{"/nope"})
	assert.ErrorContains(t, err, "/nope")
}
