package bundle_test

import (
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"

	"github.com/iVampireSP/asmbundle/internal/bundle"
)

type testNamer struct{}

func (testNamer) DeriveName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func (testNamer) GetterSymbol(name string) string { return "get_assembly_" + name }
func (testNamer) ConfigGetterSymbol(name string) string { return "get_config_" + name }
func (testNamer) CleanupSymbol(name string) string { return "cleanup_" + name }

func testSymbols(name string) bundle.Symbols {
	return bundle.SymbolsFor(testNamer{}, name)
}

// decodeArray reads back the bytes of the C array called name in src.
func decodeArray(t *testing.T, src, name string) ([]byte, bool) {
	t.Helper()
	open := "static const unsigned char " + name + " [] = {\n"
	start := strings.Index(src, open)
	if start < 0 {
		return nil, false
	}
	body := src[start+len(open):]
	end := strings.Index(body, "};\n")
	require.GreaterOrEqual(t, end, 0, "array %s is not closed", name)

	out := []byte{}
	for _, line := range strings.Split(body[:end], "\n") {
		if line == "" {
			continue
		}
		require.True(t, strings.HasPrefix(line, "\t"), "line %q lacks tab prefix", line)
		require.True(t, strings.HasSuffix(line, ","), "line %q lacks trailing separator", line)
		values := strings.Split(strings.TrimSuffix(line[1:], ","), ",")
		require.LessOrEqual(t, len(values), bundle.ValuesPerLine)
		for _, v := range values {
			require.Len(t, v, 4, "value %q", v)
			require.Equal(t, "0x", v[:2])
			b, err := strconv.ParseUint(v[2:], 16, 8)
			require.NoError(t, err)
			out = append(out, byte(b))
		}
	}
	return out, true
}

var sizeRe = regexp.MustCompile(`bundle_data, (\d+) };`)

func declaredSize(t *testing.T, src string) int {
	t.Helper()
	m := sizeRe.FindStringSubmatch(src)
	require.NotNil(t, m, "no size in output")
	n, err := strconv.Atoi(m[1])
	require.NoError(t, err)
	return n
}

func writeFile(t *testing.T, fs afero.Fs, path string, data []byte) {
	t.Helper()
	require.NoError(t, afero.WriteFile(fs, path, data, 0o644))
}

func setMtime(t *testing.T, fs afero.Fs, path string, ts time.Time) {
	t.Helper()
	require.NoError(t, fs.Chtimes(path, ts, ts))
}

func mtime(t *testing.T, fs afero.Fs, path string) time.Time {
	t.Helper()
	info, err := fs.Stat(path)
	require.NoError(t, err)
	return info.ModTime()
}

func readString(t *testing.T, fs afero.Fs, path string) string {
	t.Helper()
	data, err := afero.ReadFile(fs, path)
	require.NoError(t, err)
	return string(data)
}

func exists(t *testing.T, fs afero.Fs, path string) bool {
	t.Helper()
	ok, err := afero.Exists(fs, path)
	require.NoError(t, err)
	return ok
}
