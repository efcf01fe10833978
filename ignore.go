package main

import (
	"bufio"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
)

// IgnoreFileName holds extra exclude patterns, one per line.
const IgnoreFileName = ".bundleignore"

// IgnorePattern is one .gitignore-style exclude pattern.
type IgnorePattern struct {
	Pattern  string
	Negation bool
	DirOnly  bool
}

// ParseIgnorePatterns parses exclude lines; blanks and # comments are skipped.
func ParseIgnorePatterns(lines []string) []IgnorePattern {
	var patterns []IgnorePattern
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		p := IgnorePattern{}
		if strings.HasPrefix(line, "!") {
			p.Negation = true
			line = line[1:]
		}
		if strings.HasSuffix(line, "/") {
			p.DirOnly = true
			line = strings.TrimSuffix(line, "/")
		}
		p.Pattern = line
		patterns = append(patterns, p)
	}
	return patterns
}

// LoadIgnoreFile reads patterns from path. A missing file yields none.
func LoadIgnoreFile(fs afero.Fs, path string) []IgnorePattern {
	f, err := fs.Open(path)
	if err != nil {
		return nil
	}
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	return ParseIgnorePatterns(lines)
}

// IsIgnored checks a slash-separated path, relative to the walked root,
// against patterns. Later patterns override earlier ones.
func IsIgnored(relPath string, isDir bool, patterns []IgnorePattern) bool {
	relPath = filepath.ToSlash(relPath)

	ignored := false
	for _, p := range patterns {
		if p.DirOnly && !isDir {
			continue
		}
		if matchIgnore(relPath, p.Pattern) {
			ignored = !p.Negation
		}
	}
	return ignored
}

func matchIgnore(path, pattern string) bool {
	// Leading / anchors to the root
	if strings.HasPrefix(pattern, "/") {
		matched, _ := filepath.Match(pattern[1:], path)
		return matched
	}

	if strings.Contains(pattern, "/") {
		if matched, _ := filepath.Match(pattern, path); matched {
			return true
		}
		return strings.HasPrefix(path, pattern+"/")
	}

	// No slash: any path component may match
	for _, part := range strings.Split(path, "/") {
		if matched, _ := filepath.Match(pattern, part); matched {
			return true
		}
	}
	return false
}
