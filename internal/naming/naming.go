// Package naming derives C symbol names for bundled assemblies.
package naming

import (
	"path/filepath"
	"strings"
)

// DefaultPrefix qualifies every generated function name.
const DefaultPrefix = "asmbundle"

// assemblyExts are stripped from the file name before sanitizing.
var assemblyExts = []string{".dll", ".exe"}

// Namer derives names from an assembly's file name.
//
//	System.Private.CoreLib.dll → System_Private_CoreLib
//	  getter:  asmbundle_get_assembly_System_Private_CoreLib
//	  config:  asmbundle_get_config_System_Private_CoreLib
//	  cleanup: asmbundle_cleanup_System_Private_CoreLib
type Namer struct {
	Prefix string
}

// New creates a namer using prefix, or DefaultPrefix when prefix is empty.
func New(prefix string) *Namer {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return &Namer{Prefix: sanitizeName(prefix)}
}

// DeriveName returns the sanitized base name of assemblyPath without its
// assembly extension.
func (n *Namer) DeriveName(assemblyPath string) string {
	base := filepath.Base(assemblyPath)
	ext := filepath.Ext(base)
	for _, e := range assemblyExts {
		if strings.EqualFold(ext, e) {
			base = strings.TrimSuffix(base, ext)
			break
		}
	}
	if base == "" || base == "." || base == string(filepath.Separator) {
		return ""
	}
	return sanitizeName(base)
}

func (n *Namer) GetterSymbol(name string) string {
	return n.Prefix + "_get_assembly_" + name
}

func (n *Namer) ConfigGetterSymbol(name string) string {
	return n.Prefix + "_get_config_" + name
}

func (n *Namer) CleanupSymbol(name string) string {
	return n.Prefix + "_cleanup_" + name
}

// sanitizeName maps every byte outside [A-Za-z0-9_] to '_' and prefixes a
// leading digit, so the result is a valid C identifier.
func sanitizeName(s string) string {
	var buf strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c == '_':
			buf.WriteByte(c)
		case c >= '0' && c <= '9':
			if i == 0 {
				buf.WriteByte('_')
			}
			buf.WriteByte(c)
		default:
			buf.WriteByte('_')
		}
	}
	return buf.String()
}
