package bundle

import (
	"bufio"
	"fmt"
	"io"

	"github.com/iVampireSP/asmbundle/internal/fileutil"
)

// DefaultRegistryTable names the registry table when none is configured.
const DefaultRegistryTable = "asmbundle_entries"

// EntryStructDecl is the shape of one registry table row.
const EntryStructDecl = "typedef struct { const BundledAssembly *(*assembly)(void); const BundledAssemblyConfig *(*config)(void); void (*cleanup)(void); } BundledAssemblyEntry;"

// WriteRegistry writes a unit declaring the functions of every entry in
// syms and a table pointing at them, terminated by an all-zero row.
func WriteRegistry(out io.Writer, table string, syms []Symbols) error {
	if table == "" {
		table = DefaultRegistryTable
	}
	w := bufio.NewWriter(out)
	fmt.Fprintln(w, AssemblyStructDecl)
	fmt.Fprintln(w, ConfigStructDecl)
	fmt.Fprintln(w, EntryStructDecl)
	for _, s := range syms {
		fmt.Fprintf(w, "const BundledAssembly *%s(void);\n", s.Getter)
		fmt.Fprintf(w, "const BundledAssemblyConfig *%s(void);\n", s.ConfigGetter)
		fmt.Fprintf(w, "void %s(void);\n", s.Cleanup)
	}
	fmt.Fprintf(w, "const BundledAssemblyEntry %s [] = {\n", table)
	for _, s := range syms {
		fmt.Fprintf(w, "\t{ %s, %s, %s },\n", s.Getter, s.ConfigGetter, s.Cleanup)
	}
	fmt.Fprintln(w, "\t{ 0, 0, 0 },")
	fmt.Fprintln(w, "};")
	return w.Flush()
}

func (g *Generator) writeRegistry(units []Unit, opts Options) error {
	syms := make([]Symbols, 0, len(units))
	for _, u := range units {
		syms = append(syms, u.Symbols)
	}

	if opts.DryRun {
		out := opts.Stdout
		if out == nil {
			out = io.Discard
		}
		fmt.Fprintf(out, "// === %s ===\n", opts.RegistryPath)
		return WriteRegistry(out, opts.RegistryTable, syms)
	}

	err := fileutil.WriteFileAtomic(g.fs, opts.RegistryPath, func(w io.Writer) error {
		return WriteRegistry(w, opts.RegistryTable, syms)
	})
	if err != nil {
		return fmt.Errorf("write registry %s: %w", opts.RegistryPath, err)
	}
	g.logger.Info("generated registry", "output", opts.RegistryPath, "entries", len(syms))
	return nil
}
