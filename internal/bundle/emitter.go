package bundle

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/afero"

	"github.com/iVampireSP/asmbundle/internal/fileutil"
)

// C declarations shared by every generated unit. The registry unit repeats
// them so it can be compiled on its own.
const (
	AssemblyStructDecl = "typedef struct { const char *name; const unsigned char *data; const unsigned int size; } BundledAssembly;"
	ConfigStructDecl   = "typedef struct { const char *name; const unsigned char *data; } BundledAssemblyConfig;"
)

// ErrAssemblyRead wraps failures reading the assembly stream.
var ErrAssemblyRead = errors.New("read assembly")

// config is a configuration payload that was read successfully.
type config struct {
	path string
	data []byte
}

// Emitter writes generated bundle units.
type Emitter struct {
	fs     afero.Fs
	logger *log.Logger
}

// NewEmitter creates an emitter writing through fs.
func NewEmitter(fs afero.Fs, logger *log.Logger) *Emitter {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Emitter{fs: fs, logger: logger}
}

// Emit writes the unit for one assembly to outputPath and maintains the
// configuration copy at configCopyPath.
//
// configPath is the resolved configuration file or "". A configuration file
// that cannot be read is logged and treated as absent. attached is the
// configuration path actually bundled, or "".
//
// On failure outputPath is removed so the next run cannot mistake an older
// unit for a fresh one.
func (e *Emitter) Emit(assembly io.Reader, syms Symbols, configPath, outputPath, configCopyPath string) (written, attached string, err error) {
	cfg := e.loadConfig(configPath)

	err = fileutil.WriteFileAtomic(e.fs, outputPath, func(w io.Writer) error {
		return e.write(w, assembly, syms, cfg, func() error {
			return e.syncConfigCopy(cfg, configCopyPath)
		})
	})
	if err != nil {
		if rmErr := fileutil.RemoveIfExists(e.fs, outputPath); rmErr != nil {
			e.logger.Warn("unable to remove stale output", "output", outputPath, "error", rmErr)
		}
		return "", "", err
	}

	if cfg != nil {
		attached = cfg.path
	}
	return outputPath, attached, nil
}

// Render writes the unit for one assembly to w without touching the
// configuration copy. It is the dry-run counterpart of Emit.
func (e *Emitter) Render(w io.Writer, assembly io.Reader, syms Symbols, configPath string) (attached string, err error) {
	cfg := e.loadConfig(configPath)
	if err := e.write(w, assembly, syms, cfg, nil); err != nil {
		return "", err
	}
	if cfg != nil {
		attached = cfg.path
	}
	return attached, nil
}

func (e *Emitter) loadConfig(path string) *config {
	if path == "" {
		return nil
	}
	data, err := afero.ReadFile(e.fs, path)
	if err != nil {
		e.logger.Info("configuration file unreadable, bundling without it", "config", path, "error", err)
		return nil
	}
	return &config{path: path, data: data}
}

// syncConfigCopy replaces the copy at copyPath with the bundled
// configuration, or just deletes it when nothing was bundled.
func (e *Emitter) syncConfigCopy(cfg *config, copyPath string) error {
	if err := fileutil.RemoveIfExists(e.fs, copyPath); err != nil {
		return err
	}
	if cfg == nil {
		return nil
	}
	if err := afero.WriteFile(e.fs, copyPath, cfg.data, 0o644); err != nil {
		return fmt.Errorf("write config copy %s: %w", copyPath, err)
	}
	return nil
}

// write emits the unit section by section, flushing after each one.
// afterConfig runs once the config struct is out and before the config
// getter is written.
func (e *Emitter) write(out io.Writer, assembly io.Reader, syms Symbols, cfg *config, afterConfig func() error) error {
	w := bufio.NewWriter(out)
	name := cQuote(syms.Name)

	size, err := writeByteArray(w, "bundle_data", assembly)
	if err != nil {
		var re *readError
		if errors.As(err, &re) {
			return fmt.Errorf("%w: %w", ErrAssemblyRead, re.err)
		}
		return err
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Fprintln(w, AssemblyStructDecl)
	fmt.Fprintf(w, "static const BundledAssembly bundle = { %s, bundle_data, %d };\n", name, size)
	fmt.Fprintf(w, "const BundledAssembly *%s(void) { return &bundle; }\n", syms.Getter)
	fmt.Fprintln(w, ConfigStructDecl)
	if err := w.Flush(); err != nil {
		return err
	}

	if cfg != nil {
		// The configuration is text and is handed out NUL-terminated.
		if _, err := writeByteArray(w, "config_data", bytes.NewReader(cfg.data), 0); err != nil {
			return err
		}
		fmt.Fprintf(w, "static const BundledAssemblyConfig config = { %s, config_data };\n", name)
	} else {
		fmt.Fprintf(w, "static const BundledAssemblyConfig config = { %s, 0 };\n", name)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if afterConfig != nil {
		if err := afterConfig(); err != nil {
			return err
		}
	}

	fmt.Fprintf(w, "const BundledAssemblyConfig *%s(void) { return &config; }\n", syms.ConfigGetter)
	fmt.Fprintf(w, "void %s(void) { }\n", syms.Cleanup)
	return w.Flush()
}

// cQuote renders s as a C string literal.
func cQuote(s string) string {
	var b strings.Builder
	b.WriteByte('"')
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '"' || c == '\\':
			b.WriteByte('\\')
			b.WriteByte(c)
		case c < 0x20 || c >= 0x7f:
			fmt.Fprintf(&b, "\\%03o", c)
		default:
			b.WriteByte(c)
		}
	}
	b.WriteByte('"')
	return b.String()
}
