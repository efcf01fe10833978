package bundle

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"runtime/debug"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/afero"
)

// ErrNoAssemblies is returned when a run has nothing to bundle.
var ErrNoAssemblies = errors.New("no assemblies to bundle")

// DefaultOutputExt is the extension of generated units.
const DefaultOutputExt = ".c"

// Options configures one generation run. Nothing outside it carries state
// between runs.
type Options struct {
	Assemblies  []string // assembly paths, in processing order
	ConfigFiles []string // candidate configuration files, in match order
	OutputDir   string
	OutputExt   string // defaults to DefaultOutputExt

	SkipUnchanged bool // reuse outputs the staleness check confirms as fresh
	KeepGoing     bool // continue with the next unit after a fatal unit error

	// DryRun renders every unit to Stdout instead of writing files.
	DryRun bool
	Stdout io.Writer

	// RegistryPath, when set, receives a unit listing every unit's symbols
	// in a table named RegistryTable.
	RegistryPath  string
	RegistryTable string
}

// Unit is one assembly with its derived names and output locations.
type Unit struct {
	AssemblyPath   string
	Symbols        Symbols
	OutputPath     string
	ConfigCopyPath string
}

// UnitResult records what happened to one unit.
type UnitResult struct {
	Unit
	Config  string // configuration file bundled into the output, or ""
	Skipped bool
}

// Result is what a run reports back to its caller.
type Result struct {
	GeneratedFiles     []string
	BundledConfigFiles []string
	Units              []UnitResult
}

func (r *Result) add(u UnitResult) {
	r.Units = append(r.Units, u)
	r.GeneratedFiles = append(r.GeneratedFiles, u.OutputPath)
	if u.Config != "" {
		r.BundledConfigFiles = append(r.BundledConfigFiles, u.Config)
	}
}

// Generator runs the resolve, check, emit sequence over a batch of
// assemblies, one unit at a time.
type Generator struct {
	fs      afero.Fs
	namer   Namer
	logger  *log.Logger
	emitter *Emitter
	checker *StalenessChecker
}

// NewGenerator creates a generator.
func NewGenerator(fs afero.Fs, namer Namer, logger *log.Logger) *Generator {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Generator{
		fs:      fs,
		namer:   namer,
		logger:  logger,
		emitter: NewEmitter(fs, logger),
		checker: NewStalenessChecker(fs),
	}
}

// Plan derives the units for opts without touching the filesystem.
// Two assemblies deriving the same symbol name, ignoring case, is an error:
// their outputs would collide on case-insensitive filesystems.
func (g *Generator) Plan(opts Options) ([]Unit, error) {
	if len(opts.Assemblies) == 0 {
		return nil, ErrNoAssemblies
	}
	ext := opts.OutputExt
	if ext == "" {
		ext = DefaultOutputExt
	}

	seen := make(map[string]string, len(opts.Assemblies))
	units := make([]Unit, 0, len(opts.Assemblies))
	for _, asm := range opts.Assemblies {
		name := g.namer.DeriveName(asm)
		if name == "" {
			return nil, fmt.Errorf("bundle %s: empty symbol name", asm)
		}
		key := strings.ToLower(name)
		if prev, ok := seen[key]; ok {
			return nil, fmt.Errorf("symbol %s derived by both %s and %s", name, prev, asm)
		}
		seen[key] = asm

		units = append(units, Unit{
			AssemblyPath:   asm,
			Symbols:        SymbolsFor(g.namer, name),
			OutputPath:     filepath.Join(opts.OutputDir, name+ext),
			ConfigCopyPath: filepath.Join(opts.OutputDir, ConfigFileName(name)),
		})
	}
	return units, nil
}

// Run generates every unit in opts.
//
// A fatal unit error aborts the run unless opts.KeepGoing is set, in which
// case the remaining units are still processed and all unit errors are
// returned joined. The result always lists the units that completed. A panic
// inside the run is recovered and returned as an error.
func (g *Generator) Run(opts Options) (res *Result, err error) {
	res = &Result{}
	defer func() {
		if r := recover(); r != nil {
			g.logger.Error("generation aborted", "panic", r, "stack", string(debug.Stack()))
			err = fmt.Errorf("bundle: panic: %v", r)
		}
	}()

	units, err := g.Plan(opts)
	if err != nil {
		return res, err
	}

	if !opts.DryRun && opts.OutputDir != "" {
		if err := g.fs.MkdirAll(opts.OutputDir, 0o755); err != nil {
			return res, fmt.Errorf("create output dir %s: %w", opts.OutputDir, err)
		}
	}

	var errs []error
	for _, u := range units {
		ur, uerr := g.process(u, opts)
		if uerr != nil {
			g.logger.Error("bundle failed", "assembly", u.AssemblyPath, "error", uerr)
			if !opts.KeepGoing {
				return res, uerr
			}
			errs = append(errs, uerr)
			continue
		}
		res.add(ur)
	}

	if opts.RegistryPath != "" && len(errs) > 0 {
		g.logger.Warn("registry not written, some units failed", "registry", opts.RegistryPath, "failed", len(errs))
	}
	if opts.RegistryPath != "" && len(errs) == 0 {
		if err := g.writeRegistry(units, opts); err != nil {
			return res, err
		}
		res.GeneratedFiles = append(res.GeneratedFiles, opts.RegistryPath)
	}

	return res, errors.Join(errs...)
}

// process handles one unit. The assembly handle is released before it returns.
func (g *Generator) process(u Unit, opts Options) (UnitResult, error) {
	ur := UnitResult{Unit: u}
	logger := g.logger.With("assembly", u.AssemblyPath)

	configPath, ok := ResolveConfig(u.Symbols.Name, withoutPath(opts.ConfigFiles, u.ConfigCopyPath))
	if !ok {
		logger.Debug("no configuration file", "want", ConfigFileName(u.Symbols.Name))
	}

	if !opts.DryRun {
		skip, reason := g.checker.Check(u.AssemblyPath, u.OutputPath, configPath, u.ConfigCopyPath, opts.SkipUnchanged)
		if skip {
			logger.Debug("output up to date, skipping", "output", u.OutputPath)
			ur.Skipped = true
			ur.Config = configPath
			return ur, nil
		}
		logger.Debug("regenerating", "output", u.OutputPath, "reason", reason)
	}

	f, err := g.fs.Open(u.AssemblyPath)
	if err != nil {
		return ur, fmt.Errorf("bundle %s: open assembly: %w", u.AssemblyPath, err)
	}
	defer f.Close()

	if opts.DryRun {
		out := opts.Stdout
		if out == nil {
			out = io.Discard
		}
		fmt.Fprintf(out, "// === %s ===\n", u.OutputPath)
		attached, err := g.emitter.Render(out, f, u.Symbols, configPath)
		if err != nil {
			return ur, fmt.Errorf("bundle %s: %w", u.AssemblyPath, err)
		}
		ur.Config = attached
		return ur, nil
	}

	_, attached, err := g.emitter.Emit(f, u.Symbols, configPath, u.OutputPath, u.ConfigCopyPath)
	if err != nil {
		return ur, fmt.Errorf("bundle %s: %w", u.AssemblyPath, err)
	}
	ur.Config = attached
	logger.Info("generated", "output", u.OutputPath, "config", attached)
	return ur, nil
}

// withoutPath drops every candidate naming the same file as path. A unit's
// own configuration copy is never a candidate for that unit.
func withoutPath(candidates []string, path string) []string {
	out := make([]string, 0, len(candidates))
	for _, c := range candidates {
		if samePath(c, path) {
			continue
		}
		out = append(out, c)
	}
	return out
}

func samePath(a, b string) bool {
	if absA, err := filepath.Abs(a); err == nil {
		a = absA
	}
	if absB, err := filepath.Abs(b); err == nil {
		b = absB
	}
	return filepath.Clean(a) == filepath.Clean(b)
}
