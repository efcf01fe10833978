package bundle

// Namer derives the per-assembly symbol name and the three C function names
// exported by a generated unit.
//
// DeriveName must return a legal C identifier fragment that is unique across
// every assembly in one batch; the generator checks uniqueness but does not
// repair collisions.
type Namer interface {
	DeriveName(assemblyPath string) string
	GetterSymbol(name string) string
	ConfigGetterSymbol(name string) string
	CleanupSymbol(name string) string
}

// Symbols is the resolved function surface of one generated unit.
type Symbols struct {
	Name         string // derived symbol name, also the struct "name" field
	Getter       string
	ConfigGetter string
	Cleanup      string
}

// SymbolsFor resolves every symbol of name through n.
func SymbolsFor(n Namer, name string) Symbols {
	return Symbols{
		Name:         name,
		Getter:       n.GetterSymbol(name),
		ConfigGetter: n.ConfigGetterSymbol(name),
		Cleanup:      n.CleanupSymbol(name),
	}
}
