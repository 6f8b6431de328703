package lower

import (
	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/types"
	"tlog.app/go/tlog"
)

// DefaultEntryName is the name of the synthesized program entry point.
const DefaultEntryName = "main"

// Config configures a Generator.
type Config struct {
	// SourceFilename is recorded as the source_filename of the module.
	SourceFilename string
	// EntryName is the name of the synthesized entry point; DefaultEntryName
	// if empty.
	EntryName string
}

// Generator keeps track of top-level entities when translating from syntax
// tree to LLVM IR representation.
//
// A Generator lowers exactly one program and is not safe for concurrent use.
type Generator struct {
	cfg Config
	// Span of the current lowering pass.
	tr tlog.Span
	// LLVM IR module being generated.
	m *ir.Module
	// Set once Lower has been invoked.
	lowered bool

	// Type resolver table, mapping from type annotation to type constructor.
	typeCtors map[string]func() types.Type
	// Symbol table.
	syms *symtab

	// Index of IR top-level entities.

	// funcs maps from global identifier (without '@' prefix) to function
	// declarations and definitions.
	funcs map[string]*ir.Func
	// Number of string literals emitted so far.
	nstrings int
}

// NewGenerator returns a new generator for lowering a program to an LLVM IR
// module.
func NewGenerator(cfg Config) *Generator {
	if len(cfg.EntryName) == 0 {
		cfg.EntryName = DefaultEntryName
	}
	m := ir.NewModule()
	m.SourceFilename = cfg.SourceFilename
	gen := &Generator{
		cfg:       cfg,
		m:         m,
		typeCtors: make(map[string]func() types.Type),
		syms:      newSymtab(),
		funcs:     make(map[string]*ir.Func),
	}
	for name, ctor := range builtinTypes {
		gen.typeCtors[name] = ctor
	}
	return gen
}
