package lower

import (
	"strings"

	"github.com/llir/llvm/ir/types"
	"github.com/rickypai/natsort"
)

// builtinTypes maps from type annotation to the constructor of the
// corresponding IR type.
var builtinTypes = map[string]func() types.Type{
	// Strings are passed as pointers to NUL-terminated byte arrays.
	"string":  func() types.Type { return types.I8Ptr },
	"number":  func() types.Type { return types.Double },
	"boolean": func() types.Type { return types.I1 },
	"i32":     func() types.Type { return types.I32 },
	"void":    func() types.Type { return types.Void },
}

// DefineType adds or replaces the IR type constructor of the given type
// annotation.
func (gen *Generator) DefineType(name string, ctor func() types.Type) {
	gen.typeCtors[name] = ctor
}

// irType returns the IR type of the given type annotation.
func (gen *Generator) irType(name string) (types.Type, error) {
	ctor, ok := gen.typeCtors[name]
	if !ok {
		return nil, gen.Errorf(ErrUnresolvedType, "unable to locate type %q; known types: %s", name, strings.Join(gen.typeNames(), ", "))
	}
	if ctor == nil {
		return nil, gen.Errorf(ErrUnresolvedType, "type %q has no constructor", name)
	}
	typ := ctor()
	if typ == nil {
		return nil, gen.Errorf(ErrUnresolvedType, "constructor of type %q returned nil", name)
	}
	return typ, nil
}

// irReturnType returns the IR return type of the given type annotation. An
// empty annotation denotes void.
func (gen *Generator) irReturnType(name string) (types.Type, error) {
	if len(name) == 0 {
		return types.Void, nil
	}
	return gen.irType(name)
}

// typeNames returns the known type annotations in natural order.
func (gen *Generator) typeNames() []string {
	var names []string
	for name := range gen.typeCtors {
		names = append(names, name)
	}
	natsort.Strings(names)
	return names
}

// ### [ Helper functions ] ####################################################

// isInt reports whether the given type is an integer type other than i1.
func isInt(t types.Type) bool {
	t2, ok := t.(*types.IntType)
	return ok && t2.BitSize > 1
}

// isBool reports whether the given type is the boolean type i1.
func isBool(t types.Type) bool {
	return types.Equal(t, types.I1)
}

// isFloat reports whether the given type is a floating-point type.
func isFloat(t types.Type) bool {
	_, ok := t.(*types.FloatType)
	return ok
}

// isVoid reports whether the given type is void.
func isVoid(t types.Type) bool {
	_, ok := t.(*types.VoidType)
	return ok
}
