package lower

import (
	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/types"
)

// verifyFunc checks that the signature of the function prototype is well
// formed. Function bodies are not inspected.
func verifyFunc(f *ir.Func) error {
	name := f.Name()
	if f.Sig == nil || f.Sig.RetType == nil {
		return errorf(ErrInvalidModule, "function %q: missing return type", name)
	}
	if _, ok := f.Sig.RetType.(*types.FuncType); ok {
		return errorf(ErrInvalidModule, "function %q: invalid return type %v", name, f.Sig.RetType)
	}
	if len(f.Params) != len(f.Sig.Params) {
		return errorf(ErrInvalidModule, "function %q: %d parameters but %d parameter types", name, len(f.Params), len(f.Sig.Params))
	}
	for i, param := range f.Params {
		switch param.Typ.(type) {
		case nil, *types.VoidType, *types.FuncType, *types.LabelType:
			return errorf(ErrInvalidModule, "function %q: parameter %d has invalid type %v", name, i, param.Typ)
		}
	}
	return nil
}

// verifyModule checks that every function prototype is well formed, that
// global and local names are unique, that every basic block ends with a
// terminator, and that every called function is present in the module.
func verifyModule(m *ir.Module) error {
	globals := make(map[string]bool)
	for _, g := range m.Globals {
		if g.IsUnnamed() {
			continue
		}
		if globals[g.GlobalName] {
			return errorf(ErrInvalidModule, "global identifier %q already present", g.GlobalName)
		}
		globals[g.GlobalName] = true
	}
	funcs := make(map[*ir.Func]bool)
	for _, f := range m.Funcs {
		funcs[f] = true
		if f.IsUnnamed() {
			continue
		}
		if globals[f.GlobalName] {
			return errorf(ErrInvalidModule, "global identifier %q already present", f.GlobalName)
		}
		globals[f.GlobalName] = true
	}
	for _, f := range m.Funcs {
		if err := verifyFunc(f); err != nil {
			return err
		}
		if err := verifyLocals(f); err != nil {
			return err
		}
		for _, block := range f.Blocks {
			if block.Term == nil {
				return errorf(ErrInvalidModule, "function %q: block %q lacks terminator", f.Name(), block.Name())
			}
			for _, inst := range block.Insts {
				call, ok := inst.(*ir.InstCall)
				if !ok {
					continue
				}
				callee, ok := call.Callee.(*ir.Func)
				if !ok || !funcs[callee] {
					return errorf(ErrInvalidModule, "function %q: call to function %v without prototype in module", f.Name(), call.Callee.Ident())
				}
			}
		}
	}
	return nil
}

// verifyLocals checks that the names of parameters and basic blocks of the
// function are unique. Both share the local name space.
func verifyLocals(f *ir.Func) error {
	names := make(map[string]bool)
	check := func(kind, name string) error {
		if len(name) == 0 {
			return nil
		}
		if names[name] {
			return errorf(ErrInvalidModule, "function %q: %s %q reuses local identifier", f.Name(), kind, name)
		}
		names[name] = true
		return nil
	}
	for _, param := range f.Params {
		if err := check("parameter", param.LocalName); err != nil {
			return err
		}
	}
	for _, block := range f.Blocks {
		if err := check("block", block.LocalName); err != nil {
			return err
		}
	}
	return nil
}
