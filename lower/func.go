package lower

import (
	"strings"

	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"
	"github.com/pkg/errors"

	"github.com/NilsRamstoeck/learning-llvm/ast"
)

// entryBlockName is the label of the entry block of every function body.
const entryBlockName = "entry"

// funcGen is an LLVM IR generator for a given function.
type funcGen struct {
	// Module generator.
	gen *Generator
	// LLVM IR function being generated.
	f *ir.Func
	// Current basic block being generated.
	cur *ir.Block
	// Index of the innermost scope frame.
	frame int
	// Set for the synthesized program entry point.
	entry bool
}

// declareFunction returns the prototype of the function with the given name
// and signature, creating it if not yet present in the module. Newly created
// prototypes are verified before use.
func (gen *Generator) declareFunction(name string, retType types.Type, params ...*ir.Param) (*ir.Func, error) {
	if strings.HasPrefix(name, strPrefix) {
		return nil, gen.Errorf(ErrRedefinition, "function name %q uses the prefix %q reserved for string literals", name, strPrefix)
	}
	if prev, ok := gen.funcs[name]; ok {
		var paramTypes []types.Type
		for _, param := range params {
			paramTypes = append(paramTypes, param.Typ)
		}
		sig := types.NewFunc(retType, paramTypes...)
		if !types.Equal(prev.Sig, sig) {
			return nil, gen.Errorf(ErrSignatureMismatch, "function %q already declared; prev `%v`, new `%v`", name, prev.Sig, sig)
		}
		return prev, nil
	}
	// Functions default to external linkage.
	f := gen.m.NewFunc(name, retType, params...)
	if err := verifyFunc(f); err != nil {
		return nil, errors.WithStack(err)
	}
	gen.funcs[name] = f
	gen.tr.V("lower").Printw("declare function", "name", name, "sig", f.Sig.String())
	return f, nil
}

// enterFunctionBody creates the entry block of the given function and
// returns a function generator emitting to it. Locals of the function are
// bound in a new frame enclosed by the global frame.
func (gen *Generator) enterFunctionBody(f *ir.Func) (*funcGen, error) {
	if len(f.Blocks) > 0 {
		return nil, gen.Errorf(ErrDuplicateFunctionBody, "function %q already defined", f.Name())
	}
	fgen := &funcGen{
		gen:   gen,
		f:     f,
		frame: gen.syms.push(0, f),
	}
	fgen.cur = f.NewBlock(entryBlockName)
	return fgen, nil
}

// lowerFuncDecl lowers the function declaration to LLVM IR, emitting to m.
// The function body, if present, is lowered to a function of its own.
func (gen *Generator) lowerFuncDecl(old *ast.FunctionDeclaration) (*ir.Func, error) {
	funcName := old.ID.Name
	// Function parameters.
	params, err := gen.irParams(old.Params)
	if err != nil {
		return nil, errors.Wrapf(err, "function %q", funcName)
	}
	// Return type.
	retType, err := gen.irReturnType(old.ReturnType)
	if err != nil {
		return nil, errors.Wrapf(err, "function %q", funcName)
	}
	f, err := gen.declareFunction(funcName, retType, params...)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	if old.Body == nil {
		return f, nil
	}
	// Lower function body.
	fgen, err := gen.enterFunctionBody(f)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	// Parameter names of the prototype may differ from those of this
	// declaration; bind by position.
	for i, oldParam := range old.Params {
		if len(oldParam.Name) == 0 {
			continue
		}
		if err := fgen.define(oldParam.Name, f.Params[i]); err != nil {
			return nil, errors.Wrapf(err, "function %q", funcName)
		}
	}
	if err := fgen.lowerFuncBody(old.Body); err != nil {
		return nil, errors.Wrapf(err, "function %q", funcName)
	}
	return f, nil
}

// lowerFuncBody lowers the function body block statement to LLVM IR,
// emitting to f.
func (fgen *funcGen) lowerFuncBody(old *ast.BlockStatement) error {
	if err := fgen.lowerStmts(old.Body); err != nil {
		return errors.WithStack(err)
	}
	if fgen.cur.Term != nil {
		return nil
	}
	if !isVoid(fgen.f.Sig.RetType) {
		return fgen.gen.Errorf(ErrMissingReturn, "function %q must return a value of type %v", fgen.f.Name(), fgen.f.Sig.RetType)
	}
	// Implicit void return.
	fgen.cur.NewRet(nil)
	return nil
}

// ### [ Helper functions ] ####################################################

// define binds name to v in the innermost scope frame.
func (fgen *funcGen) define(name string, v value.Value) error {
	return fgen.gen.syms.define(fgen.frame, name, v)
}
