package lower

import (
	"io"

	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"
	"github.com/pkg/errors"
)

// newEntryFuncGen synthesizes the program entry point, `i32 @main()`, and
// returns a function generator emitting to its entry block. Top-level
// bindings live in the global frame, owned by the entry point.
func (gen *Generator) newEntryFuncGen() (*funcGen, error) {
	f, err := gen.declareFunction(gen.cfg.EntryName, types.I32)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	if len(f.Blocks) > 0 {
		return nil, gen.Errorf(ErrDuplicateFunctionBody, "entry point %q already defined", f.Name())
	}
	gen.syms.frames[0].owner = f
	fgen := &funcGen{
		gen:   gen,
		f:     f,
		frame: 0,
		entry: true,
	}
	fgen.cur = f.NewBlock(entryBlockName)
	return fgen, nil
}

// emitEntryRet casts the result of the program to the return type of the
// entry point and emits a return instruction.
func (fgen *funcGen) emitEntryRet(result value.Value) error {
	retType := fgen.f.Sig.RetType.(*types.IntType)
	x, err := fgen.intCast(result, retType)
	if err != nil {
		return errors.Wrap(err, "program result")
	}
	fgen.cur.NewRet(x)
	return nil
}

// intCast converts x to the integer type to, emitting to f. Integers are
// sign-extended or truncated, booleans are zero-extended and floating-point
// values are converted to signed integers.
func (fgen *funcGen) intCast(x value.Value, to *types.IntType) (value.Value, error) {
	switch t := x.Type().(type) {
	case *types.IntType:
		switch {
		case t.BitSize == to.BitSize:
			return x, nil
		case t.BitSize == 1:
			return fgen.cur.NewZExt(x, to), nil
		case t.BitSize < to.BitSize:
			return fgen.cur.NewSExt(x, to), nil
		default:
			return fgen.cur.NewTrunc(x, to), nil
		}
	case *types.FloatType:
		return fgen.cur.NewFPToSI(x, to), nil
	case *types.PointerType:
		return fgen.cur.NewPtrToInt(x, to), nil
	default:
		return nil, fgen.gen.Errorf(ErrTypeMismatch, "unable to convert value of type %v to %v", x.Type(), to)
	}
}

// WriteModule writes the textual LLVM IR assembly of the module to w. The
// output depends only on the contents of the module, so writing a module
// twice yields identical output.
func WriteModule(w io.Writer, m *ir.Module) error {
	if _, err := io.WriteString(w, m.String()); err != nil {
		return errors.WithStack(err)
	}
	return nil
}
