// Package lower lowers programs in syntax tree form to LLVM IR assembly.
package lower

import (
	"context"

	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"
	"github.com/pkg/errors"
	"tlog.app/go/tlog"

	"github.com/NilsRamstoeck/learning-llvm/ast"
)

// Lower lowers the program to LLVM IR. The top-level statements of the
// program form the body of the synthesized entry point, which returns the
// result of the program as a 32-bit integer.
//
// Lowering stops at the first error, in which case no module is returned.
func (gen *Generator) Lower(ctx context.Context, prog *ast.Program) (m *ir.Module, err error) {
	if gen.lowered {
		return nil, errors.New("program already lowered by this generator")
	}
	gen.lowered = true
	tr, _ := tlog.SpawnFromContextAndWrap(ctx, "lower program", "stmts", len(prog.Body))
	defer tr.Finish("err", &err)
	gen.tr = tr

	// Synthesize entry point.
	fgen, err := gen.newEntryFuncGen()
	if err != nil {
		return nil, errors.WithStack(err)
	}
	// Lower program to the body of the entry point.
	result, err := fgen.lowerProgram(prog)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	if fgen.cur.Term == nil {
		if err := fgen.emitEntryRet(result); err != nil {
			return nil, errors.WithStack(err)
		}
	}
	if err := verifyModule(gen.m); err != nil {
		return nil, errors.WithStack(err)
	}
	return gen.m, nil
}

// lowerProgram lowers the top-level statements of the program, emitting to
// f, and returns the result of the program.
func (fgen *funcGen) lowerProgram(old *ast.Program) (value.Value, error) {
	if err := fgen.lowerStmts(old.Body); err != nil {
		return nil, errors.WithStack(err)
	}
	// Programs complete successfully unless they return otherwise.
	return constant.NewInt(types.I32, 0), nil
}
