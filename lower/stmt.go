package lower

import (
	"fmt"

	"github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"
	"github.com/pkg/errors"

	"github.com/NilsRamstoeck/learning-llvm/ast"
)

// lowerStmts lowers the statement list to LLVM IR, emitting to f.
func (fgen *funcGen) lowerStmts(old []ast.Stmt) error {
	for i, oldStmt := range old {
		if fgen.cur.Term != nil {
			return fgen.gen.Errorf(ErrUnreachableCode, "%s statement %d follows return in function %q", oldStmt.Kind(), i, fgen.f.Name())
		}
		if err := fgen.lowerStmt(oldStmt); err != nil {
			return errors.Wrapf(err, "%s statement %d", oldStmt.Kind(), i)
		}
	}
	return nil
}

// lowerStmt lowers the statement to LLVM IR, emitting to f.
func (fgen *funcGen) lowerStmt(old ast.Stmt) error {
	fgen.gen.tr.V("lower").Printw("lower statement", "kind", old.Kind(), "func", fgen.f.Name())
	switch old := old.(type) {
	case *ast.BlockStatement:
		return fgen.lowerBlockStmt(old)
	case *ast.ExpressionStatement:
		return fgen.lowerExprStmt(old)
	case *ast.FunctionDeclaration:
		_, err := fgen.gen.lowerFuncDecl(old)
		return err
	case *ast.ConstantDeclaration:
		_, err := fgen.lowerConstDecl(old)
		return err
	case *ast.ReturnStatement:
		return fgen.lowerReturnStmt(old)
	case *ast.CallExpression:
		// Result discarded.
		_, err := fgen.lowerCallExpr(old)
		return err
	case *ast.Unknown:
		fgen.gen.tr.Printw("skip statement of unrecognized kind", "kind", old.Type)
		return nil
	default:
		panic(fmt.Errorf("support for statement %T not yet implemented", old))
	}
}

// lowerBlockStmt lowers the block statement to LLVM IR, emitting to f.
// Bindings of the block are confined to a new scope frame.
func (fgen *funcGen) lowerBlockStmt(old *ast.BlockStatement) error {
	outer := fgen.frame
	fgen.frame = fgen.gen.syms.push(outer, fgen.f)
	defer func() { fgen.frame = outer }()
	return fgen.lowerStmts(old.Body)
}

// lowerExprStmt lowers the expression statement to LLVM IR, emitting to f.
func (fgen *funcGen) lowerExprStmt(old *ast.ExpressionStatement) error {
	if call, ok := old.Expression.(*ast.CallExpression); ok {
		// Calls of void functions are valid in statement context.
		_, err := fgen.lowerCallExpr(call)
		return err
	}
	_, err := fgen.lowerExpr(old.Expression)
	return err
}

// lowerConstDecl lowers the constant declaration to LLVM IR, emitting to f,
// and returns the bound value. The name is bound to the value itself;
// constants are aliases, not copies.
func (fgen *funcGen) lowerConstDecl(old *ast.ConstantDeclaration) (value.Value, error) {
	name := old.ID.Name
	v, err := fgen.lowerExpr(old.Value)
	if err != nil {
		return nil, errors.Wrapf(err, "constant %q", name)
	}
	if len(old.ValueType) > 0 {
		typ, err := fgen.gen.irType(old.ValueType)
		if err != nil {
			return nil, errors.Wrapf(err, "constant %q", name)
		}
		if !types.Equal(typ, v.Type()) {
			return nil, fgen.gen.Errorf(ErrTypeMismatch, "constant %q declared as %v, got value of type %v", name, typ, v.Type())
		}
	}
	if err := fgen.define(name, v); err != nil {
		return nil, errors.WithStack(err)
	}
	return v, nil
}

// lowerReturnStmt lowers the return statement to LLVM IR, emitting to f.
func (fgen *funcGen) lowerReturnStmt(old *ast.ReturnStatement) error {
	if fgen.entry {
		// The returned value becomes the result of the program.
		if old.Argument == nil {
			return fgen.gen.Errorf(ErrTypeMismatch, "program must return a value")
		}
		result, err := fgen.lowerExpr(old.Argument)
		if err != nil {
			return errors.WithStack(err)
		}
		return fgen.emitEntryRet(result)
	}
	retType := fgen.f.Sig.RetType
	if old.Argument == nil {
		// void return.
		if !isVoid(retType) {
			return fgen.gen.Errorf(ErrTypeMismatch, "function %q must return a value of type %v", fgen.f.Name(), retType)
		}
		fgen.cur.NewRet(nil)
		return nil
	}
	// single return value.
	x, err := fgen.lowerExpr(old.Argument)
	if err != nil {
		return errors.WithStack(err)
	}
	if !types.Equal(x.Type(), retType) {
		return fgen.gen.Errorf(ErrTypeMismatch, "function %q returns %v, got value of type %v", fgen.f.Name(), retType, x.Type())
	}
	fgen.cur.NewRet(x)
	return nil
}
