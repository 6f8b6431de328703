package lower

import (
	"fmt"
	"strings"

	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/enum"
	"github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"
	"github.com/pkg/errors"

	"github.com/NilsRamstoeck/learning-llvm/ast"
)

// lowerExpr lowers the expression to LLVM IR, emitting to f.
func (fgen *funcGen) lowerExpr(old ast.Expr) (value.Value, error) {
	fgen.gen.tr.V("lower").Printw("lower expression", "kind", old.Kind(), "func", fgen.f.Name())
	switch old := old.(type) {
	case *ast.Identifier:
		return fgen.lowerIdent(old)
	case *ast.StringLiteral:
		return fgen.gen.lowerStringLit(old), nil
	case *ast.NumericLiteral:
		return constant.NewFloat(types.Double, old.Value), nil
	case *ast.BooleanLiteral:
		if old.Value {
			return constant.True, nil
		}
		return constant.False, nil
	case *ast.CallExpression:
		call, err := fgen.lowerCallExpr(old)
		if err != nil {
			return nil, errors.WithStack(err)
		}
		if isVoid(call.Type()) {
			return nil, fgen.gen.Errorf(ErrVoidValue, "call to void function %q", old.Callee.Name)
		}
		return call, nil
	case *ast.BinaryExpression:
		return fgen.lowerBinaryExpr(old)
	case *ast.Unknown:
		return nil, fgen.gen.Errorf(ErrTypeMismatch, "expression of unrecognized kind %q has no value", old.Type)
	default:
		panic(fmt.Errorf("support for expression %T not yet implemented", old))
	}
}

// lowerIdent lowers the identifier to the value bound to its name.
// Functions not shadowed by a binding evaluate to their address.
func (fgen *funcGen) lowerIdent(old *ast.Identifier) (value.Value, error) {
	name := old.Name
	v, owner, ok := fgen.gen.syms.lookup(fgen.frame, name)
	if !ok {
		if f, ok := fgen.gen.funcs[name]; ok {
			return f, nil
		}
		return nil, fgen.gen.Errorf(ErrUnboundIdentifier, "unable to locate %q; in scope: %s", name, strings.Join(fgen.gen.syms.names(fgen.frame), ", "))
	}
	// Local values may only be referenced from the function defining them.
	if _, ok := v.(constant.Constant); !ok && owner != fgen.f {
		return nil, fgen.gen.Errorf(ErrUnboundIdentifier, "%q is local to function %q and cannot be referenced from %q", name, owner.Name(), fgen.f.Name())
	}
	return v, nil
}

// strPrefix is the name of the first string literal global, and the prefix
// of the others. Function names may not start with it.
const strPrefix = ".str"

// lowerStringLit lowers the string literal to a pointer to a new private
// global holding the NUL-terminated contents of the string.
func (gen *Generator) lowerStringLit(old *ast.StringLiteral) value.Value {
	name := strPrefix
	if gen.nstrings > 0 {
		name = fmt.Sprintf("%s.%d", strPrefix, gen.nstrings)
	}
	gen.nstrings++
	init := constant.NewCharArrayFromString(old.Value + "\x00")
	g := gen.m.NewGlobalDef(name, init)
	g.Immutable = true
	g.Linkage = enum.LinkagePrivate
	g.UnnamedAddr = enum.UnnamedAddrUnnamedAddr
	zero := constant.NewInt(types.I64, 0)
	ptr := constant.NewGetElementPtr(init.Typ, g, zero, zero)
	ptr.InBounds = true
	return ptr
}

// lowerCallExpr lowers the call expression to LLVM IR, emitting to f.
// Arguments are evaluated from left to right before the call.
func (fgen *funcGen) lowerCallExpr(old *ast.CallExpression) (*ir.InstCall, error) {
	funcName := old.Callee.Name
	callee, ok := fgen.gen.funcs[funcName]
	if !ok {
		return nil, fgen.gen.Errorf(ErrUnboundIdentifier, "call to undeclared function %q", funcName)
	}
	sig := callee.Sig
	switch {
	case len(old.Arguments) < len(sig.Params),
		len(old.Arguments) > len(sig.Params) && !sig.Variadic:
		return nil, fgen.gen.Errorf(ErrArgumentMismatch, "call to %q with %d arguments; expected %d", funcName, len(old.Arguments), len(sig.Params))
	}
	var args []value.Value
	for i, oldArg := range old.Arguments {
		arg, err := fgen.lowerExpr(oldArg)
		if err != nil {
			return nil, errors.Wrapf(err, "call to %q: argument %d", funcName, i)
		}
		if i < len(sig.Params) && !types.Equal(arg.Type(), sig.Params[i]) {
			return nil, fgen.gen.Errorf(ErrArgumentMismatch, "call to %q: argument %d has type %v; expected %v", funcName, i, arg.Type(), sig.Params[i])
		}
		args = append(args, arg)
	}
	return fgen.cur.NewCall(callee, args...), nil
}

// lowerBinaryExpr lowers the binary expression to LLVM IR, emitting to f.
func (fgen *funcGen) lowerBinaryExpr(old *ast.BinaryExpression) (value.Value, error) {
	x, err := fgen.lowerExpr(old.Left)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	y, err := fgen.lowerExpr(old.Right)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	t := x.Type()
	if !types.Equal(t, y.Type()) {
		return nil, fgen.gen.Errorf(ErrTypeMismatch, "mismatched operand types to '%s' binary expression; %v and %v", old.Operator, t, y.Type())
	}
	invalid := func(expected string) error {
		return fgen.gen.Errorf(ErrTypeMismatch, "invalid operand type to '%s' binary expression; expected %s, got %v", old.Operator, expected, t)
	}
	switch old.Operator {
	// Binary operations.
	case "+":
		switch {
		case isInt(t):
			return fgen.cur.NewAdd(x, y), nil
		case isFloat(t):
			return fgen.cur.NewFAdd(x, y), nil
		}
		return nil, invalid("integer or floating-point type")
	case "-":
		switch {
		case isInt(t):
			return fgen.cur.NewSub(x, y), nil
		case isFloat(t):
			return fgen.cur.NewFSub(x, y), nil
		}
		return nil, invalid("integer or floating-point type")
	case "*":
		switch {
		case isInt(t):
			return fgen.cur.NewMul(x, y), nil
		case isFloat(t):
			return fgen.cur.NewFMul(x, y), nil
		}
		return nil, invalid("integer or floating-point type")
	case "/":
		switch {
		case isInt(t):
			return fgen.cur.NewSDiv(x, y), nil
		case isFloat(t):
			return fgen.cur.NewFDiv(x, y), nil
		}
		return nil, invalid("integer or floating-point type")
	case "%":
		switch {
		case isInt(t):
			return fgen.cur.NewSRem(x, y), nil
		case isFloat(t):
			return fgen.cur.NewFRem(x, y), nil
		}
		return nil, invalid("integer or floating-point type")
	// Bitwise operations.
	case "<<":
		if !isInt(t) {
			return nil, invalid("integer type")
		}
		return fgen.cur.NewShl(x, y), nil
	case ">>":
		if !isInt(t) {
			return nil, invalid("integer type")
		}
		return fgen.cur.NewAShr(x, y), nil
	case ">>>":
		if !isInt(t) {
			return nil, invalid("integer type")
		}
		return fgen.cur.NewLShr(x, y), nil
	case "&":
		if !isInt(t) {
			return nil, invalid("integer type")
		}
		return fgen.cur.NewAnd(x, y), nil
	case "|":
		if !isInt(t) {
			return nil, invalid("integer type")
		}
		return fgen.cur.NewOr(x, y), nil
	case "^":
		if !isInt(t) {
			return nil, invalid("integer type")
		}
		return fgen.cur.NewXor(x, y), nil
	// Logical operations.
	case "&&":
		if !isBool(t) {
			return nil, invalid("boolean type")
		}
		return fgen.cur.NewAnd(x, y), nil
	case "||":
		if !isBool(t) {
			return nil, invalid("boolean type")
		}
		return fgen.cur.NewOr(x, y), nil
	// Relational operations.
	case "==", "===":
		return fgen.lowerCmp(x, y, enum.IPredEQ, enum.FPredOEQ)
	case "!=", "!==":
		return fgen.lowerCmp(x, y, enum.IPredNE, enum.FPredUNE)
	case "<":
		return fgen.lowerCmp(x, y, enum.IPredSLT, enum.FPredOLT)
	case "<=":
		return fgen.lowerCmp(x, y, enum.IPredSLE, enum.FPredOLE)
	case ">":
		return fgen.lowerCmp(x, y, enum.IPredSGT, enum.FPredOGT)
	case ">=":
		return fgen.lowerCmp(x, y, enum.IPredSGE, enum.FPredOGE)
	default:
		return nil, fgen.gen.Errorf(ErrUnsupportedOperator, "support for '%s' binary expression not yet implemented", old.Operator)
	}
}

// lowerCmp emits a comparison of the operands x and y of identical type,
// using ipred for integer, boolean and pointer operands and fpred for
// floating-point operands.
func (fgen *funcGen) lowerCmp(x, y value.Value, ipred enum.IPred, fpred enum.FPred) (value.Value, error) {
	switch t := x.Type().(type) {
	case *types.IntType, *types.PointerType:
		return fgen.cur.NewICmp(ipred, x, y), nil
	case *types.FloatType:
		return fgen.cur.NewFCmp(fpred, x, y), nil
	default:
		return nil, fgen.gen.Errorf(ErrTypeMismatch, "invalid operand type to comparison; expected integer, floating-point or pointer type, got %v", t)
	}
}
