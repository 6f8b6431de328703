package lower

import "github.com/pkg/errors"

// Errors reported during lowering. Returned errors wrap one of these and may
// be matched with errors.Is.
var (
	// ErrUnboundIdentifier is returned for references to names that are not
	// in scope, including calls to undeclared functions.
	ErrUnboundIdentifier = errors.New("unbound identifier")
	// ErrUnresolvedType is returned for unknown type annotations.
	ErrUnresolvedType = errors.New("unresolved type")
	// ErrDuplicateFunctionBody is returned when a function is defined twice.
	ErrDuplicateFunctionBody = errors.New("duplicate function body")
	// ErrSignatureMismatch is returned when a function is redeclared with a
	// different signature.
	ErrSignatureMismatch = errors.New("function signature mismatch")
	// ErrArgumentMismatch is returned when the arguments of a call do not
	// match the parameters of the callee.
	ErrArgumentMismatch = errors.New("argument mismatch")
	// ErrTypeMismatch is returned when a value does not have the expected
	// type.
	ErrTypeMismatch = errors.New("type mismatch")
	// ErrVoidValue is returned when the result of a void call is used as a
	// value.
	ErrVoidValue = errors.New("void value used as value")
	// ErrMissingReturn is returned when a non-void function body may end
	// without returning a value.
	ErrMissingReturn = errors.New("missing return")
	// ErrRedefinition is returned when a name is bound twice in one scope.
	ErrRedefinition = errors.New("redefinition")
	// ErrUnsupportedOperator is returned for unknown binary operators.
	ErrUnsupportedOperator = errors.New("unsupported operator")
	// ErrUnreachableCode is returned for statements following a return
	// statement in the same block.
	ErrUnreachableCode = errors.New("unreachable code")
	// ErrInvalidModule is returned when the generated module fails
	// verification.
	ErrInvalidModule = errors.New("invalid module")
)

// Errorf formats according to a format specifier and returns the string as a
// value that satisfies error, wrapping the sentinel error kind. The error is
// logged to the span of the current lowering pass.
func (gen *Generator) Errorf(kind error, format string, a ...interface{}) error {
	err := errorf(kind, format, a...)
	gen.tr.Printw("lowering error", "err", err)
	return err
}

// errorf wraps the sentinel error kind with the formatted message.
func errorf(kind error, format string, a ...interface{}) error {
	return errors.Wrapf(kind, format, a...)
}
