// Package ast declares the types used to represent syntax trees handed to the
// code generator by the front-end parser.
//
// The set of node types is closed. Statement nodes implement Stmt and
// expression nodes implement Expr; a call expression implements both, as it
// may appear directly in a statement list.
package ast

// Node kinds, as stored in the "type" field of the serialized tree.
const (
	KindProgram             = "Program"
	KindBlockStatement      = "BlockStatement"
	KindExpressionStatement = "ExpressionStatement"
	KindFunctionDeclaration = "FunctionDeclaration"
	KindConstantDeclaration = "ConstantDeclaration"
	// Alternative spelling of KindConstantDeclaration.
	KindConstantDefinition = "ConstantDefinition"
	KindReturnStatement    = "ReturnStatement"
	KindIdentifier         = "Identifier"
	KindStringLiteral      = "StringLiteral"
	KindNumericLiteral     = "NumericLiteral"
	KindBooleanLiteral     = "BooleanLiteral"
	KindCallExpression     = "CallExpression"
	KindBinaryExpression   = "BinaryExpression"
)

// Node is a node of the syntax tree.
type Node interface {
	// Kind returns the kind tag of the node.
	Kind() string
}

// Stmt is a node valid where a statement is expected.
type Stmt interface {
	Node
	isStmt()
}

// Expr is a node valid where an expression is expected.
type Expr interface {
	Node
	isExpr()
}

// === [ Statements ] ==========================================================

// Program is the root of the syntax tree.
type Program struct {
	// Top-level statements in source order.
	Body []Stmt
}

// BlockStatement is a braced list of statements.
type BlockStatement struct {
	Body []Stmt
}

// ExpressionStatement is an expression evaluated for its side effects.
type ExpressionStatement struct {
	Expression Expr
}

// FunctionDeclaration declares a function, and defines it if Body is non-nil.
type FunctionDeclaration struct {
	// Function name.
	ID *Identifier
	// Function parameters.
	Params []*Param
	// Return type annotation; empty for void.
	ReturnType string
	// Function body; nil for declarations.
	Body *BlockStatement
}

// Param is a function parameter.
type Param struct {
	// Parameter name; may be empty.
	Name string
	// Type annotation.
	ValueType string
}

// ConstantDeclaration binds the value of an expression to a name.
type ConstantDeclaration struct {
	ID *Identifier
	// Optional type annotation.
	ValueType string
	Value     Expr
}

// ReturnStatement returns from the enclosing function.
type ReturnStatement struct {
	// Returned value; nil for void returns.
	Argument Expr
}

// === [ Expressions ] =========================================================

// Identifier is a reference to a named entity.
type Identifier struct {
	Name string
}

// StringLiteral is a string constant.
type StringLiteral struct {
	Value string
}

// NumericLiteral is a numeric constant.
type NumericLiteral struct {
	Value float64
}

// BooleanLiteral is a boolean constant.
type BooleanLiteral struct {
	Value bool
}

// CallExpression calls a named function.
type CallExpression struct {
	Callee    *Identifier
	Arguments []Expr
}

// BinaryExpression applies a binary operator to two operands.
type BinaryExpression struct {
	// Operator token, e.g. "+" or "===".
	Operator string
	Left     Expr
	Right    Expr
}

// Unknown is a node of unrecognized kind. It is only produced by a lenient
// Decoder.
type Unknown struct {
	Type string
}

// Kind returns the kind tag of the node.
func (*Program) Kind() string { return KindProgram }

// Kind returns the kind tag of the node.
func (*BlockStatement) Kind() string { return KindBlockStatement }

// Kind returns the kind tag of the node.
func (*ExpressionStatement) Kind() string { return KindExpressionStatement }

// Kind returns the kind tag of the node.
func (*FunctionDeclaration) Kind() string { return KindFunctionDeclaration }

// Kind returns the kind tag of the node.
func (*ConstantDeclaration) Kind() string { return KindConstantDeclaration }

// Kind returns the kind tag of the node.
func (*ReturnStatement) Kind() string { return KindReturnStatement }

// Kind returns the kind tag of the node.
func (*Identifier) Kind() string { return KindIdentifier }

// Kind returns the kind tag of the node.
func (*StringLiteral) Kind() string { return KindStringLiteral }

// Kind returns the kind tag of the node.
func (*NumericLiteral) Kind() string { return KindNumericLiteral }

// Kind returns the kind tag of the node.
func (*BooleanLiteral) Kind() string { return KindBooleanLiteral }

// Kind returns the kind tag of the node.
func (*CallExpression) Kind() string { return KindCallExpression }

// Kind returns the kind tag of the node.
func (*BinaryExpression) Kind() string { return KindBinaryExpression }

// Kind returns the kind tag of the node.
func (n *Unknown) Kind() string { return n.Type }

func (*BlockStatement) isStmt()      {}
func (*ExpressionStatement) isStmt() {}
func (*FunctionDeclaration) isStmt() {}
func (*ConstantDeclaration) isStmt() {}
func (*ReturnStatement) isStmt()     {}
func (*CallExpression) isStmt()      {}
func (*Unknown) isStmt()             {}

func (*Identifier) isExpr()       {}
func (*StringLiteral) isExpr()    {}
func (*NumericLiteral) isExpr()   {}
func (*BooleanLiteral) isExpr()   {}
func (*CallExpression) isExpr()   {}
func (*BinaryExpression) isExpr() {}
func (*Unknown) isExpr()          {}
