package ast

import (
	"bytes"
	"encoding/json"
	"os"

	"github.com/pkg/errors"
)

var (
	// ErrUnrecognizedNodeKind is returned for nodes whose kind is empty,
	// unknown, or not valid in the category (statement or expression) where
	// the node appears.
	ErrUnrecognizedNodeKind = errors.New("unrecognized node kind")
	// ErrMalformedTree is returned when a required field is missing or holds
	// a value of the wrong shape.
	ErrMalformedTree = errors.New("malformed tree")
)

// A Decoder decodes serialized syntax trees.
type Decoder struct {
	// Lenient makes the decoder produce *Unknown nodes for unrecognized node
	// kinds instead of failing.
	Lenient bool
}

// Decode decodes the serialized syntax tree in data.
func Decode(data []byte) (*Program, error) {
	var d Decoder
	return d.Decode(data)
}

// ReadFile reads and decodes the serialized syntax tree stored at path.
func (d *Decoder) ReadFile(path string) (*Program, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	prog, err := d.Decode(data)
	if err != nil {
		return nil, errors.Wrapf(err, "unable to decode %q", path)
	}
	return prog, nil
}

// Decode decodes the serialized syntax tree in data. The root node must be a
// Program.
func (d *Decoder) Decode(data []byte) (*Program, error) {
	obj, err := parseObject(data)
	if err != nil {
		return nil, errors.Wrap(err, "root")
	}
	if kind := obj.kind(); kind != KindProgram {
		return nil, errors.Wrapf(ErrUnrecognizedNodeKind, "root node: expected %q, got %q", KindProgram, kind)
	}
	body, err := d.stmts(obj, "body")
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return &Program{Body: body}, nil
}

// object is a generic labeled node: the kind tag plus named fields.
type object map[string]json.RawMessage

// parseObject parses data as a JSON object.
func parseObject(data []byte) (object, error) {
	var obj object
	if err := json.Unmarshal(data, &obj); err != nil {
		return nil, errors.Wrapf(ErrMalformedTree, "expected node object; %v", err)
	}
	if obj == nil {
		return nil, errors.Wrap(ErrMalformedTree, "expected node object, got null")
	}
	return obj, nil
}

// kind returns the kind tag of the node, or the empty string if absent.
func (obj object) kind() string {
	var kind string
	if raw, ok := obj["type"]; ok {
		// A non-string kind tag is treated like an absent one.
		_ = json.Unmarshal(raw, &kind)
	}
	return kind
}

// has reports whether the node has a non-null field of the given name.
func (obj object) has(name string) bool {
	raw, ok := obj[name]
	return ok && !bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

// field decodes the required field of the given name into v.
func (obj object) field(name string, v interface{}) error {
	if !obj.has(name) {
		return errors.Wrapf(ErrMalformedTree, "%s: missing field %q", obj.kind(), name)
	}
	if err := json.Unmarshal(obj[name], v); err != nil {
		return errors.Wrapf(ErrMalformedTree, "%s: invalid field %q; %v", obj.kind(), name, err)
	}
	return nil
}

// optField decodes the optional field of the given name into v, leaving v
// untouched if the field is absent.
func (obj object) optField(name string, v interface{}) error {
	if !obj.has(name) {
		return nil
	}
	return obj.field(name, v)
}

// child returns the required child node stored in the given field.
func (obj object) child(name string) (object, error) {
	var raw json.RawMessage
	if err := obj.field(name, &raw); err != nil {
		return nil, err
	}
	child, err := parseObject(raw)
	if err != nil {
		return nil, errors.Wrapf(err, "%s.%s", obj.kind(), name)
	}
	return child, nil
}

// children returns the ordered child nodes stored in the given field.
func (obj object) children(name string) ([]object, error) {
	var raws []json.RawMessage
	if err := obj.field(name, &raws); err != nil {
		return nil, err
	}
	var objs []object
	for i, raw := range raws {
		child, err := parseObject(raw)
		if err != nil {
			return nil, errors.Wrapf(err, "%s.%s[%d]", obj.kind(), name, i)
		}
		objs = append(objs, child)
	}
	return objs, nil
}

// unknown returns an *Unknown node for obj if the decoder is lenient, and
// an ErrUnrecognizedNodeKind error otherwise.
func (d *Decoder) unknown(obj object, category string) (*Unknown, error) {
	kind := obj.kind()
	if !d.Lenient {
		return nil, errors.Wrapf(ErrUnrecognizedNodeKind, "%s %q", category, kind)
	}
	return &Unknown{Type: kind}, nil
}

// === [ Statements ] ==========================================================

// stmts decodes the statement list stored in the given field.
func (d *Decoder) stmts(obj object, name string) ([]Stmt, error) {
	objs, err := obj.children(name)
	if err != nil {
		return nil, err
	}
	var stmts []Stmt
	for i, o := range objs {
		stmt, err := d.stmt(o)
		if err != nil {
			return nil, errors.Wrapf(err, "%s.%s[%d]", obj.kind(), name, i)
		}
		stmts = append(stmts, stmt)
	}
	return stmts, nil
}

// stmt decodes the given statement node.
func (d *Decoder) stmt(obj object) (Stmt, error) {
	switch obj.kind() {
	case KindBlockStatement:
		return d.blockStmt(obj)
	case KindExpressionStatement:
		x, err := d.childExpr(obj, "expression")
		if err != nil {
			return nil, err
		}
		return &ExpressionStatement{Expression: x}, nil
	case KindFunctionDeclaration:
		return d.funcDecl(obj)
	case KindConstantDeclaration, KindConstantDefinition:
		return d.constDecl(obj)
	case KindReturnStatement:
		ret := &ReturnStatement{}
		if obj.has("argument") {
			x, err := d.childExpr(obj, "argument")
			if err != nil {
				return nil, err
			}
			ret.Argument = x
		}
		return ret, nil
	case KindCallExpression:
		return d.callExpr(obj)
	default:
		return d.unknown(obj, "statement")
	}
}

// blockStmt decodes the given block statement node.
func (d *Decoder) blockStmt(obj object) (*BlockStatement, error) {
	body, err := d.stmts(obj, "body")
	if err != nil {
		return nil, err
	}
	return &BlockStatement{Body: body}, nil
}

// funcDecl decodes the given function declaration node.
func (d *Decoder) funcDecl(obj object) (*FunctionDeclaration, error) {
	id, err := d.childIdent(obj, "id")
	if err != nil {
		return nil, err
	}
	decl := &FunctionDeclaration{ID: id}
	// Parameters.
	if obj.has("params") {
		objs, err := obj.children("params")
		if err != nil {
			return nil, err
		}
		for i, o := range objs {
			param := &Param{}
			if err := o.optField("name", &param.Name); err != nil {
				return nil, errors.Wrapf(err, "%s.params[%d]", id.Name, i)
			}
			if err := o.field("valueType", &param.ValueType); err != nil {
				return nil, errors.Wrapf(err, "%s.params[%d]", id.Name, i)
			}
			decl.Params = append(decl.Params, param)
		}
	}
	// Return type.
	if err := obj.optField("returnType", &decl.ReturnType); err != nil {
		return nil, err
	}
	// Function body.
	if obj.has("body") {
		o, err := obj.child("body")
		if err != nil {
			return nil, err
		}
		if kind := o.kind(); kind != KindBlockStatement {
			return nil, errors.Wrapf(ErrUnrecognizedNodeKind, "%s body: expected %q, got %q", id.Name, KindBlockStatement, kind)
		}
		body, err := d.blockStmt(o)
		if err != nil {
			return nil, errors.Wrapf(err, "%s body", id.Name)
		}
		decl.Body = body
	}
	return decl, nil
}

// constDecl decodes the given constant declaration node.
func (d *Decoder) constDecl(obj object) (*ConstantDeclaration, error) {
	id, err := d.childIdent(obj, "id")
	if err != nil {
		return nil, err
	}
	decl := &ConstantDeclaration{ID: id}
	if err := obj.optField("valueType", &decl.ValueType); err != nil {
		return nil, err
	}
	x, err := d.childExpr(obj, "value")
	if err != nil {
		return nil, errors.Wrapf(err, "constant %q", id.Name)
	}
	decl.Value = x
	return decl, nil
}

// === [ Expressions ] =========================================================

// childExpr decodes the required expression node stored in the given field.
func (d *Decoder) childExpr(obj object, name string) (Expr, error) {
	o, err := obj.child(name)
	if err != nil {
		return nil, err
	}
	return d.expr(o)
}

// childIdent decodes the required identifier node stored in the given field.
func (d *Decoder) childIdent(obj object, name string) (*Identifier, error) {
	o, err := obj.child(name)
	if err != nil {
		return nil, err
	}
	// The kind tag of identifiers may be omitted.
	if kind := o.kind(); kind != "" && kind != KindIdentifier {
		return nil, errors.Wrapf(ErrUnrecognizedNodeKind, "%s.%s: expected %q, got %q", obj.kind(), name, KindIdentifier, kind)
	}
	return d.ident(o)
}

// expr decodes the given expression node.
func (d *Decoder) expr(obj object) (Expr, error) {
	switch obj.kind() {
	case KindIdentifier:
		return d.ident(obj)
	case KindStringLiteral:
		lit := &StringLiteral{}
		if err := obj.field("value", &lit.Value); err != nil {
			return nil, err
		}
		return lit, nil
	case KindNumericLiteral:
		lit := &NumericLiteral{}
		if err := obj.field("value", &lit.Value); err != nil {
			return nil, err
		}
		return lit, nil
	case KindBooleanLiteral:
		lit := &BooleanLiteral{}
		if err := obj.field("value", &lit.Value); err != nil {
			return nil, err
		}
		return lit, nil
	case KindCallExpression:
		return d.callExpr(obj)
	case KindBinaryExpression:
		bin := &BinaryExpression{}
		if err := obj.field("operator", &bin.Operator); err != nil {
			return nil, err
		}
		x, err := d.childExpr(obj, "left")
		if err != nil {
			return nil, err
		}
		y, err := d.childExpr(obj, "right")
		if err != nil {
			return nil, err
		}
		bin.Left, bin.Right = x, y
		return bin, nil
	default:
		return d.unknown(obj, "expression")
	}
}

// ident decodes the given identifier node.
func (d *Decoder) ident(obj object) (*Identifier, error) {
	ident := &Identifier{}
	if err := obj.field("name", &ident.Name); err != nil {
		return nil, err
	}
	if len(ident.Name) == 0 {
		return nil, errors.Wrap(ErrMalformedTree, "empty identifier name")
	}
	return ident, nil
}

// callExpr decodes the given call expression node.
func (d *Decoder) callExpr(obj object) (*CallExpression, error) {
	callee, err := d.childIdent(obj, "callee")
	if err != nil {
		return nil, err
	}
	call := &CallExpression{Callee: callee}
	if obj.has("arguments") {
		objs, err := obj.children("arguments")
		if err != nil {
			return nil, err
		}
		for i, o := range objs {
			arg, err := d.expr(o)
			if err != nil {
				return nil, errors.Wrapf(err, "call to %q: argument %d", callee.Name, i)
			}
			call.Arguments = append(call.Arguments, arg)
		}
	}
	return call, nil
}
