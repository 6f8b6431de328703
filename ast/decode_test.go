package ast

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const logProgram = `{
  "type": "Program",
  "body": [
    {
      "type": "FunctionDeclaration",
      "id": {"type": "Identifier", "name": "log"},
      "params": [{"type": "Identifier", "name": "msg", "valueType": "string"}]
    },
    {
      "type": "CallExpression",
      "callee": {"type": "Identifier", "name": "log"},
      "arguments": [{"type": "StringLiteral", "value": "hi"}]
    }
  ]
}`

func TestDecodeProgram(t *testing.T) {
	prog, err := Decode([]byte(logProgram))
	require.NoError(t, err)
	require.Len(t, prog.Body, 2)

	decl, ok := prog.Body[0].(*FunctionDeclaration)
	require.True(t, ok, "got %T", prog.Body[0])
	assert.Equal(t, "log", decl.ID.Name)
	assert.Equal(t, []*Param{{Name: "msg", ValueType: "string"}}, decl.Params)
	assert.Nil(t, decl.Body)

	call, ok := prog.Body[1].(*CallExpression)
	require.True(t, ok, "got %T", prog.Body[1])
	assert.Equal(t, "log", call.Callee.Name)
	assert.Equal(t, []Expr{&StringLiteral{Value: "hi"}}, call.Arguments)
}

func TestDecodeNested(t *testing.T) {
	const src = `{"type": "Program", "body": [
	  {"type": "FunctionDeclaration", "id": {"name": "twice"},
	   "params": [{"name": "x", "valueType": "number"}], "returnType": "number",
	   "body": {"type": "BlockStatement", "body": [
	     {"type": "ReturnStatement", "argument": {"type": "BinaryExpression", "operator": "+",
	       "left": {"type": "Identifier", "name": "x"}, "right": {"type": "Identifier", "name": "x"}}}
	   ]}},
	  {"type": "ConstantDefinition", "id": {"name": "ok"}, "valueType": "boolean",
	   "value": {"type": "BooleanLiteral", "value": true}},
	  {"type": "ExpressionStatement", "expression": {"type": "CallExpression",
	   "callee": {"name": "twice"}, "arguments": [{"type": "NumericLiteral", "value": 2.5}]}}
	]}`
	prog, err := Decode([]byte(src))
	require.NoError(t, err)
	require.Len(t, prog.Body, 3)

	decl := prog.Body[0].(*FunctionDeclaration)
	assert.Equal(t, "number", decl.ReturnType)
	require.NotNil(t, decl.Body)
	require.Len(t, decl.Body.Body, 1)
	ret := decl.Body.Body[0].(*ReturnStatement)
	assert.Equal(t, &BinaryExpression{
		Operator: "+",
		Left:     &Identifier{Name: "x"},
		Right:    &Identifier{Name: "x"},
	}, ret.Argument)

	assert.Equal(t, &ConstantDeclaration{
		ID:        &Identifier{Name: "ok"},
		ValueType: "boolean",
		Value:     &BooleanLiteral{Value: true},
	}, prog.Body[1])

	stmt := prog.Body[2].(*ExpressionStatement)
	assert.Equal(t, &CallExpression{
		Callee:    &Identifier{Name: "twice"},
		Arguments: []Expr{&NumericLiteral{Value: 2.5}},
	}, stmt.Expression)
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want error
	}{
		{"not an object", `[1, 2]`, ErrMalformedTree},
		{"null root", `null`, ErrMalformedTree},
		{"root kind", `{"type": "BlockStatement", "body": []}`, ErrUnrecognizedNodeKind},
		{"missing body", `{"type": "Program"}`, ErrMalformedTree},
		{"empty kind", `{"type": "Program", "body": [{}]}`, ErrUnrecognizedNodeKind},
		{"unknown kind", `{"type": "Program", "body": [{"type": "WhileStatement"}]}`, ErrUnrecognizedNodeKind},
		{"literal as statement", `{"type": "Program", "body": [{"type": "StringLiteral", "value": "x"}]}`, ErrUnrecognizedNodeKind},
		{"declaration as expression", `{"type": "Program", "body": [{"type": "CallExpression", "callee": {"name": "f"},
			"arguments": [{"type": "ReturnStatement"}]}]}`, ErrUnrecognizedNodeKind},
		{"missing callee", `{"type": "Program", "body": [{"type": "CallExpression", "arguments": []}]}`, ErrMalformedTree},
		{"missing value type", `{"type": "Program", "body": [{"type": "FunctionDeclaration", "id": {"name": "f"},
			"params": [{"name": "x"}]}]}`, ErrMalformedTree},
		{"wrong value shape", `{"type": "Program", "body": [{"type": "ConstantDeclaration", "id": {"name": "x"},
			"value": {"type": "NumericLiteral", "value": "one"}}]}`, ErrMalformedTree},
		{"callee kind", `{"type": "Program", "body": [{"type": "CallExpression",
			"callee": {"type": "StringLiteral", "value": "f"}}]}`, ErrUnrecognizedNodeKind},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := Decode([]byte(test.src))
			require.Error(t, err)
			assert.True(t, errors.Is(err, test.want), "got %+v", err)
		})
	}
}

func TestDecodeLenient(t *testing.T) {
	const src = `{"type": "Program", "body": [
	  {"type": "WhileStatement"},
	  {"type": "CallExpression", "callee": {"name": "f"}, "arguments": [{"type": "TemplateLiteral"}]}
	]}`
	d := &Decoder{Lenient: true}
	prog, err := d.Decode([]byte(src))
	require.NoError(t, err)
	require.Len(t, prog.Body, 2)
	assert.Equal(t, &Unknown{Type: "WhileStatement"}, prog.Body[0])
	call := prog.Body[1].(*CallExpression)
	assert.Equal(t, []Expr{&Unknown{Type: "TemplateLiteral"}}, call.Arguments)
}

func TestReadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ast.json")
	require.NoError(t, os.WriteFile(path, []byte(logProgram), 0o644))

	var d Decoder
	prog, err := d.ReadFile(path)
	require.NoError(t, err)
	assert.Len(t, prog.Body, 2)

	_, err = d.ReadFile(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}
