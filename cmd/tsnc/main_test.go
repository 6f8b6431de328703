package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NilsRamstoeck/learning-llvm/ast"
	"github.com/NilsRamstoeck/learning-llvm/lower"
)

func writeTree(t *testing.T, src string) (dir, astPath string) {
	t.Helper()
	dir = t.TempDir()
	astPath = filepath.Join(dir, "ast.json")
	require.NoError(t, os.WriteFile(astPath, []byte(src), 0o644))
	return dir, astPath
}

func TestCompile(t *testing.T) {
	const src = `{"type": "Program", "body": [
	  {"type": "FunctionDeclaration", "id": {"type": "Identifier", "name": "log"}, "params": [{"valueType": "string"}]},
	  {"type": "CallExpression", "callee": {"type": "Identifier", "name": "log"},
	   "arguments": [{"type": "StringLiteral", "value": "hi"}]}
	]}`
	dir, astPath := writeTree(t, src)
	outPath := filepath.Join(dir, "dist", "out.ll")

	var stdout bytes.Buffer
	err := compile(context.Background(), astPath, outPath, &stdout, false)
	require.NoError(t, err)

	out, err := os.ReadFile(outPath)
	require.NoError(t, err)
	assert.Equal(t, stdout.String(), string(out))
	assert.Contains(t, string(out), "define i32 @main()")
	assert.Contains(t, string(out), `c"hi\00"`)
	assert.Contains(t, string(out), "ret i32 0")
}

func TestCompileLenient(t *testing.T) {
	const src = `{"type": "Program", "body": [{"type": "WhileStatement"}]}`
	dir, astPath := writeTree(t, src)
	outPath := filepath.Join(dir, "out.ll")

	var stdout bytes.Buffer
	err := compile(context.Background(), astPath, outPath, &stdout, false)
	assert.True(t, errors.Is(err, ast.ErrUnrecognizedNodeKind), "got %+v", err)

	err = compile(context.Background(), astPath, outPath, &stdout, true)
	require.NoError(t, err)
	assert.Contains(t, stdout.String(), "ret i32 0")
}

func TestCompileUndeclaredCallee(t *testing.T) {
	const src = `{"type": "Program", "body": [
	  {"type": "CallExpression", "callee": {"name": "log"}, "arguments": []}
	]}`
	dir, astPath := writeTree(t, src)
	outPath := filepath.Join(dir, "out.ll")

	var stdout bytes.Buffer
	err := compile(context.Background(), astPath, outPath, &stdout, false)
	require.Error(t, err)
	assert.True(t, errors.Is(err, lower.ErrUnboundIdentifier), "got %+v", err)

	// Nothing is produced on failure.
	assert.Zero(t, stdout.Len())
	_, err = os.Stat(outPath)
	assert.True(t, os.IsNotExist(err), "got %v", err)
}
