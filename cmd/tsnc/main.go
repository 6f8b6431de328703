// tsnc lowers the syntax tree produced by the front-end parser to LLVM IR
// assembly.
//
// The syntax tree is read from ./dist/ast.json, and the generated module is
// printed to standard output and written to ./dist/out.ll.
package main

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"nikand.dev/go/cli"
	"tlog.app/go/tlog"

	"github.com/NilsRamstoeck/learning-llvm/ast"
	"github.com/NilsRamstoeck/learning-llvm/lower"
)

const (
	// Path of the serialized syntax tree.
	astPath = "./dist/ast.json"
	// Path of the generated LLVM IR assembly.
	outPath = "./dist/out.ll"
	// Environment variable which, if set to a non-empty value, makes nodes of
	// unrecognized kind be skipped instead of rejected.
	lenientEnv = "TSNC_LENIENT"
)

func main() {
	app := &cli.Command{
		Name:        "tsnc",
		Description: "tsnc lowers the syntax tree in " + astPath + " to LLVM IR assembly in " + outPath,
		Action:      compileAct,
		Args:        cli.Args{},
	}

	cli.RunAndExit(app, os.Args, os.Environ())
}

func compileAct(c *cli.Command) error {
	if len(c.Args) != 0 {
		return errors.Errorf("unexpected arguments %q; tsnc reads %s", []string(c.Args), astPath)
	}

	ctx := context.Background()
	ctx = tlog.ContextWithSpan(ctx, tlog.Root())

	lenient := len(os.Getenv(lenientEnv)) > 0

	return compile(ctx, astPath, outPath, os.Stdout, lenient)
}

// compile lowers the syntax tree stored at astPath to an LLVM IR module,
// printing the module to w and writing it to outPath. Nothing is printed or
// written unless lowering succeeds.
func compile(ctx context.Context, astPath, outPath string, w io.Writer, lenient bool) error {
	d := &ast.Decoder{Lenient: lenient}
	prog, err := d.ReadFile(astPath)
	if err != nil {
		return errors.WithStack(err)
	}

	gen := lower.NewGenerator(lower.Config{SourceFilename: astPath})
	m, err := gen.Lower(ctx, prog)
	if err != nil {
		return errors.Wrapf(err, "lower %v", astPath)
	}

	var buf bytes.Buffer
	if err := lower.WriteModule(&buf, m); err != nil {
		return errors.WithStack(err)
	}
	if _, err := w.Write(buf.Bytes()); err != nil {
		return errors.WithStack(err)
	}

	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return errors.WithStack(err)
	}
	if err := os.WriteFile(outPath, buf.Bytes(), 0o644); err != nil {
		return errors.Wrapf(err, "write %v", outPath)
	}

	tlog.SpanFromContext(ctx).Printw("module written", "path", outPath, "funcs", len(m.Funcs), "globals", len(m.Globals))

	return nil
}
