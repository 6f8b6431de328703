package lower

import (
	"testing"

	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/types"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVerifyFunc(t *testing.T) {
	f := ir.NewFunc("f", types.I32, ir.NewParam("s", types.I8Ptr))
	require.NoError(t, verifyFunc(f))

	bad := ir.NewFunc("g", types.Void, ir.NewParam("", types.Void))
	err := verifyFunc(bad)
	assert.True(t, errors.Is(err, ErrInvalidModule), "got %+v", err)
}

func TestVerifyModule(t *testing.T) {
	m := ir.NewModule()
	callee := m.NewFunc("callee", types.Void)
	main := m.NewFunc("main", types.I32)
	entry := main.NewBlock("entry")
	entry.NewCall(callee)
	entry.NewRet(constant.NewInt(types.I32, 0))
	require.NoError(t, verifyModule(m))

	// Call to a function missing from the module.
	stray := ir.NewFunc("stray", types.Void)
	m2 := ir.NewModule()
	main2 := m2.NewFunc("main", types.I32)
	entry2 := main2.NewBlock("entry")
	entry2.NewCall(stray)
	entry2.NewRet(constant.NewInt(types.I32, 0))
	err := verifyModule(m2)
	assert.True(t, errors.Is(err, ErrInvalidModule), "got %+v", err)

	// Block without terminator.
	m3 := ir.NewModule()
	m3.NewFunc("main", types.I32).NewBlock("entry")
	err = verifyModule(m3)
	assert.True(t, errors.Is(err, ErrInvalidModule), "got %+v", err)
}

func TestVerifyModuleNames(t *testing.T) {
	// Functions and globals share the global name space.
	m := ir.NewModule()
	m.NewGlobalDef(".str", constant.NewCharArrayFromString("a\x00"))
	m.NewFunc(".str", types.Void)
	err := verifyModule(m)
	assert.True(t, errors.Is(err, ErrInvalidModule), "got %+v", err)

	// Parameters and blocks share the local name space.
	m = ir.NewModule()
	f := m.NewFunc("f", types.Double, ir.NewParam("entry", types.Double))
	f.NewBlock("entry").NewRet(f.Params[0])
	err = verifyModule(m)
	assert.True(t, errors.Is(err, ErrInvalidModule), "got %+v", err)

	// Duplicate parameters of a prototype.
	m = ir.NewModule()
	m.NewFunc("g", types.Void, ir.NewParam("x", types.I8Ptr), ir.NewParam("x", types.I8Ptr))
	err = verifyModule(m)
	assert.True(t, errors.Is(err, ErrInvalidModule), "got %+v", err)

	// Unnamed parameters are numbered and never clash.
	m = ir.NewModule()
	f = m.NewFunc("h", types.Double, ir.NewParam("", types.Double), ir.NewParam("", types.Double))
	f.NewBlock("entry").NewRet(f.Params[1])
	require.NoError(t, verifyModule(m))
}
