package lower

import (
	"github.com/llir/llvm/ir"
	"github.com/pkg/errors"

	"github.com/NilsRamstoeck/learning-llvm/ast"
)

// irParams returns the LLVM IR parameters based on the given parameter list.
// Parameter names must be unique. A parameter named like the entry block
// label is left unnamed in the IR; bodies bind parameters by position.
func (gen *Generator) irParams(old []*ast.Param) ([]*ir.Param, error) {
	var params []*ir.Param
	seen := make(map[string]bool)
	for i, oldParam := range old {
		name := oldParam.Name
		if len(name) > 0 {
			if seen[name] {
				return nil, gen.Errorf(ErrRedefinition, "parameter %d: duplicate parameter name %q", i, name)
			}
			seen[name] = true
		}
		if name == entryBlockName {
			name = ""
		}
		typ, err := gen.irType(oldParam.ValueType)
		if err != nil {
			return nil, errors.Wrapf(err, "parameter %d", i)
		}
		if isVoid(typ) {
			return nil, gen.Errorf(ErrTypeMismatch, "parameter %d: invalid parameter type %v", i, typ)
		}
		// Unnamed parameters are assigned local IDs when printed.
		params = append(params, ir.NewParam(name, typ))
	}
	return params, nil
}
