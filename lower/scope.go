package lower

import (
	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/value"
	"github.com/rickypai/natsort"
	"tlog.app/go/loc"
	"tlog.app/go/tlog"
)

// noFrame is the parent index of the global frame.
const noFrame = -1

// symtab is a symbol table made of an arena of scope frames. Frames are never
// freed; a frame outlives the block that created it but is unreachable once
// lowering leaves that block.
type symtab struct {
	frames []frame
}

// frame is a scope frame.
type frame struct {
	// Index of the enclosing frame, or noFrame.
	parent int
	// Function owning the local values bound in the frame.
	owner *ir.Func
	// Bindings from identifier to value.
	vars map[string]value.Value
}

// newSymtab returns a new symbol table holding the empty global frame, at
// index 0.
func newSymtab() *symtab {
	s := &symtab{}
	s.push(noFrame, nil)
	return s
}

// push adds a new frame with the given parent and owner, and returns its
// index.
func (s *symtab) push(parent int, owner *ir.Func) int {
	s.frames = append(s.frames, frame{
		parent: parent,
		owner:  owner,
		vars:   make(map[string]value.Value),
	})
	return len(s.frames) - 1
}

// define binds name to v in the given frame. Names bound in enclosing frames
// are shadowed; rebinding a name of the same frame is an error.
func (s *symtab) define(i int, name string, v value.Value) error {
	f := s.frames[i]
	if prev, ok := f.vars[name]; ok {
		return errorf(ErrRedefinition, "%q already defined in this scope; prev `%v`, new `%v`", name, prev.Ident(), v.Ident())
	}
	f.vars[name] = v
	tlog.V("scope").Printw("define", "name", name, "frame", i, "type", v.Type().String(), "from", loc.Caller(2))
	return nil
}

// lookup returns the value bound to name, searching from the given frame
// outwards, and the function owning the frame of the binding.
func (s *symtab) lookup(i int, name string) (value.Value, *ir.Func, bool) {
	for ; i != noFrame; i = s.frames[i].parent {
		f := s.frames[i]
		if v, ok := f.vars[name]; ok {
			return v, f.owner, true
		}
	}
	return nil, nil, false
}

// names returns the names visible from the given frame in natural order.
func (s *symtab) names(i int) []string {
	seen := make(map[string]bool)
	var names []string
	for ; i != noFrame; i = s.frames[i].parent {
		for name := range s.frames[i].vars {
			if !seen[name] {
				seen[name] = true
				names = append(names, name)
			}
		}
	}
	natsort.Strings(names)
	return names
}
