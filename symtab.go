package main

// BaseType is the word/byte distinction packed into var_t.type bits 0-3.
type BaseType int

const (
	TypeWord BaseType = iota
	TypeByte
)

// VarKind distinguishes a plain scalar from an array, and — replacing the
// tagged-pointer "length==-1 means indirect" trick the reference model
// uses — gives borrowed (pass-by-reference) arrays their own explicit
// variant instead of a sentinel length.
type VarKind int

const (
	KindScalar VarKind = iota
	KindOwnedArray
	KindBorrowedArray
)

// identPrefixLen/subPrefixLen are the "first N characters significant"
// truncation lengths: 4 for variable names, 8 for subroutine
// names. Two distinct source names that share this prefix alias the same
// storage slot — this is a documented language quirk, not a bug, so it is
// preserved rather than "fixed".
const (
	identPrefixLen = 4
	subPrefixLen   = 8
)

func truncateName(name string, n int) string {
	if len(name) <= n {
		return name
	}
	return name[:n]
}

// Variable is the var_t record. Scalars use Value (an interpreted
// value, or, in compile mode, the address of the runtime cell — absolute
// for globals, a signed frame-relative offset for locals, distinguished by
// IsLocal). Arrays use ArrayAddr/ArrayLen; a KindBorrowedArray's ArrayAddr
// is the address of a pointer-to-body rather than the body itself,
// requiring one extra indirection on every access.
type Variable struct {
	Name    string
	key     string
	Base    BaseType
	Kind    VarKind
	Const   bool
	IsLocal bool // compile mode only: Value/ArrayAddr are frame-relative offsets from FP

	Value     int // scalar value (interpret) or cell address (compile)
	ArrayAddr int // array body pointer, or pointer-to-body if KindBorrowedArray
	ArrayLen  int // element count; for a borrowed array, the caller's count in interpret mode, 0 in compile mode
}

func (v *Variable) isArray() bool { return v.Kind != KindScalar }

// SymbolTable is the linked list of in-scope variables, partitioned into lexical frames.
// The reference model threads frames through a sentinel record whose value
// slot holds the previous frame's tail pointer — a cyclic-reference trick
// flagged in the reference model's own design notes as something "should be replaced by an
// explicit frame stack of (name, tail-snapshot) pairs". That is exactly
// what frameStarts does here: it is the index into vars at which the
// current frame began, so popping a frame is a slice truncation.
type SymbolTable struct {
	vars        []*Variable
	frameStarts []int
	onCollision func(name, hit string)
}

// PushFrame opens a new lexical frame (subroutine call, or the single
// global frame at startup).
func (st *SymbolTable) PushFrame() {
	st.frameStarts = append(st.frameStarts, len(st.vars))
}

// PopFrame closes the most recently pushed frame, discarding every
// variable defined in it, and returns them. Arena storage of popped
// arrays is not released here.
func (st *SymbolTable) PopFrame() []*Variable {
	n := len(st.frameStarts)
	start := st.frameStarts[n-1]
	st.frameStarts = st.frameStarts[:n-1]
	popped := st.vars[start:]
	st.vars = st.vars[:start]
	return popped
}

// Depth reports how many frames are currently open (1 for just the global
// frame).
func (st *SymbolTable) Depth() int { return len(st.frameStarts) }

func (st *SymbolTable) currentFrameStart() int {
	if len(st.frameStarts) == 0 {
		return 0
	}
	return st.frameStarts[len(st.frameStarts)-1]
}

// Define adds v to the current frame. Redefining a name already present in
// the current frame (by truncated-prefix comparison) is an error.
func (st *SymbolTable) Define(v *Variable) *langError {
	key := truncateName(v.Name, identPrefixLen)
	start := st.currentFrameStart()
	for _, ex := range st.vars[start:] {
		if ex.key == key {
			return errf(ErrRedefined, 0, "%s", v.Name)
		}
	}
	v.key = key
	st.vars = append(st.vars, v)
	return nil
}

// All returns every variable currently in scope, innermost frame last, for
// dump/inspection use (dump.go) — not used by lookup itself, which walks
// st.vars directly.
func (st *SymbolTable) All() []*Variable { return st.vars }

// Lookup searches the current frame first; if not found and
// localOnly is false, search continues outward through enclosing frames to
// the global frame. localOnly stops the search at the current frame's
// start (Define does its own same-frame check and does not call Lookup).
func (st *SymbolTable) Lookup(name string, localOnly bool) *Variable {
	key := truncateName(name, identPrefixLen)
	start := 0
	if localOnly {
		start = st.currentFrameStart()
	}
	for i := len(st.vars) - 1; i >= start; i-- {
		if st.vars[i].key == key {
			if st.onCollision != nil && st.vars[i].Name != name {
				st.onCollision(name, st.vars[i].Name)
			}
			return st.vars[i]
		}
	}
	return nil
}
