package main

// CodeBuffer is Arena-C: a flat, append-only byte buffer holding compiled
// bytecode. Unlike the word-oriented Arena used for variable storage,
// code is inherently byte-addressed wire format, so it is its own small
// bump allocator rather than a generic Arena instance.
type CodeBuffer struct {
	bytes []byte
}

func (cb *CodeBuffer) Len() uint     { return uint(len(cb.bytes)) }
func (cb *CodeBuffer) Bytes() []byte { return cb.bytes }

// Emit appends a bare (no-operand) opcode and returns its address.
func (cb *CodeBuffer) Emit(op Opcode) uint {
	addr := uint(len(cb.bytes))
	cb.bytes = append(cb.bytes, byte(op))
	return addr
}

// EmitImm appends an opcode with its 16-bit little-endian operand already
// known, returning the opcode's address.
func (cb *CodeBuffer) EmitImm(op Opcode, operand uint16) uint {
	addr := uint(len(cb.bytes))
	cb.bytes = append(cb.bytes, byte(op), 0, 0)
	putLE16(cb.bytes[addr+1:], operand)
	return addr
}

// EmitPlaceholder appends an opcode with a zero operand and returns the
// operand's address (not the opcode's), for Patch to backfill once the
// target is known — the forward-jump mechanism the one-pass compiler uses
// for IF/WHILE/FOR exits and forward CALLs.
func (cb *CodeBuffer) EmitPlaceholder(op Opcode) uint {
	cb.Emit(op)
	operandAddr := uint(len(cb.bytes))
	cb.bytes = append(cb.bytes, 0, 0)
	return operandAddr
}

// Patch backfills a previously reserved operand slot.
func (cb *CodeBuffer) Patch(operandAddr uint, target uint16) {
	putLE16(cb.bytes[operandAddr:], target)
}

// EmitString appends a NUL-terminated string literal inline (used by
// PRMSG) and returns its start address.
func (cb *CodeBuffer) EmitString(s string) uint {
	addr := uint(len(cb.bytes))
	cb.bytes = append(cb.bytes, s...)
	cb.bytes = append(cb.bytes, 0)
	return addr
}

// lvalueSink is the small statement-level counterpart to exprSink: storing
// into a scalar or array element is a statement (assignment), not an
// expression operator, so it lives outside exprSink proper but is
// implemented by the same two sinks.
type lvalueSink interface {
	StoreScalar(v *Variable) error
	StoreElem(v *Variable) error
}

// compileSink implements exprSink and lvalueSink by emitting bytecode.
// Addressing follows a single simplifying convention (recorded in
// DESIGN.md): globals and owned arrays live at a constant address fixed at
// compile time (Variable.Value / .ArrayAddr is that address); a local
// variable's Value/ArrayAddr is instead a frame-relative offset, and a
// borrowed (by-reference) array parameter's ArrayAddr is the frame offset
// of the pointer-to-body slot passed in by its caller. This keeps the
// one-pass compiler from needing an "address of a local" opcode for
// anything except the explicit &localvar case, which FRAMEADDRIMM covers.
type compileSink struct {
	code *CodeBuffer
	subs *SubTable
	line int
}

func newCompileSink(code *CodeBuffer, subs *SubTable, line int) *compileSink {
	return &compileSink{code: code, subs: subs, line: line}
}

func (s *compileSink) Literal(v int) { s.code.EmitImm(OpPushImm, uint16(v)) }

func (s *compileSink) loadOp(v *Variable) Opcode {
	switch {
	case v.IsLocal && v.Base == TypeWord:
		return OpLdrWordImm
	case v.IsLocal:
		return OpLdrByteImm
	case v.Base == TypeWord:
		return OpLdaWordImm
	default:
		return OpLdaByteImm
	}
}

func (s *compileSink) storeOp(v *Variable) Opcode {
	switch {
	case v.IsLocal && v.Base == TypeWord:
		return OpStrWordImm
	case v.IsLocal:
		return OpStrByteImm
	case v.Base == TypeWord:
		return OpStaWordImm
	default:
		return OpStaByteImm
	}
}

func (s *compileSink) LoadScalar(v *Variable) error {
	if v.Const {
		s.code.EmitImm(OpPushImm, uint16(v.Value))
		return nil
	}
	s.code.EmitImm(s.loadOp(v), uint16(v.Value))
	return nil
}

func (s *compileSink) StoreScalar(v *Variable) error {
	if v.Const {
		return errf(ErrAssigningConst, s.line, "%s", v.Name)
	}
	s.code.EmitImm(s.storeOp(v), uint16(v.Value))
	return nil
}

// pushBaseAddr pushes the runtime address of v's array body: a compile-time
// constant for an owned (global) array, or the pointer value held in the
// caller-bound frame slot for a borrowed array parameter.
func (s *compileSink) pushBaseAddr(v *Variable) {
	if v.Kind == KindBorrowedArray {
		s.code.EmitImm(OpLdrWordImm, uint16(v.ArrayAddr))
		return
	}
	s.code.EmitImm(OpPushImm, uint16(v.ArrayAddr))
}

func (s *compileSink) LoadElem(v *Variable) error {
	s.pushBaseAddr(v)
	s.code.Emit(OpAdd)
	if v.Base == TypeWord {
		s.code.Emit(OpLdaWord)
	} else {
		s.code.Emit(OpLdaByte)
	}
	return nil
}

func (s *compileSink) StoreElem(v *Variable) error {
	s.pushBaseAddr(v)
	s.code.Emit(OpAdd)
	if v.Base == TypeWord {
		s.code.Emit(OpStaWord)
	} else {
		s.code.Emit(OpStaByte)
	}
	return nil
}

func (s *compileSink) AddressOf(v *Variable) {
	switch {
	case v.isArray():
		s.pushBaseAddr(v)
	case v.IsLocal:
		s.code.EmitImm(OpFrameAddrImm, uint16(v.Value))
	default:
		s.code.EmitImm(OpPushImm, uint16(v.Value))
	}
}

// Call emits a call to name: the nargs actual arguments are already
// compiled and sitting on top of the operand stack (pushed left to right
// by the caller before Call is invoked). If the subroutine is already
// defined its entry address is known immediately; otherwise a placeholder
// is emitted and registered with SubTable, to be patched once the
// definition is reached (forward call). After the call returns, its
// arguments are discarded and the callee's return register is pushed as
// the expression's value — bytecode execution itself is out of scope
// here, so no attempt is made to check nargs against the callee's
// declared parameter count; that is interpret mode's job.
func (s *compileSink) Call(name string, nargs int) error {
	if sub, ok := s.subs.Lookup(name); ok && sub.defined {
		s.code.EmitImm(OpCallImm, uint16(sub.CodeAddr))
	} else {
		operandAddr := s.code.EmitPlaceholder(OpCallImm)
		s.subs.RecordCallSite(name, s.line, operandAddr)
	}
	if nargs > 0 {
		s.code.EmitImm(OpDiscardImm, uint16(nargs))
	}
	s.code.Emit(OpPushRet)
	return nil
}

func (s *compileSink) Unary(op Token) error {
	switch op {
	case OpMinus:
		s.code.Emit(OpNeg)
	case OpPlus:
		// no-op: unary + is identity
	case OpBang:
		s.code.Emit(OpLNot)
	case OpTilde:
		s.code.Emit(OpBNot)
	case OpStar:
		s.code.Emit(OpLdaWord)
	case OpCaret:
		s.code.Emit(OpLdaByte)
	default:
		return errf(ErrBadExpression, s.line, "unsupported unary operator")
	}
	return nil
}

func (s *compileSink) Binary(op Token) error {
	switch op {
	case OpPlus:
		s.code.Emit(OpAdd)
	case OpMinus:
		s.code.Emit(OpSub)
	case OpStar:
		s.code.Emit(OpMul)
	case OpSlash:
		s.code.Emit(OpDiv)
	case OpPercent:
		s.code.Emit(OpMod)
	case OpPow:
		s.code.Emit(OpPowOp)
	case OpAmp:
		s.code.Emit(OpBAnd)
	case OpPipe:
		s.code.Emit(OpBOr)
	case OpCaret:
		s.code.Emit(OpBXor)
	case OpShl:
		s.code.Emit(OpShl)
	case OpShr:
		s.code.Emit(OpShr)
	case OpLt:
		s.code.Emit(OpCmpLt)
	case OpLe:
		s.code.Emit(OpCmpLe)
	case OpGt:
		s.code.Emit(OpCmpGt)
	case OpGe:
		s.code.Emit(OpCmpGe)
	case OpEq:
		s.code.Emit(OpCmpEq)
	case OpNe:
		s.code.Emit(OpCmpNe)
	case OpAndAnd:
		s.code.Emit(OpLAnd)
	case OpOrOr:
		s.code.Emit(OpLOr)
	default:
		return errf(ErrBadExpression, s.line, "unsupported binary operator")
	}
	return nil
}
