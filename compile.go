package main

import "os"

// compiler drives the one-pass bytecode compiler. It shares the
// statement grammar with the tree-walking interpreter in stmt.go but
// targets its own address space: globals get a compile-time-constant
// absolute address (nextGlobal), while a variable declared inside a SUB
// body is frame-relative (nextLocal, reset at each SUB's ENTER) — the
// addressing convention compileSink (codegen.go) already expects.
type compiler struct {
	prog *Program
	cur  Cursor
	code *CodeBuffer
	subs *SubTable
	syms *SymbolTable

	nextGlobal uint
	nextLocal  uint
	inSub      bool

	ctrlIf    []*ControlFrame
	ctrlWhile []*ControlFrame
	ctrlFor   []*ControlFrame

	curSub       *Subroutine
	subEnterAddr uint
	subSkipAddr  uint
}

// CompileToFile compiles the whole program and writes the resulting
// bytecode to filename, implementing the `comp "name"` statement.
func (e *Engine) CompileToFile(filename string) *langError {
	code, err := e.Compile()
	if err != nil {
		return err
	}
	if werr := os.WriteFile(filename, code, 0o644); werr != nil {
		return errf(ErrFile, e.cur.Line, "%v", werr)
	}
	return nil
}

// Compile runs the one-pass compiler over the whole stored program and
// returns the resulting flat bytecode stream.
func (e *Engine) Compile() ([]byte, *langError) {
	c := &compiler{
		prog: e.prog,
		cur:  NewCursor(e.prog, 1),
		code: &CodeBuffer{},
		subs: NewSubTable(),
		syms: &SymbolTable{},
	}
	c.syms.PushFrame()
	for !c.cur.AtEOF() {
		c.cur.SkipSpace()
		if c.cur.AtStatementEnd() {
			if !c.cur.AtEOF() {
				c.cur.SkipStatementSep()
			}
			continue
		}
		if err := c.compileStatement(); err != nil {
			return nil, err
		}
		c.cur.SkipStatementSep()
	}
	c.code.Emit(OpHalt)
	if linkErrs := c.subs.LinkErrors(); len(linkErrs) > 0 {
		return nil, linkErrs[0]
	}
	return c.code.Bytes(), nil
}

func (c *compiler) compileStatement() *langError {
	line := c.cur.Line
	tok, word := c.cur.ScanKeywordOrIdent()
	switch tok {
	case KwWord:
		return c.compileDeclare(TypeWord, line)
	case KwByte:
		return c.compileDeclare(TypeByte, line)
	case KwConst:
		return c.compileConstDecl(line)
	case KwDim:
		return c.compileDim(line)
	case KwIf:
		return c.compileIf(line)
	case KwElse:
		return c.compileElse(line)
	case KwEndIf:
		return c.compileEndIf(line)
	case KwWhile:
		return c.compileWhile(line)
	case KwEndWhile:
		return c.compileEndWhile(line)
	case KwFor:
		return c.compileFor(line)
	case KwEndFor:
		return c.compileEndFor(line)
	case KwSub:
		return c.compileSub(line)
	case KwEndSub:
		return c.compileEndSub(line)
	case KwCall:
		return c.compileCall(line)
	case KwReturn:
		return c.compileReturn(line)
	case KwPrDec, KwPrHex, KwPrCh, KwPrMsg, KwPrNl, KwPrStr:
		return c.compilePrint(tok, line)
	case KwKbdCh, KwKbdLn:
		return c.compileKbd(tok, line)
	case KwQuit:
		c.cur.SkipSpace()
		if !c.cur.AtStatementEnd() {
			if err := c.compileExprInto(line); err != nil {
				return err
			}
			c.code.Emit(OpPop) // exit code has no meaning to a standalone compiled program
		}
		c.code.Emit(OpHalt)
		return nil
	case KwRun, KwComp:
		// meaningless once compiled; ignored rather than erroring, with
		// COMP's filename string consumed along with it
		c.cur.SkipSpace()
		if tok == KwComp && !c.cur.AtStatementEnd() && c.cur.peek() == '"' {
			c.cur.advance()
			if _, err := c.cur.ScanQuotedString(line); err != nil {
				return err
			}
		}
		return nil
	case TokIdent:
		return c.compileAssign(word, line)
	}
	return errf(ErrBadLine, line, "%s", word)
}

func (c *compiler) declareVar(name string, base BaseType, line int) (*Variable, *langError) {
	v := &Variable{Name: name, Base: base, Kind: KindScalar, IsLocal: c.inSub}
	if c.inSub {
		v.Value = int(c.nextLocal)
		c.nextLocal++
	} else {
		v.Value = int(c.nextGlobal)
		c.nextGlobal++
	}
	if err := c.syms.Define(v); err != nil {
		return nil, err
	}
	return v, nil
}

func (c *compiler) compileExprInto(line int) *langError {
	sink := newCompileSink(c.code, c.subs, line)
	p := newExprParser(&c.cur, c.syms, sink, line)
	return p.ParseExpr()
}

// reserveHiddenSlot allocates a frame/global storage cell for the
// compiler's own bookkeeping (not registered in c.syms, so no user
// identifier can ever collide with or shadow it), addressable via the same
// loadOp/storeOp machinery as any declared Variable. Used for a FOR loop's
// limit, computed once per loop entry and re-read on every guard test.
func (c *compiler) reserveHiddenSlot(base BaseType) *Variable {
	v := &Variable{Base: base, Kind: KindScalar, IsLocal: c.inSub}
	if c.inSub {
		v.Value = int(c.nextLocal)
		c.nextLocal++
	} else {
		v.Value = int(c.nextGlobal)
		c.nextGlobal++
	}
	return v
}

// compileDeclare implements `word a[, b...]` / `byte a[, b...]`, each name
// either a plain scalar or, when immediately followed by `[size]`, an
// array declared directly off the base-type keyword.
func (c *compiler) compileDeclare(base BaseType, line int) *langError {
	for {
		c.cur.SkipSpace()
		name := c.cur.ScanIdent()
		if name == "" {
			return newErr(ErrExpectedVariable, line)
		}
		c.cur.SkipSpace()
		if !c.cur.AtEOF() && c.cur.peek() == '[' {
			if err := c.compileArrayDecl(name, base, line); err != nil {
				return err
			}
			c.cur.SkipSpace()
			if c.cur.AtEOF() || c.cur.peek() != ',' {
				return nil
			}
			c.cur.advance()
			continue
		}
		v, err := c.declareVar(name, base, line)
		if err != nil {
			return err
		}
		if !c.cur.AtEOF() && c.cur.peek() == '=' {
			c.cur.advance()
			if err := c.compileExprInto(line); err != nil {
				return err
			}
			sink := newCompileSink(c.code, c.subs, line)
			if err := sink.StoreScalar(v); err != nil {
				return wrapRuntime(err, line)
			}
		}
		c.cur.SkipSpace()
		if c.cur.AtEOF() || c.cur.peek() != ',' {
			return nil
		}
		c.cur.advance()
	}
}

func (c *compiler) compileConstDecl(line int) *langError {
	c.cur.SkipSpace()
	name := c.cur.ScanIdent()
	if name == "" {
		return newErr(ErrExpectedVariable, line)
	}
	c.cur.SkipSpace()
	if c.cur.AtEOF() || c.cur.peek() != '=' {
		return newErr(ErrBadValue, line)
	}
	c.cur.advance()
	// constants must be literal at compile time.
	c.cur.SkipSpace()
	val, ok, nerr := c.cur.ScanNumber(line)
	if nerr != nil || !ok {
		return errf(ErrNotConstant, line, "%s", name)
	}
	v := &Variable{Name: name, Base: TypeWord, Kind: KindScalar, Const: true, Value: val, IsLocal: c.inSub}
	return c.syms.Define(v)
}

// compileDim implements `dim [word|byte] name[size] [= "str" | = {v, v...}]`,
// kept as a synonym for declaring an array directly off word/byte.
func (c *compiler) compileDim(line int) *langError {
	base := TypeWord
	c.cur.SkipSpace()
	save := c.cur
	if tok, _ := c.cur.ScanKeywordOrIdent(); tok == KwByte {
		base = TypeByte
	} else if tok != KwWord {
		c.cur = save
	}
	c.cur.SkipSpace()
	name := c.cur.ScanIdent()
	if name == "" {
		return newErr(ErrExpectedVariable, line)
	}
	return c.compileArrayDecl(name, base, line)
}

// compileArrayDecl parses `[size] [= "str" | = {v, v...}]` for name,
// already scanned, and defines it as an owned array — the body shared by
// `dim` and an array declared directly off `word`/`byte`. Unlike
// interpret mode's declareArray, the size must be a compile-time literal:
// the compiled form needs to know each element's address up front.
func (c *compiler) compileArrayDecl(name string, base BaseType, line int) *langError {
	if c.inSub {
		return errf(ErrBadDim, line, "array declarations must be global")
	}
	c.cur.SkipSpace()
	if c.cur.AtEOF() || c.cur.peek() != '[' {
		return newErr(ErrBadDim, line)
	}
	c.cur.advance()
	size, ok, nerr := c.cur.ScanNumber(line)
	if nerr != nil || !ok {
		return errf(ErrNotConstant, line, "%s: array size must be a literal", name)
	}
	c.cur.SkipSpace()
	if c.cur.AtEOF() || c.cur.peek() != ']' {
		return newErr(ErrBadDim, line)
	}
	c.cur.advance()
	if size <= 0 {
		return errf(ErrBadDim, line, "%s", name)
	}
	addr := c.nextGlobal
	c.nextGlobal += uint(size)
	v := &Variable{Name: name, Base: base, Kind: KindOwnedArray, ArrayAddr: int(addr), ArrayLen: size}
	if err := c.syms.Define(v); err != nil {
		return err
	}

	c.cur.SkipSpace()
	if c.cur.AtEOF() || c.cur.peek() != '=' {
		return nil
	}
	c.cur.advance()
	c.cur.SkipSpace()
	op := OpStaWordImm
	if base == TypeByte {
		op = OpStaByteImm
	}
	if !c.cur.AtEOF() && c.cur.peek() == '"' {
		c.cur.advance()
		str, serr := c.cur.ScanQuotedString(line)
		if serr != nil {
			return serr
		}
		if len(str) > size {
			return errf(ErrInitializerTooLong, line, "%s", name)
		}
		for i := 0; i < len(str); i++ {
			c.code.EmitImm(OpPushImm, uint16(str[i]))
			c.code.EmitImm(op, uint16(addr)+uint16(i))
		}
		return nil
	}
	if c.cur.AtEOF() || c.cur.peek() != '{' {
		return newErr(ErrBadValue, line)
	}
	c.cur.advance()
	i := 0
	for {
		c.cur.SkipSpace()
		if !c.cur.AtEOF() && c.cur.peek() == '}' {
			c.cur.advance()
			return nil
		}
		if err := c.compileExprInto(line); err != nil {
			return err
		}
		if i >= size {
			return errf(ErrInitializerTooLong, line, "%s", name)
		}
		c.code.EmitImm(op, uint16(addr)+uint16(i))
		i++
		c.cur.SkipSpace()
		if !c.cur.AtEOF() && c.cur.peek() == ',' {
			c.cur.advance()
			continue
		}
		if !c.cur.AtEOF() && c.cur.peek() == '}' {
			c.cur.advance()
			return nil
		}
		return newErr(ErrBadValue, line)
	}
}

func (c *compiler) compileAssign(name string, line int) *langError {
	v := c.syms.Lookup(name, false)
	if v == nil {
		return errf(ErrExpectedVariable, line, "%s", name)
	}
	c.cur.SkipSpace()
	sink := newCompileSink(c.code, c.subs, line)
	if !c.cur.AtEOF() && c.cur.peek() == '[' {
		if !v.isArray() {
			return errf(ErrBadSubscript, line, "%s", name)
		}
		c.cur.advance()
		if err := c.compileExprInto(line); err != nil {
			return err
		}
		c.cur.SkipSpace()
		if c.cur.AtEOF() || c.cur.peek() != ']' {
			return newErr(ErrBadSubscript, line, "%s", name)
		}
		c.cur.advance()
		c.cur.SkipSpace()
		if c.cur.AtEOF() || c.cur.peek() != '=' {
			return newErr(ErrUnexpectedExtra, line)
		}
		c.cur.advance()
		if err := c.compileExprInto(line); err != nil {
			return err
		}
		if err := sink.StoreElem(v); err != nil {
			return wrapRuntime(err, line)
		}
		return nil
	}
	c.cur.SkipSpace()
	if c.cur.AtEOF() || c.cur.peek() != '=' {
		return newErr(ErrUnexpectedExtra, line)
	}
	c.cur.advance()
	if err := c.compileExprInto(line); err != nil {
		return err
	}
	if err := sink.StoreScalar(v); err != nil {
		return wrapRuntime(err, line)
	}
	return nil
}

func (c *compiler) compileIf(line int) *langError {
	if err := c.compileExprInto(line); err != nil {
		return err
	}
	condAddr := c.code.EmitPlaceholder(OpBrFalseImm)
	c.ctrlIf = append(c.ctrlIf, &ControlFrame{Kind: FrameIf, CondJumpAddr: condAddr})
	return nil
}

func (c *compiler) compileElse(line int) *langError {
	n := len(c.ctrlIf)
	if n == 0 {
		return newErr(ErrNoIf, line)
	}
	f := c.ctrlIf[n-1]
	elseAddr := c.code.EmitPlaceholder(OpJmpImm)
	f.ElseJumpAddr = elseAddr
	f.HasElseJump = true
	c.code.Patch(f.CondJumpAddr, uint16(c.code.Len()))
	return nil
}

func (c *compiler) compileEndIf(line int) *langError {
	n := len(c.ctrlIf)
	if n == 0 {
		return newErr(ErrNoIf, line)
	}
	f := c.ctrlIf[n-1]
	c.ctrlIf = c.ctrlIf[:n-1]
	here := uint16(c.code.Len())
	if f.HasElseJump {
		c.code.Patch(f.ElseJumpAddr, here)
	} else {
		c.code.Patch(f.CondJumpAddr, here)
	}
	return nil
}

func (c *compiler) compileWhile(line int) *langError {
	guard := c.code.Len()
	if err := c.compileExprInto(line); err != nil {
		return err
	}
	exitAddr := c.code.EmitPlaceholder(OpBrFalseImm)
	c.ctrlWhile = append(c.ctrlWhile, &ControlFrame{Kind: FrameWhile, LoopStart: guard, CondJumpAddr: exitAddr})
	return nil
}

func (c *compiler) compileEndWhile(line int) *langError {
	n := len(c.ctrlWhile)
	if n == 0 {
		return newErr(ErrNoWhile, line)
	}
	f := c.ctrlWhile[n-1]
	c.ctrlWhile = c.ctrlWhile[:n-1]
	c.code.EmitImm(OpJmpImm, uint16(f.LoopStart))
	c.code.Patch(f.CondJumpAddr, uint16(c.code.Len()))
	return nil
}

// compileFor lowers `for v = start : limit` into the WHILE-shaped jump
// pair: the loop variable is an ordinary local/global incremented by
// ENDFOR, its exclusive upper bound stashed in a hidden slot (the limit
// need not be a compile-time constant — it is evaluated once, at loop
// entry, same as the interpreter does), and the guard re-tested at the top
// of each iteration, exactly as evalWhileGuard does for the interpreter.
func (c *compiler) compileFor(line int) *langError {
	c.cur.SkipSpace()
	name := c.cur.ScanIdent()
	if name == "" {
		return newErr(ErrExpectedVariable, line)
	}
	v := c.syms.Lookup(name, false)
	if v == nil {
		return errf(ErrExpectedVariable, line, "%s", name)
	}
	c.cur.SkipSpace()
	if c.cur.AtEOF() || c.cur.peek() != '=' {
		return newErr(ErrBadExpression, line)
	}
	c.cur.advance()
	if err := c.compileExprInto(line); err != nil {
		return err
	}
	sink := newCompileSink(c.code, c.subs, line)
	if err := sink.StoreScalar(v); err != nil {
		return wrapRuntime(err, line)
	}
	c.cur.SkipSpace()
	if c.cur.AtEOF() || c.cur.peek() != ':' {
		return newErr(ErrBadExpression, line)
	}
	c.cur.advance()
	limitVar := c.reserveHiddenSlot(TypeWord)
	if err := c.compileExprInto(line); err != nil {
		return err
	}
	if err := sink.StoreScalar(limitVar); err != nil {
		return wrapRuntime(err, line)
	}

	guard := c.code.Len()
	c.code.EmitImm(sink.loadOp(v), uint16(v.Value))
	c.code.EmitImm(sink.loadOp(limitVar), uint16(limitVar.Value))
	c.code.Emit(OpCmpGe)
	exitAddr := c.code.EmitPlaceholder(OpBrnchImm)
	c.ctrlFor = append(c.ctrlFor, &ControlFrame{Kind: FrameFor, ForVar: v, ForLimitVar: limitVar, LoopStart: guard, CondJumpAddr: exitAddr})
	return nil
}

func (c *compiler) compileEndFor(line int) *langError {
	n := len(c.ctrlFor)
	if n == 0 {
		return newErr(ErrNoFor, line)
	}
	f := c.ctrlFor[n-1]
	c.ctrlFor = c.ctrlFor[:n-1]
	sink := newCompileSink(c.code, c.subs, line)
	c.code.EmitImm(sink.loadOp(f.ForVar), uint16(f.ForVar.Value))
	c.code.EmitImm(OpPushImm, 1)
	c.code.Emit(OpAdd)
	c.code.EmitImm(sink.storeOp(f.ForVar), uint16(f.ForVar.Value))
	c.code.EmitImm(OpJmpImm, uint16(f.LoopStart))
	c.code.Patch(f.CondJumpAddr, uint16(c.code.Len()))
	return nil
}

// compileSub parses `sub name(params)` and defines each parameter as a
// frame-local Variable whose offset is negative (above FP, where the
// caller left its actuals): for N parameters, parameter i sits at
// -(N-i+1) — argN-1 at -2, just above the return address CALLIMM pushed,
// and arg0 farthest from FP at -(N+1). The whole list is parsed up front, so this formula is
// applied directly rather than needing to shift previously recorded
// offsets as each parameter is seen.
func (c *compiler) compileSub(line int) *langError {
	if c.inSub {
		return errf(ErrBadLine, line, "nested sub")
	}
	c.cur.SkipSpace()
	name := c.cur.ScanIdent()
	if name == "" {
		return newErr(ErrExpectedVariable, line)
	}
	params, perr := parseParamList(&c.cur, line)
	if perr != nil {
		return perr
	}
	skipAddr := c.code.EmitPlaceholder(OpJmpImm)
	bodyStart := c.code.Len()
	enterAddr := c.code.EmitPlaceholder(OpEnterImm)

	sub := &Subroutine{Name: name, DefLine: line, CodeAddr: bodyStart, Params: params}
	if err := c.subs.Define(sub); err != nil {
		return err
	}
	sub.defined = true
	for _, cs := range c.subs.ResolveNow(name) {
		c.code.Patch(cs.patchAddr, uint16(bodyStart))
	}

	c.inSub = true
	c.nextLocal = 0
	c.syms.PushFrame()
	c.curSub = sub
	c.subEnterAddr = enterAddr
	c.subSkipAddr = skipAddr

	n := len(params)
	for i, p := range params {
		offset := -(n - i + 1)
		kind := KindScalar
		if p.Kind == ParamArrayRef {
			kind = KindBorrowedArray
		}
		v := &Variable{Name: p.Name, Base: p.Base, Kind: kind, IsLocal: true, Value: offset, ArrayAddr: offset}
		if err := c.syms.Define(v); err != nil {
			return err
		}
	}
	return nil
}

func (c *compiler) compileEndSub(line int) *langError {
	if !c.inSub {
		return newErr(ErrNoSub, line)
	}
	c.code.EmitImm(OpPushImm, 0) // falling off the end returns 0, same as an empty RETURN
	c.code.Emit(OpSetRet)
	c.code.EmitImm(OpLeaveImm, uint16(c.nextLocal))
	c.code.Emit(OpRet)
	c.code.Patch(c.subEnterAddr, uint16(c.nextLocal))
	c.code.Patch(c.subSkipAddr, uint16(c.code.Len()))
	c.syms.PopFrame()
	c.inSub = false
	c.curSub = nil
	return nil
}

// compileCallArgs compiles a CALL statement's optional parenthesized
// actual-argument list, leaving each compiled value on the operand stack
// in order and returning how many there were. Every actual — scalar
// expression or bare array name — goes through the same compileExprInto: a
// bare array name already decays to its base address (AddressOf), exactly
// what an array-by-reference parameter needs, so unlike interpret mode's
// parseCallArgs this needs no per-parameter-kind dispatch (and, since the
// compiled bytecode is never executed by this program, no arity check
// against the callee's declared parameters either).
func (c *compiler) compileCallArgs(line int) (int, *langError) {
	c.cur.SkipSpace()
	if c.cur.AtEOF() || c.cur.peek() != '(' {
		return 0, nil
	}
	c.cur.advance()
	c.cur.SkipSpace()
	if !c.cur.AtEOF() && c.cur.peek() == ')' {
		c.cur.advance()
		return 0, nil
	}
	nargs := 0
	for {
		if err := c.compileExprInto(line); err != nil {
			return 0, err
		}
		nargs++
		c.cur.SkipSpace()
		if !c.cur.AtEOF() && c.cur.peek() == ',' {
			c.cur.advance()
			continue
		}
		if c.cur.AtEOF() || c.cur.peek() != ')' {
			return 0, newErr(ErrBadExpression, line)
		}
		c.cur.advance()
		return nargs, nil
	}
}

func (c *compiler) compileCall(line int) *langError {
	c.cur.SkipSpace()
	name := c.cur.ScanIdent()
	if name == "" {
		return newErr(ErrExpectedVariable, line)
	}
	nargs, err := c.compileCallArgs(line)
	if err != nil {
		return err
	}
	sink := newCompileSink(c.code, c.subs, line)
	if cerr := sink.Call(name, nargs); cerr != nil {
		return wrapOrNil(cerr, line)
	}
	c.code.Emit(OpPop) // statement-context CALL has no use for the return value
	return nil
}

func (c *compiler) compileReturn(line int) *langError {
	if !c.inSub {
		return newErr(ErrNoSub, line)
	}
	c.cur.SkipSpace()
	if !c.cur.AtStatementEnd() {
		if err := c.compileExprInto(line); err != nil {
			return err
		}
	} else {
		c.code.EmitImm(OpPushImm, 0)
	}
	c.code.Emit(OpSetRet)
	c.code.EmitImm(OpLeaveImm, uint16(c.nextLocal))
	c.code.Emit(OpRet)
	return nil
}

func (c *compiler) compilePrint(tok Token, line int) *langError {
	switch tok {
	case KwPrDec:
		if err := c.compileExprInto(line); err != nil {
			return err
		}
		c.code.Emit(OpPrDec)
	case KwPrHex:
		if err := c.compileExprInto(line); err != nil {
			return err
		}
		c.code.Emit(OpPrHex)
	case KwPrCh:
		if err := c.compileExprInto(line); err != nil {
			return err
		}
		c.code.Emit(OpPrCh)
	case KwPrNl:
		c.code.Emit(OpPrNl)
	case KwPrMsg:
		c.cur.SkipSpace()
		if c.cur.AtEOF() || c.cur.peek() != '"' {
			return newErr(ErrBadString, line)
		}
		c.cur.advance()
		s, serr := c.cur.ScanQuotedString(line)
		if serr != nil {
			return serr
		}
		c.code.Emit(OpPrMsg)
		c.code.EmitString(s)
	case KwPrStr:
		c.cur.SkipSpace()
		name := c.cur.ScanIdent()
		v := c.syms.Lookup(name, false)
		if v == nil || !v.isArray() {
			return errf(ErrExpectedVariable, line, "%s", name)
		}
		sink := newCompileSink(c.code, c.subs, line)
		sink.pushBaseAddr(v)
		c.code.EmitImm(OpPushImm, uint16(v.ArrayLen))
		c.code.Emit(OpPrStr)
	}
	return nil
}

func (c *compiler) compileKbd(tok Token, line int) *langError {
	c.cur.SkipSpace()
	name := c.cur.ScanIdent()
	v := c.syms.Lookup(name, false)
	if v == nil {
		return errf(ErrExpectedVariable, line, "%s", name)
	}
	sink := newCompileSink(c.code, c.subs, line)
	switch tok {
	case KwKbdCh:
		c.code.Emit(OpKbdCh)
		if err := sink.StoreScalar(v); err != nil {
			return wrapRuntime(err, line)
		}
	case KwKbdLn:
		if !v.isArray() {
			return errf(ErrType, line, "%s", name)
		}
		sink.pushBaseAddr(v)
		c.code.EmitImm(OpPushImm, uint16(v.ArrayLen))
		c.code.Emit(OpKbdLn)
	}
	return nil
}

func wrapOrNil(err error, line int) *langError {
	if err == nil {
		return nil
	}
	return wrapRuntime(err, line)
}
