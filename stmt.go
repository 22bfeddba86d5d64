package main

import "fmt"

// singleLineSource backs an immediate-mode Cursor: it never yields a next
// line, so a statement typed at the prompt cannot run on into whatever the
// stored program happens to contain.
type singleLineSource struct{}

func (singleLineSource) lineText(int) (string, bool) { return "", false }

// RunImmediateLine executes one line of immediate-mode input without
// storing it in the program.
func (e *Engine) RunImmediateLine(text string) *langError {
	saved := e.cur
	e.cur = Cursor{Line: 0, Text: text, src: singleLineSource{}}
	defer func() { e.cur = saved }()
	for !e.cur.AtEOF() {
		if err := e.stepStatement(); err != nil {
			return err
		}
	}
	return nil
}

// jumpTo repositions the cursor at an arbitrary (line, byte-offset), the
// way IF/WHILE/FOR/CALL/RETURN transfer control.
func (e *Engine) jumpTo(line, pos int) {
	e.cur.Line = line
	e.cur.Pos = pos
	e.cur.Text, _ = e.prog.lineText(line)
}

// stepStatement executes exactly one statement (or advances past a bare
// separator) at the current cursor position.
func (e *Engine) stepStatement() *langError {
	e.cur.SkipSpace()
	if e.cur.AtStatementEnd() {
		if !e.cur.AtEOF() {
			e.cur.SkipStatementSep()
		}
		return nil
	}
	if err := e.execStatement(); err != nil {
		return err
	}
	e.cur.SkipStatementSep()
	return nil
}

// execStatement dispatches on the statement's leading keyword: the
// same longest-match keyword scan the lexer uses elsewhere.
func (e *Engine) execStatement() *langError {
	line := e.cur.Line
	tok, word := e.cur.ScanKeywordOrIdent()
	switch tok {
	case KwWord:
		return e.execDeclare(TypeWord, line)
	case KwByte:
		return e.execDeclare(TypeByte, line)
	case KwConst:
		return e.execConstDecl(line)
	case KwDim:
		return e.execDim(line)
	case KwIf:
		return e.execIf(line)
	case KwElse:
		return e.execElse(line)
	case KwEndIf:
		return e.execEndIf(line)
	case KwWhile:
		return e.execWhile(line)
	case KwEndWhile:
		return e.execEndWhile(line)
	case KwFor:
		return e.execFor(line)
	case KwEndFor:
		return e.execEndFor(line)
	case KwSub:
		return e.execSubHeader(line)
	case KwEndSub:
		return e.execEndSub(line)
	case KwCall:
		return e.execCall(line)
	case KwReturn:
		return e.execReturn(line)
	case KwPrDec, KwPrHex, KwPrCh, KwPrMsg, KwPrNl, KwPrStr:
		return e.execPrint(tok, line)
	case KwKbdCh, KwKbdLn:
		return e.execKbd(tok, line)
	case KwQuit:
		return e.execQuit(line)
	case KwRun:
		return e.execRun(line)
	case KwComp:
		return e.execComp(line)
	case TokIdent:
		return e.execAssign(word, line)
	}
	return errf(ErrBadLine, line, "%s", word)
}

func (e *Engine) evalExpr(line int) (int, *langError) {
	sink := newInterpretSink(e.arenaV, e.callExprFn(line), line)
	p := newExprParser(&e.cur, e.syms, sink, line)
	if err := p.ParseExpr(); err != nil {
		return 0, err
	}
	return sink.Result()
}

// callExprFn adapts doCall for a call-in-expression `fib(n-1)`: the
// shunting-yard sink has already evaluated each actual to a plain int, so
// only scalar parameters are reachable this way — an array-by-reference
// formal can only be bound from statement-context CALL, which resolves the
// actual by name instead of by value.
func (e *Engine) callExprFn(line int) func(string, []int) (int, error) {
	return func(name string, vals []int) (int, error) {
		sub, ok := e.subs.Lookup(name)
		if !ok {
			return 0, errf(ErrNoSub, line, "%s", name)
		}
		if len(vals) != len(sub.Params) {
			return 0, errf(ErrArgument, line, "%s: expected %d argument(s), got %d", name, len(sub.Params), len(vals))
		}
		args := make([]callArg, len(vals))
		for i, p := range sub.Params {
			if p.Kind == ParamArrayRef {
				return 0, errf(ErrArgument, line, "%s: %s is an array parameter, not callable in an expression", name, p.Name)
			}
			args[i] = callArg{value: vals[i]}
		}
		v, err := e.doCall(sub, args, line)
		if err != nil {
			return 0, err
		}
		return v, nil
	}
}

// execDeclare implements `word a[, b...]` / `byte a[, b...]`, each name
// either a plain scalar (optionally given an initial value) or, when
// immediately followed by `[size]`, an array declared directly off the
// base-type keyword rather than requiring the separate `dim` form.
func (e *Engine) execDeclare(base BaseType, line int) *langError {
	for {
		e.cur.SkipSpace()
		name := e.cur.ScanIdent()
		if name == "" {
			return newErr(ErrExpectedVariable, line)
		}
		e.cur.SkipSpace()
		if !e.cur.AtEOF() && e.cur.peek() == '[' {
			if err := e.declareArray(name, base, line); err != nil {
				return err
			}
			e.cur.SkipSpace()
			if e.cur.AtEOF() || e.cur.peek() != ',' {
				return nil
			}
			e.cur.advance()
			continue
		}
		v := &Variable{Name: name, Base: base, Kind: KindScalar, IsLocal: e.syms.Depth() > 1}
		if err := e.syms.Define(v); err != nil {
			return err
		}
		if !e.cur.AtEOF() && e.cur.peek() == '=' {
			e.cur.advance()
			val, err := e.evalExpr(line)
			if err != nil {
				return err
			}
			v.Value = val
		}
		e.cur.SkipSpace()
		if e.cur.AtEOF() || e.cur.peek() != ',' {
			return nil
		}
		e.cur.advance()
	}
}

// execConstDecl implements `const name = expr`.
func (e *Engine) execConstDecl(line int) *langError {
	e.cur.SkipSpace()
	name := e.cur.ScanIdent()
	if name == "" {
		return newErr(ErrExpectedVariable, line)
	}
	e.cur.SkipSpace()
	if e.cur.AtEOF() || e.cur.peek() != '=' {
		return newErr(ErrBadValue, line)
	}
	e.cur.advance()
	val, err := e.evalExpr(line)
	if err != nil {
		return err
	}
	v := &Variable{Name: name, Base: TypeWord, Kind: KindScalar, Const: true, Value: val, IsLocal: e.syms.Depth() > 1}
	return e.syms.Define(v)
}

// execDim implements `dim [word|byte] name[size] [= "str" | = {v, v...}]`,
// kept as a synonym for declaring an array directly off word/byte.
func (e *Engine) execDim(line int) *langError {
	base := TypeWord
	e.cur.SkipSpace()
	save := e.cur
	if tok, _ := e.cur.ScanKeywordOrIdent(); tok == KwByte {
		base = TypeByte
	} else if tok != KwWord {
		e.cur = save
	}
	e.cur.SkipSpace()
	name := e.cur.ScanIdent()
	if name == "" {
		return newErr(ErrExpectedVariable, line)
	}
	return e.declareArray(name, base, line)
}

// declareArray parses `[size] [= "str" | = {v, v...}]` for name, already
// scanned, and defines it as an owned array — the body shared by `dim` and
// an array declared directly off `word`/`byte`.
func (e *Engine) declareArray(name string, base BaseType, line int) *langError {
	e.cur.SkipSpace()
	if e.cur.AtEOF() || e.cur.peek() != '[' {
		return newErr(ErrBadDim, line)
	}
	e.cur.advance()
	size, err := e.evalExpr(line)
	if err != nil {
		return err
	}
	e.cur.SkipSpace()
	if e.cur.AtEOF() || e.cur.peek() != ']' {
		return newErr(ErrBadDim, line)
	}
	e.cur.advance()
	if size <= 0 {
		return errf(ErrBadDim, line, "%s", name)
	}
	addr, aerr := e.arenaV.AllocHigh(uint(size))
	if aerr != nil {
		panic(haltError{aerr})
	}
	v := &Variable{Name: name, Base: base, Kind: KindOwnedArray, ArrayAddr: int(addr), ArrayLen: size, IsLocal: e.syms.Depth() > 1}
	if err := e.syms.Define(v); err != nil {
		return err
	}

	e.cur.SkipSpace()
	if e.cur.AtEOF() || e.cur.peek() != '=' {
		return nil
	}
	e.cur.advance()
	e.cur.SkipSpace()
	if !e.cur.AtEOF() && e.cur.peek() == '"' {
		e.cur.advance()
		str, serr := e.cur.ScanQuotedString(line)
		if serr != nil {
			return serr
		}
		if len(str) > size {
			return errf(ErrInitializerTooLong, line, "%s", name)
		}
		for i := 0; i < len(str); i++ {
			e.storeArrayWord(addr+uint(i), base, int(str[i]))
		}
		return nil
	}
	if e.cur.AtEOF() || e.cur.peek() != '{' {
		return newErr(ErrBadValue, line)
	}
	e.cur.advance()
	i := 0
	for {
		e.cur.SkipSpace()
		if !e.cur.AtEOF() && e.cur.peek() == '}' {
			e.cur.advance()
			return nil
		}
		val, verr := e.evalExpr(line)
		if verr != nil {
			return verr
		}
		if i >= size {
			return errf(ErrInitializerTooLong, line, "%s", name)
		}
		e.storeArrayWord(addr+uint(i), base, val)
		i++
		e.cur.SkipSpace()
		if !e.cur.AtEOF() && e.cur.peek() == ',' {
			e.cur.advance()
			continue
		}
		if !e.cur.AtEOF() && e.cur.peek() == '}' {
			e.cur.advance()
			return nil
		}
		return newErr(ErrBadValue, line)
	}
}

func (e *Engine) storeArrayWord(addr uint, base BaseType, val int) {
	if base == TypeByte {
		_ = e.arenaV.StoreByte(addr, byte(val))
		return
	}
	_ = e.arenaV.Store(addr, val)
}

// execAssign implements `name = expr` and `name[idx] = expr`.
func (e *Engine) execAssign(name string, line int) *langError {
	v := e.syms.Lookup(name, false)
	if v == nil {
		return errf(ErrExpectedVariable, line, "%s", name)
	}
	e.cur.SkipSpace()
	if !e.cur.AtEOF() && e.cur.peek() == '[' {
		if !v.isArray() {
			return errf(ErrBadSubscript, line, "%s", name)
		}
		e.cur.advance()
		idx, err := e.evalExpr(line)
		if err != nil {
			return err
		}
		e.cur.SkipSpace()
		if e.cur.AtEOF() || e.cur.peek() != ']' {
			return newErr(ErrBadSubscript, line, "%s", name)
		}
		e.cur.advance()
		e.cur.SkipSpace()
		if e.cur.AtEOF() || e.cur.peek() != '=' {
			return newErr(ErrUnexpectedExtra, line)
		}
		e.cur.advance()
		val, err := e.evalExpr(line)
		if err != nil {
			return err
		}
		sink := newInterpretSink(e.arenaV, nil, line)
		sink.push(idx)
		sink.push(val)
		if serr := sink.StoreElem(v); serr != nil {
			return wrapRuntime(serr, line)
		}
		return nil
	}
	if e.cur.AtEOF() || e.cur.peek() != '=' {
		return newErr(ErrUnexpectedExtra, line)
	}
	e.cur.advance()
	val, err := e.evalExpr(line)
	if err != nil {
		return err
	}
	if v.Const {
		return errf(ErrAssigningConst, line, "%s", name)
	}
	v.Value = val
	return nil
}

// errKindForOpen maps an opening block keyword to the "no matching opener"
// error its closer raises when used unbalanced.
func errKindForOpen(tok Token) ErrKind {
	switch tok {
	case KwIf:
		return ErrNoIf
	case KwWhile:
		return ErrNoWhile
	case KwFor:
		return ErrNoFor
	case KwSub:
		return ErrNoSub
	}
	return ErrComplex
}

// scanToCloser scans forward from the current cursor position (without
// moving it) for the closing keyword matching openTok, tracking nesting
// depth so an inner block of the same kind doesn't confuse the match. When
// wantElse is set (IF only) it also records the first ELSE seen at depth 1.
func (e *Engine) scanToCloser(openTok, closeTok Token, wantElse bool, line int) (closeLine, closePos, elseLine, elsePos int, err *langError) {
	depth := 1
	cur := e.cur
	for {
		cur.SkipSpace()
		if cur.AtEOF() {
			return 0, 0, 0, 0, newErr(errKindForOpen(openTok), line)
		}
		startLine, startPos := cur.Line, cur.Pos
		tok, _ := cur.ScanKeywordOrIdent()
		switch {
		case tok == openTok:
			depth++
		case tok == closeTok:
			depth--
			if depth == 0 {
				return startLine, startPos, elseLine, elsePos, nil
			}
		case wantElse && tok == KwElse && depth == 1 && elseLine == 0:
			elseLine, elsePos = startLine, startPos
		}
		if cur.Line == startLine && cur.Pos == startPos {
			cur.advance()
		}
	}
}

func (e *Engine) execIf(line int) *langError {
	val, err := e.evalExpr(line)
	if err != nil {
		return err
	}
	e.ctrl.Push(&ControlFrame{Kind: FrameIf, CondTrue: val != 0})
	if val != 0 {
		return nil
	}
	closeLine, closePos, elseLine, elsePos, serr := e.scanToCloser(KwIf, KwEndIf, true, line)
	if serr != nil {
		return serr
	}
	if elseLine != 0 {
		e.jumpTo(elseLine, elsePos)
		e.cur.ScanKeywordOrIdent() // consume 'else', fall into its body
		return nil
	}
	e.jumpTo(closeLine, closePos)
	return nil
}

func (e *Engine) execElse(line int) *langError {
	if _, err := e.ctrl.PopExpect(FrameIf, line); err != nil {
		return err
	}
	closeLine, closePos, _, _, serr := e.scanToCloser(KwIf, KwEndIf, false, line)
	if serr != nil {
		return serr
	}
	e.jumpTo(closeLine, closePos)
	e.cur.ScanKeywordOrIdent() // consume ENDIF; its frame is already popped
	return nil
}

func (e *Engine) execEndIf(line int) *langError {
	_, err := e.ctrl.PopExpect(FrameIf, line)
	return err
}

// evalWhileGuard (re-)evaluates a WHILE's condition at (guardLine,
// guardPos): entering or re-entering the loop body, pushing a frame; or
// skipping straight past ENDWHILE when the condition is false.
func (e *Engine) evalWhileGuard(guardLine, guardPos, line int) *langError {
	e.jumpTo(guardLine, guardPos)
	val, err := e.evalExpr(line)
	if err != nil {
		return err
	}
	if val != 0 {
		e.ctrl.Push(&ControlFrame{Kind: FrameWhile, GuardLine: guardLine, GuardPos: guardPos})
		return nil
	}
	closeLine, closePos, _, _, serr := e.scanToCloser(KwWhile, KwEndWhile, false, line)
	if serr != nil {
		return serr
	}
	e.jumpTo(closeLine, closePos)
	e.cur.ScanKeywordOrIdent() // consume ENDWHILE; no frame to pop
	return nil
}

func (e *Engine) execWhile(line int) *langError {
	return e.evalWhileGuard(e.cur.Line, e.cur.Pos, line)
}

func (e *Engine) execEndWhile(line int) *langError {
	f, err := e.ctrl.PopExpect(FrameWhile, line)
	if err != nil {
		return err
	}
	return e.evalWhileGuard(f.GuardLine, f.GuardPos, line)
}

// execFor implements `for v = start : limit ... endfor`: v counts up from
// start, the loop running while v is strictly less than limit (the colon
// range's upper bound is exclusive, step fixed at +1).
func (e *Engine) execFor(line int) *langError {
	e.cur.SkipSpace()
	name := e.cur.ScanIdent()
	if name == "" {
		return newErr(ErrExpectedVariable, line)
	}
	v := e.syms.Lookup(name, false)
	if v == nil {
		return errf(ErrExpectedVariable, line, "%s", name)
	}
	if v.isArray() {
		return errf(ErrType, line, "%s", name)
	}
	e.cur.SkipSpace()
	if e.cur.AtEOF() || e.cur.peek() != '=' {
		return newErr(ErrBadExpression, line)
	}
	e.cur.advance()
	start, err := e.evalExpr(line)
	if err != nil {
		return err
	}
	e.cur.SkipSpace()
	if e.cur.AtEOF() || e.cur.peek() != ':' {
		return newErr(ErrBadExpression, line)
	}
	e.cur.advance()
	limit, err := e.evalExpr(line)
	if err != nil {
		return err
	}
	v.Value = start
	bodyLine, bodyPos := e.cur.Line, e.cur.Pos
	if v.Value >= limit {
		closeLine, closePos, _, _, serr := e.scanToCloser(KwFor, KwEndFor, false, line)
		if serr != nil {
			return serr
		}
		e.jumpTo(closeLine, closePos)
		e.cur.ScanKeywordOrIdent()
		return nil
	}
	e.ctrl.Push(&ControlFrame{Kind: FrameFor, ForVar: v, ForLimit: limit, GuardLine: bodyLine, GuardPos: bodyPos})
	return nil
}

func (e *Engine) execEndFor(line int) *langError {
	f, err := e.ctrl.PopExpect(FrameFor, line)
	if err != nil {
		return err
	}
	f.ForVar.Value++
	if f.ForVar.Value < f.ForLimit {
		e.ctrl.Push(f)
		e.jumpTo(f.GuardLine, f.GuardPos)
	}
	return nil
}

// execSubHeader is only reached by falling through from the previous
// statement rather than via CALL — always an error.
func (e *Engine) execSubHeader(line int) *langError {
	return newErr(ErrRanIntoSub, line)
}

func (e *Engine) execEndSub(line int) *langError {
	f, err := e.ctrl.PopExpect(FrameCall, line)
	if err != nil {
		return err
	}
	e.returnFromCall(f)
	return nil
}

// execReturn implements `return [expr]`: an omitted expression yields 0,
// the value doCall hands back to whatever expression or statement invoked
// the subroutine.
func (e *Engine) execReturn(line int) *langError {
	depth, f := e.ctrl.TopOfKind(FrameCall)
	if f == nil {
		return newErr(ErrNoSub, line)
	}
	e.cur.SkipSpace()
	val := 0
	if !e.cur.AtStatementEnd() {
		v, err := e.evalExpr(line)
		if err != nil {
			return err
		}
		val = v
	}
	e.returnValue = val
	e.ctrl.TruncateTo(depth)
	e.returnFromCall(f)
	return nil
}

func (e *Engine) returnFromCall(f *ControlFrame) {
	e.jumpTo(f.ReturnLine, f.ReturnPos)
	e.syms.PopFrame() // owned locals drop out of scope; doCall rolls Arena-V back to its entry mark
}

// callArg is one actual argument bound to a SUB parameter: a plain scalar
// value, or (for an array-by-reference parameter) the callee array's body
// address and element count.
type callArg struct {
	isArray bool
	value   int // scalar value, or array body address
	length  int // array element count (isArray only)
}

// parseCallArgs parses a CALL's optional parenthesized actual-argument
// list against sub's declared parameters: a scalar formal takes any
// expression, an array-by-reference formal takes a bare array name,
// resolved by lookup so its real ArrayLen carries into doCall's bound
// KindBorrowedArray binding rather than being lost to evaluation. Absent
// parentheses is only valid for a parameterless sub, preserving every
// existing zero-arg `call name`.
func (e *Engine) parseCallArgs(sub *Subroutine, line int) ([]callArg, *langError) {
	e.cur.SkipSpace()
	if e.cur.AtEOF() || e.cur.peek() != '(' {
		if len(sub.Params) == 0 {
			return nil, nil
		}
		return nil, errf(ErrArgument, line, "%s: expected %d argument(s)", sub.Name, len(sub.Params))
	}
	e.cur.advance()
	var args []callArg
	e.cur.SkipSpace()
	if !e.cur.AtEOF() && e.cur.peek() == ')' {
		e.cur.advance()
	} else {
		for {
			i := len(args)
			if i >= len(sub.Params) {
				return nil, errf(ErrArgument, line, "%s: too many arguments", sub.Name)
			}
			p := sub.Params[i]
			e.cur.SkipSpace()
			if p.Kind == ParamArrayRef {
				name := e.cur.ScanIdent()
				v := e.syms.Lookup(name, false)
				if v == nil || !v.isArray() {
					return nil, errf(ErrArgument, line, "%s: %s expects an array", sub.Name, p.Name)
				}
				args = append(args, callArg{isArray: true, value: int(e.arrayBase(v)), length: v.ArrayLen})
			} else {
				val, err := e.evalExpr(line)
				if err != nil {
					return nil, err
				}
				args = append(args, callArg{value: val})
			}
			e.cur.SkipSpace()
			if !e.cur.AtEOF() && e.cur.peek() == ',' {
				e.cur.advance()
				continue
			}
			if e.cur.AtEOF() || e.cur.peek() != ')' {
				return nil, errf(ErrArgument, line, "%s: expected ',' or ')'", sub.Name)
			}
			e.cur.advance()
			break
		}
	}
	if len(args) != len(sub.Params) {
		return nil, errf(ErrArgument, line, "%s: expected %d argument(s), got %d", sub.Name, len(sub.Params), len(args))
	}
	return args, nil
}

func (e *Engine) execCall(line int) *langError {
	e.cur.SkipSpace()
	name := e.cur.ScanIdent()
	if name == "" {
		return newErr(ErrExpectedVariable, line)
	}
	sub, ok := e.subs.Lookup(name)
	if !ok {
		return errf(ErrNoSub, line, "%s", name)
	}
	args, aerr := e.parseCallArgs(sub, line)
	if aerr != nil {
		return aerr
	}
	_, err := e.doCall(sub, args, line)
	return err
}

// doCall performs a subroutine call, whether invoked as a `call name(...)`
// statement or from within an expression (`x = fib(n-1) + 1`). It binds
// each actual to its formal (scalar parameters by value, array parameters
// by reference via a fresh one-word indirection cell), then drives the
// same statement loop recursively, bounded by its own call frame's depth,
// so nested CALLs and expression-context calls share one execution path
// with top-level RUN. The value returned is whatever RETURN (or falling
// off the end via ENDSUB) last set, defaulting to 0.
func (e *Engine) doCall(sub *Subroutine, args []callArg, line int) (int, *langError) {
	retLine, retPos := e.cur.Line, e.cur.Pos
	mark := e.arenaV.Mark()
	defer e.arenaV.Reset(mark)
	e.ctrl.Push(&ControlFrame{Kind: FrameCall, ReturnLine: retLine, ReturnPos: retPos, SymDepth: e.syms.Depth()})
	callDepth := e.ctrl.Depth()
	e.syms.PushFrame()
	for i, p := range sub.Params {
		a := args[i]
		if p.Kind == ParamArrayRef {
			cell, aerr := e.arenaV.AllocHigh(1)
			if aerr != nil {
				panic(haltError{aerr})
			}
			if serr := e.arenaV.Store(cell, a.value); serr != nil {
				panic(haltError{serr})
			}
			v := &Variable{Name: p.Name, Base: p.Base, Kind: KindBorrowedArray, ArrayAddr: int(cell), ArrayLen: a.length, IsLocal: true}
			if err := e.syms.Define(v); err != nil {
				return 0, err
			}
			continue
		}
		v := &Variable{Name: p.Name, Base: p.Base, Kind: KindScalar, Value: a.value, IsLocal: true}
		if err := e.syms.Define(v); err != nil {
			return 0, err
		}
	}
	e.returnValue = 0
	e.jumpTo(sub.BodyStart, 0)
	for e.ctrl.Depth() >= callDepth {
		if e.cur.AtEOF() {
			return 0, errf(ErrLink, sub.DefLine, "sub %s fell off the end", sub.Name)
		}
		if err := e.stepStatement(); err != nil {
			return 0, err
		}
	}
	return e.returnValue, nil
}

func (e *Engine) execPrint(tok Token, line int) *langError {
	switch tok {
	case KwPrDec:
		v, err := e.evalExpr(line)
		if err != nil {
			return err
		}
		e.emit(fmt.Sprintf("%d", v))
	case KwPrHex:
		v, err := e.evalExpr(line)
		if err != nil {
			return err
		}
		e.emit(fmt.Sprintf("%x", uint16(v)))
	case KwPrCh:
		v, err := e.evalExpr(line)
		if err != nil {
			return err
		}
		e.emit(string(rune(byte(v))))
	case KwPrNl:
		e.emit("\n")
	case KwPrMsg:
		e.cur.SkipSpace()
		if e.cur.AtEOF() || e.cur.peek() != '"' {
			return newErr(ErrBadString, line)
		}
		e.cur.advance()
		s, serr := e.cur.ScanQuotedString(line)
		if serr != nil {
			return serr
		}
		e.emit(s)
	case KwPrStr:
		e.cur.SkipSpace()
		name := e.cur.ScanIdent()
		v := e.syms.Lookup(name, false)
		if v == nil || !v.isArray() {
			return errf(ErrExpectedVariable, line, "%s", name)
		}
		base := e.arrayBase(v)
		for i := 0; i < v.ArrayLen; i++ {
			b := e.arenaV.LoadByte(base + uint(i))
			if b == 0 {
				break
			}
			e.emit(string(rune(b)))
		}
	}
	return nil
}

func (e *Engine) arrayBase(v *Variable) uint {
	base := uint(v.ArrayAddr)
	if v.Kind == KindBorrowedArray {
		base = uint(e.arenaV.Load(base))
	}
	return base
}

func (e *Engine) execKbd(tok Token, line int) *langError {
	e.cur.SkipSpace()
	name := e.cur.ScanIdent()
	v := e.syms.Lookup(name, false)
	if v == nil {
		return errf(ErrExpectedVariable, line, "%s", name)
	}
	if e.in == nil {
		return errf(ErrFile, line, "no input source")
	}
	switch tok {
	case KwKbdCh:
		r, _, rerr := e.in.ReadRune()
		if rerr != nil {
			v.Value = -1
			return nil
		}
		v.Value = int(r)
	case KwKbdLn:
		if !v.isArray() {
			return errf(ErrType, line, "%s", name)
		}
		base := e.arrayBase(v)
		i := 0
		for i < v.ArrayLen-1 {
			r, _, rerr := e.in.ReadRune()
			if rerr != nil || r == '\n' {
				break
			}
			_ = e.arenaV.StoreByte(base+uint(i), byte(r))
			i++
		}
		_ = e.arenaV.StoreByte(base+uint(i), 0)
	}
	return nil
}

func (e *Engine) execQuit(line int) *langError {
	code := 0
	e.cur.SkipSpace()
	if !e.cur.AtStatementEnd() {
		v, err := e.evalExpr(line)
		if err != nil {
			return err
		}
		code = v
	}
	panic(quitSignal{code})
}

// scanSubs performs the one-time pre-pass that locates every
// top-level SUB...ENDSUB block before RUN starts, so CALL (and forward
// calls from within expressions) can jump straight to a body without the
// one-pass restriction the bytecode compiler is under.
func (e *Engine) scanSubs() *langError {
	for n := 1; n <= e.prog.Count(); n++ {
		cur := NewCursor(e.prog, n)
		cur.SkipSpace()
		if tok, _ := cur.ScanKeywordOrIdent(); tok != KwSub {
			continue
		}
		cur.SkipSpace()
		name := cur.ScanIdent()
		if name == "" {
			return newErr(ErrExpectedVariable, n)
		}
		params, perr := parseParamList(&cur, n)
		if perr != nil {
			return perr
		}
		depth := 1
		endLine := 0
		for {
			cur.SkipSpace()
			if cur.AtEOF() {
				return errf(ErrLink, n, "unterminated sub %s", name)
			}
			sl, sp := cur.Line, cur.Pos
			t, _ := cur.ScanKeywordOrIdent()
			if t == KwSub {
				depth++
			} else if t == KwEndSub {
				depth--
				if depth == 0 {
					endLine = sl
					break
				}
			}
			if cur.Line == sl && cur.Pos == sp {
				cur.advance()
			}
		}
		sub := &Subroutine{Name: name, DefLine: n, BodyStart: n + 1, EndLine: endLine, Params: params}
		if err := e.subs.Define(sub); err != nil {
			return err
		}
		sub.defined = true
	}
	return nil
}

func (e *Engine) execRun(line int) *langError {
	e.subs = NewSubTable()
	if err := e.scanSubs(); err != nil {
		return err
	}
	e.ctrl.Reset()
	e.cur = NewCursor(e.prog, 1)
	for !e.cur.AtEOF() {
		if e.ctx != nil && e.ctx.Err() != nil {
			panic(interruptError{Line: e.cur.Line})
		}
		if err := e.stepStatement(); err != nil {
			return err
		}
	}
	return nil
}

func (e *Engine) execComp(line int) *langError {
	e.cur.SkipSpace()
	if e.cur.AtEOF() || e.cur.peek() != '"' {
		return newErr(ErrBadString, line)
	}
	e.cur.advance()
	filename, serr := e.cur.ScanQuotedString(line)
	if serr != nil {
		return serr
	}
	return e.CompileToFile(filename)
}
