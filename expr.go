package main

// exprSink receives the primaries and reductions an expression parse
// produces. interpretSink folds them into an int immediately; compileSink
// emits bytecode that will do the same folding at run time. Driving both
// off one parser instead of two parallel interpret/compile code paths means
// the shunting-yard logic and the precedence table in token.go are written
// exactly once.
type exprSink interface {
	Literal(v int)
	LoadScalar(v *Variable) error
	LoadElem(v *Variable) error
	AddressOf(v *Variable)
	Call(name string, nargs int) error
	Unary(op Token) error
	Binary(op Token) error
}

// opFrame is one entry on the shunting-yard operator stack: an operator
// token together with the arity it is being applied at (unary prefix
// operators and their binary namesakes, e.g. '-', share a token but not a
// precedence).
type opFrame struct {
	tok   Token
	arity int
}

// exprParser implements the shunting-yard evaluator: primaries are
// pushed through sink as they are scanned, operators are held on an
// explicit stack and reduced (popped and applied through sink) whenever
// the next operator does not bind tighter than the one on top.
type exprParser struct {
	cur  *Cursor
	syms *SymbolTable
	sink exprSink
	line int
}

func newExprParser(cur *Cursor, syms *SymbolTable, sink exprSink, line int) *exprParser {
	return &exprParser{cur: cur, syms: syms, sink: sink, line: line}
}

// ParseExpr consumes one expression starting at the cursor's current
// position and leaves the cursor just past it (at a statement separator,
// closing bracket, comma, or end of line — whichever ends the expression).
func (p *exprParser) ParseExpr() *langError {
	var opStack []opFrame
	expectOperand := true

	for {
		p.cur.SkipSpace()

		if expectOperand {
			if p.cur.AtStatementEnd() {
				return newErr(ErrBadExpression, p.line)
			}
			if tok := p.peekOperator(); tok == OpAmp {
				p.consumeOperator()
				if err := p.parseAddressOf(); err != nil {
					return err
				}
				expectOperand = false
				continue
			}
			if tok := p.peekOperator(); tok != TokIllegal && isUnaryCapable(tok) {
				p.consumeOperator()
				opStack = append(opStack, opFrame{tok, 1})
				continue
			}
			if err := p.parsePrimary(); err != nil {
				return err
			}
			expectOperand = false
			continue
		}

		if p.cur.AtStatementEnd() {
			break
		}
		tok := p.peekOperator()
		if tok == TokIllegal || precLevel(tok, 2) < 0 {
			break
		}
		p.consumeOperator()
		curPrec := precLevel(tok, 2)
		for len(opStack) > 0 {
			top := opStack[len(opStack)-1]
			topPrec := precLevel(top.tok, top.arity)
			if top.arity == 1 || topPrec > curPrec || (topPrec == curPrec && !rightAssoc(tok)) {
				if err := p.reduce(&opStack); err != nil {
					return err
				}
				continue
			}
			break
		}
		opStack = append(opStack, opFrame{tok, 2})
		expectOperand = true
	}

	if expectOperand {
		return newErr(ErrBadExpression, p.line)
	}
	for len(opStack) > 0 {
		if err := p.reduce(&opStack); err != nil {
			return err
		}
	}
	return nil
}

func (p *exprParser) reduce(stack *[]opFrame) *langError {
	s := *stack
	top := s[len(s)-1]
	*stack = s[:len(s)-1]
	var err error
	if top.arity == 1 {
		err = p.sink.Unary(top.tok)
	} else {
		err = p.sink.Binary(top.tok)
	}
	if err != nil {
		return wrapRuntime(err, p.line)
	}
	return nil
}

// peekOperator classifies the operator at the cursor without consuming it.
func (p *exprParser) peekOperator() Token {
	save := *p.cur
	tok := p.cur.ScanOperator()
	*p.cur = save
	return tok
}

// consumeOperator re-scans and advances past the operator peekOperator just
// classified; ScanOperator is a pure function of cursor position so this
// reproduces the same token.
func (p *exprParser) consumeOperator() { p.cur.ScanOperator() }

func (p *exprParser) parsePrimary() *langError {
	c := p.cur
	c.SkipSpace()
	switch {
	case c.AtEOF():
		return newErr(ErrBadExpression, p.line)
	case c.peek() == '(':
		c.advance()
		if err := p.ParseExpr(); err != nil {
			return err
		}
		c.SkipSpace()
		if c.AtEOF() || c.peek() != ')' {
			return newErr(ErrBadExpression, p.line)
		}
		c.advance()
		return nil
	case isDigit(c.peek()) || c.peek() == '$' || c.peek() == '\'':
		v, ok, err := c.ScanNumber(p.line)
		if err != nil {
			return err
		}
		if !ok {
			return newErr(ErrBadNumber, p.line)
		}
		p.sink.Literal(v)
		return nil
	case isAlpha(c.peek()):
		name := c.ScanIdent()
		return p.parseIdentRef(name)
	}
	return newErr(ErrBadExpression, p.line)
}

// parseIdentRef resolves an identifier already scanned as either a
// subroutine call `name(args)`, an array subscript `name[expr]`, a bare
// array reference (decays to its base address), or a scalar load.
func (p *exprParser) parseIdentRef(name string) *langError {
	c := p.cur
	c.SkipSpace()

	if !c.AtEOF() && c.peek() == '(' {
		c.advance()
		nargs := 0
		c.SkipSpace()
		if !c.AtEOF() && c.peek() == ')' {
			c.advance()
		} else {
			for {
				if err := p.ParseExpr(); err != nil {
					return err
				}
				nargs++
				c.SkipSpace()
				if !c.AtEOF() && c.peek() == ',' {
					c.advance()
					continue
				}
				if c.AtEOF() || c.peek() != ')' {
					return newErr(ErrBadExpression, p.line)
				}
				c.advance()
				break
			}
		}
		if err := p.sink.Call(name, nargs); err != nil {
			return wrapRuntime(err, p.line)
		}
		return nil
	}

	v := p.syms.Lookup(name, false)
	if v == nil {
		return errf(ErrExpectedVariable, p.line, "%s", name)
	}

	if !c.AtEOF() && c.peek() == '[' {
		if !v.isArray() {
			return errf(ErrBadSubscript, p.line, "%s is not an array", name)
		}
		c.advance()
		if err := p.ParseExpr(); err != nil {
			return err
		}
		c.SkipSpace()
		if c.AtEOF() || c.peek() != ']' {
			return newErr(ErrBadSubscript, p.line, "%s", name)
		}
		c.advance()
		if err := p.sink.LoadElem(v); err != nil {
			return wrapRuntime(err, p.line)
		}
		return nil
	}

	if v.isArray() {
		p.sink.AddressOf(v)
		return nil
	}
	if err := p.sink.LoadScalar(v); err != nil {
		return wrapRuntime(err, p.line)
	}
	return nil
}

func (p *exprParser) parseAddressOf() *langError {
	c := p.cur
	c.SkipSpace()
	if c.AtEOF() || !isAlpha(c.peek()) {
		return newErr(ErrExpectedVariable, p.line)
	}
	name := c.ScanIdent()
	v := p.syms.Lookup(name, false)
	if v == nil {
		return errf(ErrExpectedVariable, p.line, "%s", name)
	}
	p.sink.AddressOf(v)
	return nil
}

// wrapRuntime lifts a plain error surfaced from a sink (e.g. divide-by-zero,
// an arena/stack exhaustion bubbled up as haltError) into a *langError
// carrying the current line, unless it already is one.
func wrapRuntime(err error, line int) *langError {
	if le, ok := err.(*langError); ok {
		if le.Line == 0 {
			le.Line = line
		}
		return le
	}
	return errf(ErrComplex, line, "%v", err)
}
