package main

// interpretSink implements exprSink and lvalueSink by folding each
// production into an int immediately, using its own small value stack
// rather than the arena-backed bytecode stack compileSink targets. arenaV
// gives it somewhere to read/write array bodies; callFn lets it invoke a
// subroutine from within an expression (CALL-in-expression) without
// expr.go needing to know anything about the statement executor.
type interpretSink struct {
	stack  []int
	arenaV *Arena
	callFn func(name string, args []int) (int, error)
	line   int
}

func newInterpretSink(arenaV *Arena, callFn func(name string, args []int) (int, error), line int) *interpretSink {
	return &interpretSink{arenaV: arenaV, callFn: callFn, line: line}
}

func (s *interpretSink) push(v int) { s.stack = append(s.stack, v) }

func (s *interpretSink) pop() int {
	n := len(s.stack)
	v := s.stack[n-1]
	s.stack = s.stack[:n-1]
	return v
}

// Result returns (and clears) the single value left on the stack once a
// full expression has been parsed.
func (s *interpretSink) Result() (int, *langError) {
	if len(s.stack) != 1 {
		return 0, errf(ErrComplex, s.line, "expression left %d values on the stack", len(s.stack))
	}
	return s.pop(), nil
}

func (s *interpretSink) Literal(v int) { s.push(v) }

func (s *interpretSink) LoadScalar(v *Variable) error {
	s.push(v.Value)
	return nil
}

func (s *interpretSink) StoreScalar(v *Variable) error {
	if v.Const {
		return errf(ErrAssigningConst, s.line, "%s", v.Name)
	}
	v.Value = s.pop()
	return nil
}

func (s *interpretSink) elemAddr(v *Variable, idx int) (uint, error) {
	if idx < 0 || idx >= v.ArrayLen {
		return 0, errf(ErrBadSubscript, s.line, "%s[%d]", v.Name, idx)
	}
	base := uint(v.ArrayAddr)
	if v.Kind == KindBorrowedArray {
		base = uint(s.arenaV.Load(base))
	}
	return base + uint(idx), nil
}

func (s *interpretSink) LoadElem(v *Variable) error {
	idx := s.pop()
	addr, err := s.elemAddr(v, idx)
	if err != nil {
		return err
	}
	if v.Base == TypeByte {
		s.push(int(s.arenaV.LoadByte(addr)))
	} else {
		s.push(s.arenaV.Load(addr))
	}
	return nil
}

func (s *interpretSink) StoreElem(v *Variable) error {
	val := s.pop()
	idx := s.pop()
	addr, err := s.elemAddr(v, idx)
	if err != nil {
		return err
	}
	if v.Base == TypeByte {
		return s.arenaV.StoreByte(addr, byte(val))
	}
	return s.arenaV.Store(addr, val)
}

func (s *interpretSink) AddressOf(v *Variable) {
	if v.isArray() {
		addr := v.ArrayAddr
		if v.Kind == KindBorrowedArray {
			addr = s.arenaV.Load(uint(addr))
		}
		s.push(addr)
		return
	}
	s.push(v.Value)
}

func (s *interpretSink) Call(name string, nargs int) error {
	if s.callFn == nil {
		return errf(ErrNoSub, s.line, "%s", name)
	}
	args := make([]int, nargs)
	for i := nargs - 1; i >= 0; i-- {
		args[i] = s.pop()
	}
	v, err := s.callFn(name, args)
	if err != nil {
		return err
	}
	s.push(v)
	return nil
}

func (s *interpretSink) Unary(op Token) error {
	switch op {
	case OpMinus:
		s.push(-s.pop())
	case OpPlus:
		// identity
	case OpBang:
		if s.pop() == 0 {
			s.push(1)
		} else {
			s.push(0)
		}
	case OpTilde:
		s.push(^s.pop())
	case OpStar:
		addr := s.pop()
		s.push(s.arenaV.Load(uint(addr)))
	case OpCaret:
		addr := s.pop()
		s.push(int(s.arenaV.LoadByte(uint(addr))))
	default:
		return errf(ErrBadExpression, s.line, "unsupported unary operator")
	}
	return nil
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func (s *interpretSink) Binary(op Token) error {
	b := s.pop()
	a := s.pop()
	switch op {
	case OpPlus:
		s.push(a + b)
	case OpMinus:
		s.push(a - b)
	case OpStar:
		s.push(a * b)
	case OpSlash:
		if b == 0 {
			return errf(ErrDivideByZero, s.line, "")
		}
		s.push(a / b)
	case OpPercent:
		if b == 0 {
			return errf(ErrDivideByZero, s.line, "")
		}
		s.push(a % b)
	case OpPow:
		s.push(intPow(a, b))
	case OpAmp:
		s.push(a & b)
	case OpPipe:
		s.push(a | b)
	case OpCaret:
		s.push(a ^ b)
	case OpShl:
		s.push(a << uint(b))
	case OpShr:
		s.push(a >> uint(b))
	case OpLt:
		s.push(boolInt(a < b))
	case OpLe:
		s.push(boolInt(a <= b))
	case OpGt:
		s.push(boolInt(a > b))
	case OpGe:
		s.push(boolInt(a >= b))
	case OpEq:
		s.push(boolInt(a == b))
	case OpNe:
		s.push(boolInt(a != b))
	case OpAndAnd:
		s.push(boolInt(a != 0 && b != 0))
	case OpOrOr:
		s.push(boolInt(a != 0 || b != 0))
	default:
		return errf(ErrBadExpression, s.line, "unsupported binary operator")
	}
	return nil
}

func intPow(base, exp int) int {
	if exp < 0 {
		return 0
	}
	result := 1
	for ; exp > 0; exp-- {
		result *= base
	}
	return result
}
