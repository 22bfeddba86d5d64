package main

import "testing"

func cursorOn(text string) Cursor {
	return Cursor{Text: text, src: singleLineSource{}}
}

func TestScanIdentAllowsDottedKeywords(t *testing.T) {
	c := cursorOn("pr.dec 5")
	if got := c.ScanIdent(); got != "pr.dec" {
		t.Fatalf("ScanIdent = %q, want pr.dec", got)
	}
}

func TestScanKeywordOrIdentCaseInsensitive(t *testing.T) {
	c := cursorOn("WHILE")
	tok, word := c.ScanKeywordOrIdent()
	if tok != KwWhile || word != "WHILE" {
		t.Fatalf("got (%v, %q), want (KwWhile, \"WHILE\")", tok, word)
	}
}

func TestScanKeywordOrIdentFallsBackToIdent(t *testing.T) {
	c := cursorOn("counter")
	tok, word := c.ScanKeywordOrIdent()
	if tok != TokIdent || word != "counter" {
		t.Fatalf("got (%v, %q), want (TokIdent, \"counter\")", tok, word)
	}
}

func TestScanNumberDecimal(t *testing.T) {
	c := cursorOn("1234rest")
	v, ok, err := c.ScanNumber(1)
	if err != nil || !ok || v != 1234 {
		t.Fatalf("got (%d, %v, %v), want (1234, true, nil)", v, ok, err)
	}
	if c.Pos != 4 {
		t.Fatalf("cursor left at %d, want 4", c.Pos)
	}
}

func TestScanNumberHex(t *testing.T) {
	c := cursorOn("$ff")
	v, ok, err := c.ScanNumber(1)
	if err != nil || !ok || v != 255 {
		t.Fatalf("got (%d, %v, %v), want (255, true, nil)", v, ok, err)
	}
}

func TestScanNumberHexRequiresDigits(t *testing.T) {
	c := cursorOn("$")
	_, ok, err := c.ScanNumber(1)
	if ok || err == nil {
		t.Fatal("expected a bad-number error for a bare $")
	}
	if err.Kind != ErrBadNumber {
		t.Fatalf("got error kind %v, want %v", err.Kind, ErrBadNumber)
	}
}

func TestScanNumberCharLiteral(t *testing.T) {
	c := cursorOn("'A'")
	v, ok, err := c.ScanNumber(1)
	if err != nil || !ok || v != 'A' {
		t.Fatalf("got (%d, %v, %v), want (65, true, nil)", v, ok, err)
	}
}

func TestScanNumberCharLiteralEscape(t *testing.T) {
	cases := map[string]rune{
		`'\n'`: '\n',
		`'\t'`: '\t',
		`'\r'`: '\r',
		`'\0'`: 0,
		`'\''`: '\'',
	}
	for src, want := range cases {
		c := cursorOn(src)
		v, ok, err := c.ScanNumber(1)
		if err != nil || !ok || v != int(want) {
			t.Errorf("ScanNumber(%q) = (%d, %v, %v), want (%d, true, nil)", src, v, ok, err, want)
		}
	}
}

func TestScanNumberCharLiteralUnterminated(t *testing.T) {
	c := cursorOn("'A")
	_, ok, err := c.ScanNumber(1)
	if ok || err == nil || err.Kind != ErrExpectedChar {
		t.Fatalf("got (%v, %v), want ErrExpectedChar", ok, err)
	}
}

func TestScanOperatorPrefersTwoCharMatch(t *testing.T) {
	c := cursorOn("<=5")
	tok := c.ScanOperator()
	if tok != OpLe {
		t.Fatalf("ScanOperator = %v, want OpLe", tok)
	}
	if c.Pos != 2 {
		t.Fatalf("cursor left at %d, want 2", c.Pos)
	}
}

func TestScanOperatorFallsBackToOneChar(t *testing.T) {
	c := cursorOn("<5")
	tok := c.ScanOperator()
	if tok != OpLt {
		t.Fatalf("ScanOperator = %v, want OpLt", tok)
	}
	if c.Pos != 1 {
		t.Fatalf("cursor left at %d, want 1", c.Pos)
	}
}

func TestScanOperatorIllegalOnUnknownByte(t *testing.T) {
	c := cursorOn("@")
	if tok := c.ScanOperator(); tok != TokIllegal {
		t.Fatalf("ScanOperator(@) = %v, want TokIllegal", tok)
	}
}

func TestScanQuotedStringEscapes(t *testing.T) {
	c := cursorOn(`hello\tworld"rest`)
	s, err := c.ScanQuotedString(1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s != "hello\tworld" {
		t.Fatalf("got %q, want %q", s, "hello\tworld")
	}
}

func TestScanQuotedStringUnterminated(t *testing.T) {
	c := cursorOn("no closing quote")
	_, err := c.ScanQuotedString(1)
	if err == nil || err.Kind != ErrBadString {
		t.Fatalf("got %v, want ErrBadString", err)
	}
}

func TestAtEOFCrossesIntoNextLine(t *testing.T) {
	prog := &Program{}
	prog.Append("first")
	prog.Append("second")
	c := NewCursor(prog, 1)
	c.Pos = len(c.Text)
	if c.AtEOF() {
		t.Fatal("expected cursor to cross onto line 2 instead of reporting EOF")
	}
	if c.Line != 2 || c.Text != "second" {
		t.Fatalf("cursor at line %d (%q), want line 2 (\"second\")", c.Line, c.Text)
	}
}

func TestAtEOFTrueAtEndOfProgram(t *testing.T) {
	prog := &Program{}
	prog.Append("only")
	c := NewCursor(prog, 1)
	c.Pos = len(c.Text)
	if !c.AtEOF() {
		t.Fatal("expected EOF at the end of a one-line program")
	}
}

func TestSkipStatementSepConsumesSemicolon(t *testing.T) {
	c := cursorOn("  ; next")
	c.SkipStatementSep()
	if c.Pos != 3 {
		t.Fatalf("cursor left at %d, want 3 (just past the ';')", c.Pos)
	}
}
