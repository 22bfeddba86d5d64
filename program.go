package main

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"
)

// Program is the source store: an ordered, 1-based sequence of
// source lines with append/insert/delete/replace. The reference model
// describes an intrusive singly-linked list of Line{text, next} records;
// a dynamic slice gives the same ordered-sequence semantics idiomatically
// in Go, without hand-rolling pointer-chasing that Go's garbage collector
// and slice growth already do for us.
type Program struct {
	lines []string // lines[i] holds the text of line i+1
}

// lineText implements lineSource for Cursor: it is how a statement whose
// body spans multiple physical lines (IF/WHILE/FOR/SUB) keeps reading past
// the end of the line it started on.
func (p *Program) lineText(n int) (string, bool) {
	if n < 1 || n > len(p.lines) {
		return "", false
	}
	return p.lines[n-1], true
}

// Count returns the number of lines currently stored.
func (p *Program) Count() int { return len(p.lines) }

// Line returns line n's text (1-based), or "" if out of range.
func (p *Program) Line(n int) string {
	text, _ := p.lineText(n)
	return text
}

// Reset clears the whole program, as happens on :r (load).
func (p *Program) Reset() { p.lines = nil }

// Append adds text as a new last line.
func (p *Program) Append(text string) { p.lines = append(p.lines, text) }

// AppendAfter implements `:a n`: insert text immediately after line n.
func (p *Program) AppendAfter(n int, text string) error {
	if n < 0 || n > len(p.lines) {
		return errf(ErrBadLine, 0, "no such line %v", n)
	}
	return p.insertAt(n+1, text)
}

// InsertBefore implements `:i n`: insert text immediately before line n,
// with the documented special case of inserting before line 1 on an empty
// program.
func (p *Program) InsertBefore(n int, text string) error {
	if n < 1 {
		n = 1
	}
	if n > len(p.lines)+1 {
		return errf(ErrBadLine, 0, "no such line %v", n)
	}
	return p.insertAt(n, text)
}

func (p *Program) insertAt(n int, text string) error {
	p.lines = append(p.lines, "")
	copy(p.lines[n:], p.lines[n-1:])
	p.lines[n-1] = text
	return nil
}

// Delete implements `:d n[,m]`: delete the inclusive line range [n,m]
// (m defaults to n).
func (p *Program) Delete(n, m int) error {
	if m < n {
		m = n
	}
	if n < 1 || m > len(p.lines) {
		return errf(ErrBadLine, 0, "no such line range %v,%v", n, m)
	}
	p.lines = append(p.lines[:n-1], p.lines[m:]...)
	return nil
}

// Replace implements `:c n:<text>`.
func (p *Program) Replace(n int, text string) error {
	if n < 1 || n > len(p.lines) {
		return errf(ErrBadLine, 0, "no such line %v", n)
	}
	p.lines[n-1] = text
	return nil
}

// List implements `:l [from[,to]]`, returning the inclusive line range as
// "N text" pairs. from==0 means "from the start"; to==0 means "to the end".
func (p *Program) List(from, to int) []string {
	if from <= 0 {
		from = 1
	}
	if to <= 0 || to > len(p.lines) {
		to = len(p.lines)
	}
	out := make([]string, 0, to-from+1)
	for n := from; n <= to; n++ {
		out = append(out, fmt.Sprintf("%4d %s", n, expandTabs(p.lines[n-1])))
	}
	return out
}

// expandTabs widens each tab to the next multiple-of-8 printable column,
// tracking column position by printable rune width rather than byte or rune
// count so a line mixing tabs with wide (e.g. CJK) runes still lists with
// its tab stops lined up.
func expandTabs(s string) string {
	if !strings.ContainsRune(s, '\t') {
		return s
	}
	var sb strings.Builder
	col := 0
	for _, r := range s {
		if r == '\t' {
			n := 8 - col%8
			sb.WriteString(strings.Repeat(" ", n))
			col += n
			continue
		}
		sb.WriteRune(r)
		col += runewidth.RuneWidth(r)
	}
	return sb.String()
}

// Load replaces the program with the lines read from r, trimming \r and \n
// line terminators as the reference loader does.
func (p *Program) Load(r io.Reader) error {
	p.Reset()
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 256), maxSourceLineLength)
	for sc.Scan() {
		line := strings.TrimRight(sc.Text(), "\r")
		if len(line) > maxSourceLineLength {
			return errf(ErrBadLine, 0, "line exceeds %v bytes", maxSourceLineLength)
		}
		p.Append(line)
	}
	return sc.Err()
}

// Save writes the program to w using the platform's native newline.
func (p *Program) Save(w io.Writer) error {
	bw := bufio.NewWriter(w)
	for _, line := range p.lines {
		if _, err := bw.WriteString(line); err != nil {
			return err
		}
		if err := bw.WriteByte('\n'); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// maxSourceLineLength is the wire-level ceiling: "Maximum line
// length 254 bytes."
const maxSourceLineLength = 254
