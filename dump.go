package main

import (
	"fmt"
	"io"

	"github.com/mattn/go-runewidth"
)

// engineDumper prints a debug snapshot of the running engine for --dump:
// the symbol table, the open control-flow frames, and the live subroutine
// table, column-aligned the same way a raw memory dump lines up its words —
// here the alignment is by variable name and frame rather than by address,
// since variables are inspected by name rather than by raw word.
type engineDumper struct {
	eng *Engine
	out io.Writer
}

func (d engineDumper) dump() {
	fmt.Fprintf(d.out, "# EightBall Dump\n")
	fmt.Fprintf(d.out, "  cursor: line %v, pos %v\n", d.eng.cur.Line, d.eng.cur.Pos)
	d.dumpVars()
	d.dumpControl()
	d.dumpSubs()
}

func (d engineDumper) dumpVars() {
	vars := d.eng.syms.All()
	fmt.Fprintf(d.out, "  vars: %v\n", len(vars))
	nameWidth := 0
	for _, v := range vars {
		if w := runewidth.StringWidth(v.Name); w > nameWidth {
			nameWidth = w
		}
	}
	for _, v := range vars {
		pad := nameWidth - runewidth.StringWidth(v.Name)
		switch v.Kind {
		case KindScalar:
			fmt.Fprintf(d.out, "    %s%*s = %v%s\n", v.Name, pad, "", v.Value, constTag(v))
		default:
			fmt.Fprintf(d.out, "    %s%*s [%v]%s @%v\n", v.Name, pad, "", v.ArrayLen, borrowTag(v), v.ArrayAddr)
		}
	}
}

func constTag(v *Variable) string {
	if v.Const {
		return " (const)"
	}
	return ""
}

func borrowTag(v *Variable) string {
	if v.Kind == KindBorrowedArray {
		return " (borrowed)"
	}
	return ""
}

func (d engineDumper) dumpControl() {
	fmt.Fprintf(d.out, "  control stack: %v frame(s)\n", d.eng.ctrl.Depth())
	for i, f := range d.eng.ctrl.frames {
		fmt.Fprintf(d.out, "    #%v %s\n", i, frameKindName(f.Kind))
	}
}

func frameKindName(k FrameKind) string {
	switch k {
	case FrameIf:
		return "if"
	case FrameWhile:
		return "while"
	case FrameFor:
		return "for"
	case FrameCall:
		return "call"
	}
	return "?"
}

func (d engineDumper) dumpSubs() {
	fmt.Fprintf(d.out, "  subs: %v\n", len(d.eng.subs.subs))
	for _, s := range d.eng.subs.subs {
		fmt.Fprintf(d.out, "    %s defined at line %v, body @%v\n", s.Name, s.DefLine, s.BodyStart)
	}
}
