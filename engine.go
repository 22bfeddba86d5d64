package main

import (
	"context"
	"io"

	"github.com/eightball-lang/eightball/internal/fileinput"
	"github.com/eightball-lang/eightball/internal/flushio"
)

// Default arena sizes in words, overridable via WithArenaSizes or a YAML
// --arena-config file (SPEC_FULL.md's ambient configuration surface).
const (
	DefaultArenaV = 4096
	DefaultArenaP = 8192
)

// ArenaSizes is the YAML-shaped override for the default arena capacities.
type ArenaSizes struct {
	V uint `yaml:"arena_v"`
	P uint `yaml:"arena_p"`
	X uint `yaml:"arena_x"`
}

// Engine is the whole interactive environment wired into one place: the
// program/line store, lexical cursor, symbol and subroutine tables, the
// control-flow frame stack, memory arenas, and I/O. The reference model's
// own Core type (now gone, cf. DESIGN.md) was headed here but never
// actually got wired into its VM; this is that idea, finished.
type Engine struct {
	prog *Program
	cur  Cursor
	syms *SymbolTable
	subs *SubTable
	ctrl ControlStack

	arenaV *Arena // variable records, top-down
	arenaP *Arena // created at its configured size; nothing allocates from it (lines live in prog, subs in subs)
	arenaX *Arena // optional, nil unless requested; nothing allocates from it

	code *CodeBuffer // not assigned; Compile builds its own CodeBuffer for each `comp`

	returnValue int // last value set by RETURN (or 0, if none), read by doCall

	in  *fileinput.Input // tracks source name:line for REPL diagnostics
	out flushio.WriteFlusher

	logf func(mess string, args ...interface{})

	ctx context.Context // checked cooperatively by execRun between statements
}

// NewEngine assembles an Engine from the given options, in the
// functional-options style defined in options.go.
func NewEngine(opts ...EngineOption) *Engine {
	e := &Engine{
		prog: &Program{},
		syms: &SymbolTable{},
		subs: NewSubTable(),
	}
	e.syms.onCollision = func(want, hit string) {
		e.logf("warn: %q truncates to the same name as already-defined %q", want, hit)
	}
	cfg := engineConfig{
		arenas: ArenaSizes{V: DefaultArenaV, P: DefaultArenaP},
		logf:   func(string, ...interface{}) {},
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	e.logf = cfg.logf
	e.arenaV = NewArena("Arena-V", cfg.arenas.V)
	e.arenaP = NewArena("Arena-P", cfg.arenas.P)
	if cfg.arenas.X > 0 {
		e.arenaX = NewArena("Arena-X", cfg.arenas.X)
	}
	if cfg.in != nil {
		e.in = &fileinput.Input{Queue: []io.Reader{cfg.in}}
	}
	e.out = cfg.out
	if e.out == nil {
		e.out = flushio.NewWriteFlusher(discardWriter{})
	}
	e.syms.PushFrame() // the global frame
	return e
}

type discardWriter struct{}

func (discardWriter) Write(p []byte) (int, error) { return len(p), nil }

func (e *Engine) emit(s string) {
	_, _ = e.out.Write([]byte(s))
}
