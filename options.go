package main

import (
	"io"

	"github.com/eightball-lang/eightball/internal/flushio"
)

// engineConfig accumulates EngineOption values before NewEngine builds the
// arenas and I/O they describe; kept unexported so the only way to build
// one is through the functional options below.
type engineConfig struct {
	arenas ArenaSizes
	in     io.Reader
	out    flushio.WriteFlusher
	logf   func(mess string, args ...interface{})
}

// EngineOption configures an Engine at construction time.
type EngineOption func(*engineConfig)

// WithArenaSizes overrides the default memory arena capacities.
func WithArenaSizes(sizes ArenaSizes) EngineOption {
	return func(c *engineConfig) {
		if sizes.V > 0 {
			c.arenas.V = sizes.V
		}
		if sizes.P > 0 {
			c.arenas.P = sizes.P
		}
		if sizes.X > 0 {
			c.arenas.X = sizes.X
		}
	}
}

// WithOutput sets the writer PR.* statements write to.
func WithOutput(w flushio.WriteFlusher) EngineOption {
	return func(c *engineConfig) { c.out = w }
}

// WithInput sets the reader KBD.* statements read from.
func WithInput(r io.Reader) EngineOption {
	return func(c *engineConfig) { c.in = r }
}

// WithLogf sets the engine's diagnostic log sink, which receives the
// name-collision warnings; the default discards everything.
func WithLogf(logf func(mess string, args ...interface{})) EngineOption {
	return func(c *engineConfig) {
		if logf != nil {
			c.logf = logf
		}
	}
}
