package main

import (
	"fmt"

	"github.com/eightball-lang/eightball/internal/mem"
)

// Arena is a bump-pointer allocator backed by a paged integer store
// (internal/mem.Ints, reused wholesale rather than duplicated). The
// language calls for three or four such arenas: Arena-V (variable records,
// top-down), Arena-C (code buffer, bottom-up) and Arena-P (program text +
// linkage records, two-ended); an optional Arena-X mirrors Arena-P.
//
// "Top-down"/"bottom-up" growth is modeled as allocation from the low or
// high end of a fixed-size logical address window; "two-ended" arenas
// allocate from both ends toward the middle, colliding when exhausted.
type Arena struct {
	name  string
	store mem.Ints
	cap   uint // 0 means unbounded
	lo    uint // next free offset growing up from 0
	hi    uint // next free offset growing down from cap (two-ended only)
}

// NewArena creates an arena with the given logical capacity in words. A
// capacity of 0 means unbounded, bounded only by process memory.
func NewArena(name string, capWords uint) *Arena {
	a := &Arena{name: name, cap: capWords, hi: capWords}
	a.store.PageSize = mem.DefaultIntsPageSize
	return a
}

// arenaExhausted is the unwinding condition raised when bump allocation
// cannot be satisfied; the engine turns it into a haltError ("warm reset").
type arenaExhausted struct {
	arena string
	need  uint
}

func (e arenaExhausted) Error() string {
	return fmt.Sprintf("arena %q exhausted (need %v more words)", e.arena, e.need)
}

// AllocLow bumps the low (bottom-up) pointer: the low half of a two-ended
// arena. (The compiler's code buffer is a CodeBuffer, not an Arena.)
func (a *Arena) AllocLow(n uint) (uint, error) {
	if a.cap != 0 && a.lo+n > a.hi {
		return 0, arenaExhausted{a.name, n}
	}
	addr := a.lo
	a.lo += n
	return addr, nil
}

// AllocHigh bumps the high (top-down) pointer down by n words and returns
// the address of the first word of the new allocation, used by Arena-V's
// variable records and the high half of a two-ended arena.
func (a *Arena) AllocHigh(n uint) (uint, error) {
	if a.cap == 0 {
		return 0, fmt.Errorf("arena %q: AllocHigh requires a bounded capacity", a.name)
	}
	if a.hi < a.lo+n {
		return 0, arenaExhausted{a.name, n}
	}
	a.hi -= n
	return a.hi, nil
}

// Mark captures the current bump pointers, to be restored by Reset when a
// call frame exits (doCall does this for Arena-V).
type ArenaMark struct{ lo, hi uint }

func (a *Arena) Mark() ArenaMark { return ArenaMark{a.lo, a.hi} }

func (a *Arena) Reset(m ArenaMark) { a.lo, a.hi = m.lo, m.hi }

// Load/Store give word-addressed access into the arena's backing store,
// independent of which end allocated the address.
func (a *Arena) Load(addr uint) int {
	v, _ := a.store.Load(addr)
	return v
}

func (a *Arena) Store(addr uint, v int) error {
	return a.store.Stor(addr, v)
}

func (a *Arena) LoadByte(addr uint) byte {
	return byte(a.Load(addr))
}

func (a *Arena) StoreByte(addr uint, v byte) error {
	return a.Store(addr, int(v))
}

// Len reports the number of words allocated so far from both ends.
func (a *Arena) Len() uint {
	if a.cap == 0 {
		return a.lo
	}
	return a.lo + (a.cap - a.hi)
}
