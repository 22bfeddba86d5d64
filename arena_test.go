package main

import "testing"

func TestArenaAllocLowBumpsUpward(t *testing.T) {
	a := NewArena("test", 16)
	first, err := a.AllocLow(3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := a.AllocLow(2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first != 0 || second != 3 {
		t.Fatalf("got (%d, %d), want (0, 3)", first, second)
	}
}

func TestArenaAllocHighBumpsDownward(t *testing.T) {
	a := NewArena("test", 16)
	first, err := a.AllocHigh(3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first != 13 {
		t.Fatalf("got %d, want 13", first)
	}
	second, err := a.AllocHigh(3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if second != 10 {
		t.Fatalf("got %d, want 10", second)
	}
}

func TestArenaAllocHighRequiresBoundedCapacity(t *testing.T) {
	a := NewArena("unbounded", 0)
	if _, err := a.AllocHigh(1); err == nil {
		t.Fatal("expected an error allocating high in an unbounded arena")
	}
}

func TestArenaTwoEndedCollision(t *testing.T) {
	a := NewArena("two-ended", 10)
	if _, err := a.AllocLow(6); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := a.AllocHigh(3); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// 6 allocated low, 3 allocated high leaves exactly 1 word free.
	if _, err := a.AllocLow(2); err == nil {
		t.Fatal("expected exhaustion when low and high allocations collide")
	}
	if _, err := a.AllocLow(1); err != nil {
		t.Fatalf("expected the last free word to still be allocatable: %v", err)
	}
}

func TestArenaUnboundedNeverExhausts(t *testing.T) {
	a := NewArena("unbounded", 0)
	if _, err := a.AllocLow(1_000_000); err != nil {
		t.Fatalf("unexpected exhaustion in an unbounded arena: %v", err)
	}
}

func TestArenaLoadStoreRoundTrip(t *testing.T) {
	a := NewArena("test", 8)
	addr, _ := a.AllocLow(1)
	if err := a.Store(addr, 42); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := a.Load(addr); got != 42 {
		t.Fatalf("Load = %d, want 42", got)
	}
}

func TestArenaByteAccessTruncates(t *testing.T) {
	a := NewArena("test", 8)
	addr, _ := a.AllocLow(1)
	if err := a.StoreByte(addr, 0xAB); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := a.LoadByte(addr); got != 0xAB {
		t.Fatalf("LoadByte = %#x, want 0xAB", got)
	}
}

func TestArenaMarkAndReset(t *testing.T) {
	a := NewArena("test", 16)
	mark := a.Mark()
	if _, err := a.AllocLow(4); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := a.AllocHigh(4); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	a.Reset(mark)
	if a.Len() != 0 {
		t.Fatalf("Len after reset = %d, want 0", a.Len())
	}
	// the reclaimed space should be usable again.
	if _, err := a.AllocLow(16); err != nil {
		t.Fatalf("expected full capacity back after reset: %v", err)
	}
}
