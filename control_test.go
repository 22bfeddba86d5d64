package main

import "testing"

func TestControlStackPushTopDepth(t *testing.T) {
	var cs ControlStack
	if cs.Top() != nil {
		t.Fatal("Top of an empty stack should be nil")
	}
	f := &ControlFrame{Kind: FrameIf}
	cs.Push(f)
	if cs.Depth() != 1 || cs.Top() != f {
		t.Fatalf("got depth %d, top %v", cs.Depth(), cs.Top())
	}
}

func TestControlStackPopExpectMatchingKind(t *testing.T) {
	var cs ControlStack
	cs.Push(&ControlFrame{Kind: FrameWhile})
	f, err := cs.PopExpect(FrameWhile, 1)
	if err != nil || f == nil {
		t.Fatalf("got %v, %v", f, err)
	}
	if cs.Depth() != 0 {
		t.Fatalf("depth after pop = %d, want 0", cs.Depth())
	}
}

func TestControlStackPopExpectWrongKind(t *testing.T) {
	var cs ControlStack
	cs.Push(&ControlFrame{Kind: FrameIf})
	_, err := cs.PopExpect(FrameWhile, 1)
	if err == nil || err.Kind != ErrNoWhile {
		t.Fatalf("got %v, want ErrNoWhile", err)
	}
	if cs.Depth() != 1 {
		t.Fatal("a failed PopExpect must not modify the stack")
	}
}

func TestControlStackPopExpectOnEmptyStack(t *testing.T) {
	var cs ControlStack
	_, err := cs.PopExpect(FrameFor, 1)
	if err == nil || err.Kind != ErrNoFor {
		t.Fatalf("got %v, want ErrNoFor", err)
	}
}

func TestControlStackTopOfKindSearchesThroughNesting(t *testing.T) {
	var cs ControlStack
	call := &ControlFrame{Kind: FrameCall}
	cs.Push(call)
	cs.Push(&ControlFrame{Kind: FrameIf})
	cs.Push(&ControlFrame{Kind: FrameWhile})
	depth, got := cs.TopOfKind(FrameCall)
	if got != call || depth != 0 {
		t.Fatalf("got frame %v at depth %d, want the call frame at depth 0", got, depth)
	}
}

func TestControlStackTopOfKindNotFound(t *testing.T) {
	var cs ControlStack
	cs.Push(&ControlFrame{Kind: FrameIf})
	depth, got := cs.TopOfKind(FrameFor)
	if got != nil || depth != -1 {
		t.Fatalf("got (%d, %v), want (-1, nil)", depth, got)
	}
}

func TestControlStackTruncateTo(t *testing.T) {
	var cs ControlStack
	cs.Push(&ControlFrame{Kind: FrameCall})
	cs.Push(&ControlFrame{Kind: FrameIf})
	cs.Push(&ControlFrame{Kind: FrameWhile})
	popped := cs.TruncateTo(1)
	if len(popped) != 2 || cs.Depth() != 1 {
		t.Fatalf("got %d popped, depth %d; want 2 popped, depth 1", len(popped), cs.Depth())
	}
	if popped[0].Kind != FrameIf || popped[1].Kind != FrameWhile {
		t.Fatalf("popped frames in wrong order: %v", popped)
	}
}

func TestControlStackReset(t *testing.T) {
	var cs ControlStack
	cs.Push(&ControlFrame{Kind: FrameIf})
	cs.Push(&ControlFrame{Kind: FrameWhile})
	cs.Reset()
	if cs.Depth() != 0 {
		t.Fatalf("depth after Reset = %d, want 0", cs.Depth())
	}
}

func TestErrKindForEveryFrameKind(t *testing.T) {
	cases := map[FrameKind]ErrKind{
		FrameIf:    ErrNoIf,
		FrameWhile: ErrNoWhile,
		FrameFor:   ErrNoFor,
		FrameCall:  ErrNoSub,
	}
	for kind, want := range cases {
		if got := errKindFor(kind); got != want {
			t.Errorf("errKindFor(%v) = %v, want %v", kind, got, want)
		}
	}
}
