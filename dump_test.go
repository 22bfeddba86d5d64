package main

import (
	"bytes"
	"strings"
	"testing"
)

func TestDumpVarsShowsNameValueAndConstTag(t *testing.T) {
	eng := NewEngine()
	if err := eng.RunImmediateLine(`word x = 5`); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := eng.RunImmediateLine(`const c = 9`); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var out bytes.Buffer
	engineDumper{eng: eng, out: &out}.dumpVars()
	got := out.String()
	if !strings.Contains(got, "x") || !strings.Contains(got, "5") {
		t.Fatalf("dump missing scalar x=5:\n%s", got)
	}
	if !strings.Contains(got, "(const)") {
		t.Fatalf("dump missing (const) tag for c:\n%s", got)
	}
}

func TestDumpVarsShowsArrayLenAndAddress(t *testing.T) {
	eng := NewEngine()
	if err := eng.RunImmediateLine(`dim nums[4]`); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var out bytes.Buffer
	engineDumper{eng: eng, out: &out}.dumpVars()
	got := out.String()
	if !strings.Contains(got, "[4]") {
		t.Fatalf("dump missing array length tag:\n%s", got)
	}
	if !strings.Contains(got, "@") {
		t.Fatalf("dump missing array address marker:\n%s", got)
	}
}

func TestDumpControlReportsOpenFrames(t *testing.T) {
	eng := NewEngine()
	eng.ctrl.Push(&ControlFrame{Kind: FrameIf})
	eng.ctrl.Push(&ControlFrame{Kind: FrameWhile})
	var out bytes.Buffer
	engineDumper{eng: eng, out: &out}.dumpControl()
	got := out.String()
	if !strings.Contains(got, "2 frame(s)") {
		t.Fatalf("expected 2 frames reported, got:\n%s", got)
	}
	if !strings.Contains(got, "if") || !strings.Contains(got, "while") {
		t.Fatalf("expected frame kind names in dump:\n%s", got)
	}
}

func TestDumpSubsListsDefinedSubroutines(t *testing.T) {
	eng := NewEngine()
	_ = eng.subs.Define(&Subroutine{Name: "helper", DefLine: 3, BodyStart: 10})
	var out bytes.Buffer
	engineDumper{eng: eng, out: &out}.dumpSubs()
	got := out.String()
	if !strings.Contains(got, "helper") || !strings.Contains(got, "line 3") || !strings.Contains(got, "@10") {
		t.Fatalf("expected helper's definition details in dump, got:\n%s", got)
	}
}

func TestFrameKindNameCoversEveryKind(t *testing.T) {
	cases := map[FrameKind]string{
		FrameIf:    "if",
		FrameWhile: "while",
		FrameFor:   "for",
		FrameCall:  "call",
	}
	for kind, want := range cases {
		if got := frameKindName(kind); got != want {
			t.Errorf("frameKindName(%v) = %q, want %q", kind, got, want)
		}
	}
}

func TestDumpTopLevelIncludesCursorAndAllSections(t *testing.T) {
	eng := NewEngine()
	if err := eng.RunImmediateLine(`word x = 1`); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var out bytes.Buffer
	engineDumper{eng: eng, out: &out}.dump()
	got := out.String()
	for _, want := range []string{"# EightBall Dump", "cursor:", "vars:", "control stack:", "subs:"} {
		if !strings.Contains(got, want) {
			t.Errorf("dump missing section %q, got:\n%s", want, got)
		}
	}
}
