package main

import (
	"strings"
	"testing"

	"pixelwalle/pkg/compiler"
	"pixelwalle/pkg/interp"
)

func newTestGame(t *testing.T, src string, perFrame int) *Game {
	t.Helper()
	prog, err := compiler.Compile(src, 10)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	return NewGame(interp.NewDebugger(prog, 10), 10, 4, perFrame)
}

func TestGameAdvance(t *testing.T) {
	g := newTestGame(t, "Spawn(5,5)\nColor(\"Blue\")\nSize(1)\nDrawLine(1,0,3)", 2)
	g.running = true

	g.advance(g.perFrame)
	if !g.running || g.lastLog != "line 2: Color(\"Blue\")" {
		t.Errorf("after one frame: running=%t log=%q", g.running, g.lastLog)
	}
	g.advance(g.perFrame)
	if g.running {
		t.Errorf("the game must stop running once the program finishes")
	}
	if x := g.dbg.Interpreter().X(); x != 9 {
		t.Errorf("cursor: expected x=9, got %d", x)
	}

	g.reset()
	if g.dbg.Status() != interp.Ready || g.dbg.Interpreter().X() != 0 {
		t.Errorf("reset did not rewind the debugger")
	}
}

func TestStatusText(t *testing.T) {
	g := newTestGame(t, "Spawn(1, 2)", 1)
	g.advance(1)
	text := g.statusText()
	if !strings.Contains(text, "finished  pc 1/1  cursor (1, 2)") {
		t.Errorf("unexpected status %q", text)
	}
}

func TestLayoutSize(t *testing.T) {
	tests := []struct {
		size, scale int
		w, h        int
	}{
		{10, 4, 480, 40 + statusBarHeight},
		{100, 6, 600, 600 + statusBarHeight},
	}
	for _, tt := range tests {
		w, h := layoutSize(tt.size, tt.scale)
		if w != tt.w || h != tt.h {
			t.Errorf("layoutSize(%d, %d): expected %dx%d, got %dx%d", tt.size, tt.scale, tt.w, tt.h, w, h)
		}
	}
	if fitScale(1000) != 1 || fitScale(64) != 10 {
		t.Errorf("fitScale: got %d and %d", fitScale(1000), fitScale(64))
	}
}
