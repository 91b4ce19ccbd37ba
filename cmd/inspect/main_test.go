package main

import (
	"errors"
	"strings"
	"testing"

	"pixelwalle/pkg/compiler"
)

func TestInspectStages(t *testing.T) {
	var b strings.Builder
	src := testSource + "w <- GetActualX() + GetCanvasSize()\n"
	if err := inspect(&b, src, 64); err != nil {
		t.Fatalf("inspect: %v", err)
	}
	out := b.String()
	for _, want := range []string{
		"Tokens (",
		"AST\nSpawn(0, 0)\n",
		"GoTo(\"loop\", n > 0)\n",
		"Analysis: ok, 7 executable statements",
		"Built-ins called: [GetActualX GetCanvasSize]",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestInspectStopsAtFailingStage(t *testing.T) {
	var b strings.Builder
	err := inspect(&b, "Color(\"Red\")", 64)
	var semErr *compiler.SemanticError
	if !errors.As(err, &semErr) {
		t.Fatalf("expected a semantic error, got %v", err)
	}
	if strings.Contains(b.String(), "Analysis: ok") {
		t.Errorf("analysis should not be reported as ok")
	}

	b.Reset()
	err = inspect(&b, "Spawn(0, 0\n", 64)
	if err == nil || !strings.HasPrefix(err.Error(), "parse error:") {
		t.Errorf("expected a parse error, got %v", err)
	}
	if strings.Contains(b.String(), "AST") {
		t.Errorf("AST should not be printed after a parse failure")
	}
}
