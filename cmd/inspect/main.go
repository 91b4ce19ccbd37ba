package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"slices"

	"pixelwalle/pkg/compiler"
	"pixelwalle/pkg/config"
)

const testSource = `Spawn(0, 0)
Color("Black")
n <- 5
loop
DrawLine(1, 1, n)
n <- n - 1
GoTo("loop", n > 0)
`

func main() {
	size := flag.Int("size", config.Default().CanvasSize, "canvas size used for semantic checks")
	flag.Parse()

	src := testSource
	if flag.NArg() > 0 {
		data, err := os.ReadFile(flag.Arg(0))
		if err != nil {
			fmt.Fprintln(os.Stderr, "read error:", err)
			os.Exit(1)
		}
		src = string(data)
	}

	if err := inspect(os.Stdout, src, *size); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// inspect prints every compiler stage for src and stops at the first stage
// that fails.
func inspect(w io.Writer, src string, size int) error {
	fmt.Fprintf(w, "Source:\n%s\n", src)

	tokens, err := compiler.Lex(src)
	if err != nil {
		return fmt.Errorf("lex error: %w", err)
	}
	fmt.Fprintf(w, "Tokens (%d)\n", len(tokens))
	for _, tok := range tokens {
		fmt.Fprintln(w, " ", tok)
	}
	fmt.Fprintln(w)

	prog, err := compiler.NewParser(tokens, src).ParseProgram()
	if err != nil {
		return fmt.Errorf("parse error: %w", err)
	}
	fmt.Fprintln(w, "AST")
	fmt.Fprint(w, prog)
	fmt.Fprintln(w)

	if err := compiler.Analyze(prog, size); err != nil {
		return fmt.Errorf("semantic error: %w", err)
	}
	fmt.Fprintf(w, "Analysis: ok, %d executable statements\n", compiler.CountStmts(prog))

	var calls []string
	for name := range compiler.FindCalls(prog) {
		calls = append(calls, name)
	}
	slices.Sort(calls)
	if len(calls) == 0 {
		fmt.Fprintln(w, "Built-ins called: none")
	} else {
		fmt.Fprintf(w, "Built-ins called: %v\n", calls)
	}
	return nil
}
