package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/peterh/liner"

	"pixelwalle/pkg/config"
	"pixelwalle/pkg/logger"
	"pixelwalle/pkg/service"
	"pixelwalle/pkg/utils"
)

const (
	historyFile = ".pixelwalle_history"
	prompt      = "walle> "
)

var commands = []string{"step", "continue", "reset", "state", "vars", "lines", "jump", "save", "help", "quit"}

const helpText = `commands:
  step [n]     execute n statements (default 1)
  continue     run until the program finishes or fails
  reset        rewind to the first statement
  state        show status, cursor and position
  vars         list variables
  lines        list lines that can be jumped to
  jump <line>  move execution to a line
  save <file>  write a bundle of the current run
  quit         leave the debugger`

func main() {
	configPath := flag.String("config", "", "YAML configuration file")
	size := flag.Int("size", 0, "canvas size (overrides config)")
	flag.Parse()
	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: console [-config file.yml] [-size n] program.pw")
		os.Exit(2)
	}

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			log.Fatal(err)
		}
		cfg = loaded
	}
	if *size != 0 {
		cfg.CanvasSize = *size
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal(err)
	}

	fullPath, source, err := utils.ReadSource(flag.Arg(0))
	if err != nil {
		log.Fatal(err)
	}

	runner, err := service.NewRunner(cfg, logger.Discard())
	if err != nil {
		log.Fatal(err)
	}
	session, err := runner.OpenSession(service.Request{Source: source, CanvasSize: cfg.CanvasSize})
	if err != nil {
		log.Fatalf("Compilation failed:\n%v", err)
	}

	fmt.Printf("debugging %s on a %dx%d canvas, type help for commands\n", filepath.Base(fullPath), cfg.CanvasSize, cfg.CanvasSize)
	repl(session)
}

func repl(session *service.Session) {
	home, _ := os.UserHomeDir()
	histPath := filepath.Join(home, historyFile)

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)
	ln.SetCompleter(complete)

	if f, err := os.Open(histPath); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}

	for {
		line, err := ln.Prompt(prompt)
		if errors.Is(err, io.EOF) {
			fmt.Println()
			break
		}
		if err != nil {
			// Ctrl+C drops the current line.
			continue
		}
		if strings.TrimSpace(line) == "" {
			continue
		}
		ln.AppendHistory(line)
		if handleCommand(session, line, os.Stdout) {
			break
		}
	}

	if f, err := os.Create(histPath); err == nil {
		_, _ = ln.WriteHistory(f)
		_ = f.Close()
	}
}

func complete(line string) []string {
	var out []string
	for _, c := range commands {
		if strings.HasPrefix(c, strings.ToLower(line)) {
			out = append(out, c)
		}
	}
	return out
}

// handleCommand runs one debugger command and reports whether the user
// asked to quit.
func handleCommand(s *service.Session, line string, out io.Writer) bool {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false
	}

	switch cmd, args := strings.ToLower(fields[0]), fields[1:]; cmd {
	case "s", "step":
		n := 1
		if len(args) > 0 {
			v, err := strconv.Atoi(args[0])
			if err != nil || v < 1 {
				fmt.Fprintf(out, "step count must be a positive number, got %q\n", args[0])
				return false
			}
			n = v
		}
		for k := 0; k < n; k++ {
			r := s.Step()
			fmt.Fprintln(out, r.LogMessage)
			if r.Finished {
				break
			}
		}
	case "c", "continue":
		r := s.Continue()
		fmt.Fprintln(out, r.LogMessage)
		if r.Warning != "" {
			fmt.Fprintln(out, "warning:", r.Warning)
		}
	case "reset":
		s.Reset()
		fmt.Fprintln(out, "reset to the first statement")
	case "state":
		st := s.State()
		fmt.Fprintf(out, "%s: statement %d of %d, line %d\n", st.Status, st.PC, st.TotalStatements, st.CurrentLine)
		fmt.Fprintf(out, "cursor (%d, %d), colour %s, brush %d, %d pixels painted\n",
			st.Cursor.X, st.Cursor.Y, st.Cursor.Color, st.Cursor.Size, len(st.Pixels))
		if st.Error != "" {
			fmt.Fprintln(out, "error:", st.Error)
		}
	case "vars":
		vars := s.State().Variables
		if len(vars) == 0 {
			fmt.Fprintln(out, "no variables")
			return false
		}
		data, err := json.MarshalIndent(vars, "", "  ")
		if err != nil {
			fmt.Fprintln(out, err)
			return false
		}
		fmt.Fprintln(out, string(data))
	case "lines":
		fmt.Fprintln(out, strings.Trim(fmt.Sprint(s.ExecutableLines()), "[]"))
	case "j", "jump":
		if len(args) != 1 {
			fmt.Fprintln(out, "usage: jump <line>")
			return false
		}
		n, err := strconv.Atoi(args[0])
		if err != nil {
			fmt.Fprintf(out, "invalid line %q\n", args[0])
			return false
		}
		if !s.JumpToLine(n) {
			fmt.Fprintf(out, "cannot jump to line %d\n", n)
			return false
		}
		fmt.Fprintf(out, "next statement is on line %d\n", n)
	case "save":
		if len(args) != 1 {
			fmt.Fprintln(out, "usage: save <file.zip>")
			return false
		}
		data, err := s.Bundle()
		if err == nil {
			err = os.WriteFile(args[0], data, 0o644)
		}
		if err != nil {
			fmt.Fprintf(out, "save failed: %v\n", err)
			return false
		}
		fmt.Fprintf(out, "saved %s\n", args[0])
	case "h", "help", "?":
		fmt.Fprintln(out, helpText)
	case "q", "quit", "exit":
		return true
	default:
		fmt.Fprintf(out, "unknown command %q, type help for a list\n", cmd)
	}
	return false
}
