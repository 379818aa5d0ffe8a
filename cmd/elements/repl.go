package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/peterh/liner"
	"golang.org/x/term"

	"github.com/anoobzg/livekeys/elements"
)

const (
	historyFile = ".elements_history"
	prompt      = "elv> "
)

func green(s string) string { return "\x1b[32m" + s + "\x1b[0m" }
func blue(s string) string  { return "\x1b[94m" + s + "\x1b[0m" }

// runRepl reads literals line by line and inspects each one in a fresh
// scope. With a terminal on stdin it uses liner for history and editing;
// otherwise it falls back to a plain scanner so piping works.
func runRepl(engine *elements.Engine) error {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			handleLine(engine, scanner.Text())
		}
		return scanner.Err()
	}

	fmt.Printf("livekeys elements inspector %s\nCtrl+D exits. Type :quit to exit.\n", version)
	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	histPath := ""
	if home, err := os.UserHomeDir(); err == nil {
		histPath = filepath.Join(home, historyFile)
		if f, err := os.Open(histPath); err == nil {
			ln.ReadHistory(f)
			f.Close()
		}
	}

	for {
		line, err := ln.Prompt(prompt)
		if err == liner.ErrPromptAborted {
			continue
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if line == ":quit" || line == ":q" {
			break
		}
		ln.AppendHistory(line)
		handleLine(engine, line)
	}

	if histPath != "" {
		if f, err := os.Create(histPath); err == nil {
			ln.WriteHistory(f)
			f.Close()
		}
	}
	return nil
}

func handleLine(engine *elements.Engine, line string) {
	scope := engine.OpenScope()
	defer scope.Close()
	fmt.Print(inspect(engine, line))
}

// inspect builds a ScopedValue from a host literal and reports its shape,
// coercions and persistent form.
func inspect(engine *elements.Engine, input string) string {
	sv := buildLiteral(engine, strings.TrimSpace(input))

	var b strings.Builder
	fmt.Fprintf(&b, "%s %s\n", blue("shape:"), strings.Join(shapes(sv), " "))
	fmt.Fprintf(&b, "%s bool=%v int64=%d number=%s string=%q\n",
		blue("coerce:"), sv.ToBool(), sv.ToInt64(),
		strconv.FormatFloat(sv.ToNumber(), 'g', -1, 64), sv.ToString())

	v := sv.ToValue()
	fmt.Fprintf(&b, "%s %s\n", blue("stored:"), green(v.Type().String()))
	if rt, err := elements.ScopedFromValue(engine, v); err == nil {
		fmt.Fprintf(&b, "%s %v\n", blue("round-trip equal:"), rt.ToValue().Equal(v))
	}
	return b.String()
}

func buildLiteral(engine *elements.Engine, s string) *elements.ScopedValue {
	switch s {
	case "null", "undefined":
		return elements.ScopedFromElement(engine, nil)
	case "true":
		return elements.ScopedBool(engine, true)
	case "false":
		return elements.ScopedBool(engine, false)
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return elements.ScopedInt64(engine, n)
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return elements.ScopedNumber(engine, f)
	}
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		if unquoted, err := strconv.Unquote(s); err == nil {
			return elements.ScopedString(engine, unquoted)
		}
	}
	return elements.ScopedString(engine, s)
}

func shapes(sv *elements.ScopedValue) []string {
	var out []string
	for _, p := range []struct {
		name string
		ok   bool
	}{
		{"null", sv.IsNull()},
		{"bool", sv.IsBool()},
		{"int", sv.IsInt()},
		{"number", sv.IsNumber()},
		{"string", sv.IsString()},
		{"callable", sv.IsCallable()},
		{"buffer", sv.IsBuffer()},
		{"object", sv.IsObject()},
		{"array", sv.IsArray()},
		{"element", sv.IsElement()},
	} {
		if p.ok {
			out = append(out, green(p.name))
		}
	}
	if len(out) == 0 {
		out = append(out, "none")
	}
	return out
}
