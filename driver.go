package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/eightball-lang/eightball/internal/panicerr"
)

// Run drives the whole interactive session: read a line, dispatch it
// either as a `:`-prefixed editor command or as immediate-mode source,
// report any recoverable error, and loop until EOF or QUIT. It is the one
// entry point a caller needs.
func (e *Engine) Run(ctx context.Context) error {
	e.ctx = ctx
	for {
		line, ok := e.readLine()
		if !ok {
			return nil
		}
		quit, code, err := e.runLine(line)
		if err != nil {
			return err
		}
		if quit {
			if code != 0 {
				return fmt.Errorf("quit(%d)", code)
			}
			return nil
		}
	}
}

// readLine reads one line of input up to (and excluding) its terminating
// newline. ok is false only at end of input with nothing left to report.
func (e *Engine) readLine() (string, bool) {
	if e.in == nil {
		return "", false
	}
	var sb strings.Builder
	for {
		r, _, err := e.in.ReadRune()
		if err != nil {
			if sb.Len() == 0 {
				return "", false
			}
			return sb.String(), true
		}
		if r == '\n' {
			return sb.String(), true
		}
		sb.WriteRune(r)
	}
}

// runLine executes one line of input, recovering the three panic-based
// unwinds a statement can raise: haltError is a warm reset and
// interruptError a user break (both report and keep the session going),
// quitSignal ends the session with its exit code. Any other panic
// propagates out as a genuine error.
func (e *Engine) runLine(text string) (quit bool, code int, reterr error) {
	err := panicerr.Recover("eightball", func() error {
		return e.dispatchLine(text)
	})
	if err == nil {
		return false, 0, nil
	}

	var qs quitSignal
	if errors.As(err, &qs) {
		return true, qs.code, nil
	}

	var he haltError
	if errors.As(err, &he) {
		fmt.Fprintf(e.out, "Brk: %v%s\n", he, e.inputLocation())
		e.ctrl.Reset()
		return false, 0, nil
	}

	var ie interruptError
	if errors.As(err, &ie) {
		fmt.Fprintf(e.out, "Brk at %v%s\n", ie.Line, e.inputLocation())
		e.ctrl.Reset()
		return false, 0, nil
	}

	if panicerr.IsPanic(err) {
		return false, 0, err
	}
	fmt.Fprintf(e.out, "%v\n", err)
	return false, 0, nil
}

// inputLocation reports which input stream/line a warm reset interrupted,
// using the fileinput.Input bookkeeping that tracks it (empty once input
// has drained, or if no input stream is attached at all).
func (e *Engine) inputLocation() string {
	if e.in == nil || e.in.Last.Name == "" {
		return ""
	}
	return fmt.Sprintf(" (%v)", e.in.Last.Location)
}

// dispatchLine routes a line of input to the `:`-prefixed editor command
// surface or to immediate-mode statement execution.
func (e *Engine) dispatchLine(text string) error {
	trimmed := strings.TrimSpace(text)
	if strings.HasPrefix(trimmed, ":") {
		return e.runEditorCommand(trimmed[1:])
	}
	if err := e.RunImmediateLine(text); err != nil {
		fmt.Fprintf(e.out, "%v err at %v\n", err, err.Line)
	}
	e.out.Flush()
	return nil
}

func (e *Engine) runEditorCommand(cmd string) error {
	if cmd == "" {
		return nil
	}
	verb := cmd[0]
	rest := strings.TrimSpace(cmd[1:])
	var err error
	switch verb {
	case 'a':
		n, text := splitLineArg(rest)
		err = e.prog.AppendAfter(n, text)
	case 'i':
		n, text := splitLineArg(rest)
		err = e.prog.InsertBefore(n, text)
	case 'c':
		n, text, serr := splitColonArg(rest)
		if serr != nil {
			err = serr
			break
		}
		err = e.prog.Replace(n, text)
	case 'd':
		n, m := splitRangeArg(rest)
		err = e.prog.Delete(n, m)
	case 'l':
		from, to := splitRangeArg(rest)
		for _, s := range e.prog.List(from, to) {
			fmt.Fprintln(e.out, s)
		}
	case 'r':
		err = e.loadFile(strings.TrimSpace(rest))
	case 'w':
		err = e.saveFile(strings.TrimSpace(rest))
	default:
		err = errf(ErrBadLine, 0, "unknown editor command %q", cmd)
	}
	if err != nil {
		fmt.Fprintf(e.out, "?%v\n", err)
	}
	e.out.Flush()
	return nil
}

// splitLineArg parses "N rest-of-line-text", the shape :a and :i share.
func splitLineArg(s string) (int, string) {
	i := 0
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	n, _ := strconv.Atoi(s[:i])
	text := strings.TrimPrefix(s[i:], " ")
	return n, text
}

// splitRangeArg parses "N[,M]", the shape :d and :l share.
func splitRangeArg(s string) (int, int) {
	parts := strings.SplitN(s, ",", 2)
	n, _ := strconv.Atoi(strings.TrimSpace(parts[0]))
	m := n
	if len(parts) == 2 {
		m, _ = strconv.Atoi(strings.TrimSpace(parts[1]))
	}
	return n, m
}

// splitColonArg parses "N:rest-of-line-text", the shape :c uses.
func splitColonArg(s string) (int, string, *langError) {
	i := strings.IndexByte(s, ':')
	if i < 0 {
		return 0, "", newErr(ErrBadLine, 0)
	}
	n, _ := strconv.Atoi(strings.TrimSpace(s[:i]))
	return n, s[i+1:], nil
}

func (e *Engine) loadFile(name string) error {
	f, err := os.Open(name)
	if err != nil {
		return errf(ErrFile, 0, "%v", err)
	}
	defer f.Close()
	if lerr := e.prog.Load(f); lerr != nil {
		return errf(ErrFile, 0, "%v", lerr)
	}
	return nil
}

func (e *Engine) saveFile(name string) error {
	f, err := os.Create(name)
	if err != nil {
		return errf(ErrFile, 0, "%v", err)
	}
	defer f.Close()
	if serr := e.prog.Save(f); serr != nil {
		return errf(ErrFile, 0, "%v", serr)
	}
	return nil
}
