package tui

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
)

// RunREPL is the line-based fallback for non-interactive stdin. It reads
// one command per line and writes plain output until EOF or /quit.
func RunREPL(ctx context.Context, ports *Ports, in io.Reader, out io.Writer) error {
	session, err := NewSession(ports)
	if err != nil {
		return err
	}

	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for {
		fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			fmt.Fprintln(out)
			return scanner.Err()
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}

		cmd, err := parseCommand(scanner.Text())
		if errors.Is(err, ErrEmptyInput) {
			continue
		}
		if err != nil {
			fmt.Fprintf(out, "error: %v\n", err)
			continue
		}

		switch cmd.kind {
		case commandQuit:
			return nil
		case commandClear:
			continue
		}

		text, err := session.run(ctx, cmd)
		if err != nil {
			fmt.Fprintf(out, "error: %v\n", err)
			continue
		}
		fmt.Fprintln(out, text)
	}
}
