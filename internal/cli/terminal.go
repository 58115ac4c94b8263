// Package cli drives a register session from a line-oriented terminal.
package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/angelmondragon/pos-register/internal/session"
	pkgerrors "github.com/angelmondragon/pos-register/pkg/errors"
)

const prompt = "> "

var errQuit = errors.New("quit")

// Terminal reads register commands one line at a time. Every accepted action
// prints the resulting snapshot.
type Terminal struct {
	svc session.Service
	out io.Writer
}

func NewTerminal(svc session.Service, out io.Writer) (*Terminal, error) {
	if svc == nil {
		return nil, errors.New("register service is required")
	}
	if out == nil {
		out = io.Discard
	}
	t := &Terminal{svc: svc, out: out}
	svc.Subscribe(func(snap session.Snapshot) {
		renderSnapshot(t.out, snap)
	})
	return t, nil
}

// Run executes lines from in until EOF, "quit" or ctx is done. Rejected
// commands are reported and do not stop the loop. Cancelling ctx returns
// immediately even while a read is blocked.
func (t *Terminal) Run(ctx context.Context, in io.Reader) error {
	lines := make(chan string)
	readErr := make(chan error, 1)
	done := make(chan struct{})
	defer close(done)

	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-done:
				return
			}
		}
		readErr <- scanner.Err()
	}()

	fmt.Fprint(t.out, prompt)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case line, ok := <-lines:
			if !ok {
				return <-readErr
			}
			if err := ctx.Err(); err != nil {
				return err
			}
			err := t.Exec(ctx, line)
			if errors.Is(err, errQuit) {
				return nil
			}
			if err != nil {
				fmt.Fprintln(t.out, describe(err))
			}
			fmt.Fprint(t.out, prompt)
		}
	}
}

// Exec runs a single command line. Blank lines and # comments are ignored.
func (t *Terminal) Exec(ctx context.Context, line string) error {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return nil
	}
	root := t.commands()
	root.SetArgs(strings.Fields(line))
	return root.ExecuteContext(ctx)
}

func describe(err error) string {
	if typed := pkgerrors.As(err); typed != nil {
		return fmt.Sprintf("rejected [%s]: %s", typed.Code(), typed.Message())
	}
	return "error: " + err.Error()
}
