package page

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
)

// Terminal shows dialogs on a line-oriented terminal. It shares its reader
// with the command loop, so a prompt consumes exactly one input line.
type Terminal struct {
	mu  sync.Mutex
	in  *bufio.Reader
	out io.Writer
}

// NewTerminal creates terminal dialogs reading answers from in.
func NewTerminal(in *bufio.Reader, out io.Writer) *Terminal {
	return &Terminal{in: in, out: out}
}

// Prompt implements Dialogs. End of input cancels the prompt.
func (t *Terminal) Prompt(ctx context.Context, message string) (string, bool, error) {
	if err := ctx.Err(); err != nil {
		return "", false, err
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	fmt.Fprint(t.out, message)
	line, err := t.in.ReadString('\n')
	if err != nil {
		if !errors.Is(err, io.EOF) {
			return "", false, fmt.Errorf("failed to read answer: %w", err)
		}
		if line == "" {
			fmt.Fprintln(t.out)
			return "", false, nil
		}
	}
	return strings.TrimRight(line, "\r\n"), true, nil
}

// Alert implements Dialogs.
func (t *Terminal) Alert(ctx context.Context, message string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	_, err := fmt.Fprintf(t.out, "! %s\n", message)
	return err
}
