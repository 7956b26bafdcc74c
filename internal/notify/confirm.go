package notify

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
)

// Prompt is an accept/cancel question guarding a destructive action.
type Prompt struct {
	Header  string
	Message string
}

type Confirmer interface {
	Confirm(ctx context.Context, p Prompt) (bool, error)
}

// AutoConfirmer answers every prompt with Answer (--yes / --no).
type AutoConfirmer struct {
	Answer bool
}

func (a AutoConfirmer) Confirm(ctx context.Context, _ Prompt) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	return a.Answer, nil
}

// PromptConfirmer asks on out and reads a y/N answer from in.
type PromptConfirmer struct {
	in  *bufio.Reader
	out io.Writer
}

func NewPromptConfirmer(in io.Reader, out io.Writer) *PromptConfirmer {
	return &PromptConfirmer{in: bufio.NewReader(in), out: out}
}

func (p *PromptConfirmer) Confirm(ctx context.Context, prompt Prompt) (bool, error) {
	fmt.Fprintf(p.out, "%s\n%s [y/N]: ", prompt.Header, prompt.Message)

	type answer struct {
		line string
		err  error
	}
	ch := make(chan answer, 1)
	go func() {
		line, err := p.in.ReadString('\n')
		ch <- answer{line: line, err: err}
	}()

	select {
	case <-ctx.Done():
		return false, ctx.Err()
	case a := <-ch:
		if a.err != nil && a.err != io.EOF {
			return false, a.err
		}
		switch strings.ToLower(strings.TrimSpace(a.line)) {
		case "y", "yes":
			return true, nil
		default:
			return false, nil
		}
	}
}
