package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/roach88/ordersctl/internal/widget"
)

// lineConfirmer asks y/N questions on a line-oriented reader. EOF or any
// answer other than y/yes counts as no.
type lineConfirmer struct {
	in  *bufio.Reader
	out io.Writer
}

func newLineConfirmer(in *bufio.Reader, out io.Writer) *lineConfirmer {
	return &lineConfirmer{in: in, out: out}
}

func (c *lineConfirmer) Confirm(ctx context.Context, prompt string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	fmt.Fprintf(c.out, "%s [y/N]: ", prompt)
	line, err := c.in.ReadString('\n')
	if err != nil && line == "" {
		if err == io.EOF {
			fmt.Fprintln(c.out)
			return false, nil
		}
		return false, err
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}

// confirmer returns widget.AlwaysConfirm when yes is set, otherwise a
// prompt on the command's stdin.
func confirmer(yes bool, in io.Reader, out io.Writer) widget.Confirmer {
	if yes {
		return widget.AlwaysConfirm
	}
	return newLineConfirmer(bufio.NewReader(in), out)
}
