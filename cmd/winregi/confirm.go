package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/poiesic/winregi/apply"
)

// promptConfirmer asks on the terminal. With assumeYes it answers yes
// without reading input: the --yes flag is the user's consent, given in
// advance, to every action the command runs.
type promptConfirmer struct {
	in        *bufio.Reader
	out       io.Writer
	assumeYes bool
}

var _ apply.Confirmer = (*promptConfirmer)(nil)

func newPromptConfirmer(in io.Reader, out io.Writer, assumeYes bool) *promptConfirmer {
	return &promptConfirmer{in: bufio.NewReader(in), out: out, assumeYes: assumeYes}
}

func (p *promptConfirmer) Confirm(ctx context.Context, req apply.ConfirmRequest) (bool, error) {
	name := req.Action.Name
	if name == "" {
		name = req.Action.Id
	}
	question := fmt.Sprintf("%s: %s", req.Entry.Name, name)
	if req.RequiresAdmin {
		question += warningStyle.Render(" (requires administrator)")
	}
	return p.ask(ctx, question)
}

func (p *promptConfirmer) ask(ctx context.Context, question string) (bool, error) {
	if p.assumeYes {
		fmt.Fprintf(p.out, "%s [y/N] y\n", question)
		return true, nil
	}
	if err := ctx.Err(); err != nil {
		return false, err
	}

	fmt.Fprintf(p.out, "%s [y/N] ", question)
	line, err := p.in.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return false, fmt.Errorf("no answer: %w", err)
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true, nil
	}
	return false, nil
}
