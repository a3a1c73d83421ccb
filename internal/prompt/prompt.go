// Package prompt reads interactive answers from a line-oriented terminal.
package prompt

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"
)

// ErrInvalidURL reports input that lacks a scheme or host.
var ErrInvalidURL = errors.New("url must include a scheme and host")

// ReachabilityChecker confirms a host answers before it is accepted.
type ReachabilityChecker interface {
	Reachable(ctx context.Context, target string) bool
}

// Prompter asks questions on out and reads answers from in.
type Prompter struct {
	in  *bufio.Reader
	out io.Writer
}

// New creates a Prompter.
func New(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{in: bufio.NewReader(in), out: out}
}

// AskURL repeats until the answer parses with a scheme and host and checker
// reports it reachable. It returns io.EOF when input ends first.
func (p *Prompter) AskURL(ctx context.Context, checker ReachabilityChecker) (string, error) {
	for {
		if err := ctx.Err(); err != nil {
			return "", fmt.Errorf("ask url: %w", err)
		}
		answer, err := p.ask("Enter the website URL (including http:// or https://): ")
		if err != nil {
			return "", err
		}
		target, err := ParseTarget(answer)
		if err != nil {
			p.printf("Invalid URL %q: %v. Please try again.\n", answer, err)
			continue
		}
		if !checker.Reachable(ctx, target.String()) {
			p.printf("Server at %s is not reachable. Please try again.\n", target.String())
			continue
		}
		return target.String(), nil
	}
}

// Confirm asks a yes/no question until it gets y, yes, n, or no.
func (p *Prompter) Confirm(question string) (bool, error) {
	for {
		answer, err := p.ask(question + " (y/n): ")
		if err != nil {
			return false, err
		}
		switch strings.ToLower(answer) {
		case "y", "yes":
			return true, nil
		case "n", "no":
			return false, nil
		}
		p.printf("Please answer y or n.\n")
	}
}

// Printf writes an informational message.
func (p *Prompter) Printf(format string, args ...any) {
	p.printf(format, args...)
}

func (p *Prompter) ask(question string) (string, error) {
	p.printf("%s", question)
	line, err := p.in.ReadString('\n')
	if err != nil {
		if !errors.Is(err, io.EOF) {
			return "", fmt.Errorf("read answer: %w", err)
		}
		if line == "" {
			return "", io.EOF
		}
	}
	return strings.TrimSpace(line), nil
}

func (p *Prompter) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(p.out, format, args...)
}

// ParseTarget accepts an absolute URL with both scheme and host.
func ParseTarget(raw string) (*url.URL, error) {
	raw = strings.TrimSpace(raw)
	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, ErrInvalidURL
	}
	return u, nil
}
