/******************************************************************************
 * Copyright (c) 2024-2026 Tenebris Technologies Inc.                         *
 * Please see the LICENSE file for details                                    *
 ******************************************************************************/

// Package prompt asks for values on the console. Passwords are read without
// echo when stdin is a terminal.
package prompt

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

const maxAttempts = 3

var ErrEmpty = errors.New("no value entered")

type Prompter struct {
	in       *bufio.Reader
	out      io.Writer
	terminal bool
	fd       int
}

// New returns a Prompter on stdin and stdout
func New() *Prompter {
	fd := int(os.Stdin.Fd())
	return &Prompter{
		in:       bufio.NewReader(os.Stdin),
		out:      os.Stdout,
		terminal: term.IsTerminal(fd),
		fd:       fd,
	}
}

// NewReader returns a Prompter that reads lines from r. Passwords are read
// as plain lines.
func NewReader(r io.Reader, w io.Writer) *Prompter {
	return &Prompter{in: bufio.NewReader(r), out: w}
}

// Line prompts until a non-empty value is provided
func (p *Prompter) Line(label string) (string, error) {
	for i := 0; i < maxAttempts; i++ {
		_, _ = fmt.Fprintf(p.out, "%s: ", label)
		input, err := p.in.ReadString('\n')
		value := strings.TrimSpace(input)
		if value != "" {
			return value, nil
		}
		if err != nil {
			return "", fmt.Errorf("error reading %s: %w", strings.ToLower(label), err)
		}
		_, _ = fmt.Fprintf(p.out, "%s cannot be empty. Please try again.\n", label)
	}
	return "", ErrEmpty
}

// Password prompts until a non-empty password is provided
func (p *Prompter) Password(label string) (string, error) {
	if !p.terminal {
		return p.Line(label)
	}

	for i := 0; i < maxAttempts; i++ {
		_, _ = fmt.Fprintf(p.out, "%s: ", label)
		passwordBytes, err := term.ReadPassword(p.fd)
		_, _ = fmt.Fprintln(p.out) // newline after password input
		if err != nil {
			return "", fmt.Errorf("error reading password: %w", err)
		}

		if len(passwordBytes) > 0 {
			return string(passwordBytes), nil
		}
		_, _ = fmt.Fprintf(p.out, "%s cannot be empty. Please try again.\n", label)
	}
	return "", ErrEmpty
}

// Default returns value, or prompts for it when value is empty
func (p *Prompter) Default(value, label string, secret bool) (string, error) {
	if value != "" {
		return value, nil
	}
	if secret {
		return p.Password(label)
	}
	return p.Line(label)
}
