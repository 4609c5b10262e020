package adapter

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// Prompter reads credentials from the terminal
type Prompter struct {
	in     *bufio.Reader
	out    io.Writer
	fd     int
	isTerm func(fd int) bool
	readPw func(fd int) ([]byte, error)
}

// NewPrompter prompts on stdin/stdout
func NewPrompter() *Prompter {
	return &Prompter{
		in:     bufio.NewReader(os.Stdin),
		out:    os.Stdout,
		fd:     int(os.Stdin.Fd()),
		isTerm: term.IsTerminal,
		readPw: term.ReadPassword,
	}
}

// Line prints label and reads one trimmed line
func (p *Prompter) Line(label string) (string, error) {
	fmt.Fprint(p.out, label)
	input, err := p.in.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && input != "") {
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	return strings.TrimSpace(input), nil
}

// Password prints label and reads a line without echo when stdin is a
// terminal. Piped input is read as a plain line.
func (p *Prompter) Password(label string) (string, error) {
	if !p.isTerm(p.fd) {
		return p.Line(label)
	}

	fmt.Fprint(p.out, label)
	pw, err := p.readPw(p.fd)
	fmt.Fprintln(p.out)
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	return string(pw), nil
}

// Credentials asks for a username and password
func (p *Prompter) Credentials() (string, string, error) {
	username, err := p.Line("Username: ")
	if err != nil {
		return "", "", err
	}
	password, err := p.Password("Password: ")
	if err != nil {
		return "", "", err
	}
	return username, password, nil
}
