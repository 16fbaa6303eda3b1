package internal

import (
	"bufio"
	"errors"
	"io"
	"strings"
)

var ErrTooManyTries = errors.New("too many tries")

type promptValidator func(string) (bool, string)

type promptConfig struct {
	tries     int
	validator promptValidator
}

type promptOption func(*promptConfig)

func WithValidator(v promptValidator) promptOption {
	return func(cfg *promptConfig) {
		cfg.validator = v
	}
}

func WithMaxTries(i int) promptOption {
	return func(cfg *promptConfig) {
		cfg.tries = i
	}
}

// Prompter reads lines from a connection. It owns the only buffered reader
// for that connection, so prompts and the session loop share buffered input.
type Prompter struct {
	w  io.Writer
	br *bufio.Reader
}

func NewPrompter(rw io.ReadWriter) *Prompter {
	return &Prompter{w: rw, br: bufio.NewReader(rw)}
}

// ReadLine returns the next line without its line ending. A final line
// without a newline is returned before io.EOF.
func (p *Prompter) ReadLine() (string, error) {
	line, err := p.br.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && line != "" {
			return strings.TrimRight(line, "\r\n"), nil
		}
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func (p *Prompter) Prompt(prompt string, opts ...promptOption) (string, error) {
	config := &promptConfig{}
	for _, opt := range opts {
		opt(config)
	}

	tries := 0
	for {
		if _, err := io.WriteString(p.w, prompt); err != nil {
			return "", err
		}

		input, err := p.ReadLine()
		if err != nil {
			return "", err
		}
		input = strings.TrimSpace(input)

		if config.validator != nil {
			ok, msg := config.validator(input)
			if !ok {
				if _, err := io.WriteString(p.w, msg); err != nil {
					return "", err
				}

				tries++
				if config.tries > 0 && config.tries == tries {
					_, _ = io.WriteString(p.w, "Too many tries.\n")
					return "", ErrTooManyTries
				}

				continue
			}
		}

		return input, nil
	}
}

func (p *Prompter) PromptYN(prompt string) (bool, error) {
	str, err := p.Prompt(prompt, WithValidator(
		func(str string) (bool, string) {
			switch strings.ToLower(str) {
			case "y", "yes", "n", "no":
				return true, ""
			default:
				return false, "Enter 'yes' or 'no'.\n"
			}
		},
	))
	if err != nil {
		return false, err
	}

	switch strings.ToLower(str) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}
