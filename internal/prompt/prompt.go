// Package prompt provides line-based prompts for terminals without TUI support.
package prompt

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
)

var (
	// ErrEmptyInput is returned when the user provides empty input and no default is set.
	ErrEmptyInput = errors.New("empty input")

	// ErrInvalidInput is returned when the user provides invalid input.
	ErrInvalidInput = errors.New("invalid input")
)

// Prompter asks the user questions one line at a time.
type Prompter interface {
	// Input prompts for a single line of text input.
	Input(prompt string, defaultValue string) (string, error)

	// Confirm prompts for a yes/no confirmation.
	Confirm(prompt string, defaultValue bool) (bool, error)

	// Choose prints numbered options and returns the index picked by
	// number or by exact (case-insensitive) value.
	Choose(prompt string, options []string, defaultIndex int) (int, error)
}

// StdPrompter implements Prompter over a reader and a writer.
type StdPrompter struct {
	reader *bufio.Reader
	writer io.Writer
}

// NewStdPrompter creates a StdPrompter on stdin and stdout.
func NewStdPrompter() *StdPrompter {
	return NewPrompter(os.Stdin, os.Stdout)
}

// NewPrompter creates a StdPrompter with custom reader and writer.
func NewPrompter(reader io.Reader, writer io.Writer) *StdPrompter {
	return &StdPrompter{
		reader: bufio.NewReader(reader),
		writer: writer,
	}
}

// Input prompts for a single line of text input.
func (p *StdPrompter) Input(prompt string, defaultValue string) (string, error) {
	label := prompt
	if defaultValue != "" {
		label = fmt.Sprintf("%s [%s]", prompt, defaultValue)
	}

	input, err := p.ask(label)
	if err != nil {
		return "", err
	}

	if input == "" {
		if defaultValue == "" {
			return "", ErrEmptyInput
		}

		return defaultValue, nil
	}

	return input, nil
}

// Confirm prompts for a yes/no confirmation.
func (p *StdPrompter) Confirm(prompt string, defaultValue bool) (bool, error) {
	hint := "y/N"
	if defaultValue {
		hint = "Y/n"
	}

	input, err := p.ask(fmt.Sprintf("%s [%s]", prompt, hint))
	if err != nil {
		return false, err
	}

	switch strings.ToLower(input) {
	case "":
		return defaultValue, nil
	case "y", "yes":
		return true, nil
	case "n", "no":
		return false, nil
	default:
		return false, errors.Wrapf(ErrInvalidInput, "expected y/n, got %q", input)
	}
}

// Choose prints numbered options and reads the choice.
func (p *StdPrompter) Choose(prompt string, options []string, defaultIndex int) (int, error) {
	if len(options) == 0 {
		return 0, errors.Wrap(ErrInvalidInput, "no options to choose from")
	}

	for i, opt := range options {
		marker := " "
		if i == defaultIndex {
			marker = "*"
		}

		if _, err := fmt.Fprintf(p.writer, "%s %d) %s\n", marker, i+1, opt); err != nil {
			return 0, errors.Wrap(err, "failed to write options")
		}
	}

	input, err := p.ask(fmt.Sprintf("%s [%d]", prompt, defaultIndex+1))
	if err != nil {
		return 0, err
	}

	if input == "" {
		if defaultIndex < 0 || defaultIndex >= len(options) {
			return 0, ErrEmptyInput
		}

		return defaultIndex, nil
	}

	if n, err := strconv.Atoi(input); err == nil {
		if n < 1 || n > len(options) {
			return 0, errors.Wrapf(ErrInvalidInput, "choice %d is out of range 1-%d", n, len(options))
		}

		return n - 1, nil
	}

	for i, opt := range options {
		if strings.EqualFold(opt, input) {
			return i, nil
		}
	}

	return 0, errors.Wrapf(ErrInvalidInput, "unknown choice %q", input)
}

func (p *StdPrompter) ask(label string) (string, error) {
	if _, err := fmt.Fprintf(p.writer, "%s: ", label); err != nil {
		return "", errors.Wrap(err, "failed to write prompt")
	}

	input, err := p.reader.ReadString('\n')
	if err != nil && (!errors.Is(err, io.EOF) || input == "") {
		return "", errors.Wrap(err, "failed to read input")
	}

	return strings.TrimSpace(input), nil
}
