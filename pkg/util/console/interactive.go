package console

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"
)

// ErrNoInput is returned when a prompt needs an answer but stdin is closed.
var ErrNoInput = errors.New("stdin is closed")

type Interactive struct {
	Prompt   string
	Default  string
	Options  []string
	Required bool

	// In and Out default to stdin and stdout. Pass the same *bufio.Reader to consecutive
	// prompts so buffered answers are not lost.
	In  io.Reader
	Out io.Writer
}

func (i Interactive) Read() (string, error) {
	if i.Default != "" && i.Options != nil && !slices.Contains(i.Options, i.Default) {
		panic("Default is not an option")
	}

	parens := ""
	if i.Required {
		parens += "required"
	}
	if i.Default != "" {
		if parens != "" {
			parens += ", "
		}
		parens += "default: " + i.Default
	}
	if i.Options != nil {
		if parens != "" {
			parens += ", "
		}
		parens += "options: " + strings.Join(i.Options, ", ")
	}
	if parens != "" {
		parens = " (" + parens + ")"
	}

	in, out := i.streams()
	reader, ok := in.(*bufio.Reader)
	if !ok {
		reader = bufio.NewReader(in)
	}
	for {
		fmt.Fprintf(out, "%s%s: ", i.Prompt, parens)
		text, err := reader.ReadString('\n')
		if err != nil && !(errors.Is(err, io.EOF) && text != "") {
			if errors.Is(err, io.EOF) {
				return "", ErrNoInput
			}
			return "", err
		}
		text = strings.TrimSpace(text)
		if text == "" && i.Default != "" {
			text = i.Default
		}

		if i.Required && text == "" {
			Warn("Please enter a value")
			continue
		}

		if !i.Required && text == "" {
			return "", nil
		}

		if i.Options != nil && !slices.Contains(i.Options, text) {
			Warnf("%s is not a valid option", text)
			continue
		}

		return text, nil
	}
}

func (i Interactive) streams() (io.Reader, io.Writer) {
	var in io.Reader = os.Stdin
	var out io.Writer = os.Stdout
	if i.In != nil {
		in = i.In
	}
	if i.Out != nil {
		out = i.Out
	}
	return in, out
}
