package dispatch

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Prompter asks the operator a yes/no question.
type Prompter interface {
	Confirm(question string) (bool, error)
}

// LinePrompter reads one answer line from In.
type LinePrompter struct {
	In  io.Reader
	Out io.Writer
}

// Confirm writes question and reads a line. Only "y" or "yes", in any
// case, is affirmative. EOF counts as no.
func (p *LinePrompter) Confirm(question string) (bool, error) {
	if p.Out != nil {
		fmt.Fprint(p.Out, question)
	}

	line, err := bufio.NewReader(p.In).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false, err
	}

	return Affirmative(line), nil
}

// Affirmative reports whether answer means yes.
func Affirmative(answer string) bool {
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true
	default:
		return false
	}
}
