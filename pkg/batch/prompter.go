package batch

import (
	"bufio"
	"fmt"
	"io"
)

// ConsolePrompter reads operator input line by line, echoing the prompt
// first. The annotation loop and the command engine share one instance so
// follow-up questions consume the same stream.
type ConsolePrompter struct {
	in  *bufio.Scanner
	out io.Writer
}

// NewConsolePrompter wraps an input stream and a prompt destination.
func NewConsolePrompter(in io.Reader, out io.Writer) *ConsolePrompter {
	return &ConsolePrompter{in: bufio.NewScanner(in), out: out}
}

// ReadLine prints the prompt and returns the next input line. io.EOF
// means the operator closed the stream, which the driver treats as exit.
func (p *ConsolePrompter) ReadLine(prompt string) (string, error) {
	fmt.Fprint(p.out, prompt)
	if !p.in.Scan() {
		if err := p.in.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return p.in.Text(), nil
}
