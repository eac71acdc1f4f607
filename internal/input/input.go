// Package input contains identifiers used in getting REPL line input from
// CLI or other sources of input.
package input

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/chzyer/readline"
)

// DirectLineReader implements LineReader and reads lines from any generic
// input stream directly. It can be used generically with any io.Reader but
// does not sanitize the input of control and escape sequences.
//
// DirectLineReader should not be used directly; instead, create one with
// [NewDirectReader].
type DirectLineReader struct {
	r             *bufio.Reader
	blanksAllowed bool
}

// InteractiveLineReader implements LineReader and reads lines from stdin
// using a go implementation of the GNU Readline library. This keeps input
// clear of all typing and editing escape sequences and enables the use of
// command history. This should in general probably only be used when
// directly connecting to a TTY for input.
//
// InteractiveLineReader should not be used directly; instead, create one
// with [NewInteractiveReader].
type InteractiveLineReader struct {
	rl            *readline.Instance
	blanksAllowed bool
	prompt        string
}

// NewDirectReader creates a new DirectLineReader and initializes a buffered
// reader on the provided reader. It holds no readline resources; its Close()
// is a no-op that exists so it satisfies LineReader.
func NewDirectReader(r io.Reader) *DirectLineReader {
	return &DirectLineReader{
		r: bufio.NewReader(r),
	}
}

// NewInteractiveReader creates a new InteractiveLineReader and initializes
// readline. The returned InteractiveLineReader must have Close() called on
// it before disposal to properly teardown readline resources.
func NewInteractiveReader() (*InteractiveLineReader, error) {
	rl, err := readline.NewEx(&readline.Config{
		Prompt: "grammar> ",
	})
	if err != nil {
		return nil, fmt.Errorf("create readline config: %w", err)
	}

	return &InteractiveLineReader{
		rl:     rl,
		prompt: "grammar> ",
	}, nil
}

// Close cleans up resources associated with the DirectLineReader.
func (dcr *DirectLineReader) Close() error {
	// here so DirectLineReader implements LineReader; it does not itself
	// hold resources needing cleanup today.
	return nil
}

// Close cleans up readline resources associated with the
// InteractiveLineReader.
func (icr *InteractiveLineReader) Close() error {
	return icr.rl.Close()
}

// ReadLine reads the next line from the underlying stream. The returned
// string will only be empty if there is an error reading input, otherwise
// this function blocks until a line containing non-space characters is
// read.
//
// If at end of input, the returned string will be empty and error will be
// io.EOF. If any other error occurs, the returned string will be empty and
// error will be that error.
func (dcr *DirectLineReader) ReadLine() (string, error) {
	var line string
	var err error

	for line == "" {
		line, err = dcr.r.ReadString('\n')
		if err != nil && (err != io.EOF || line == "") {
			return "", err
		}

		line = strings.TrimSpace(line)

		if line == "" && dcr.blanksAllowed {
			return line, nil
		}
	}

	return line, nil
}

// ReadLine reads the next line from stdin. The returned string will only be
// empty if there is an error, otherwise this function blocks until a line
// consisting of more than empty or whitespace-only input is read.
//
// If at end of input, the returned string will be empty and error will be
// io.EOF. If any other error occurs, the returned string will be empty and
// error will be that error.
func (icr *InteractiveLineReader) ReadLine() (string, error) {
	var line string
	var err error

	for line == "" {
		line, err = icr.rl.Readline()
		if err != nil && (err != io.EOF || line == "") {
			return "", err
		}

		line = strings.TrimSpace(line)

		if line == "" && icr.blanksAllowed {
			return line, nil
		}
	}

	return line, nil
}

// AllowBlank sets whether blank input lines are allowed. By default they are
// not.
func (dcr *DirectLineReader) AllowBlank(allow bool) {
	dcr.blanksAllowed = allow
}

// AllowBlank sets whether blank input lines are allowed. By default they are
// not.
func (icr *InteractiveLineReader) AllowBlank(allow bool) {
	icr.blanksAllowed = allow
}

// SetPrompt updates the prompt to the given text.
func (icr *InteractiveLineReader) SetPrompt(p string) {
	icr.rl.SetPrompt(p)
	icr.prompt = p
}

// GetPrompt gets the current prompt.
func (icr *InteractiveLineReader) GetPrompt() string {
	return icr.prompt
}

// LineReader is implemented by both DirectLineReader and
// InteractiveLineReader: a source of successive, non-blank, trimmed lines of
// input, such as a REPL's read loop.
type LineReader interface {
	ReadLine() (string, error)
	AllowBlank(allow bool)
	Close() error
}
