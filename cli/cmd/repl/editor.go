package repl

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"strings"

	"github.com/ardnew/windstyle/expression"
	"github.com/ardnew/windstyle/log"
)

const defaultEditor = "vi"

// editCommand implements [tea.ExecCommand] for the edit-validate-retry loop.
// It writes an expression as indented JSON to a temp file, opens the user's
// editor, and validates the result. On error the user is prompted to
// re-edit; declining exits the program.
type editCommand struct {
	session *session
	ctxFunc func() context.Context
	logger  log.Logger
	stdin   io.Reader
	stdout  io.Writer
	stderr  io.Writer
	initial string
	result  string // compact single-line expression, empty if cancelled
}

// SetStdin sets the stdin reader for the command.
func (c *editCommand) SetStdin(r io.Reader) { c.stdin = r }

// SetStdout sets the stdout writer for the command.
func (c *editCommand) SetStdout(w io.Writer) { c.stdout = w }

// SetStderr sets the stderr writer for the command.
func (c *editCommand) SetStderr(w io.Writer) { c.stderr = w }

// Run executes the edit loop. If the user declines to re-edit an invalid
// expression, it returns [ErrEditDeclined].
func (c *editCommand) Run() error {
	ctx := c.ctxFunc()

	content, err := indent(c.initial)
	if err != nil {
		return err
	}

	f, err := os.CreateTemp(os.TempDir(), "windstyle-repl-*.json")
	if err != nil {
		return err
	}

	path := f.Name()

	defer os.Remove(path)

	if err := f.Close(); err != nil {
		return err
	}

	for {
		if err := os.WriteFile(path, content, 0o600); err != nil {
			return err
		}

		if err := runEditor(ctx, c.stdin, c.stdout, c.stderr, path); err != nil {
			return err
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}

		// A cleared file cancels the edit.
		if len(bytes.TrimSpace(data)) == 0 {
			return nil
		}

		result, checkErr := c.session.check(data)
		c.logger.TraceContext(ctx, "editor parse attempt",
			slog.Int("content_length", len(data)),
			slog.Bool("success", checkErr == nil),
		)

		if checkErr == nil {
			c.result = result

			return nil
		}

		fmt.Fprintf(c.stderr, "\nInvalid expression: %s\n", checkErr)
		fmt.Fprintf(c.stdout, "Re-edit? [Y/n] ")

		scanner := bufio.NewScanner(c.stdin)
		if !scanner.Scan() {
			return ErrEditDeclined
		}

		switch strings.ToLower(strings.TrimSpace(scanner.Text())) {
		case "n", "no":
			return ErrEditDeclined
		}

		content = data
	}
}

// indent renders an expression line as indented JSON for editing. Lines
// that do not decode are edited as they are.
func indent(line string) ([]byte, error) {
	if strings.TrimSpace(line) == "" {
		return []byte("[]\n"), nil
	}

	v, err := expression.Decode([]byte(line))
	if err != nil {
		return []byte(line + "\n"), nil
	}

	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, err
	}

	return append(data, '\n'), nil
}

// runEditor launches the user's editor on the given file path.
func runEditor(
	ctx context.Context,
	stdin io.Reader,
	stdout io.Writer,
	stderr io.Writer,
	path string,
) error {
	editor := os.Getenv("EDITOR")
	if editor == "" {
		editor = defaultEditor
	}

	cmd := exec.CommandContext(ctx, editor, path)
	cmd.Stdin = stdin
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	return cmd.Run()
}
