package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/peterh/liner"
	flag "github.com/spf13/pflag"
)

const shellPrompt = "ftag> "

// ShellCmd returns the shell command.
func ShellCmd(a *app) *Command {
	return &Command{
		Flags: flag.NewFlagSet("shell", flag.ContinueOnError),
		Usage: "shell",
		Short: "Run commands interactively",
		Long: `Read commands line by line and run them against the configured store.

Besides every ftag command (without the "ftag" prefix) the shell knows:
  metrics   Print store metrics for this session
  help      List commands
  exit      Leave the shell (also quit, Ctrl-D)

History is kept in $HOME/.ftag_history when stdin is a terminal.`,
		Exec: func(ctx context.Context, o *IO, _ []string) error {
			return execShell(ctx, o, a)
		},
	}
}

// lineReader is satisfied by *liner.State.
type lineReader interface {
	Prompt(prompt string) (string, error)
	AppendHistory(item string)
	Close() error
}

// scanReader reads piped input without echoing a prompt.
type scanReader struct {
	scanner *bufio.Scanner
}

func (r *scanReader) Prompt(string) (string, error) {
	if r.scanner.Scan() {
		return r.scanner.Text(), nil
	}

	err := r.scanner.Err()
	if err != nil {
		return "", err
	}

	return "", io.EOF
}

func (r *scanReader) AppendHistory(string) {}

func (r *scanReader) Close() error { return nil }

func isTerminal(in io.Reader) bool {
	f, ok := in.(*os.File)

	return ok && isatty.IsTerminal(f.Fd())
}

func historyFile(env map[string]string) string {
	home := env["HOME"]
	if home == "" {
		return ""
	}

	return filepath.Join(home, ".ftag_history")
}

func execShell(ctx context.Context, o *IO, a *app) error {
	var (
		lines   lineReader
		history string
	)

	if isTerminal(a.stdin) {
		state := liner.NewLiner()
		state.SetCtrlCAborts(true)
		state.SetCompleter(shellCompleter(a))

		history = historyFile(a.env)
		if history != "" {
			if f, err := os.Open(history); err == nil { //nolint:gosec // history lives in $HOME
				_, _ = state.ReadHistory(f)
				_ = f.Close()
			}
		}

		lines = state
	} else {
		stdin := a.stdin
		if stdin == nil {
			stdin = strings.NewReader("")
		}

		lines = &scanReader{scanner: bufio.NewScanner(stdin)}
	}

	defer func() { _ = lines.Close() }()

	if state, ok := lines.(*liner.State); ok && history != "" {
		defer saveHistory(state, history)
	}

	failed := 0

	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		line, err := lines.Prompt(shellPrompt)
		if err != nil {
			if errors.Is(err, liner.ErrPromptAborted) || errors.Is(err, io.EOF) {
				break
			}

			return fmt.Errorf("reading input: %w", err)
		}

		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		lines.AppendHistory(line)

		fields := strings.Fields(line)

		switch fields[0] {
		case "exit", "quit":
			return shellResult(failed)
		case "help":
			for _, cmd := range a.commands() {
				if cmd.Name() != "shell" {
					o.Println(cmd.HelpLine())
				}
			}

			o.Println("  metrics                            Print store metrics for this session")
			o.Println("  exit                               Leave the shell")

			continue
		case "metrics":
			err = writeMetrics(o.Out(), a.registry)
			if err != nil {
				return err
			}

			continue
		case "shell":
			o.Error(errors.New("already in a shell"))

			failed++

			continue
		}

		cmd := findCommand(a.commands(), fields[0])
		if cmd == nil {
			o.Error(fmt.Errorf("unknown command: %s (type 'help' for commands)", fields[0]))

			failed++

			continue
		}

		if cmd.Run(ctx, NewIO(o.out, o.errOut, a.noColor), fields[1:]) != 0 {
			failed++
		}
	}

	return shellResult(failed)
}

var errShellFailures = errors.New("commands failed")

func shellResult(failed int) error {
	if failed == 0 {
		return nil
	}

	return fmt.Errorf("%d %w", failed, errShellFailures)
}

func saveHistory(state *liner.State, path string) {
	f, err := os.Create(path) //nolint:gosec // history lives in $HOME
	if err != nil {
		return
	}

	_, _ = state.WriteHistory(f)
	_ = f.Close()
}

func shellCompleter(a *app) func(line string) []string {
	names := []string{"metrics", "help", "exit", "quit"}
	for _, cmd := range a.commands() {
		names = append(names, cmd.Name())
	}

	return func(line string) []string {
		var completions []string

		for _, name := range names {
			if strings.HasPrefix(name, line) {
				completions = append(completions, name)
			}
		}

		return completions
	}
}
