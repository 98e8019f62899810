package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	flag "github.com/spf13/pflag"

	"github.com/calvinalkan/ftagmgr/internal/config"
	"github.com/calvinalkan/ftagmgr/pkg/tagstore"
)

var errDBPathFlagEmpty = errors.New("--db cannot be empty")

// app carries what commands share within one Run.
type app struct {
	cfg      *config.Config
	store    *tagstore.Store
	logger   *slog.Logger
	registry *prometheus.Registry
	stdin    io.Reader
	env      map[string]string
	noColor  bool
}

// openStore configures a store at path with the same logger, lock timeout
// and metrics registry as the main store.
func (a *app) openStore(path string) (*tagstore.Store, error) {
	return tagstore.New(path,
		tagstore.WithLogger(a.logger),
		tagstore.WithLockTimeout(a.cfg.LockWait),
		tagstore.WithMetrics(a.registry),
	)
}

// commands returns fresh command instances. Flag sets keep parsed values, so
// the shell builds a new set for every line.
func (a *app) commands() []*Command {
	return []*Command{
		InitCmd(a.cfg, a.store),
		DirCmd(a.store),
		FileCmd(a.store),
		TagCmd(a.store),
		LsCmd(a.store),
		DumpCmd(a.store),
		DemoCmd(a),
		ShellCmd(a),
		PrintConfigCmd(a.cfg),
	}
}

func findCommand(cmds []*Command, name string) *Command {
	for _, cmd := range cmds {
		if cmd.Name() == name {
			return cmd
		}
	}

	return nil
}

// Run is the main entry point. Returns exit code.
//
// sigCh may be nil. A value received on it cancels the context passed to the
// running command.
func Run(stdin io.Reader, out io.Writer, errOut io.Writer, args []string, env map[string]string, sigCh <-chan os.Signal) int {
	globalFlags := flag.NewFlagSet("ftag", flag.ContinueOnError)
	globalFlags.SetInterspersed(false)
	globalFlags.SetOutput(&strings.Builder{})

	flagHelp := globalFlags.BoolP("help", "h", false, "Show help")
	flagCwd := globalFlags.StringP("cwd", "C", "", "Run as if started in `dir`")
	flagConfig := globalFlags.StringP("config", "c", "", "Use specified config `file`")
	flagDB := globalFlags.String("db", "", "Override the store `path`")
	flagVerbose := globalFlags.BoolP("verbose", "v", false, "Log every store operation to stderr")
	flagNoColor := globalFlags.Bool("no-color", false, "Disable colored output")

	if len(args) > 0 {
		args = args[1:]
	}

	err := globalFlags.Parse(args)
	if err != nil {
		fprintln(errOut, "error:", err)
		fprintln(errOut)
		printGlobalFlags(errOut, globalFlags)

		return 1
	}

	if globalFlags.Changed("db") && *flagDB == "" {
		fprintln(errOut, "error:", errDBPathFlagEmpty)

		return 1
	}

	cfg, err := config.Load(config.LoadInput{
		WorkDirOverride: *flagCwd,
		ConfigPath:      *flagConfig,
		DBPathOverride:  *flagDB,
		Env:             env,
	})
	if err != nil {
		fprintln(errOut, "error:", err)

		return 1
	}

	a := &app{
		cfg:      &cfg,
		logger:   newLogger(errOut, *flagVerbose),
		registry: prometheus.NewRegistry(),
		stdin:    stdin,
		env:      env,
		noColor:  *flagNoColor || cfg.ColorDisabled() || env["NO_COLOR"] != "",
	}

	a.store, err = a.openStore(cfg.DBPathAbs)
	if err != nil {
		fprintln(errOut, "error:", err)

		return 1
	}

	cmds := a.commands()
	rest := globalFlags.Args()

	if *flagHelp || len(rest) == 0 {
		printUsage(out, globalFlags, cmds)

		return 0
	}

	cmd := findCommand(cmds, rest[0])
	if cmd == nil {
		fprintln(errOut, "error: unknown command:", rest[0])
		fprintln(errOut)
		printUsage(errOut, globalFlags, cmds)

		return 1
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if sigCh != nil {
		go func() {
			select {
			case <-sigCh:
				cancel()
			case <-ctx.Done():
			}
		}()
	}

	return cmd.Run(ctx, NewIO(out, errOut, a.noColor), rest[1:])
}

func newLogger(errOut io.Writer, verbose bool) *slog.Logger {
	if !verbose {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return slog.New(slog.NewTextHandler(errOut, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func fprintln(w io.Writer, a ...any) {
	_, _ = fmt.Fprintln(w, a...)
}

func printGlobalFlags(w io.Writer, globalFlags *flag.FlagSet) {
	fprintln(w, "Global flags:")

	var buf strings.Builder

	globalFlags.SetOutput(&buf)
	globalFlags.PrintDefaults()
	globalFlags.SetOutput(&strings.Builder{})

	_, _ = io.WriteString(w, buf.String())
}

func printUsage(w io.Writer, globalFlags *flag.FlagSet, cmds []*Command) {
	fprintln(w, `ftag - file tagging manager

Usage: ftag [flags] <command> [args]`)
	fprintln(w)
	printGlobalFlags(w, globalFlags)
	fprintln(w)
	fprintln(w, "Commands:")

	for _, cmd := range cmds {
		fprintln(w, cmd.HelpLine())
	}

	fprintln(w)
	fprintln(w, `Run "ftag <command> --help" for command details.`)
}
