package cli

import (
	"fmt"
	"io"

	"github.com/fatih/color"
)

// IO handles command output with warnings that stay visible under truncation.
type IO struct {
	out      io.Writer
	errOut   io.Writer
	warnings []string
	started  bool

	red    *color.Color
	yellow *color.Color
	green  *color.Color
}

// NewIO creates a new IO instance. With noColor set, nothing is colored;
// otherwise fatih/color decides based on the terminal and NO_COLOR.
func NewIO(out, errOut io.Writer, noColor bool) *IO {
	o := &IO{
		out:    out,
		errOut: errOut,
		red:    color.New(color.FgRed),
		yellow: color.New(color.FgYellow),
		green:  color.New(color.FgGreen),
	}

	if noColor {
		o.red.DisableColor()
		o.yellow.DisableColor()
		o.green.DisableColor()
	}

	return o
}

// Warn adds a warning.
//
// Warnings are printed to stderr at both the START and END of output,
// ensuring visibility regardless of truncation or piping (head/tail).
// Any warnings cause exit code 1 to signal attention is needed.
//
// Output to stdout (via Println) still occurs; warnings don't suppress
// normal output.
func (o *IO) Warn(issue string, action string) {
	o.warnings = append(o.warnings, fmt.Sprintf("%s: %s", issue, action))
}

// Println writes to stdout. On first call, any collected warnings
// are printed to stderr first.
func (o *IO) Println(a ...any) {
	o.flushWarningsStart()
	_, _ = fmt.Fprintln(o.out, a...)
}

// Printf writes formatted output to stdout. On first call, any collected
// warnings are printed to stderr first.
func (o *IO) Printf(format string, a ...any) {
	o.flushWarningsStart()
	_, _ = fmt.Fprintf(o.out, format, a...)
}

// Success writes a green line to stdout.
func (o *IO) Success(a ...any) {
	o.flushWarningsStart()
	_, _ = o.green.Fprintln(o.out, a...)
}

// Out returns the stdout writer for renderers that stream (tables, documents).
func (o *IO) Out() io.Writer {
	o.flushWarningsStart()

	return o.out
}

// ErrPrintln writes to stderr.
func (o *IO) ErrPrintln(a ...any) {
	_, _ = fmt.Fprintln(o.errOut, a...)
}

// Error prints err to stderr with a red "error:" prefix.
func (o *IO) Error(err error) {
	_, _ = fmt.Fprintln(o.errOut, o.red.Sprint("error:"), err)
}

// Finish prints warnings to stderr and returns exit code.
// Returns 1 if any warnings, 0 otherwise.
func (o *IO) Finish() int {
	// If no output happened but we have warnings, print them at "start" position
	o.flushWarningsStart()

	for _, w := range o.warnings {
		o.printWarning(w)
	}

	if len(o.warnings) > 0 {
		return 1
	}

	return 0
}

func (o *IO) flushWarningsStart() {
	if !o.started && len(o.warnings) > 0 {
		for _, w := range o.warnings {
			o.printWarning(w)
		}

		o.started = true
	}
}

func (o *IO) printWarning(w string) {
	_, _ = fmt.Fprintln(o.errOut, o.yellow.Sprint("warning:"), w)
}
