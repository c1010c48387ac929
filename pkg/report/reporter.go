// Package report writes nested, human-readable progress for long running
// setup and activation steps.
package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/fatih/color"
)

var (
	doneColor    = color.New(color.FgGreen, color.Bold)
	failedColor  = color.New(color.FgRed, color.Bold)
	errorColor   = color.New(color.FgRed)
	warningColor = color.New(color.FgYellow)
	verboseColor = color.New(color.FgHiBlack)
)

const indentWidth = 4

// Reporter writes status lines indented by nesting depth. Errors written at
// any depth are counted on the shared root.
type Reporter struct {
	w       io.Writer
	verbose bool
	depth   int
	errors  *int
}

// New creates a root reporter writing to w
func New(w io.Writer, verbose bool) *Reporter {
	return &Reporter{w: w, verbose: verbose, errors: new(int)}
}

// Discard returns a reporter that drops everything but still counts errors
func Discard() *Reporter {
	return New(io.Discard, false)
}

// Nested writes header, runs fn with a reporter one level deeper and writes
// the outcome. fn's error is returned unchanged.
func (r *Reporter) Nested(header string, fn func(*Reporter) error) error {
	r.Line(header)

	child := &Reporter{w: r.w, verbose: r.verbose, depth: r.depth + 1, errors: r.errors}
	before := *r.errors
	start := time.Now()

	err := fn(child)

	elapsed := time.Since(start).Round(time.Millisecond)
	if err != nil || *r.errors != before {
		child.write(failedColor.Sprintf("FAILED (%s)", elapsed))
	} else {
		child.write(doneColor.Sprintf("DONE (%s)", elapsed))
	}
	return err
}

// Line writes an unadorned status line
func (r *Reporter) Line(format string, args ...any) {
	r.write(fmt.Sprintf(format, args...))
}

// Info writes an informational line
func (r *Reporter) Info(format string, args ...any) {
	r.write("INFO: " + fmt.Sprintf(format, args...))
}

// Warning writes a warning line
func (r *Reporter) Warning(format string, args ...any) {
	r.write(warningColor.Sprint("WARNING: " + fmt.Sprintf(format, args...)))
}

// Error writes an error line and counts it
func (r *Reporter) Error(format string, args ...any) {
	*r.errors++
	r.write(errorColor.Sprint("ERROR: " + fmt.Sprintf(format, args...)))
}

// Verbose writes a line only when verbose output is enabled
func (r *Reporter) Verbose(format string, args ...any) {
	if !r.verbose {
		return
	}
	r.write(verboseColor.Sprint("VERBOSE: " + fmt.Sprintf(format, args...)))
}

// IsVerbose reports whether verbose lines are written
func (r *Reporter) IsVerbose() bool {
	return r.verbose
}

// ErrorCount returns the number of errors written through this reporter tree
func (r *Reporter) ErrorCount() int {
	return *r.errors
}

func (r *Reporter) write(text string) {
	prefix := strings.Repeat(" ", r.depth*indentWidth)

	// Leading blank lines in headers are kept flush left.
	for strings.HasPrefix(text, "\n") {
		fmt.Fprintln(r.w)
		text = text[1:]
	}

	for _, line := range strings.Split(strings.TrimRight(text, "\n"), "\n") {
		if line == "" {
			fmt.Fprintln(r.w)
			continue
		}
		fmt.Fprintf(r.w, "%s%s\n", prefix, line)
	}
}

// Indent prefixes every line of text with n spaces
func Indent(text string, n int) string {
	prefix := strings.Repeat(" ", n)
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		if line != "" {
			lines[i] = prefix + line
		}
	}
	return strings.Join(lines, "\n")
}
