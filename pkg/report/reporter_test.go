package report

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
)

func init() {
	color.NoColor = true
}

func TestReporter_Nested(t *testing.T) {
	var buf bytes.Buffer
	r := New(&buf, false)

	err := r.Nested("\nProcessing 'LLVM'...", func(r *Reporter) error {
		r.Line("step")
		r.Verbose("hidden")
		return nil
	})
	assert.NoError(t, err)

	lines := strings.Split(buf.String(), "\n")
	assert.Equal(t, "", lines[0])
	assert.Equal(t, "Processing 'LLVM'...", lines[1])
	assert.Equal(t, "    step", lines[2])
	assert.True(t, strings.HasPrefix(lines[3], "    DONE ("))
	assert.NotContains(t, buf.String(), "hidden")
}

func TestReporter_ErrorsMarkFailure(t *testing.T) {
	var buf bytes.Buffer
	r := New(&buf, true)

	err := r.Nested("Validating 'grcov'...", func(r *Reporter) error {
		r.Error("not installed")
		r.Verbose("shown")
		return nil
	})
	assert.NoError(t, err)
	assert.Equal(t, 1, r.ErrorCount())
	assert.Contains(t, buf.String(), "    ERROR: not installed\n")
	assert.Contains(t, buf.String(), "VERBOSE: shown")
	assert.Contains(t, buf.String(), "FAILED (")
}

func TestReporter_ReturnsError(t *testing.T) {
	r := Discard()
	want := errors.New("boom")

	got := r.Nested("x", func(r *Reporter) error {
		return r.Nested("y", func(*Reporter) error { return want })
	})
	assert.Same(t, want, got)
	assert.Equal(t, 0, r.ErrorCount())
}

func TestIndent(t *testing.T) {
	assert.Equal(t, "    a\n\n    b", Indent("a\n\nb", 4))
}
