// Package report renders evaluator output for the console: a per-assertion
// line writer, aggregate summaries and a timeline progress bar.
package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	teground "github.com/nmichlo/teground-go"
)

// ConsoleWriter is an assertion subscriber that prints one line per
// recorded assertion, in call order, colorized by result. Colors follow
// the fatih/color conventions (disabled for non-terminals and NO_COLOR).
type ConsoleWriter struct {
	out    io.Writer
	header *teground.TrackHeader

	match    *color.Color
	miss     *color.Color
	unmarked *color.Color
}

// NewConsoleWriter creates a writer for assertions over header's track.
func NewConsoleWriter(out io.Writer, header *teground.TrackHeader) *ConsoleWriter {
	return &ConsoleWriter{
		out:      out,
		header:   header,
		match:    color.New(color.FgGreen),
		miss:     color.New(color.FgRed),
		unmarked: color.New(color.FgYellow),
	}
}

// OnSequenceSet prints a separator naming the sequence the cursor entered.
func (w *ConsoleWriter) OnSequenceSet(seq *teground.Sequence) {
	rule := strings.Repeat("-", 60)
	fmt.Fprintf(w.out, "\n%s\n%s\n%s\n", rule, seq.Path(), rule)
}

// OnAssertionInsert prints the assertion line.
func (w *ConsoleWriter) OnAssertionInsert(a *teground.SegmentAssertion) {
	var tag string
	var c *color.Color
	switch a.Result() {
	case teground.ResultMatch:
		tag, c = "[MATCH   ]", w.match
	case teground.ResultMiss:
		tag, c = "[MISS    ]", w.miss
	default:
		tag, c = "[UNMARKED]", w.unmarked
	}

	kind := "Stamp"
	switch a.Kind() {
	case teground.SingleOverlap, teground.MultiOverlap:
		kind = "Overlap"
	case teground.UnmarkedSegment:
		kind = "Unmarked"
	}

	c.Fprint(w.out, tag)
	fmt.Fprintf(w.out, " POS[%s:%05d:%d] TYPE[%s]", w.header.Name(), a.Position(), a.Length(), kind)
	if a.HasSegment() {
		fmt.Fprintf(w.out, " SEGMENT[%d, %d]", a.Segment().Position(), a.Segment().Length())
	}
	if a.HasInfo() {
		fmt.Fprintf(w.out, " INFO[%s]", a.Info())
	}
	if a.HasFile() {
		fmt.Fprintf(w.out, " FILE[%s:%d]", a.File(), a.Line())
	}
	fmt.Fprintln(w.out)
}
