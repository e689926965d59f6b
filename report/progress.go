package report

import (
	"os"
	"time"

	"github.com/schollz/progressbar/v3"
	"golang.org/x/term"

	teground "github.com/nmichlo/teground-go"
)

// Progress is an assertion subscriber that drives a progress bar across
// the data file's combined timeline as the evaluator's cursor advances.
type Progress struct {
	data   *teground.DataFile
	bar    *progressbar.ProgressBar
	offset teground.VideoTime
	seen   teground.VideoTime
}

// NewProgress creates a bar spanning the summed sequence lengths. The bar
// width adapts to the terminal when stderr is one.
func NewProgress(data *teground.DataFile, label string) *Progress {
	total := teground.VideoTime(0)
	for _, seq := range data.Sequences() {
		total += seq.Length()
	}

	opts := []progressbar.Option{
		progressbar.OptionSetDescription(label),
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
		progressbar.OptionSetItsString("frames"),
		progressbar.OptionThrottle(100 * time.Millisecond),
		progressbar.OptionClearOnFinish(),
	}
	if width, _, err := term.GetSize(int(os.Stderr.Fd())); err == nil && width > 40 {
		opts = append(opts, progressbar.OptionSetWidth(width/3))
	}

	return &Progress{
		data: data,
		bar:  progressbar.NewOptions(int(total), opts...),
	}
}

// OnSequenceSet accumulates the lengths of the sequences before the one
// the cursor entered.
func (p *Progress) OnSequenceSet(seq *teground.Sequence) {
	offset := teground.VideoTime(0)
	for _, s := range p.data.Sequences() {
		if s == seq {
			break
		}
		offset += s.Length()
	}
	p.offset = offset
	p.advanceTo(offset)
}

// OnAssertionInsert moves the bar to the assertion's timeline position.
// The bar never moves backwards even though the log is reordered.
func (p *Progress) OnAssertionInsert(a *teground.SegmentAssertion) {
	p.advanceTo(p.offset + a.Position())
}

func (p *Progress) advanceTo(pos teground.VideoTime) {
	if pos <= p.seen {
		return
	}
	p.seen = pos
	_ = p.bar.Set(int(pos))
}

// Finish completes the bar.
func (p *Progress) Finish() {
	_ = p.bar.Finish()
}
