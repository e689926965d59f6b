package report

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"gonum.org/v1/gonum/stat"

	teground "github.com/nmichlo/teground-go"
)

// TrackSummary aggregates a finished evaluator's log.
type TrackSummary struct {
	Track    string
	Matches  int
	Misses   int
	Unmarked int

	// MatchRate is Matches over emitted assertions (Matches+Misses);
	// zero when nothing was emitted.
	MatchRate float64
}

// Summarize counts the recorded assertions of one evaluator.
func Summarize(t *teground.SegmentTrackTest) TrackSummary {
	s := TrackSummary{
		Track:    t.TrackHeader().Name(),
		Matches:  t.CountAssertions(teground.ResultMatch),
		Misses:   t.CountAssertions(teground.ResultMiss),
		Unmarked: t.CountAssertions(teground.ResultUnmarked),
	}
	if emitted := s.Matches + s.Misses; emitted > 0 {
		s.MatchRate = float64(s.Matches) / float64(emitted)
	}
	return s
}

// SuiteSummary aggregates every segment evaluator of a suite.
type SuiteSummary struct {
	Name   string
	Tracks []TrackSummary

	// MeanMatchRate is the unweighted mean of the per-track rates.
	MeanMatchRate float64
}

// SummarizeSuite summarizes every SegmentTrackTest in the suite.
func SummarizeSuite(s *teground.TestSuite) SuiteSummary {
	out := SuiteSummary{Name: s.Name()}
	var rates []float64
	for _, t := range s.Tests() {
		st, ok := t.(*teground.SegmentTrackTest)
		if !ok {
			continue
		}
		summary := Summarize(st)
		out.Tracks = append(out.Tracks, summary)
		rates = append(rates, summary.MatchRate)
	}
	if len(rates) > 0 {
		out.MeanMatchRate = stat.Mean(rates, nil)
	}
	return out
}

// Render writes the summary as a table.
func (s SuiteSummary) Render(w io.Writer) {
	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.SetTitle(s.Name)
	tw.AppendHeader(table.Row{"Track", "Matches", "Misses", "Unmarked", "Match Rate"})
	for _, t := range s.Tracks {
		tw.AppendRow(table.Row{t.Track, t.Matches, t.Misses, t.Unmarked, fmt.Sprintf("%.1f%%", t.MatchRate*100)})
	}
	tw.AppendFooter(table.Row{"", "", "", "mean", fmt.Sprintf("%.1f%%", s.MeanMatchRate*100)})
	tw.Render()
}
