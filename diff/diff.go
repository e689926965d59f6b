// Package diff compares the assertion logs of two segment-track
// evaluators, e.g. a fresh run against a persisted baseline, pairing
// assertions by interval proximity and reporting what was added, removed
// or reclassified.
package diff

import (
	"fmt"
	"math"

	teground "github.com/nmichlo/teground-go"
	"github.com/nmichlo/teground-go/internal/assignment"
)

// Record identifies one assertion of a run.
type Record struct {
	Sequence int
	Position teground.VideoTime
	Length   teground.VideoTime
	Kind     teground.AssertionKind
	Result   teground.AssertionResult
}

func record(seq int, a *teground.SegmentAssertion) Record {
	return Record{
		Sequence: seq,
		Position: a.Position(),
		Length:   a.Length(),
		Kind:     a.Kind(),
		Result:   a.Result(),
	}
}

// Change is a pair of corresponding assertions whose classification
// differs between the two runs.
type Change struct {
	Baseline Record
	Current  Record
}

// Report summarizes the comparison of two runs.
type Report struct {
	// Added are assertions present only in the current run.
	Added []Record
	// Removed are assertions present only in the baseline.
	Removed []Record
	// Changed are paired assertions with differing result or kind.
	Changed []Change
	// Unchanged counts paired assertions with identical classification.
	Unchanged int
}

// Empty reports whether the two runs were identical under the pairing.
func (r *Report) Empty() bool {
	return len(r.Added) == 0 && len(r.Removed) == 0 && len(r.Changed) == 0
}

// Compare pairs the assertion logs of two evaluators sequence by
// sequence. Assertions are matched by minimal total coordinate distance
// |dPosition| + |dLength| through optimal assignment; pairs further apart
// than maxDistance stay unpaired. The evaluators must cover data files
// with the same sequence count.
func Compare(baseline, current *teground.SegmentTrackTest, maxDistance float64) (*Report, error) {
	nb := baseline.Data().SequenceCount()
	nc := current.Data().SequenceCount()
	if nb != nc {
		return nil, fmt.Errorf("diff: sequence count mismatch: baseline %d, current %d", nb, nc)
	}

	report := &Report{}
	for seq := 0; seq < nb; seq++ {
		compareSequence(report, seq, baseline.Assertions(seq), current.Assertions(seq), maxDistance)
	}
	return report, nil
}

func compareSequence(report *Report, seq int, base, cur []*teground.SegmentAssertion, maxDistance float64) {
	switch {
	case len(base) == 0 && len(cur) == 0:
		return
	case len(base) == 0:
		for _, a := range cur {
			report.Added = append(report.Added, record(seq, a))
		}
		return
	case len(cur) == 0:
		for _, a := range base {
			report.Removed = append(report.Removed, record(seq, a))
		}
		return
	}

	cost := make([][]float64, len(base))
	for i, b := range base {
		cost[i] = make([]float64, len(cur))
		for j, c := range cur {
			cost[i][j] = math.Abs(float64(b.Position()-c.Position())) +
				math.Abs(float64(b.Length()-c.Length()))
		}
	}

	pairs, freeRows, freeCols := assignment.Solve(cost, maxDistance)
	for _, p := range pairs {
		b, c := base[p.Row], cur[p.Col]
		if b.Result() == c.Result() && b.Kind() == c.Kind() {
			report.Unchanged++
			continue
		}
		report.Changed = append(report.Changed, Change{
			Baseline: record(seq, b),
			Current:  record(seq, c),
		})
	}
	for _, i := range freeRows {
		report.Removed = append(report.Removed, record(seq, base[i]))
	}
	for _, j := range freeCols {
		report.Added = append(report.Added, record(seq, cur[j]))
	}
}
