package main

import (
	"fmt"

	"github.com/spf13/cobra"

	teground "github.com/nmichlo/teground-go"
	"github.com/nmichlo/teground-go/diff"
)

func newDiffCmd() *cobra.Command {
	var maxDistance float64

	cmd := &cobra.Command{
		Use:   "diff <datafile> <baseline> <current>",
		Short: "Compare two evaluation results over the same data file",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := loadData(args[0])
			if err != nil {
				return err
			}
			baseline, err := loadSuite(data, args[1])
			if err != nil {
				return err
			}
			current, err := loadSuite(data, args[2])
			if err != nil {
				return err
			}

			if len(baseline.Tests()) != len(current.Tests()) {
				return fmt.Errorf("test count mismatch: baseline %d, current %d",
					len(baseline.Tests()), len(current.Tests()))
			}

			clean := true
			for i := range baseline.Tests() {
				b, okB := baseline.Tests()[i].(*teground.SegmentTrackTest)
				c, okC := current.Tests()[i].(*teground.SegmentTrackTest)
				if !okB || !okC {
					continue
				}
				rep, err := diff.Compare(b, c, maxDistance)
				if err != nil {
					return err
				}
				if rep.Empty() {
					continue
				}
				clean = false
				printReport(b.TrackHeader().Name(), rep)
			}
			if !clean {
				return fmt.Errorf("results differ")
			}
			fmt.Println("results identical")
			return nil
		},
	}

	cmd.Flags().Float64Var(&maxDistance, "max-distance", 0, "max coordinate distance for pairing assertions")
	return cmd
}

func printReport(track string, rep *diff.Report) {
	fmt.Printf("track %s:\n", track)
	for _, r := range rep.Removed {
		fmt.Printf("  - seq %d (%d, %d) %s %s\n", r.Sequence, r.Position, r.Length, r.Kind, r.Result)
	}
	for _, r := range rep.Added {
		fmt.Printf("  + seq %d (%d, %d) %s %s\n", r.Sequence, r.Position, r.Length, r.Kind, r.Result)
	}
	for _, ch := range rep.Changed {
		fmt.Printf("  ~ seq %d (%d, %d) %s -> %s\n",
			ch.Baseline.Sequence, ch.Baseline.Position, ch.Baseline.Length,
			ch.Baseline.Result, ch.Current.Result)
	}
}
