package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	teground "github.com/nmichlo/teground-go"
)

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <datafile>",
		Short: "Load a data file and print its tracks and sequences",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := loadData(args[0])
			if err != nil {
				return err
			}

			for _, seq := range data.Sequences() {
				if seq.TotalTracks() != data.TrackCount() {
					return fmt.Errorf("sequence %s holds %d tracks, want %d",
						seq.Path(), seq.TotalTracks(), data.TrackCount())
				}
			}

			tw := table.NewWriter()
			tw.SetOutputMirror(os.Stdout)
			header := table.Row{"Sequence", "Kind", "Length"}
			for _, h := range data.Headers() {
				header = append(header, h.Name())
			}
			tw.AppendHeader(header)

			for _, seq := range data.Sequences() {
				row := table.Row{seq.Path(), seq.Kind().String(), seq.Length()}
				for _, h := range data.Headers() {
					if st, ok := seq.Track(h).(*teground.SegmentTrack); ok {
						row = append(row, st.TotalSegments())
					} else {
						row = append(row, "-")
					}
				}
				tw.AppendRow(row)
			}
			tw.Render()

			slog.Info("data file valid",
				"tracks", data.TrackCount(), "sequences", data.SequenceCount())
			return nil
		},
	}
}
