package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
	"gocv.io/x/gocv"

	teground "github.com/nmichlo/teground-go"
)

func newRenderCmd() *cobra.Command {
	var (
		out            string
		startSequence  int
		startFrame     int64
		numberOfFrames int64
		pixelsPerFrame int
		rowHeight      int
	)

	cmd := &cobra.Command{
		Use:   "render <datafile> <resultfile>",
		Short: "Rasterize an evaluation result to an image",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := loadData(args[0])
			if err != nil {
				return err
			}
			suite, err := loadSuite(data, args[1])
			if err != nil {
				return err
			}

			dst := gocv.NewMat()
			defer dst.Close()
			err = suite.Draw(&dst, startSequence,
				teground.VideoTime(startFrame), teground.VideoTime(numberOfFrames),
				pixelsPerFrame, rowHeight)
			if err != nil {
				return err
			}
			if dst.Empty() {
				return fmt.Errorf("nothing to render at sequence %d frame %d", startSequence, startFrame)
			}
			if ok := gocv.IMWrite(out, dst); !ok {
				return fmt.Errorf("write image %s", out)
			}
			slog.Info("rendered", "path", out, "width", dst.Cols(), "height", dst.Rows())
			return nil
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "teground.png", "output image path")
	cmd.Flags().IntVar(&startSequence, "sequence", 0, "first sequence to display")
	cmd.Flags().Int64Var(&startFrame, "start", 0, "first frame to display")
	cmd.Flags().Int64Var(&numberOfFrames, "frames", 100, "number of frames to display")
	cmd.Flags().IntVar(&pixelsPerFrame, "pixels-per-frame", 10, "horizontal pixels per frame")
	cmd.Flags().IntVar(&rowHeight, "row-height", 30, "pixel height of each row")
	return cmd
}
