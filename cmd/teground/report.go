package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/nmichlo/teground-go/report"
)

func newReportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "report <datafile> <resultfile>",
		Short: "Summarize an evaluation result against its data file",
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
			report.SummarizeSuite(suite).Render(os.Stdout)
			return nil
		},
	}
}
