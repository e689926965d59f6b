// Command teground inspects annotation data files and evaluation results:
// it validates data files, summarizes and renders result files, and diffs
// two results against the same annotations.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	teground "github.com/nmichlo/teground-go"
	"github.com/nmichlo/teground-go/internal/logging"
)

var (
	logLevel  string
	logFormat string
)

func main() {
	root := &cobra.Command{
		Use:           "teground",
		Short:         "Inspect segment annotation data files and evaluation results",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return logging.Init(logLevel, logFormat)
		},
	}
	root.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug|info|warn|error)")
	root.PersistentFlags().StringVar(&logFormat, "log-format", "pretty", "log format (text|json|pretty|discard)")

	root.AddCommand(newValidateCmd())
	root.AddCommand(newReportCmd())
	root.AddCommand(newRenderCmd())
	root.AddCommand(newDiffCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func loadData(path string) (*teground.DataFile, error) {
	data := teground.NewDataFile()
	if err := data.ReadFrom(path); err != nil {
		return nil, fmt.Errorf("read data file %s: %w", path, err)
	}
	return data, nil
}

func loadSuite(data *teground.DataFile, path string) (*teground.TestSuite, error) {
	suite := teground.NewTestSuite(data, "")
	if err := suite.ReadFrom(path); err != nil {
		return nil, fmt.Errorf("read result file %s: %w", path, err)
	}
	return suite, nil
}
