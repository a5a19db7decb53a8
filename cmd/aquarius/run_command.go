package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"aquarius/internal/pipeline"
)

func newRunCommand(cmdCtx *commandContext) *cobra.Command {
	var runAll bool

	cmd := &cobra.Command{
		Use:   "run [stage]",
		Short: "Run one pipeline stage, or every stage in order with --all",
		Long: "Run one pipeline stage over every package waiting at its start status.\n" +
			"Known stages: " + strings.Join(pipeline.StageNames(), ", "),
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !runAll && len(args) == 0 {
				return fmt.Errorf("a stage name or --all is required")
			}
			if runAll && len(args) > 0 {
				return fmt.Errorf("--all cannot be combined with a stage name")
			}

			logger, err := cmdCtx.newLogger()
			if err != nil {
				return err
			}
			store, err := cmdCtx.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			engine, err := cmdCtx.buildEngine(store, logger)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			var reports []*pipeline.Report
			if runAll {
				reports, err = engine.RunAll(cmd.Context())
			} else {
				var report *pipeline.Report
				report, err = engine.RunStage(cmd.Context(), args[0])
				if report != nil {
					reports = append(reports, report)
				}
			}
			for _, report := range reports {
				fmt.Fprintln(out, report.Message)
				for _, failure := range report.Failures {
					fmt.Fprintf(out, "  package %d (%s): %s\n",
						failure.PackageID, failure.BagIdentifier, failure.Error)
				}
			}
			return err
		},
	}

	cmd.Flags().BoolVar(&runAll, "all", false, "Run every stage in pipeline order")
	return cmd
}
