package main

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"aquarius/internal/packages"
)

func newQueueCommand(cmdCtx *commandContext) *cobra.Command {
	queueCmd := &cobra.Command{
		Use:   "queue",
		Short: "Inspect the package queue",
	}
	queueCmd.AddCommand(newQueueListCommand(cmdCtx))
	queueCmd.AddCommand(newQueueStatusCommand(cmdCtx))
	return queueCmd
}

func newQueueListCommand(cmdCtx *commandContext) *cobra.Command {
	var statusFlag string
	var sinceFlag string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List packages and their pipeline position",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := cmdCtx.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			var status packages.Status
			if statusFlag != "" {
				parsed, ok := packages.ParseStatus(statusFlag)
				if !ok {
					return fmt.Errorf("unknown status %q", statusFlag)
				}
				status = parsed
			}
			var since time.Time
			if sinceFlag != "" {
				since, err = time.Parse(time.RFC3339, sinceFlag)
				if err != nil {
					return fmt.Errorf("--since must be RFC 3339: %w", err)
				}
			}

			list, err := store.List(cmd.Context(), since, status)
			if err != nil {
				return err
			}

			headers := []string{"ID", "Bag", "Type", "Origin", "Status", "Updated"}
			rows := make([][]string, 0, len(list))
			for _, pkg := range list {
				rows = append(rows, []string{
					strconv.FormatInt(pkg.ID, 10),
					pkg.BagIdentifier,
					pkg.Type,
					pkg.Origin,
					fmt.Sprintf("%d %s", int(pkg.ProcessStatus), pkg.ProcessStatus.Label()),
					pkg.UpdatedAt.Local().Format("2006-01-02 15:04"),
				})
			}

			out := cmd.OutOrStdout()
			if isatty.IsTerminal(os.Stdout.Fd()) {
				fmt.Fprintln(out, renderTable(headers, rows, []columnAlignment{alignRight}))
			} else {
				renderPlain(out, headers, rows)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&statusFlag, "status", "", "Only list packages at this numeric status")
	cmd.Flags().StringVar(&sinceFlag, "since", "", "Only list packages updated since this RFC 3339 time")
	return cmd
}

func newQueueStatusCommand(cmdCtx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show package counts per pipeline status",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := cmdCtx.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			summary, err := store.Summary(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			total := 0
			for _, status := range packages.AllStatuses() {
				count := summary[status]
				total += count
				fmt.Fprintf(out, "%3d  %-40s %d\n", int(status), status.Label(), count)
			}
			fmt.Fprintf(out, "     %-40s %d\n", "total", total)
			return nil
		},
	}
}
