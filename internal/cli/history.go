package cli

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
)

// HistoryOptions holds flags for the history command.
type HistoryOptions struct {
	*RootOptions
	Limit int
}

// NewHistoryCommand creates the history command.
func NewHistoryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &HistoryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent API calls from the journal",
		Long: `List the most recent calls recorded in the request journal, oldest first.

Requires --journal, ORDERSCTL_JOURNAL or the journal key of the config file.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistory(cmd, opts)
		},
	}

	cmd.Flags().IntVarP(&opts.Limit, "limit", "n", 20, "number of entries to show (0 = all)")

	return cmd
}

func runHistory(cmd *cobra.Command, opts *HistoryOptions) error {
	s, err := openSession(cmd, opts.RootOptions)
	if err != nil {
		return err
	}
	defer s.Close()

	if s.journal == nil {
		return s.out.Report(ErrCodeJournal, ExitCommandError, "no journal configured", nil, nil)
	}

	entries, err := s.journal.Recent(cmd.Context(), opts.Limit)
	if err != nil {
		return s.out.Report(ErrCodeJournal, ExitFailure, "failed to read journal", err, nil)
	}

	if s.out.Structured() {
		return s.out.Success(entries)
	}

	if len(entries) == 0 {
		fmt.Fprintln(s.out.Writer, "No calls recorded.")
		return nil
	}

	tw := tabwriter.NewWriter(s.out.Writer, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "SEQ\tTIME\tOP\tORDER\tSTATUS\tRESULT\tDURATION")
	for _, e := range entries {
		result := "ok"
		if !e.OK {
			result = "failed"
			if e.Message != "" {
				result += ": " + e.Message
			}
		}
		orderID := e.OrderID
		if orderID == "" {
			orderID = "-"
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%d\t%s\t%s\n",
			e.Seq,
			e.RecordedAt.Local().Format(time.DateTime),
			e.Op,
			orderID,
			e.StatusCode,
			result,
			e.Duration.Round(time.Millisecond),
		)
	}
	return tw.Flush()
}
