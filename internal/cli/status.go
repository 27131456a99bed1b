package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/ordersctl/internal/order"
	"github.com/roach88/ordersctl/internal/render"
	"github.com/roach88/ordersctl/internal/widget"
)

// NewStatusCommand creates the status command.
func NewStatusCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "status <order-id> <status>",
		Short:         "Change an order's status",
		Long:          "Set the status of an order.\n\nStatus must be one of:\n" + statusChoices(),
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStatus(cmd, rootOpts, args[0], args[1])
		},
	}
	return cmd
}

func runStatus(cmd *cobra.Command, opts *RootOptions, orderID, status string) error {
	s, err := openSession(cmd, opts)
	if err != nil {
		return err
	}
	defer s.Close()

	updater := widget.NewStatusUpdater(s.client)
	updated, err := updater.Update(cmd.Context(), orderID, status)
	if err != nil {
		return s.out.Fail(err)
	}

	if s.out.Structured() {
		return s.out.Success(updated)
	}
	return render.Feedback(s.out.Writer, updater.Feedback())
}

// statusChoices lists the selectable statuses, one per line, with their
// display labels.
func statusChoices() string {
	var b strings.Builder
	for _, st := range order.Statuses {
		fmt.Fprintf(&b, "  %-10s %s\n", st, st.Label())
	}
	return b.String()
}
