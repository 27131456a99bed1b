package cli

import (
	"github.com/spf13/cobra"

	"github.com/roach88/ordersctl/internal/render"
	"github.com/roach88/ordersctl/internal/widget"
)

// NewGetCommand creates the get command.
func NewGetCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "get <order-id>",
		Short:         "Show one order",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGet(cmd, rootOpts, args[0])
		},
	}
	return cmd
}

func runGet(cmd *cobra.Command, opts *RootOptions, orderID string) error {
	s, err := openSession(cmd, opts)
	if err != nil {
		return err
	}
	defer s.Close()

	lookup := widget.NewOrderLookup(s.client, widget.AlwaysConfirm)
	o, err := lookup.Fetch(cmd.Context(), orderID)
	if err != nil {
		return s.out.Fail(err)
	}

	if s.out.Structured() {
		return s.out.Success(o)
	}
	return render.Order(s.out.Writer, o)
}
