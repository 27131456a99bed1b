package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/ordersctl/internal/render"
	"github.com/roach88/ordersctl/internal/widget"
)

// DeleteOptions holds flags for the delete command.
type DeleteOptions struct {
	*RootOptions
	Yes bool
}

// NewDeleteCommand creates the delete command.
func NewDeleteCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &DeleteOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:           "delete <order-id>",
		Short:         "Delete an order",
		Long:          `Delete an order after a y/N confirmation on stdin. --yes skips the prompt.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDelete(cmd, opts, args[0])
		},
	}

	cmd.Flags().BoolVarP(&opts.Yes, "yes", "y", false, "do not ask for confirmation")

	return cmd
}

func runDelete(cmd *cobra.Command, opts *DeleteOptions, orderID string) error {
	s, err := openSession(cmd, opts.RootOptions)
	if err != nil {
		return err
	}
	defer s.Close()

	lookup := widget.NewOrderLookup(s.client, confirmer(opts.Yes, cmd.InOrStdin(), cmd.ErrOrStderr()))
	lookup.SetOrderID(orderID)

	deleted, err := lookup.Delete(cmd.Context())
	if err != nil {
		return s.out.Fail(err)
	}

	if s.out.Structured() {
		return s.out.Success(map[string]interface{}{
			"order_id": orderID,
			"deleted":  deleted,
			"message":  lookup.Feedback().Message,
		})
	}
	if !deleted {
		fmt.Fprintln(s.out.Writer, "Cancelled.")
		return nil
	}
	return render.Feedback(s.out.Writer, lookup.Feedback())
}
