package cli

import (
	"github.com/spf13/cobra"

	"github.com/roach88/ordersctl/internal/api"
	"github.com/roach88/ordersctl/internal/order"
	"github.com/roach88/ordersctl/internal/render"
	"github.com/roach88/ordersctl/internal/widget"
)

// ListOptions holds flags for the list command.
type ListOptions struct {
	*RootOptions
	Customer string
	Status   string
	Limit    int
	Offset   int
}

// NewListCommand creates the list command.
func NewListCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ListOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List orders",
		Long: `Fetch all orders and show those matching the filters.

--customer matches a case-insensitive substring of the customer name.
--status matches the status exactly. The total always counts every order
the server returned, not just the ones shown.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.Customer, "customer", "", "filter by customer name substring")
	cmd.Flags().StringVar(&opts.Status, "status", "", "filter by exact status")
	cmd.Flags().IntVar(&opts.Limit, "limit", 0, "page size (0 = server default)")
	cmd.Flags().IntVar(&opts.Offset, "offset", 0, "page offset")

	return cmd
}

func runList(cmd *cobra.Command, opts *ListOptions) error {
	s, err := openSession(cmd, opts.RootOptions)
	if err != nil {
		return err
	}
	defer s.Close()

	list := widget.NewOrderList(s.client)
	list.SetPage(api.ListOptions{Limit: opts.Limit, Offset: opts.Offset})
	list.SetCustomerFilter(opts.Customer)
	list.SetStatusFilter(order.Status(opts.Status))

	if err := list.Fetch(cmd.Context()); err != nil {
		return s.out.Fail(err)
	}

	visible := list.Visible()
	if f := list.Filter(); !f.IsZero() {
		s.out.VerboseLog("Filter matched %d of %d fetched orders (customer %q, status %q)",
			len(visible), len(list.Orders()), f.Customer, f.Status)
	}
	if s.out.Structured() {
		return s.out.Success(order.List{Total: list.Total(), Orders: visible})
	}
	return render.List(s.out.Writer, list.Total(), visible)
}
