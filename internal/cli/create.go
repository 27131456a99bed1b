package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/ordersctl/internal/order"
	"github.com/roach88/ordersctl/internal/render"
	"github.com/roach88/ordersctl/internal/widget"
)

// CreateOptions holds flags for the create command.
type CreateOptions struct {
	*RootOptions
	Customer string
	Items    []string
}

// NewCreateCommand creates the create command.
func NewCreateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CreateOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create an order",
		Long: `Create an order for a customer.

Each --item is NAME=QTY (QTY defaults to 1). Rows with a blank name or a
quantity below one are dropped; at least one valid row is required.

Example:
  ordersctl create --customer "Anna Lee" --item Burger=2 --item Fries`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCreate(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.Customer, "customer", "", "customer name")
	cmd.Flags().StringArrayVar(&opts.Items, "item", nil, "item as NAME=QTY (repeatable)")

	return cmd
}

func runCreate(cmd *cobra.Command, opts *CreateOptions) error {
	s, err := openSession(cmd, opts.RootOptions)
	if err != nil {
		return err
	}
	defer s.Close()

	items := make([]order.Item, 0, len(opts.Items))
	for _, raw := range opts.Items {
		item, err := parseItem(raw)
		if err != nil {
			return s.out.Fail(err)
		}
		items = append(items, item)
	}

	form := widget.NewOrderForm(s.client, nil)
	form.Edit(func(d *order.Draft) {
		d.CustomerName = opts.Customer
		if len(items) > 0 {
			d.Items = items
		}
	})

	created, err := form.Submit(cmd.Context())
	if err != nil {
		return s.out.Fail(err)
	}

	if s.out.Structured() {
		return s.out.Success(created)
	}
	if err := render.Feedback(s.out.Writer, form.Feedback()); err != nil {
		return err
	}
	return render.Order(s.out.Writer, created)
}

// parseItem reads NAME=QTY. A missing quantity means 1.
func parseItem(raw string) (order.Item, error) {
	name, qty, found := strings.Cut(raw, "=")
	if !found {
		return order.Item{Name: raw, Quantity: 1}, nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(qty))
	if err != nil {
		return order.Item{}, &widget.ValidationError{Err: fmt.Errorf("invalid quantity in item %q", raw)}
	}
	return order.Item{Name: name, Quantity: n}, nil
}
