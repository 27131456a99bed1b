package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/ordersctl/internal/order"
	"github.com/roach88/ordersctl/internal/render"
	"github.com/roach88/ordersctl/internal/widget"
)

const shellHelp = `Commands:
  create NAME               start a new order for customer NAME
  item add                  add a blank item row
  item rm N                 remove row N (the last row is kept)
  item set N QTY NAME       fill row N
  form                      show the pending order
  submit                    create the pending order
  fetch ID                  look up an order
  show                      show the looked-up order
  delete                    delete the looked-up order (or the last fetched id)
  list                      fetch all orders and show those matching the filters
  filter customer|status V  set a list filter (no V clears it)
  status ID STATUS          change an order's status
  seed [N]                  generate N sample orders (default 25)
  reset                     delete every order
  password VALUE            set the admin password
  clear [form|order|list|status|all]
  help
  quit`

// NewShellCommand creates the shell command.
func NewShellCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "shell",
		Short: "Interactive console",
		Long: `Read commands line by line and keep the create form, lookup, list,
status and admin panels alive between them. Type "help" for commands.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShell(cmd, rootOpts)
		},
	}
	return cmd
}

// shell holds one widget of each kind for the life of the session.
type shell struct {
	in  *bufio.Reader
	out io.Writer

	form   *widget.OrderForm
	lookup *widget.OrderLookup
	list   *widget.OrderList
	status *widget.StatusUpdater
	admin  *widget.AdminPanel
}

func runShell(cmd *cobra.Command, opts *RootOptions) error {
	s, err := openSession(cmd, opts)
	if err != nil {
		return err
	}
	defer s.Close()

	ctx, cancel := signalContext(cmd)
	defer cancel()

	in := bufio.NewReader(cmd.InOrStdin())
	sh := newShell(s, in, s.out.Writer)
	return sh.run(ctx)
}

func newShell(s *session, in *bufio.Reader, out io.Writer) *shell {
	confirm := newLineConfirmer(in, out)
	sh := &shell{in: in, out: out}
	sh.lookup = widget.NewOrderLookup(s.client, confirm)
	sh.form = widget.NewOrderForm(s.client, sh.lookup.SetOrderID)
	sh.list = widget.NewOrderList(s.client)
	sh.status = widget.NewStatusUpdater(s.client)
	sh.admin = widget.NewAdminPanel(s.client, confirm)
	sh.admin.SetPassword(s.cfg.AdminPassword)
	return sh
}

func (sh *shell) run(ctx context.Context) error {
	for {
		if ctx.Err() != nil {
			return nil
		}
		fmt.Fprint(sh.out, "orders> ")
		line, err := sh.in.ReadString('\n')
		if err != nil && line == "" {
			if errors.Is(err, io.EOF) {
				fmt.Fprintln(sh.out)
				return nil
			}
			return err
		}
		if quit := sh.exec(ctx, strings.TrimSpace(line)); quit {
			return nil
		}
	}
}

// exec runs one command line and reports whether the shell should exit.
func (sh *shell) exec(ctx context.Context, line string) bool {
	verb, rest := splitWord(line)
	switch verb {
	case "":
	case "quit", "exit":
		return true
	case "help", "?":
		fmt.Fprintln(sh.out, shellHelp)
		fmt.Fprint(sh.out, "Statuses:\n"+statusChoices())
	case "create":
		sh.form.Edit(func(d *order.Draft) {
			*d = order.NewDraft()
			d.CustomerName = rest
		})
		sh.showForm()
	case "item":
		sh.item(rest)
	case "form":
		sh.showForm()
	case "submit":
		_, _ = sh.form.Submit(ctx)
		sh.feedback(sh.form.Feedback())
	case "fetch":
		if o, err := sh.lookup.Fetch(ctx, rest); err == nil {
			_ = render.Order(sh.out, o)
		} else {
			sh.feedback(sh.lookup.Feedback())
		}
	case "show":
		sh.show()
	case "delete":
		deleted, err := sh.lookup.Delete(ctx)
		switch {
		case err != nil && sh.lookup.Feedback().Kind == widget.FeedbackNone:
			fmt.Fprintf(sh.out, "error: %v\n", err)
		case err == nil && !deleted:
			fmt.Fprintln(sh.out, "Cancelled.")
		default:
			sh.feedback(sh.lookup.Feedback())
		}
	case "list":
		if err := sh.list.Fetch(ctx); err != nil {
			sh.feedback(sh.list.Feedback())
			return false
		}
		_ = render.List(sh.out, sh.list.Total(), sh.list.Visible())
	case "filter":
		sh.filter(rest)
	case "status":
		id, st := splitWord(rest)
		_, _ = sh.status.Update(ctx, id, st)
		sh.feedback(sh.status.Feedback())
	case "seed":
		count := rest
		if count == "" {
			count = widget.DefaultSeedCount
		}
		_, _ = sh.admin.Seed(ctx, count)
		sh.feedback(sh.admin.Feedback())
	case "reset":
		msg, err := sh.admin.Reset(ctx)
		if err == nil && msg == nil {
			fmt.Fprintln(sh.out, "Cancelled.")
			return false
		}
		sh.feedback(sh.admin.Feedback())
	case "password":
		sh.admin.SetPassword(rest)
		fmt.Fprintln(sh.out, "Admin password set.")
	case "clear":
		sh.clear(rest)
	default:
		fmt.Fprintf(sh.out, "unknown command %q (try \"help\")\n", verb)
	}
	return false
}

func (sh *shell) item(args string) {
	sub, rest := splitWord(args)
	switch sub {
	case "add":
		sh.form.Edit(func(d *order.Draft) { d.AddItem() })
	case "rm":
		idx, err := rowIndex(rest)
		if err != nil {
			fmt.Fprintf(sh.out, "error: %v\n", err)
			return
		}
		removed := false
		sh.form.Edit(func(d *order.Draft) { removed = d.RemoveItem(idx) })
		if !removed {
			fmt.Fprintln(sh.out, "error: cannot remove that row")
			return
		}
	case "set":
		rawIdx, rest := splitWord(rest)
		rawQty, name := splitWord(rest)
		idx, err := rowIndex(rawIdx)
		if err != nil {
			fmt.Fprintf(sh.out, "error: %v\n", err)
			return
		}
		qty, err := strconv.Atoi(rawQty)
		if err != nil {
			fmt.Fprintf(sh.out, "error: invalid quantity %q\n", rawQty)
			return
		}
		ok := false
		sh.form.Edit(func(d *order.Draft) { ok = d.SetItem(idx, order.Item{Name: name, Quantity: qty}) })
		if !ok {
			fmt.Fprintf(sh.out, "error: no row %s\n", rawIdx)
			return
		}
	default:
		fmt.Fprintln(sh.out, "usage: item add | item rm N | item set N QTY NAME")
		return
	}
	sh.showForm()
}

func (sh *shell) filter(args string) {
	field, value := splitWord(args)
	switch field {
	case "customer":
		sh.list.SetCustomerFilter(value)
	case "status":
		sh.list.SetStatusFilter(order.Status(value))
	default:
		fmt.Fprintln(sh.out, "usage: filter customer|status VALUE")
		return
	}
	_ = render.List(sh.out, sh.list.Total(), sh.list.Visible())
}

func (sh *shell) clear(what string) {
	switch what {
	case "form":
		sh.form.Edit(func(d *order.Draft) { *d = order.NewDraft() })
	case "order":
		sh.lookup.Clear()
	case "list":
		sh.list.Clear()
	case "status":
		sh.status.Clear()
	case "", "all":
		sh.form.Edit(func(d *order.Draft) { *d = order.NewDraft() })
		sh.lookup.Clear()
		sh.list.Clear()
		sh.status.Clear()
	default:
		fmt.Fprintln(sh.out, "usage: clear [form|order|list|status|all]")
		return
	}
	fmt.Fprintln(sh.out, "Cleared.")
}

func (sh *shell) show() {
	o := sh.lookup.Order()
	if o == nil {
		fmt.Fprintln(sh.out, "No order loaded.")
		return
	}
	_ = render.Order(sh.out, o)
}

func (sh *shell) showForm() {
	_ = render.Draft(sh.out, sh.form.Draft())
}

func (sh *shell) feedback(fb widget.Feedback) {
	_ = render.Feedback(sh.out, fb)
}

// splitWord returns the first whitespace-delimited word of s and the
// trimmed remainder.
func splitWord(s string) (string, string) {
	s = strings.TrimSpace(s)
	i := strings.IndexAny(s, " \t")
	if i < 0 {
		return s, ""
	}
	return s[:i], strings.TrimSpace(s[i:])
}

// rowIndex converts a 1-based row number to an index.
func rowIndex(raw string) (int, error) {
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("invalid row %q", raw)
	}
	return n - 1, nil
}
