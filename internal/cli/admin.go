package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/ordersctl/internal/render"
	"github.com/roach88/ordersctl/internal/widget"
)

// AdminOptions holds flags shared by the admin subcommands.
type AdminOptions struct {
	*RootOptions
	Password string
	Count    string
	Yes      bool
}

// NewAdminCommand creates the admin command group.
func NewAdminCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &AdminOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Password-protected seed and reset calls",
		Long: `Administrative calls against the order service.

The admin password comes from --password, else ORDERS_ADMIN_PASSWORD, else
the admin_password key of the config file.`,
	}

	cmd.PersistentFlags().StringVar(&opts.Password, "password", "", "admin password")

	seed := &cobra.Command{
		Use:           "seed",
		Short:         "Generate sample orders on the server",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSeed(cmd, opts)
		},
	}
	seed.Flags().StringVar(&opts.Count, "count", widget.DefaultSeedCount, "number of orders to generate")

	reset := &cobra.Command{
		Use:           "reset",
		Short:         "Delete every order on the server",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReset(cmd, opts)
		},
	}
	reset.Flags().BoolVarP(&opts.Yes, "yes", "y", false, "do not ask for confirmation")

	cmd.AddCommand(seed, reset)
	return cmd
}

func newAdminPanel(cmd *cobra.Command, s *session, opts *AdminOptions) *widget.AdminPanel {
	panel := widget.NewAdminPanel(s.client, confirmer(opts.Yes, cmd.InOrStdin(), cmd.ErrOrStderr()))
	password := opts.Password
	if password == "" {
		password = s.cfg.AdminPassword
	}
	panel.SetPassword(password)
	return panel
}

func runSeed(cmd *cobra.Command, opts *AdminOptions) error {
	s, err := openSession(cmd, opts.RootOptions)
	if err != nil {
		return err
	}
	defer s.Close()

	panel := newAdminPanel(cmd, s, opts)
	msg, err := panel.Seed(cmd.Context(), opts.Count)
	if err != nil {
		return s.out.Fail(err)
	}

	if s.out.Structured() {
		return s.out.Success(msg)
	}
	return render.Feedback(s.out.Writer, panel.Feedback())
}

func runReset(cmd *cobra.Command, opts *AdminOptions) error {
	s, err := openSession(cmd, opts.RootOptions)
	if err != nil {
		return err
	}
	defer s.Close()

	panel := newAdminPanel(cmd, s, opts)
	msg, err := panel.Reset(cmd.Context())
	if err != nil {
		return s.out.Fail(err)
	}

	if s.out.Structured() {
		return s.out.Success(map[string]interface{}{
			"reset":   msg != nil,
			"message": panel.Feedback().Message,
		})
	}
	if msg == nil {
		fmt.Fprintln(s.out.Writer, "Cancelled.")
		return nil
	}
	return render.Feedback(s.out.Writer, panel.Feedback())
}
