package cli

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/ordersctl/internal/loadgen"
)

// LoadOptions holds flags for the load command.
type LoadOptions struct {
	*RootOptions
	ProfilePath string
	Users       int
	Readers     int
	Duration    time.Duration
	Seed        int64
}

// NewLoadCommand creates the load command.
func NewLoadCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &LoadOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "load",
		Short: "Drive the order service with simulated users",
		Long: `Run virtual users against the order service and report per-request
latency and failure statistics.

Shoppers browse, place, check, process and delete their own orders.
Readers page through the list and fetch preloaded order ids. Without
--profile the built-in profile is used; --users, --readers, --duration
and --seed override it.

Press Ctrl+C to stop early; the report covers what ran.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLoad(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.ProfilePath, "profile", "", "path to YAML load profile")
	cmd.Flags().IntVar(&opts.Users, "users", 0, "number of shopper users")
	cmd.Flags().IntVar(&opts.Readers, "readers", 0, "number of reader users")
	cmd.Flags().DurationVar(&opts.Duration, "duration", 0, "run duration")
	cmd.Flags().Int64Var(&opts.Seed, "seed", 0, "random seed (0 = random)")

	return cmd
}

func runLoad(cmd *cobra.Command, opts *LoadOptions) error {
	s, err := openSession(cmd, opts.RootOptions)
	if err != nil {
		return err
	}
	defer s.Close()

	profile, err := loadProfile(cmd, opts)
	if err != nil {
		return s.out.Report(ErrCodeProfile, ExitCommandError, "invalid load profile", err, nil)
	}

	ctx, cancel := signalContext(cmd)
	defer cancel()

	ids, err := preloadIDs(ctx, s, profile.Preload)
	if err != nil {
		return s.out.Report(ErrCodeJournal, ExitCommandError, "failed to preload order ids", err, map[string]string{"source": profile.Preload.Source})
	}

	s.out.VerboseLog("Load: %d shoppers, %d readers for %s against %s",
		profile.Users, profile.Readers, profile.Duration, s.client.BaseURL())

	runner := loadgen.NewRunner(s.client, profile, loadgen.WithPreloadedIDs(ids))
	report := runner.Run(ctx)

	// The report spans many calls.
	s.out.RequestID = nil

	if s.out.Structured() {
		return s.out.Success(report)
	}
	return report.WriteText(s.out.Writer)
}

// loadProfile reads the profile (or the default) and applies flag overrides.
func loadProfile(cmd *cobra.Command, opts *LoadOptions) (loadgen.Profile, error) {
	profile := loadgen.DefaultProfile()
	if opts.ProfilePath != "" {
		var err error
		profile, err = loadgen.LoadProfile(opts.ProfilePath)
		if err != nil {
			return loadgen.Profile{}, err
		}
	}

	flags := cmd.Flags()
	if flags.Changed("users") {
		profile.Users = opts.Users
	}
	if flags.Changed("readers") {
		profile.Readers = opts.Readers
	}
	if flags.Changed("duration") {
		profile.Duration = opts.Duration
	}
	if flags.Changed("seed") {
		profile.Seed = opts.Seed
	}

	if err := profile.Validate(); err != nil {
		return loadgen.Profile{}, err
	}
	return profile, nil
}

// preloadIDs resolves reader ids. A journal source with no path uses the
// session's journal.
func preloadIDs(ctx context.Context, s *session, p loadgen.Preload) ([]string, error) {
	if p.Source == loadgen.PreloadJournal && (p.Path == "" || p.Path == s.cfg.Journal) {
		if s.journal == nil {
			s.out.VerboseLog("No journal configured; readers will only list")
			return nil, nil
		}
		return s.journal.OpenOrderIDs(ctx)
	}
	return loadgen.PreloadIDs(ctx, p)
}
