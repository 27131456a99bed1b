package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/roach88/ordersctl/internal/api"
	"github.com/roach88/ordersctl/internal/config"
	"github.com/roach88/ordersctl/internal/journal"
)

// session is everything a command needs to talk to the service.
type session struct {
	cfg     config.Config
	client  *api.Client
	journal *journal.Journal // nil when journaling is off
	out     *OutputFormatter
}

// openSession resolves configuration (defaults < file < env < flags),
// installs the logger, opens the journal when configured and builds the
// API client. Failures are reported through the formatter.
func openSession(cmd *cobra.Command, opts *RootOptions) (*session, error) {
	setupLogging(opts.Verbose, cmd.ErrOrStderr())

	out := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	cfg, err := config.Load(opts.ConfigPath, opts.getenv)
	if err != nil {
		return nil, out.Report(ErrCodeConfig, ExitCommandError, "failed to load config", err, nil)
	}
	if !opts.formatSet && cfg.Format != "" {
		if !isValidFormat(cfg.Format) {
			err := fmt.Errorf("invalid format %q in config: must be one of %v", cfg.Format, ValidFormats)
			return nil, out.Report(ErrCodeConfig, ExitCommandError, "failed to load config", err, nil)
		}
		out.Format = cfg.Format
	}
	if opts.APIURL != "" {
		cfg.APIURL = opts.APIURL
	}
	if opts.Journal != "" {
		cfg.Journal = opts.Journal
	}

	s := &session{cfg: cfg, out: out}

	last := &lastCall{}
	out.RequestID = last.RequestID
	clientOpts := []api.Option{api.WithObserver(last)}
	if cfg.Journal != "" {
		j, err := journal.Open(cfg.Journal)
		if err != nil {
			return nil, out.Report(ErrCodeJournal, ExitCommandError, "failed to open journal", err, map[string]string{"path": cfg.Journal})
		}
		s.journal = j
		clientOpts = append(clientOpts, api.WithObserver(j))
		slog.Debug("journal open", "path", cfg.Journal)
	}

	client, err := api.New(cfg.APIURL, clientOpts...)
	if err != nil {
		s.Close()
		return nil, out.Report(ErrCodeConfig, ExitCommandError, "invalid API URL", err, nil)
	}
	s.client = client
	slog.Debug("session ready", "api_url", client.BaseURL())
	return s, nil
}

// Close releases the journal, if any.
func (s *session) Close() {
	if s.journal == nil {
		return
	}
	if err := s.journal.Close(); err != nil {
		slog.Error("error closing journal", "error", err)
	}
}

// lastCall remembers the request id of the most recent API call.
type lastCall struct {
	mu sync.Mutex
	id string
}

func (l *lastCall) Observe(_ context.Context, call api.Call) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.id = call.RequestID
}

func (l *lastCall) RequestID() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.id
}

// setupLogging installs a text slog handler; --verbose enables debug output.
func setupLogging(verbose bool, w io.Writer) {
	logLevel := slog.LevelInfo
	if verbose {
		logLevel = slog.LevelDebug
	}
	handler := slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: logLevel,
	})
	slog.SetDefault(slog.New(handler))
}

// signalContext derives a context cancelled on SIGINT or SIGTERM.
// Use the command's context if available (for testing).
func signalContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	parentCtx := cmd.Context()
	if parentCtx == nil {
		parentCtx = context.Background()
	}
	ctx, cancel := context.WithCancel(parentCtx)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		select {
		case sig := <-sigChan:
			slog.Info("received signal, shutting down", "signal", sig)
			cancel()
		case <-ctx.Done():
		}
	}()

	return ctx, func() {
		signal.Stop(sigChan)
		cancel()
	}
}
