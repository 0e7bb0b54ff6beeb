package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"

	"github.com/spf13/cobra"

	"github.com/yigit/eventsphere/internal/app/services"
	"github.com/yigit/eventsphere/internal/bootstrap"
	"github.com/yigit/eventsphere/internal/config"
	"github.com/yigit/eventsphere/internal/pkg/logger"
)

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// Session is an open store with services wired on top of it
type Session struct {
	Services *services.Services
	Close    func() error
}

// Opener connects a command to its record store
type Opener func(ctx context.Context, opts *RootOptions) (*Session, error)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	ConfigPath string
	Format     string // "json" | "text"

	open Opener
}

// NewRootCommand creates the eventctl root command. A nil opener uses the
// configured store.
func NewRootCommand(open Opener) *cobra.Command {
	if open == nil {
		open = OpenConfigured
	}
	opts := &RootOptions{open: open}

	cmd := &cobra.Command{
		Use:   "eventctl",
		Short: "EventSphere administration",
		Long:  "Offline administration of the EventSphere record store: seeding, student roster import/export and maintenance.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !slices.Contains(ValidFormats, opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVarP(&opts.ConfigPath, "config", "c",
		config.GetEnv("CONFIG_PATH", filepath.Join("configs", "config.yaml")), "path to config.yaml")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")

	cmd.AddCommand(NewSeedCommand(opts))
	cmd.AddCommand(NewClearCommand(opts))
	cmd.AddCommand(NewMigrateEmailsCommand(opts))
	cmd.AddCommand(NewExportCommand(opts))
	cmd.AddCommand(NewImportCommand(opts))
	cmd.AddCommand(NewStatsCommand(opts))

	return cmd
}

// OpenConfigured loads the config file and opens the store it names.
// Logs go to stderr so they never mix with exported CSV.
func OpenConfigured(ctx context.Context, opts *RootOptions) (*Session, error) {
	cfg, err := config.LoadConfig(opts.ConfigPath)
	if err != nil {
		return nil, err
	}

	lgr := logger.Configure(logger.Config{
		Level:  logger.WarnLevel,
		Pretty: true,
		Output: os.Stderr,
	})

	store, err := bootstrap.SetupStore(ctx, cfg, lgr)
	if err != nil {
		return nil, err
	}
	notifier, err := bootstrap.SetupNotifier(cfg, lgr)
	if err != nil {
		_ = store.Close()
		return nil, err
	}

	deps := bootstrap.BuildServices(cfg, store, notifier, lgr)
	return &Session{Services: deps.Services, Close: deps.Close}, nil
}

// withSession opens the store, runs fn and closes the store again
func withSession(cmd *cobra.Command, opts *RootOptions, fn func(ctx context.Context, s *Session) error) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	session, err := opts.open(ctx, opts)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer func() {
		if session.Close != nil {
			_ = session.Close()
		}
	}()

	return fn(ctx, session)
}

// printResult writes v as JSON, or text via the given formatter
func printResult(w io.Writer, opts *RootOptions, v any, text func(io.Writer)) error {
	if opts.Format == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
	text(w)
	return nil
}
