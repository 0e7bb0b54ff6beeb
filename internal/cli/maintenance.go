package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/yigit/eventsphere/internal/app/models"
)

// NewSeedCommand creates the seed command.
func NewSeedCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Insert the default accounts and sample events",
		Long: `Insert the default accounts and sample events.

Records that already exist are left untouched, so running seed twice is safe.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, opts, func(ctx context.Context, s *Session) error {
				result, err := s.Services.MaintenanceService.Seed(ctx, models.SystemAdmin())
				if err != nil {
					return err
				}
				return printResult(cmd.OutOrStdout(), opts, result, func(w io.Writer) {
					fmt.Fprintf(w, "Seeded %d user(s) and %d event(s)\n", result.Users, result.Events)
				})
			})
		},
	}
}

// NewClearCommand creates the clear command.
func NewClearCommand(opts *RootOptions) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete every record in every collection",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return errors.New("refusing to clear data without --yes")
			}
			return withSession(cmd, opts, func(ctx context.Context, s *Session) error {
				if err := s.Services.MaintenanceService.ClearData(ctx, models.SystemAdmin()); err != nil {
					return err
				}
				return printResult(cmd.OutOrStdout(), opts, map[string]bool{"cleared": true}, func(w io.Writer) {
					fmt.Fprintln(w, "All data cleared")
				})
			})
		},
	}

	cmd.Flags().BoolVar(&yes, "yes", false, "confirm the deletion")
	return cmd
}

// NewMigrateEmailsCommand creates the migrate-emails command.
func NewMigrateEmailsCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate-emails",
		Short: "Rewrite legacy email domains to the institution domain",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, opts, func(ctx context.Context, s *Session) error {
				result, err := s.Services.MaintenanceService.MigrateLegacyEmailDomain(ctx, models.SystemAdmin())
				if err != nil {
					return err
				}
				return printResult(cmd.OutOrStdout(), opts, result, func(w io.Writer) {
					fmt.Fprintf(w, "Migrated %d user(s), %d event(s), %d registration(s)\n",
						result.Users, result.Events, result.Registrations)
				})
			})
		},
	}
}
