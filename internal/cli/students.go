package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/yigit/eventsphere/internal/app/models"
)

// NewExportCommand creates the export command.
func NewExportCommand(opts *RootOptions) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the student roster as CSV",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, opts, func(ctx context.Context, s *Session) error {
				csv, err := s.Services.StudentService.ExportStudents(ctx, models.SystemAdmin())
				if err != nil {
					return err
				}
				if output == "" || output == "-" {
					_, err = fmt.Fprintln(cmd.OutOrStdout(), csv)
					return err
				}
				if err := os.WriteFile(output, []byte(csv+"\n"), 0o644); err != nil {
					return fmt.Errorf("write %s: %w", output, err)
				}
				fmt.Fprintf(cmd.ErrOrStderr(), "Wrote %s\n", output)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")
	return cmd
}

// NewImportCommand creates the import command.
func NewImportCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file.csv|->",
		Short: "Import students from CSV",
		Long: `Import students from a CSV file with the columns
Name,Roll Number,Email,Department,Year,Course.

The first line is a header. Rows whose email or roll number already exists
are skipped. Use "-" to read from stdin.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readInput(cmd, args[0])
			if err != nil {
				return err
			}
			return withSession(cmd, opts, func(ctx context.Context, s *Session) error {
				result, err := s.Services.StudentService.ImportStudents(ctx, string(data), models.SystemAdmin())
				if err != nil {
					return err
				}
				return printResult(cmd.OutOrStdout(), opts, result, func(w io.Writer) {
					fmt.Fprintf(w, "Imported %d student(s), skipped %d row(s)\n", result.Imported, result.Skipped)
				})
			})
		},
	}
}

func readInput(cmd *cobra.Command, name string) ([]byte, error) {
	if name == "-" {
		return io.ReadAll(cmd.InOrStdin())
	}
	data, err := os.ReadFile(name)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	return data, nil
}

// NewStatsCommand creates the stats command.
func NewStatsCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "stats <roll-number>",
		Short: "Show participation statistics of one student",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, opts, func(ctx context.Context, s *Session) error {
				stats, err := s.Services.StudentService.ParticipationStats(ctx, args[0], models.SystemAdmin())
				if err != nil {
					return err
				}
				return printResult(cmd.OutOrStdout(), opts, stats, func(w io.Writer) {
					if stats.Student == nil {
						fmt.Fprintf(w, "No student with roll number %s\n", args[0])
						return
					}
					fmt.Fprintf(w, "%s (%s)\n", stats.Student.Name, stats.Student.Email)
					fmt.Fprintf(w, "Total: %d  Attended: %d  Upcoming: %d\n",
						stats.TotalEvents, stats.AttendedEvents, stats.UpcomingEvents)
					for _, r := range stats.Registrations {
						mark := " "
						if r.HasAttended() {
							mark = "x"
						}
						fmt.Fprintf(w, "  [%s] %s  %s\n", mark, r.EventDate, r.EventName)
					}
				})
			})
		},
	}
}
