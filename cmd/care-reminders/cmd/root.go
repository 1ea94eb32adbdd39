package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/avillegas/care-assistant/internal/config"
	"github.com/avillegas/care-assistant/internal/repository/reminder"
	"github.com/avillegas/care-assistant/internal/version"
)

// errInvalidTime is returned when the HH:MM argument cannot be parsed.
var errInvalidTime = errors.New("time must be HH:MM with hour 0-23 and minute 0-59")

var (
	// databasePath to the sqlite file holding reminders.
	databasePath string

	// rootCmd represents the base command for managing stored reminders.
	rootCmd = &cobra.Command{
		Use:   "care-reminders",
		Short: "Manage the assistant's stored reminders.",
		Long: `Inspects and edits the reminders the voice assistant speaks aloud.

The assistant normally manages reminders by voice; this tool lets a
caregiver review and fix the stored records directly.`,
	}

	// listCmd prints every stored reminder.
	listCmd = &cobra.Command{
		Use:   "list",
		Short: "List every stored reminder.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withRepository(func(ctx context.Context, repo reminder.Repository) error {
				reminders, err := repo.List(ctx)
				if err != nil {
					return fmt.Errorf("list reminders: %w", err)
				}

				if len(reminders) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "no reminders stored")

					return nil
				}

				for _, r := range reminders {
					last := "never"
					if r.LastTriggered != nil {
						last = r.LastTriggered.Format(reminder.DateLayout)
					}

					fmt.Fprintf(cmd.OutOrStdout(), "%d\t%02d:%02d\t%s\t(last fired: %s)\n",
						r.ID, r.Hour, r.Minute, r.Message, last)
				}

				return nil
			})
		},
	}

	// addCmd stores a new reminder.
	addCmd = &cobra.Command{
		Use:   "add HH:MM message...",
		Short: "Store a new reminder.",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			hour, minute, err := parseClockTime(args[0])
			if err != nil {
				return err
			}

			message := strings.Join(args[1:], " ")

			return withRepository(func(ctx context.Context, repo reminder.Repository) error {
				id, err := repo.Insert(ctx, hour, minute, message)
				if err != nil {
					return fmt.Errorf("store reminder: %w", err)
				}

				fmt.Fprintf(cmd.OutOrStdout(), "stored reminder %d: %02d:%02d %s\n", id, hour, minute, message)

				return nil
			})
		},
	}

	// deleteCmd removes reminders by id or by message fragment.
	deleteCmd = &cobra.Command{
		Use:   "delete id|text",
		Short: "Delete a reminder by numeric id or by message fragment.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRepository(func(ctx context.Context, repo reminder.Repository) error {
				if id, convErr := strconv.ParseInt(args[0], 10, 64); convErr == nil {
					existed, err := repo.DeleteByID(ctx, id)
					if err != nil {
						return fmt.Errorf("delete reminder %d: %w", id, err)
					}

					if !existed {
						fmt.Fprintf(cmd.OutOrStdout(), "no reminder with id %d\n", id)

						return nil
					}

					fmt.Fprintf(cmd.OutOrStdout(), "deleted reminder %d\n", id)

					return nil
				}

				removed, err := repo.DeleteByMessagePart(ctx, args[0])
				if err != nil {
					return fmt.Errorf("delete reminders matching %q: %w", args[0], err)
				}

				fmt.Fprintf(cmd.OutOrStdout(), "deleted %d reminders\n", removed)

				return nil
			})
		},
	}
)

// withRepository opens the reminder store, runs fn and closes the store.
func withRepository(fn func(context.Context, reminder.Repository) error) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	repo, err := reminder.NewSQLiteRepository(ctx, databasePath)
	if err != nil {
		return fmt.Errorf("open reminder store: %w", err)
	}

	defer repo.Close()

	return fn(ctx, repo)
}

// parseClockTime parses a strict HH:MM argument.
func parseClockTime(arg string) (int, int, error) {
	parts := strings.Split(arg, ":")
	if len(parts) != 2 {
		return 0, 0, errInvalidTime
	}

	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return 0, 0, errInvalidTime
	}

	minute, err := strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return 0, 0, errInvalidTime
	}

	return hour, minute, nil
}

// Execute runs the care-reminders CLI and exits with non-zero status on error.
func Execute() {
	version.AttachCobraVersionCommand(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	// Setup command flags with consistent naming and descriptions.
	rootCmd.PersistentFlags().
		StringVarP(&databasePath, "database", "d", config.DefaultDatabaseFilename, "path to the reminders database")

	rootCmd.AddCommand(listCmd, addCmd, deleteCmd)
}
