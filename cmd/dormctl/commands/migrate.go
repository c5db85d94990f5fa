package commands

import (
	"errors"
	"fmt"
	"text/tabwriter"

	"dormku_backend/internals/databases/migrations"

	"github.com/spf13/cobra"
)

func MigrateCmd(open Opener) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply, roll back or inspect schema migrations",
	}
	cmd.AddCommand(migrateUpCmd(open), migrateDownCmd(open), migrateStatusCmd(open))
	return cmd
}

func migrateUpCmd(open Opener) *cobra.Command {
	return &cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, db, err := open()
			if err != nil {
				return err
			}
			n, err := migrations.NewMigrator(db).Up(cmd.Context())
			if err != nil {
				return fmt.Errorf("migrate up: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d migration(s) applied\n", n)
			return nil
		},
	}
}

func migrateDownCmd(open Opener) *cobra.Command {
	return &cobra.Command{
		Use:   "down",
		Short: "Roll back the most recent migration",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, db, err := open()
			if err != nil {
				return err
			}
			mg, err := migrations.NewMigrator(db).Down(cmd.Context())
			if errors.Is(err, migrations.ErrNothingToRollback) {
				fmt.Fprintln(cmd.OutOrStdout(), "nothing to roll back")
				return nil
			}
			if err != nil {
				return fmt.Errorf("migrate down: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "rolled back %s_%s\n", mg.Version, mg.Name)
			return nil
		},
	}
}

func migrateStatusCmd(open Opener) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show status of all migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, db, err := open()
			if err != nil {
				return err
			}
			rows, err := migrations.NewMigrator(db).Status(cmd.Context())
			if err != nil {
				return fmt.Errorf("migration status: %w", err)
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "VERSION\tNAME\tSTATUS\tAPPLIED AT")
			for _, r := range rows {
				status, at := "pending", "-"
				if r.Applied {
					status = "applied"
					at = r.AppliedAt.UTC().Format("2006-01-02 15:04:05")
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", r.Version, r.Name, status, at)
			}
			return w.Flush()
		},
	}
}
