package commands

import (
	"fmt"

	"dormku_backend/internals/seeds"

	"github.com/spf13/cobra"
)

func SeedCmd(open Opener) *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Insert demo dormitories, rooms, staff and students",
		Long:  `Loads demo data into an already migrated database. Rows that already exist (by slug, room number or email) are skipped, so the command can be re-run safely.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, db, err := open()
			if err != nil {
				return err
			}
			res, err := seeds.RunAllSeeds(db.WithContext(cmd.Context()), file)
			if err != nil {
				return fmt.Errorf("seed: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "seeded %d tenant(s), %d room(s), %d staff, %d student(s)\n",
				res.Tenants, res.Rooms, res.Staff, res.Students)
			return nil
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "JSON seed file (defaults to the bundled demo data)")
	return cmd
}
