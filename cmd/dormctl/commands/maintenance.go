package commands

import (
	"fmt"

	bookingSvc "dormku_backend/internals/features/dormitory/bookings/service"
	routeDetails "dormku_backend/internals/route/details"
	"dormku_backend/internals/services/email"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

func BackupCmd(open Opener) *cobra.Command {
	return &cobra.Command{
		Use:   "backup",
		Short: "Take a database backup now",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, db, err := open()
			if err != nil {
				return err
			}
			svcs, err := routeDetails.NewServices(db, cfg)
			if err != nil {
				return err
			}
			f, err := svcs.Backups.Run(cmd.Context())
			if err != nil {
				return fmt.Errorf("backup: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s (%d bytes)\n", f.Name, f.Size)
			return nil
		},
	}
}

func RestoreCmd(open Opener) *cobra.Command {
	return &cobra.Command{
		Use:   "restore <backup-name>",
		Short: "Restore the database from a local backup file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, db, err := open()
			if err != nil {
				return err
			}
			svcs, err := routeDetails.NewServices(db, cfg)
			if err != nil {
				return err
			}
			res, err := svcs.Backups.RestoreFile(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("restore: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "restored %s\n", res.Name)
			if res.Note != "" {
				fmt.Fprintln(cmd.OutOrStdout(), res.Note)
			}
			return nil
		},
	}
}

func RecountOccupancyCmd(open Opener) *cobra.Command {
	var tenant string
	cmd := &cobra.Command{
		Use:   "recount-occupancy",
		Short: "Rebuild room occupancy from active bookings",
		RunE: func(cmd *cobra.Command, args []string) error {
			var tenantID *uuid.UUID
			if tenant != "" {
				id, err := uuid.Parse(tenant)
				if err != nil {
					return fmt.Errorf("invalid --tenant: %w", err)
				}
				tenantID = &id
			}

			_, db, err := open()
			if err != nil {
				return err
			}
			svc := bookingSvc.NewBookingService(db, email.NewLogMailer("dormctl", ""), decimal.Zero)
			n, err := svc.RecountOccupancy(cmd.Context(), tenantID)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d room(s) recounted\n", n)
			return nil
		},
	}
	cmd.Flags().StringVar(&tenant, "tenant", "", "limit to one dormitory id")
	return cmd
}
