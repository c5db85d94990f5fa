package commands

import (
	"dormku_backend/internals/configs"
	database "dormku_backend/internals/databases"

	"github.com/spf13/cobra"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

// Opener returns the config and an open database for one command run.
type Opener func() (*configs.AppConfig, *gorm.DB, error)

func OpenFromEnv() (*configs.AppConfig, *gorm.DB, error) {
	cfg := configs.Load()
	db, err := database.Open(cfg.DB, gormLogger.Warn)
	if err != nil {
		return nil, nil, err
	}
	return cfg, db, nil
}

func NewRootCmd(open Opener) *cobra.Command {
	root := &cobra.Command{
		Use:           "dormctl",
		Short:         "Dormku operator tool",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(
		MigrateCmd(open),
		SeedCmd(open),
		CreateAdminCmd(open),
		BackupCmd(open),
		RestoreCmd(open),
		RecountOccupancyCmd(open),
	)
	return root
}
