package main

import (
	"github.com/spf13/cobra"

	"github.com/Badsnus/events-backend/internal/adapters/config"
	"github.com/Badsnus/events-backend/pkg/logger"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Get(config.Options{File: configFile, Migrate: true})
		if err := cfg.Redis.Close(); err != nil {
			logger.Log.Warnf("Failed to close redis: %v", err)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
