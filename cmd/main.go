package main

import (
	"os"

	"github.com/spf13/cobra"

	_ "time/tzdata"
)

var configFile string

var rootCmd = &cobra.Command{
	Use:   "events",
	Short: "Event management backend",
	Long: `Event management backend: REST API over events, venues and weather,
plus a background worker delivering publish notifications.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "config file (default ./config.yaml)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
