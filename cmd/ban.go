package main

import (
	"strconv"

	"github.com/spf13/cobra"

	"github.com/Badsnus/events-backend/cmd/app"
	"github.com/Badsnus/events-backend/internal/adapters/config"
)

var banCmd = &cobra.Command{
	Use:   "ban <user-id>",
	Short: "Ban or unban a user",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		userID, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return err
		}

		cfg := config.Get(config.Options{File: configFile})
		a, err := app.New(cfg, "cli")
		if err != nil {
			return err
		}
		defer a.Close()

		user, err := a.Services.Users.Ban(cmd.Context(), userID)
		if err != nil {
			return err
		}
		a.Logger.Infof("(user: %d) banned=%t", user.ID, user.IsBanned)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(banCmd)
}
