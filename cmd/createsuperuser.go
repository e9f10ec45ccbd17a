package main

import (
	"github.com/spf13/cobra"

	"github.com/Badsnus/events-backend/cmd/app"
	"github.com/Badsnus/events-backend/internal/adapters/config"
)

var (
	superuserName  string
	superuserEmail string
)

var createSuperuserCmd = &cobra.Command{
	Use:   "createsuperuser",
	Short: "Create a superuser or promote an existing user",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Get(config.Options{File: configFile})
		a, err := app.New(cfg, "cli")
		if err != nil {
			return err
		}
		defer a.Close()

		user, err := a.Services.Users.CreateSuperuser(cmd.Context(), superuserName, superuserEmail)
		if err != nil {
			return err
		}
		a.Logger.Infof("Superuser %s is ready (id=%d)", user.Username, user.ID)
		return nil
	},
}

func init() {
	createSuperuserCmd.Flags().StringVar(&superuserName, "username", "", "username")
	createSuperuserCmd.Flags().StringVar(&superuserEmail, "email", "", "email")
	_ = createSuperuserCmd.MarkFlagRequired("username")
	rootCmd.AddCommand(createSuperuserCmd)
}
