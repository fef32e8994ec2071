package cmd

import (
	"context"
	"log"

	"github.com/spf13/cobra"

	"github.com/smartspend/smartspend-api/services"
)

var (
	flagAdminUsername string
	flagAdminEmail    string
	flagAdminPassword string
	flagAdminFullName string
)

var createAdminCmd = &cobra.Command{
	Use:   "create-admin",
	Short: "Create the admin account or promote an existing user",
	Long: `Creates an admin account in the configured store. If the username already
exists the account is promoted and its password is left unchanged. Flags
override the [admin] section of the config file and ADMIN_* variables.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		a := cfg.Admin
		if cmd.Flags().Changed("username") {
			a.Username = flagAdminUsername
		}
		if cmd.Flags().Changed("email") {
			a.Email = flagAdminEmail
		}
		if cmd.Flags().Changed("password") {
			a.Password = flagAdminPassword
		}
		if cmd.Flags().Changed("full-name") {
			a.FullName = flagAdminFullName
		}

		st, backend, err := openStore(cfg, true)
		if err != nil {
			return err
		}
		defer st.Close()
		if backend == "memory" {
			log.Println("⚠️ No DATABASE_URL set, the account only lives in memory for this run")
		}

		return seedAdmin(context.Background(), services.NewAuthService(st, cfg.Auth.DataEncryptionKey), a)
	},
}

func init() {
	createAdminCmd.Flags().StringVar(&flagAdminUsername, "username", "", "Admin username")
	createAdminCmd.Flags().StringVar(&flagAdminEmail, "email", "", "Admin email")
	createAdminCmd.Flags().StringVar(&flagAdminPassword, "password", "", "Admin password")
	createAdminCmd.Flags().StringVar(&flagAdminFullName, "full-name", "", "Admin display name")
	rootCmd.AddCommand(createAdminCmd)
}
