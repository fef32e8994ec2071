package cmd

import (
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/smartspend/smartspend-api/config"
	"github.com/smartspend/smartspend-api/store"
	"github.com/smartspend/smartspend-api/utils"
)

var flagConfig string

var rootCmd = &cobra.Command{
	Use:   "smartspend",
	Short: "SmartSpend personal finance API",
	Long:  "Budget tracking, savings goals and a moderated tips and deals board for students.",
	RunE:  runServe,
}

// Execute is the main entry point called from main.go.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&flagConfig, "config", "c", "", "Path to a TOML config file")
	rootCmd.SilenceUsage = true
}

// loadConfig is the shared configuration path used by all commands.
func loadConfig() (config.Config, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return cfg, err
	}
	utils.SetProduction(cfg.IsProduction())
	return cfg, nil
}

// openStore returns PostgreSQL when a database URL is configured, the
// in-memory store otherwise. It also reports which one it picked.
func openStore(cfg config.Config, migrate bool) (store.Store, string, error) {
	if cfg.Database.URL == "" {
		return store.NewMemory(), "memory", nil
	}

	db, err := config.InitDB(cfg.Database.URL)
	if err != nil {
		return nil, "", fmt.Errorf("failed to connect to database: %w", err)
	}
	log.Println("✅ Database connected successfully")

	if migrate {
		if err := config.RunMigrations(db); err != nil {
			db.Close()
			return nil, "", fmt.Errorf("failed to run migrations: %w", err)
		}
	}
	return store.NewPostgres(db), "postgres", nil
}
