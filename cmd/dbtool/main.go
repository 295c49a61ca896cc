package main

import (
	"delivery-estimate-service/internal/adapters/repositories"
	"delivery-estimate-service/internal/config"
	"delivery-estimate-service/internal/platform/db"
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"
)

var cfg config.Config

var rootCmd = &cobra.Command{
	Use:          "dbtool",
	Short:        "Manage the delivery-estimate Postgres schema and reference data",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		if cfg, err = config.Load(); err != nil {
			return err
		}
		if cfg.DatabaseURL == "" {
			return errors.New("DATABASE_URL is required")
		}
		return nil
	},
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending schema migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runMigrate()
	},
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Upsert facilities and addresses from the seed file",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSeed(cmd)
	},
}

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Migrate, then seed",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := runMigrate(); err != nil {
			return err
		}
		return runSeed(cmd)
	},
}

var seedPath string

func init() {
	seedCmd.Flags().StringVar(&seedPath, "seed", "", "Seed file (defaults to SEED_PATH)")
	setupCmd.Flags().StringVar(&seedPath, "seed", "", "Seed file (defaults to SEED_PATH)")

	rootCmd.AddCommand(migrateCmd, seedCmd, setupCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runMigrate() error {
	log.Println("Applying migrations...")
	if err := repositories.Migrate(cfg.DatabaseURL); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}
	log.Println("Schema ready.")
	return nil
}

func runSeed(cmd *cobra.Command) error {
	path := seedPath
	if path == "" {
		path = cfg.SeedPath
	}

	conn, err := db.Open(cmd.Context(), cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer conn.Close()

	log.Printf("Seeding database path=%s", path)
	if err := repositories.SeedFromJSON(cmd.Context(), conn, path); err != nil {
		return fmt.Errorf("seeding failed: %w", err)
	}
	log.Println("Seeding complete.")
	return nil
}
