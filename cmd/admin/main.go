// Команда admin обслуживает базу: миграции, импорт каталога упражнений и проверку шаблонов.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/yourusername/automatismes-api/internal/config"
)

var rootCmd = &cobra.Command{
	Use:   "admin",
	Short: "Maintenance tool for the automatismes API",
	Long: `admin applies database migrations, imports the exercise workbook
and lints exercise templates, using the same configuration as the API.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("load .env: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "Path to config file (overrides CONFIG_PATH, default config/config.yaml)")

	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(lintCmd)
}

// loadConfig читает конфигурацию: флаг --config, затем CONFIG_PATH
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	if path == "" {
		path = os.Getenv("CONFIG_PATH")
	}
	if path == "" {
		path = "config/config.yaml"
	}
	return config.Load(path)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
