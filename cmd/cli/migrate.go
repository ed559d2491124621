package cli

import (
	"fmt"
	"os"

	"github.com/axellelanca/urlshortener-frontend/cmd"
	"github.com/axellelanca/urlshortener-frontend/internal/app"
	"github.com/spf13/cobra"
)

// MigrateCmd represents the 'migrate' command
// This command creates or updates the local history schema
var MigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Creates or updates the local history table.",
	Long: `This command opens the configured SQLite database and runs GORM automatic
migrations for the 'history_entries' table. Other commands migrate on demand,
so running it is only needed to create the file ahead of time.`,
	Run: func(c *cobra.Command, args []string) {
		if cmd.Cfg.Database.Name == "" {
			fmt.Fprintln(os.Stderr, "Error: database.name is empty, local history is disabled")
			os.Exit(1)
		}

		db, err := app.OpenDatabase(cmd.Cfg.Database.Name)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		sqlDB, err := db.DB()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: failed to get underlying SQL database: %v\n", err)
			os.Exit(1)
		}
		defer sqlDB.Close()

		fmt.Fprintln(c.OutOrStdout(), "Database migrations executed successfully.")
	},
}

func init() {
	cmd.RootCmd.AddCommand(MigrateCmd)
}
