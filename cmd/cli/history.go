package cli

import (
	"fmt"
	"os"

	"github.com/axellelanca/urlshortener-frontend/cmd"
	"github.com/axellelanca/urlshortener-frontend/internal/app"
	"github.com/spf13/cobra"
)

var historyLimit int

// HistoryCmd lists the links shortened from this client
var HistoryCmd = &cobra.Command{
	Use:   "history",
	Short: "Lists links shortened from this client, most recent first.",
	Long: `Every successful shorten is recorded in the local SQLite database
configured by database.name. This command reads it back.`,
	Run: func(c *cobra.Command, args []string) {
		a, err := app.New(cmd.Cfg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		defer a.Close()

		entries, err := a.Shorten.History(historyLimit)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			a.Close()
			os.Exit(1)
		}
		printHistory(c.OutOrStdout(), entries)
	},
}

func init() {
	HistoryCmd.Flags().IntVar(&historyLimit, "limit", 20, "Maximum number of links to show (0 for all)")
	cmd.RootCmd.AddCommand(HistoryCmd)
}
