package cli

import (
	"fmt"
	"os"

	"github.com/axellelanca/urlshortener-frontend/cmd"
	"github.com/axellelanca/urlshortener-frontend/internal/app"
	"github.com/axellelanca/urlshortener-frontend/internal/models"
	"github.com/spf13/cobra"
)

// StatsCmd représente la commande 'stats'
var StatsCmd = &cobra.Command{
	Use:   "stats [shortcode]",
	Short: "Get click statistics for shortened URLs",
	Long: `Get click statistics for every shortened URL, or only for the given shortcode.
Each click shows its time, its source (referer, user agent or IP) and its location.`,
	Args: cobra.MaximumNArgs(1),
	Run:  runStats,
}

func init() {
	cmd.RootCmd.AddCommand(StatsCmd)
}

// runStats exécute la logique pour la commande stats
func runStats(c *cobra.Command, args []string) {
	a, err := app.New(cmd.Cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer a.Close()

	items, err := a.Stats.Load(c.Context())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error retrieving statistics: %v\n", err)
		a.Close()
		os.Exit(1)
	}

	if len(args) == 1 {
		items = filterByShortcode(items, args[0])
		if len(items) == 0 {
			fmt.Fprintf(os.Stderr, "Error: Short code '%s' not found\n", args[0])
			a.Close()
			os.Exit(1)
		}
	}

	printStats(c.OutOrStdout(), items, a.API.BaseURL())
}

func filterByShortcode(items []models.StatsItem, code string) []models.StatsItem {
	var out []models.StatsItem
	for _, it := range items {
		if it.Shortcode == code {
			out = append(out, it)
		}
	}
	return out
}
