package cli

import (
	"fmt"
	"os"

	"github.com/axellelanca/urlshortener-frontend/cmd"
	"github.com/axellelanca/urlshortener-frontend/internal/app"
	"github.com/axellelanca/urlshortener-frontend/internal/models"
	"github.com/axellelanca/urlshortener-frontend/internal/services"
	"github.com/spf13/cobra"
)

var (
	urlFlags       []string
	validityFlags  []string
	shortcodeFlags []string
)

// ShortenCmd représente la commande 'shorten'
var ShortenCmd = &cobra.Command{
	Use:   "shorten",
	Short: "Raccourcit jusqu'à 5 URLs en une seule requête.",
	Long: `Cette commande valide chaque ligne puis envoie toutes les URLs au backend en un seul lot.
Les drapeaux --validity et --shortcode s'appliquent à l'URL de même position.
La première ligne invalide annule tout le lot.

Exemple:
  urlshortener-frontend shorten --url=https://go.dev --validity=30 \
    --url=https://pkg.go.dev --validity="" --shortcode=gopkg`,
	Run: runShorten,
}

func init() {
	ShortenCmd.Flags().StringArrayVar(&urlFlags, "url", nil, "URL to shorten (repeat up to 5 times)")
	ShortenCmd.Flags().StringArrayVar(&validityFlags, "validity", nil, "Validity in minutes for the URL at the same position")
	ShortenCmd.Flags().StringArrayVar(&shortcodeFlags, "shortcode", nil, "Preferred shortcode for the URL at the same position")
	ShortenCmd.MarkFlagRequired("url")

	cmd.RootCmd.AddCommand(ShortenCmd)
}

func runShorten(c *cobra.Command, args []string) {
	rows, err := buildRows(urlFlags, validityFlags, shortcodeFlags)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	a, err := app.New(cmd.Cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer a.Close()

	form := services.NewForm(a.Shorten)
	st, err := form.Submit(c.Context(), rows)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	switch s := st.(type) {
	case services.Done:
		printResults(c.OutOrStdout(), s.Results)
	case services.Failed:
		printResults(c.OutOrStdout(), s.Results)
		a.Close()
		os.Exit(1)
	}
}

// buildRows lines up the repeated flags by position into form rows.
func buildRows(urls, validity, codes []string) ([]models.Row, error) {
	if len(urls) > services.MaxRows {
		return nil, fmt.Errorf("at most %d URLs per batch, got %d", services.MaxRows, len(urls))
	}
	if len(validity) > len(urls) || len(codes) > len(urls) {
		return nil, fmt.Errorf("--validity and --shortcode cannot outnumber --url")
	}

	rows := make([]models.Row, len(urls))
	for i, u := range urls {
		rows[i].OriginalURL = u
		if i < len(validity) {
			rows[i].ValidityMinutes = validity[i]
		}
		if i < len(codes) {
			rows[i].PreferredShortcode = codes[i]
		}
	}
	return rows, nil
}
