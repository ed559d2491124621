package cli

import (
	"fmt"
	"io"

	"github.com/axellelanca/urlshortener-frontend/internal/models"
)

// printResults writes one block per result, mirroring the results list of the web form.
func printResults(w io.Writer, results []models.Result) {
	for i, r := range results {
		if i > 0 {
			fmt.Fprintln(w)
		}
		original := r.OriginalURL
		if original == "" {
			original = "[empty]"
		}
		fmt.Fprintf(w, "Original: %s\n", original)
		if r.Error != "" {
			fmt.Fprintf(w, "Error: %s\n", r.Error)
		}
		if r.ShortURL != "" {
			expires := r.ExpiresAt
			if expires == "" {
				expires = "Never"
			}
			fmt.Fprintf(w, "Short: %s\n", r.ShortURL)
			fmt.Fprintf(w, "Expires: %s\n", expires)
		}
	}
}

// printStats writes every link with its click details.
func printStats(w io.Writer, items []models.StatsItem, apiBase string) {
	if len(items) == 0 {
		fmt.Fprintln(w, "No shortened URLs yet.")
		return
	}
	for i, it := range items {
		if i > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintf(w, "Short: %s\n", it.ShortLink(apiBase))
		fmt.Fprintf(w, "Original: %s\n", it.OriginalURL)
		fmt.Fprintf(w, "Created: %s\n", it.CreatedAt)
		fmt.Fprintf(w, "Expires: %s\n", it.Expiry())
		fmt.Fprintf(w, "Clicks: %d\n", len(it.Clicks))
		for _, c := range it.Clicks {
			fmt.Fprintf(w, "  - %s  source=%s  location=%s\n", c.Timestamp, c.Source(), c.LocationOrUnknown())
		}
	}
}

// printHistory writes one line per locally recorded link.
func printHistory(w io.Writer, entries []models.HistoryEntry) {
	if len(entries) == 0 {
		fmt.Fprintln(w, "No links shortened from this client yet.")
		return
	}
	for _, e := range entries {
		expires := e.ExpiresAt
		if expires == "" {
			expires = "Never"
		}
		fmt.Fprintf(w, "%s  %s -> %s  (expires: %s)\n",
			e.CreatedAt.Format("2006-01-02 15:04:05"), e.ShortURL, e.OriginalURL, expires)
	}
}
