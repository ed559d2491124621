package models

import "strings"

const unknown = "Unknown"

// Click is a single visit of a short link as reported by the stats endpoint.
type Click struct {
	Timestamp string `json:"timestamp"`
	Referer   string `json:"referer,omitempty"`
	UserAgent string `json:"userAgent,omitempty"`
	IP        string `json:"ip,omitempty"`
	Location  string `json:"location,omitempty"`
}

// Source returns the first non-empty of referer, user agent and IP, or "Unknown".
func (c Click) Source() string {
	for _, s := range []string{c.Referer, c.UserAgent, c.IP} {
		if s != "" {
			return s
		}
	}
	return unknown
}

// LocationOrUnknown returns the click location or "Unknown" when the backend did not resolve one.
func (c Click) LocationOrUnknown() string {
	if c.Location == "" {
		return unknown
	}
	return c.Location
}

// StatsItem is one shortened link with its click history.
type StatsItem struct {
	Shortcode   string  `json:"shortcode"`
	OriginalURL string  `json:"originalUrl"`
	CreatedAt   string  `json:"createdAt"`
	ExpiresAt   *string `json:"expiresAt,omitempty"`
	Clicks      []Click `json:"clicks"`
}

// ShortLink builds the redirect address of the item on the given API base.
func (s StatsItem) ShortLink(apiBase string) string {
	return strings.TrimRight(apiBase, "/") + "/" + s.Shortcode
}

// Expiry returns the expiry timestamp or "Never".
func (s StatsItem) Expiry() string {
	if s.ExpiresAt == nil || *s.ExpiresAt == "" {
		return "Never"
	}
	return *s.ExpiresAt
}

// StatsResponse is the body returned by GET /api/stats.
type StatsResponse struct {
	Items []StatsItem `json:"items"`
}
