package models

// Row is one line of the shorten form as the user typed it.
// All fields are raw text; an empty OriginalURL marks an unused slot.
type Row struct {
	OriginalURL        string `json:"originalUrl" form:"originalUrl"`
	ValidityMinutes    string `json:"validityMinutes" form:"validityMinutes"`
	PreferredShortcode string `json:"preferredShortcode" form:"preferredShortcode"`
}

// IsEmpty reports whether the row is an unused slot.
func (r Row) IsEmpty() bool {
	return r.OriginalURL == ""
}

// SubmissionItem is what the backend receives for one validated row.
type SubmissionItem struct {
	OriginalURL        string `json:"originalUrl"`
	ValidityMinutes    *int   `json:"validityMinutes,omitempty"`
	PreferredShortcode string `json:"preferredShortcode,omitempty"`
}

// Result is one line of the shorten outcome, either from the backend or built locally for an error.
type Result struct {
	OriginalURL string `json:"originalUrl"`
	ShortURL    string `json:"shortUrl,omitempty"`
	ExpiresAt   string `json:"expiresAt,omitempty"`
	Shortcode   string `json:"shortcode,omitempty"`
	Error       string `json:"error,omitempty"`
}

// ShortenRequest is the body of POST /api/shorten.
type ShortenRequest struct {
	Items []SubmissionItem `json:"items"`
}

// ShortenResponse is the body returned by POST /api/shorten.
type ShortenResponse struct {
	Results []Result `json:"results"`
}
