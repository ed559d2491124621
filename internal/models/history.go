package models

import "time"

// HistoryEntry is a link shortened from this client, kept in the local database.
type HistoryEntry struct {
	ID          uint   `gorm:"primaryKey"`
	BatchID     string `gorm:"index;size:36;not null"`
	OriginalURL string `gorm:"not null"`
	ShortURL    string `gorm:"not null"`
	Shortcode   string `gorm:"index"`
	// ExpiresAt is kept verbatim as the backend sent it; empty means no expiry.
	ExpiresAt string
	CreatedAt time.Time `gorm:"autoCreateTime"`
}
