package models

import "time"

// AudioResource is a guided audio track (meditation, talk) stored under an
// opaque storage key. The playable URL is resolved at read time and never
// persisted.
type AudioResource struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	Title      string    `gorm:"size:255;not null" json:"title"`
	Speaker    string    `gorm:"size:128" json:"speaker"`
	Category   string    `gorm:"size:32;index" json:"category"`
	DurationS  int       `gorm:"not null;default:0" json:"duration_seconds"`
	StorageKey string    `gorm:"size:512;not null" json:"-"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
