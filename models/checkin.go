package models

import "time"

// Mood values a user can attach to a daily check-in.
const (
	MoodGreat      = "great"
	MoodGood       = "good"
	MoodOkay       = "okay"
	MoodStruggling = "struggling"
	MoodBad        = "bad"
)

// ValidMood reports whether m is one of the five fixed mood values.
func ValidMood(m string) bool {
	switch m {
	case MoodGreat, MoodGood, MoodOkay, MoodStruggling, MoodBad:
		return true
	}
	return false
}

// CheckIn stores one daily clean/not-clean record per user per calendar date.
// The (user_id, date) pair is unique at the database level so concurrent
// submissions for the same day collapse into a single row.
type CheckIn struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_checkins_user_date" json:"user_id"`
	Date      string    `gorm:"size:10;not null;uniqueIndex:idx_checkins_user_date" json:"date"`
	Clean     bool      `gorm:"not null" json:"clean"`
	Mood      string    `gorm:"size:16" json:"mood,omitempty"`
	Triggers  string    `gorm:"type:text" json:"triggers,omitempty"` // JSON array of trigger tags
	Journal   string    `gorm:"type:text" json:"journal,omitempty"`
	Streak    int       `gorm:"not null;default:0" json:"streak"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
