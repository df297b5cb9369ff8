package models

import "time"

// Story categories. Two fixed values.
const (
	CategoryVictory  = "victory"
	CategoryStruggle = "struggle"
)

// ValidCategory reports whether c is an accepted story category.
func ValidCategory(c string) bool {
	return c == CategoryVictory || c == CategoryStruggle
}

// Story is a community feed entry. Upvote and comment counters are
// denormalized but always patched in the same transaction as the join rows.
type Story struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"index;not null" json:"user_id"`
	Title     string    `gorm:"size:255;not null" json:"title"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	Category  string    `gorm:"size:16;not null" json:"category"`
	ReadTime  string    `gorm:"size:32" json:"read_time"`
	Upvotes   int       `gorm:"not null;default:0" json:"upvotes"`
	Comments  int       `gorm:"not null;default:0" json:"comments"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	User      User      `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"author"`
}

// Upvote is the per-user like join row; existence implies "liked".
type Upvote struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_upvotes_user_story" json:"user_id"`
	StoryID   uint      `gorm:"not null;uniqueIndex:idx_upvotes_user_story" json:"story_id"`
	CreatedAt time.Time `json:"created_at"`
}
