package models

import "time"

// Invite is a short shareable code that links two users into a partnership.
// A code is redeemed at most once; an inviter's outstanding unused code is
// reused instead of minting a new one.
type Invite struct {
	ID         uint       `gorm:"primaryKey" json:"id"`
	Code       string     `gorm:"size:16;not null;uniqueIndex" json:"code"`
	InviterID  uint       `gorm:"not null;index" json:"inviter_id"`
	UsedByID   *uint      `json:"used_by_id,omitempty"`
	UsedAt     *time.Time `json:"used_at,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	Inviter    User       `gorm:"foreignKey:InviterID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
}

// PartnershipAccepted is the only status exercised by the app today.
const PartnershipAccepted = "accepted"

// Partnership links two users as accountability partners. Duplicate pairs
// are rejected in either direction before insert.
type Partnership struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserAID   uint      `gorm:"not null;index" json:"user_a_id"`
	UserBID   uint      `gorm:"not null;index" json:"user_b_id"`
	Status    string    `gorm:"size:16;not null;default:'accepted'" json:"status"`
	CreatedAt time.Time `json:"created_at"`
}
