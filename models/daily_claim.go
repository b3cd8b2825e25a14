package models

import "time"

// DailyClaim records one daily-login bonus claim. The unique (user, date)
// index is the authoritative guard against concurrent double claims: a losing
// insert fails at the storage layer before any coins move.
type DailyClaim struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	UserID       uint      `gorm:"index:idx_claim_user_date,unique;not null" json:"user_id"`
	ClaimDate    time.Time `gorm:"index:idx_claim_user_date,unique;type:date;not null" json:"claim_date"`
	CoinsAwarded int64     `gorm:"not null" json:"coins_awarded"`
	StreakDay    int       `gorm:"not null;default:1" json:"streak_day"`
	CreatedAt    time.Time `json:"created_at"`
}
