package models

import "time"

// Entry types for balance-affecting events.
const (
	EntryPurchase     = "purchase"
	EntryAdReward     = "ad_reward"
	EntryDailyBonus   = "daily_bonus"
	EntryReadingCost  = "reading_cost"
	EntrySubscription = "premium_subscription"
	EntryManualAdjust = "manual_adjust"
	EntrySignupBonus  = "signup_bonus"
)

// LedgerEntry is an append-only record of a signed balance change.
// Positive amounts are credits, negative amounts are debits. Rows are never
// updated or deleted after insertion.
type LedgerEntry struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	UserID      uint      `gorm:"index;not null" json:"user_id"`
	Amount      int64     `gorm:"not null" json:"amount"`
	Type        string    `gorm:"size:32;index;not null" json:"type"`
	Description string    `gorm:"size:255" json:"description"`
	RelatedID   *uint     `json:"related_id"`
	CreatedAt   time.Time `gorm:"index" json:"created_at"`
}
