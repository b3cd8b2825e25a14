package models

import (
	"time"

	"gorm.io/gorm"
)

// User represents an app account. Accounts are created on first login;
// password hashes are optional and stored as bcrypt only.
//
// CoinBalance is a cached running sum of the user's ledger entries. It is
// mutated exclusively through ledger.Apply inside a transaction so the cache
// and the ledger can never diverge.
type User struct {
	ID               uint           `gorm:"primaryKey" json:"id"`
	Username         string         `gorm:"size:64;uniqueIndex;not null" json:"username"`
	PasswordHash     string         `gorm:"size:255" json:"-"`
	CoinBalance      int64          `gorm:"not null;default:0" json:"coin_balance"`
	IsPremium        bool           `gorm:"not null;default:false" json:"is_premium"`
	PremiumExpiresAt *time.Time     `json:"premium_expires_at"`
	StreakDays       int            `gorm:"not null;default:0" json:"streak_days"`
	LastDailyBonus   *time.Time     `json:"last_daily_bonus"`
	TotalReadings    int64          `gorm:"not null;default:0" json:"total_readings"`
	TotalCoinsSpent  int64          `gorm:"not null;default:0" json:"total_coins_spent"`
	LastLoginAt      *time.Time     `json:"last_login_at"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
	DeletedAt        gorm.DeletedAt `gorm:"index" json:"-"`
}

// BeforeCreate hook ensures timestamps are set even when not provided.
func (u *User) BeforeCreate(tx *gorm.DB) error {
	now := time.Now()
	if u.CreatedAt.IsZero() {
		u.CreatedAt = now
	}
	u.UpdatedAt = now
	return nil
}

// BeforeUpdate ensures the UpdatedAt timestamp is refreshed.
func (u *User) BeforeUpdate(tx *gorm.DB) error {
	u.UpdatedAt = time.Now()
	return nil
}

// PremiumActive reports whether the user holds an unexpired subscription.
func (u *User) PremiumActive(now time.Time) bool {
	if !u.IsPremium {
		return false
	}
	return u.PremiumExpiresAt == nil || u.PremiumExpiresAt.After(now)
}
