// Package ledger is the single entry point for coin balance mutations.
// Every balance change writes an append-only LedgerEntry and moves the
// cached User.CoinBalance inside the caller's transaction, so the cache
// always equals the running sum of the user's entries.
package ledger

import (
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/mystic/tarotconstellation/models"
)

var (
	// ErrInsufficientFunds is returned when a debit exceeds the balance.
	ErrInsufficientFunds = errors.New("insufficient coin balance")
	// ErrUserNotFound is returned when the target user does not exist.
	ErrUserNotFound = errors.New("user not found")
)

// Apply records one signed ledger entry for the user and updates the cached
// balance in the same atomic step. It must be called with an open transaction;
// callers wrap it in db.Transaction together with any auxiliary writes.
//
// The user row is locked for the eligibility read, and the balance update is
// additionally guarded by a conditional WHERE so a debit can never push the
// balance negative even if the lock assumption does not hold on the storage
// engine in use. On any error nothing is written once the caller rolls back.
func Apply(tx *gorm.DB, userID uint, amount int64, entryType, description string, relatedID *uint) (int64, error) {
	var user models.User
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, ErrUserNotFound
		}
		return 0, err
	}

	if amount < 0 && user.CoinBalance < -amount {
		return 0, ErrInsufficientFunds
	}

	entry := models.LedgerEntry{
		UserID:      userID,
		Amount:      amount,
		Type:        entryType,
		Description: description,
		RelatedID:   relatedID,
		CreatedAt:   time.Now(),
	}
	if err := tx.Create(&entry).Error; err != nil {
		return 0, err
	}

	updates := map[string]interface{}{
		"coin_balance": gorm.Expr("coin_balance + ?", amount),
	}
	if amount < 0 {
		updates["total_coins_spent"] = gorm.Expr("total_coins_spent + ?", -amount)
	}
	res := tx.Model(&models.User{}).
		Where("id = ? AND coin_balance + ? >= 0", userID, amount).
		Updates(updates)
	if res.Error != nil {
		return 0, res.Error
	}
	if res.RowsAffected == 0 {
		// Guarded update found the balance already spent; caller rolls back
		// the entry insert.
		return 0, ErrInsufficientFunds
	}

	return user.CoinBalance + amount, nil
}

// CountToday returns how many entries of the given type the user accrued on
// the calendar day containing now. Used for per-day caps; must run inside the
// same transaction as the subsequent Apply.
func CountToday(tx *gorm.DB, userID uint, entryType string, now time.Time) (int64, error) {
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	dayEnd := dayStart.AddDate(0, 0, 1)
	var n int64
	err := tx.Model(&models.LedgerEntry{}).
		Where("user_id = ? AND type = ? AND created_at >= ? AND created_at < ?",
			userID, entryType, dayStart, dayEnd).
		Count(&n).Error
	return n, err
}
