package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/mystic/tarotconstellation/config"
	"github.com/mystic/tarotconstellation/ledger"
	"github.com/mystic/tarotconstellation/models"
	"github.com/mystic/tarotconstellation/utils"
)

// RewardController handles the ad-watch reward and the daily login bonus.
type RewardController struct {
	db *gorm.DB
}

var (
	errAdLimitExceeded     = errors.New("daily ad reward limit exceeded")
	errAlreadyClaimedToday = errors.New("daily bonus already claimed today")
)

// NewRewardController creates a new controller instance.
func NewRewardController(db *gorm.DB) *RewardController {
	return &RewardController{db: db}
}

type userActionRequest struct {
	UserID uint `json:"userId" binding:"required"`
}

// WatchAd credits the fixed ad reward, capped per calendar day. The count of
// today's rewards is read inside the same transaction as the credit so two
// concurrent claims cannot both pass the cap.
func (r *RewardController) WatchAd(ctx *gin.Context) {
	var req userActionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, "userId is required")
		return
	}

	cfg := config.Get()
	now := time.Now()

	var newBalance int64
	var todayCount int64
	err := r.db.Transaction(func(tx *gorm.DB) error {
		// Lock the user row before reading the count. Without the lock two
		// concurrent claims could both count from stale snapshots and both
		// pass the cap; serialized on the lock, the loser sees the winner's
		// committed entry.
		var user models.User
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&user, req.UserID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ledger.ErrUserNotFound
			}
			return err
		}

		count, err := ledger.CountToday(tx, req.UserID, models.EntryAdReward, now)
		if err != nil {
			return err
		}
		if count >= int64(cfg.AdDailyLimit) {
			todayCount = count
			return errAdLimitExceeded
		}

		desc := fmt.Sprintf("ad reward (%d/%d)", count+1, cfg.AdDailyLimit)
		newBalance, err = ledger.Apply(tx, req.UserID, int64(cfg.AdRewardCoins), models.EntryAdReward, desc, nil)
		if err != nil {
			return err
		}
		todayCount = count + 1
		return nil
	})

	if err != nil {
		switch {
		case errors.Is(err, errAdLimitExceeded):
			utils.Error(ctx, http.StatusBadRequest, fmt.Sprintf("daily ad limit reached (%d)", cfg.AdDailyLimit))
		case errors.Is(err, ledger.ErrUserNotFound):
			utils.Error(ctx, http.StatusNotFound, "user not found")
		default:
			utils.Sugar.Errorw("ad reward failed", "user", req.UserID, "err", err)
			utils.Error(ctx, http.StatusInternalServerError, "failed to grant ad reward")
		}
		return
	}

	utils.Success(ctx, gin.H{
		"coinsRewarded": cfg.AdRewardCoins,
		"newBalance":    newBalance,
		"todayAdCount":  todayCount,
		"remainingAds":  int64(cfg.AdDailyLimit) - todayCount,
	})
}

// DailyBonus claims the once-per-day login bonus. The unique (user, date)
// claim row is inserted before any coins move, so of two concurrent claims
// exactly one reaches the credit step.
func (r *RewardController) DailyBonus(ctx *gin.Context) {
	var req userActionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, "userId is required")
		return
	}

	now := time.Now()
	todayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	var newBalance int64
	var streak int
	var coins int64
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&user, req.UserID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ledger.ErrUserNotFound
			}
			return err
		}

		streak = 1
		if user.LastDailyBonus != nil {
			if isSameDay(*user.LastDailyBonus, todayStart) {
				return errAlreadyClaimedToday
			}
			if isYesterday(*user.LastDailyBonus, todayStart) {
				streak = user.StreakDays + 1
			}
		}
		coins = bonusForStreak(streak)

		claim := models.DailyClaim{
			UserID:       req.UserID,
			ClaimDate:    todayStart,
			CoinsAwarded: coins,
			StreakDay:    streak,
		}
		if err := tx.Create(&claim).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				// A concurrent claim won the insert race.
				return errAlreadyClaimedToday
			}
			return err
		}

		desc := fmt.Sprintf("daily login bonus (day %d)", streak)
		var err error
		newBalance, err = ledger.Apply(tx, req.UserID, coins, models.EntryDailyBonus, desc, &claim.ID)
		if err != nil {
			return err
		}

		return tx.Model(&user).Updates(map[string]interface{}{
			"streak_days":      streak,
			"last_daily_bonus": todayStart,
		}).Error
	})

	if err != nil {
		switch {
		case errors.Is(err, errAlreadyClaimedToday):
			utils.Error(ctx, http.StatusBadRequest, "daily bonus already claimed today")
		case errors.Is(err, ledger.ErrUserNotFound):
			utils.Error(ctx, http.StatusNotFound, "user not found")
		default:
			utils.Sugar.Errorw("daily bonus failed", "user", req.UserID, "err", err)
			utils.Error(ctx, http.StatusInternalServerError, "failed to claim daily bonus")
		}
		return
	}

	utils.Success(ctx, gin.H{
		"coinsRewarded":  coins,
		"newBalance":     newBalance,
		"streakDays":     streak,
		"nextBonusCoins": bonusForStreak(streak + 1),
	})
}

// bonusForStreak maps a streak day to its coin payout tier.
func bonusForStreak(streakDays int) int64 {
	switch {
	case streakDays <= 3:
		return 2
	case streakDays <= 7:
		return 3
	case streakDays <= 14:
		return 5
	case streakDays <= 30:
		return 7
	default:
		return 10
	}
}
