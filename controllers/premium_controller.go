package controllers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/mystic/tarotconstellation/ledger"
	"github.com/mystic/tarotconstellation/models"
	"github.com/mystic/tarotconstellation/utils"
)

// PremiumController manages subscription activation.
type PremiumController struct {
	db *gorm.DB
}

// NewPremiumController creates a new controller instance.
func NewPremiumController(db *gorm.DB) *PremiumController {
	return &PremiumController{db: db}
}

type subscribeRequest struct {
	UserID   uint   `json:"userId" binding:"required"`
	PlanType string `json:"planType" binding:"required,oneof=monthly yearly"`
}

var planDurations = map[string]int{
	"monthly": 30,
	"yearly":  365,
}

// extendExpiry stacks a new subscription period on top of any remaining time.
func extendExpiry(current *time.Time, now time.Time, days int) time.Time {
	base := now
	if current != nil && current.After(now) {
		base = *current
	}
	return base.AddDate(0, 0, days)
}

// Subscribe activates or extends a premium plan and writes a zero-amount
// ledger entry so the subscription shows up in the transaction history.
func (p *PremiumController) Subscribe(ctx *gin.Context) {
	var req subscribeRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, "planType must be monthly or yearly")
		return
	}

	now := time.Now()
	days := planDurations[req.PlanType]

	var expiresAt time.Time
	err := p.db.Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&user, req.UserID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ledger.ErrUserNotFound
			}
			return err
		}

		expiresAt = extendExpiry(user.PremiumExpiresAt, now, days)

		if _, err := ledger.Apply(tx, req.UserID, 0, models.EntrySubscription,
			req.PlanType+" premium subscription", nil); err != nil {
			return err
		}

		return tx.Model(&user).Updates(map[string]interface{}{
			"is_premium":         true,
			"premium_expires_at": expiresAt,
		}).Error
	})
	if err != nil {
		if errors.Is(err, ledger.ErrUserNotFound) {
			utils.Error(ctx, http.StatusNotFound, "user not found")
			return
		}
		utils.Sugar.Errorw("subscription failed", "user", req.UserID, "plan", req.PlanType, "err", err)
		utils.Error(ctx, http.StatusInternalServerError, "subscription failed")
		return
	}

	utils.Success(ctx, gin.H{
		"planType":  req.PlanType,
		"isPremium": true,
		"expiresAt": expiresAt,
		"benefits": []string{
			"detailed interpretations",
			"exclusive premium readings",
			"unlimited history access",
		},
	})
}
