package controllers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mystic/tarotconstellation/ledger"
	"github.com/mystic/tarotconstellation/models"
	"github.com/mystic/tarotconstellation/tarot"
	"github.com/mystic/tarotconstellation/utils"
)

// ReadingController orchestrates paid tarot readings. A reading draws cards,
// builds the interpretation, charges the menu price through the ledger and
// stores the history record, all in one transaction.
type ReadingController struct {
	db *gorm.DB
}

// NewReadingController creates a new controller instance.
func NewReadingController(db *gorm.DB) *ReadingController {
	return &ReadingController{db: db}
}

type readingRequest struct {
	UserID       uint   `json:"userId" binding:"required"`
	MenuID       uint   `json:"menuId" binding:"required"`
	QuestionType string `json:"questionType"`
	SpreadType   string `json:"spreadType"`
	Question     string `json:"question"`
}

// ExecuteReading performs a reading against a catalog menu. Free menus skip
// the charge; everything else debits the menu price. No history row exists
// unless the debit succeeded.
func (r *ReadingController) ExecuteReading(ctx *gin.Context) {
	var req readingRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, "userId and menuId are required")
		return
	}

	var user models.User
	if err := r.db.First(&user, req.UserID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.Error(ctx, http.StatusNotFound, "user not found")
			return
		}
		utils.Sugar.Errorw("reading user lookup failed", "user", req.UserID, "err", err)
		utils.Error(ctx, http.StatusInternalServerError, "reading failed")
		return
	}

	var menu models.Menu
	if err := r.db.First(&menu, req.MenuID).Error; err != nil || !menu.IsActive {
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			utils.Sugar.Errorw("reading menu lookup failed", "menu", req.MenuID, "err", err)
			utils.Error(ctx, http.StatusInternalServerError, "reading failed")
			return
		}
		utils.Error(ctx, http.StatusNotFound, "menu not found")
		return
	}

	now := time.Now()
	premium := user.PremiumActive(now)
	if menu.PremiumOnly && !premium {
		utils.Error(ctx, http.StatusForbidden, "premium subscription required for this reading")
		return
	}

	cost := menu.RequiredCoins
	if menu.IsFree {
		cost = 0
	}
	// Early rejection before any drawing work; the transaction re-checks
	// under lock.
	if cost > 0 && user.CoinBalance < cost {
		utils.Error(ctx, http.StatusPaymentRequired,
			fmt.Sprintf("insufficient coins: need %d, have %d", cost, user.CoinBalance))
		return
	}

	spreadType := strings.TrimSpace(req.SpreadType)
	if spreadType == "" {
		spreadType = menu.SpreadType
	}
	questionType := strings.TrimSpace(req.QuestionType)
	if questionType == "" {
		questionType = menu.Category
	}
	question := utils.Sanitize(req.Question)

	cards, err := tarot.Draw(tarot.SpreadCardCount(spreadType))
	if err != nil {
		utils.Error(ctx, http.StatusBadRequest, "invalid spread type")
		return
	}
	interp := tarot.Interpret(cards, questionType, premium)

	cardJSON, err := json.Marshal(cards)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, "reading failed")
		return
	}

	var newBalance int64
	var record models.ReadingRecord
	txErr := r.db.Transaction(func(tx *gorm.DB) error {
		newBalance = user.CoinBalance
		if cost > 0 {
			var err error
			newBalance, err = ledger.Apply(tx, req.UserID, -cost, models.EntryReadingCost,
				fmt.Sprintf("reading: %s", menu.Title), &menu.ID)
			if err != nil {
				return err
			}
		}

		record = models.ReadingRecord{
			UserID:                 req.UserID,
			MenuID:                 menu.ID,
			QuestionType:           questionType,
			Question:               question,
			SpreadType:             spreadType,
			CardData:               string(cardJSON),
			Interpretation:         interp.Basic,
			DetailedInterpretation: interp.Detailed,
			CoinsUsed:              cost,
			ShareCode:              uuid.NewString(),
			CreatedAt:              now,
		}
		if err := tx.Create(&record).Error; err != nil {
			return err
		}

		return tx.Model(&models.User{}).Where("id = ?", req.UserID).
			Update("total_readings", gorm.Expr("total_readings + 1")).Error
	})
	if txErr != nil {
		switch {
		case errors.Is(txErr, ledger.ErrInsufficientFunds):
			utils.Error(ctx, http.StatusPaymentRequired,
				fmt.Sprintf("insufficient coins: need %d", cost))
		case errors.Is(txErr, ledger.ErrUserNotFound):
			utils.Error(ctx, http.StatusNotFound, "user not found")
		default:
			utils.Sugar.Errorw("reading transaction failed", "user", req.UserID, "menu", menu.ID, "err", txErr)
			utils.Error(ctx, http.StatusInternalServerError, "reading failed")
		}
		return
	}

	utils.Success(ctx, gin.H{
		"historyId":      record.ID,
		"shareCode":      record.ShareCode,
		"cards":          cards,
		"interpretation": gin.H{"basic": interp.Basic, "detailed": interp.Detailed},
		"coinsUsed":      cost,
		"newBalance":     newBalance,
		"spreadType":     spreadType,
		"questionType":   questionType,
	})
}

// freeHistoryLimit caps how far back non-premium accounts can browse.
const freeHistoryLimit = 5

// GetHistory lists a user's past readings, newest first. Non-premium users
// are capped at a small page size.
func (r *ReadingController) GetHistory(ctx *gin.Context) {
	userID, ok := paramUint(ctx, "userId")
	if !ok {
		utils.Error(ctx, http.StatusBadRequest, "invalid user id")
		return
	}

	var user models.User
	if err := r.db.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.Error(ctx, http.StatusNotFound, "user not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, "failed to load history")
		return
	}

	page, limit := pageParams(ctx, 10, 50)
	premium := user.PremiumActive(time.Now())
	if !premium && limit > freeHistoryLimit {
		limit = freeHistoryLimit
	}

	query := r.db.Model(&models.ReadingRecord{}).Where("user_id = ?", userID)
	if category := strings.TrimSpace(ctx.Query("category")); category != "" {
		query = query.Where("question_type = ?", category)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, "failed to load history")
		return
	}

	var records []models.ReadingRecord
	if err := query.Order("created_at DESC").
		Offset((page - 1) * limit).Limit(limit).
		Find(&records).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, "failed to load history")
		return
	}

	utils.Success(ctx, gin.H{
		"history": records,
		"pagination": gin.H{
			"page":      page,
			"limit":     limit,
			"total":     total,
			"isPremium": premium,
		},
	})
}
