package controllers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/mystic/tarotconstellation/ledger"
	"github.com/mystic/tarotconstellation/models"
	"github.com/mystic/tarotconstellation/utils"
)

// WalletController exposes direct coin adjustments and the transaction log.
type WalletController struct {
	db *gorm.DB
}

// NewWalletController creates a new controller instance.
func NewWalletController(db *gorm.DB) *WalletController {
	return &WalletController{db: db}
}

type coinRequest struct {
	UserID      uint   `json:"userId" binding:"required"`
	Amount      int64  `json:"amount" binding:"required,gt=0"`
	Operation   string `json:"operation" binding:"required,oneof=add deduct"`
	Description string `json:"description"`
}

// ManageCoins applies a manual credit or debit through the ledger.
func (w *WalletController) ManageCoins(ctx *gin.Context) {
	var req coinRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, "amount must be positive and operation add or deduct")
		return
	}

	amount := req.Amount
	if req.Operation == "deduct" {
		amount = -amount
	}
	desc := utils.Sanitize(req.Description)
	if desc == "" {
		desc = fmt.Sprintf("manual %s of %d coins", req.Operation, req.Amount)
	}

	var newBalance int64
	err := w.db.Transaction(func(tx *gorm.DB) error {
		var err error
		newBalance, err = ledger.Apply(tx, req.UserID, amount, models.EntryManualAdjust, desc, nil)
		return err
	})
	if err != nil {
		switch {
		case errors.Is(err, ledger.ErrInsufficientFunds):
			utils.Error(ctx, http.StatusPaymentRequired, "insufficient coin balance")
		case errors.Is(err, ledger.ErrUserNotFound):
			utils.Error(ctx, http.StatusNotFound, "user not found")
		default:
			utils.Sugar.Errorw("coin adjustment failed", "user", req.UserID, "amount", amount, "err", err)
			utils.Error(ctx, http.StatusInternalServerError, "coin adjustment failed")
		}
		return
	}

	utils.Success(ctx, gin.H{
		"operation":  req.Operation,
		"amount":     req.Amount,
		"newBalance": newBalance,
	})
}

// ListTransactions returns the user's ledger entries, newest first.
func (w *WalletController) ListTransactions(ctx *gin.Context) {
	userID, ok := paramUint(ctx, "userId")
	if !ok {
		utils.Error(ctx, http.StatusBadRequest, "invalid user id")
		return
	}

	page, limit := pageParams(ctx, 20, 100)

	query := w.db.Model(&models.LedgerEntry{}).Where("user_id = ?", userID)
	if t := ctx.Query("type"); t != "" {
		query = query.Where("type = ?", t)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, "failed to load transactions")
		return
	}

	var entries []models.LedgerEntry
	if err := query.Order("created_at DESC").
		Offset((page - 1) * limit).Limit(limit).
		Find(&entries).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, "failed to load transactions")
		return
	}

	var user models.User
	var balance int64
	if err := w.db.First(&user, userID).Error; err == nil {
		balance = user.CoinBalance
	}

	utils.Success(ctx, gin.H{
		"transactions": entries,
		"balance":      balance,
		"pagination": gin.H{
			"page":  page,
			"limit": limit,
			"total": total,
		},
	})
}
