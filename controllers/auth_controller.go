package controllers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/mystic/tarotconstellation/config"
	"github.com/mystic/tarotconstellation/ledger"
	"github.com/mystic/tarotconstellation/models"
	"github.com/mystic/tarotconstellation/utils"
)

// AuthController handles account login and profile endpoints. Accounts are
// created on first login; a password is optional and, once set, required.
type AuthController struct {
	db *gorm.DB
}

// NewAuthController creates a new controller instance.
func NewAuthController(db *gorm.DB) *AuthController {
	return &AuthController{db: db}
}

type loginRequest struct {
	Username string `json:"username" binding:"required,min=2,max=64"`
	Password string `json:"password"`
}

// Login finds or creates the account and issues a JWT. New accounts receive
// the signup coin grant through the ledger inside the creation transaction.
func (a *AuthController) Login(ctx *gin.Context) {
	var req loginRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, "username must be between 2 and 64 characters")
		return
	}
	username := strings.TrimSpace(req.Username)
	if len(username) < 2 {
		utils.Error(ctx, http.StatusBadRequest, "username must be between 2 and 64 characters")
		return
	}

	now := time.Now()
	isNew := false

	var user models.User
	err := a.db.Where("username = ?", username).First(&user).Error
	switch {
	case err == nil:
		if user.PasswordHash != "" && !utils.CheckPassword(user.PasswordHash, req.Password) {
			utils.Error(ctx, http.StatusUnauthorized, "invalid credentials")
			return
		}
		if err := a.db.Model(&user).Update("last_login_at", now).Error; err != nil {
			utils.Sugar.Errorw("failed to update last login", "user", user.ID, "err", err)
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
		isNew = true
		cfg := config.Get()
		var hash string
		if req.Password != "" {
			var hashErr error
			hash, hashErr = utils.HashPassword(req.Password)
			if hashErr != nil {
				utils.Error(ctx, http.StatusInternalServerError, "login failed")
				return
			}
		}
		txErr := a.db.Transaction(func(tx *gorm.DB) error {
			user = models.User{Username: username, PasswordHash: hash, LastLoginAt: &now}
			if err := tx.Create(&user).Error; err != nil {
				return err
			}
			_, err := ledger.Apply(tx, user.ID, int64(cfg.SignupBonusCoins), models.EntrySignupBonus, "signup bonus", nil)
			return err
		})
		if txErr != nil {
			if errors.Is(txErr, gorm.ErrDuplicatedKey) {
				// Lost a concurrent first-login race; re-read and continue.
				if err := a.db.Where("username = ?", username).First(&user).Error; err != nil {
					utils.Error(ctx, http.StatusInternalServerError, "login failed")
					return
				}
				isNew = false
			} else {
				utils.Sugar.Errorw("failed to create user", "username", username, "err", txErr)
				utils.Error(ctx, http.StatusInternalServerError, "login failed")
				return
			}
		}
		if isNew {
			// Balance was granted after the struct was created.
			user.CoinBalance = int64(cfg.SignupBonusCoins)
		}
	default:
		utils.Sugar.Errorw("login lookup failed", "username", username, "err", err)
		utils.Error(ctx, http.StatusInternalServerError, "login failed")
		return
	}

	token, err := utils.GenerateToken(user.ID, user.Username, 7*24*time.Hour)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, "login failed")
		return
	}

	utils.Success(ctx, gin.H{
		"token": token,
		"user": gin.H{
			"id":          user.ID,
			"username":    user.Username,
			"coinBalance": user.CoinBalance,
			"isNewUser":   isNew,
		},
	})
}

// Logout revokes the presented token until its natural expiry.
func (a *AuthController) Logout(ctx *gin.Context) {
	authHeader := ctx.GetHeader("Authorization")
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 {
		utils.Error(ctx, http.StatusBadRequest, "missing bearer token")
		return
	}
	token := strings.TrimSpace(parts[1])
	claims, err := utils.ParseToken(token)
	if err != nil {
		utils.Error(ctx, http.StatusUnauthorized, "invalid token")
		return
	}
	utils.BlacklistToken(token, claims.ExpiresAt.Time)
	utils.Success(ctx, gin.H{"message": "logged out"})
}

// GetProfile returns the public profile plus recent reading activity.
func (a *AuthController) GetProfile(ctx *gin.Context) {
	userID, ok := paramUint(ctx, "userId")
	if !ok {
		utils.Error(ctx, http.StatusBadRequest, "invalid user id")
		return
	}

	var user models.User
	if err := a.db.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.Error(ctx, http.StatusNotFound, "user not found")
			return
		}
		utils.Sugar.Errorw("profile lookup failed", "user", userID, "err", err)
		utils.Error(ctx, http.StatusInternalServerError, "failed to load profile")
		return
	}

	var recent int64
	weekAgo := time.Now().AddDate(0, 0, -7)
	if err := a.db.Model(&models.ReadingRecord{}).
		Where("user_id = ? AND created_at >= ?", userID, weekAgo).
		Count(&recent).Error; err != nil {
		recent = 0
	}

	utils.Success(ctx, gin.H{
		"user": gin.H{
			"id":               user.ID,
			"username":         user.Username,
			"coinBalance":      user.CoinBalance,
			"isPremium":        user.PremiumActive(time.Now()),
			"premiumExpiresAt": user.PremiumExpiresAt,
			"streakDays":       user.StreakDays,
			"totalReadings":    user.TotalReadings,
			"totalCoinsSpent":  user.TotalCoinsSpent,
			"createdAt":        user.CreatedAt,
			"recentReadings":   recent,
		},
	})
}

// Me returns the authenticated user's own profile.
func (a *AuthController) Me(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, "unauthorized")
		return
	}
	var user models.User
	if err := a.db.First(&user, userID).Error; err != nil {
		utils.Error(ctx, http.StatusNotFound, "user not found")
		return
	}
	utils.Success(ctx, user)
}
