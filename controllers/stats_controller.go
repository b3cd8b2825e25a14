package controllers

import (
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/mystic/tarotconstellation/models"
	"github.com/mystic/tarotconstellation/utils"
)

// StatsController exposes aggregate service statistics.
type StatsController struct {
	db *gorm.DB
}

// NewStatsController creates a new controller instance.
func NewStatsController(db *gorm.DB) *StatsController {
	return &StatsController{db: db}
}

// GetStats returns overall counters. Individual count failures degrade to
// zero rather than failing the whole endpoint.
func (s *StatsController) GetStats(ctx *gin.Context) {
	var users, readings, premiumUsers, todayReadings, ledgerEntries int64

	if err := s.db.Model(&models.User{}).Count(&users).Error; err != nil {
		users = 0
	}
	if err := s.db.Model(&models.ReadingRecord{}).Count(&readings).Error; err != nil {
		readings = 0
	}
	if err := s.db.Model(&models.LedgerEntry{}).Count(&ledgerEntries).Error; err != nil {
		ledgerEntries = 0
	}
	// Coins in circulation equal the ledger sum; the cached balances are that
	// sum per user, so summing them is the cheap equivalent.
	var circulating int64
	if err := s.db.Model(&models.User{}).
		Select("COALESCE(SUM(coin_balance), 0)").Scan(&circulating).Error; err != nil {
		circulating = 0
	}
	now := time.Now()
	// Same predicate as User.PremiumActive: a NULL expiry counts as active.
	if err := s.db.Model(&models.User{}).
		Where("is_premium = ? AND (premium_expires_at IS NULL OR premium_expires_at > ?)", true, now).
		Count(&premiumUsers).Error; err != nil {
		premiumUsers = 0
	}
	todayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	if err := s.db.Model(&models.ReadingRecord{}).
		Where("created_at >= ?", todayStart).
		Count(&todayReadings).Error; err != nil {
		todayReadings = 0
	}

	utils.Success(ctx, gin.H{
		"totalUsers":         users,
		"totalReadings":      readings,
		"premiumUsers":       premiumUsers,
		"todayReadings":      todayReadings,
		"ledgerEntries":      ledgerEntries,
		"coinsInCirculation": circulating,
	})
}

// Health is the liveness probe.
func (s *StatsController) Health(ctx *gin.Context) {
	status := "ok"
	if sqlDB, err := s.db.DB(); err != nil || sqlDB.Ping() != nil {
		status = "degraded"
	}
	utils.Success(ctx, gin.H{
		"status": status,
		"time":   time.Now().Format(time.RFC3339),
	})
}
