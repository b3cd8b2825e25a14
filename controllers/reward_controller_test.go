package controllers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/mystic/tarotconstellation/utils"
)

func TestBonusForStreakTiers(t *testing.T) {
	cases := []struct {
		day  int
		want int64
	}{
		{1, 2}, {2, 2}, {3, 2},
		{4, 3}, {7, 3},
		{8, 5}, {14, 5},
		{15, 7}, {30, 7},
		{31, 10}, {100, 10},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, bonusForStreak(c.day), "day %d", c.day)
	}
}

func TestIsSameDay(t *testing.T) {
	loc := time.Local
	morning := time.Date(2025, 3, 15, 8, 0, 0, 0, loc)
	night := time.Date(2025, 3, 15, 23, 59, 0, 0, loc)
	nextDay := time.Date(2025, 3, 16, 0, 1, 0, 0, loc)

	assert.True(t, isSameDay(morning, night))
	assert.False(t, isSameDay(night, nextDay))
}

func TestIsYesterday(t *testing.T) {
	loc := time.Local
	today := time.Date(2025, 3, 16, 0, 0, 0, 0, loc)

	assert.True(t, isYesterday(time.Date(2025, 3, 15, 21, 30, 0, 0, loc), today))
	assert.False(t, isYesterday(time.Date(2025, 3, 14, 21, 30, 0, 0, loc), today))
	assert.False(t, isYesterday(today, today))

	// Year boundary
	jan1 := time.Date(2026, 1, 1, 0, 0, 0, 0, loc)
	assert.True(t, isYesterday(time.Date(2025, 12, 31, 12, 0, 0, 0, loc), jan1))
}

func TestIsYesterdayAcrossDSTTransition(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Skip("tzdata unavailable")
	}

	// 2025-03-09 is a 23-hour day in this zone; naive 24h subtraction from
	// the following midnight lands on 03-08.
	springForward := time.Date(2025, 3, 10, 0, 0, 0, 0, loc)
	assert.True(t, isYesterday(time.Date(2025, 3, 9, 12, 0, 0, 0, loc), springForward))
	assert.False(t, isYesterday(time.Date(2025, 3, 8, 12, 0, 0, 0, loc), springForward))
}

func postRewards(t *testing.T, db *gorm.DB, path string, handler gin.HandlerFunc, payload interface{}) (*httptest.ResponseRecorder, utils.JSONResponse) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST(path, handler)

	body, err := json.Marshal(payload)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var resp utils.JSONResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return w, resp
}

func rewardUserRows(id uint, balance int64, streak int, lastBonus *time.Time) *sqlmock.Rows {
	rows := sqlmock.NewRows([]string{"id", "username", "coin_balance", "streak_days", "last_daily_bonus"})
	if lastBonus != nil {
		rows.AddRow(id, "mira", balance, streak, *lastBonus)
	} else {
		rows.AddRow(id, "mira", balance, streak, nil)
	}
	return rows
}

// The expectations below are ordered: the row lock must be acquired before
// the day's entries are counted, so a claim that lost a race counts the
// winner's committed entry instead of a stale snapshot.
func TestWatchAdRejectsSixthClaim(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	db, mock := newMockDB(t)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT(.+)FROM `users`(.+)FOR UPDATE").
		WillReturnRows(rewardUserRows(1, 40, 0, nil))
	mock.ExpectQuery("SELECT count(.+)FROM `ledger_entries`").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(5))
	mock.ExpectRollback()

	w, resp := postRewards(t, db, "/user/watch-ad", NewRewardController(db).WatchAd, gin.H{"userId": 1})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, resp.Error, "daily ad limit")
	// No insert or balance write may have happened.
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWatchAdCreditsReward(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	db, mock := newMockDB(t)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT(.+)FROM `users`(.+)FOR UPDATE").
		WillReturnRows(rewardUserRows(1, 10, 0, nil))
	mock.ExpectQuery("SELECT count(.+)FROM `ledger_entries`").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(4))
	mock.ExpectQuery("SELECT(.+)FROM `users`(.+)FOR UPDATE").
		WillReturnRows(rewardUserRows(1, 10, 0, nil))
	mock.ExpectExec("INSERT INTO `ledger_entries`").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("UPDATE `users` SET(.+)coin_balance(.+)").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	w, resp := postRewards(t, db, "/user/watch-ad", NewRewardController(db).WatchAd, gin.H{"userId": 1})
	require.Equal(t, http.StatusOK, w.Code)

	data, ok := resp.Data.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, float64(5), data["coinsRewarded"])
	assert.Equal(t, float64(15), data["newBalance"])
	assert.Equal(t, float64(5), data["todayAdCount"])
	assert.Equal(t, float64(0), data["remainingAds"])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDailyBonusRejectsSecondClaimSameDay(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	db, mock := newMockDB(t)

	earlier := time.Now()
	mock.ExpectBegin()
	mock.ExpectQuery("SELECT(.+)FROM `users`(.+)FOR UPDATE").
		WillReturnRows(rewardUserRows(1, 20, 3, &earlier))
	mock.ExpectRollback()

	w, resp := postRewards(t, db, "/user/daily-bonus", NewRewardController(db).DailyBonus, gin.H{"userId": 1})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, resp.Error, "already claimed")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDailyBonusClaimInsertRace(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	db, mock := newMockDB(t)

	yesterday := time.Now().AddDate(0, 0, -1)
	mock.ExpectBegin()
	mock.ExpectQuery("SELECT(.+)FROM `users`(.+)FOR UPDATE").
		WillReturnRows(rewardUserRows(1, 20, 3, &yesterday))
	// A concurrent claim already inserted today's row.
	mock.ExpectExec("INSERT INTO `daily_claims`").
		WillReturnError(gorm.ErrDuplicatedKey)
	mock.ExpectRollback()

	w, resp := postRewards(t, db, "/user/daily-bonus", NewRewardController(db).DailyBonus, gin.H{"userId": 1})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, resp.Error, "already claimed")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDailyBonusExtendsStreak(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	db, mock := newMockDB(t)

	yesterday := time.Now().AddDate(0, 0, -1)
	mock.ExpectBegin()
	mock.ExpectQuery("SELECT(.+)FROM `users`(.+)FOR UPDATE").
		WillReturnRows(rewardUserRows(1, 20, 3, &yesterday))
	mock.ExpectExec("INSERT INTO `daily_claims`").
		WillReturnResult(sqlmock.NewResult(7, 1))
	mock.ExpectQuery("SELECT(.+)FROM `users`(.+)FOR UPDATE").
		WillReturnRows(rewardUserRows(1, 20, 3, &yesterday))
	mock.ExpectExec("INSERT INTO `ledger_entries`").
		WillReturnResult(sqlmock.NewResult(8, 1))
	mock.ExpectExec("UPDATE `users` SET(.+)coin_balance(.+)").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE `users` SET(.+)streak_days(.+)").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	w, resp := postRewards(t, db, "/user/daily-bonus", NewRewardController(db).DailyBonus, gin.H{"userId": 1})
	require.Equal(t, http.StatusOK, w.Code)

	data, ok := resp.Data.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, float64(3), data["coinsRewarded"], "day 4 pays the 4-7 tier")
	assert.Equal(t, float64(4), data["streakDays"])
	assert.Equal(t, float64(23), data["newBalance"])
	assert.Equal(t, float64(3), data["nextBonusCoins"])
	assert.NoError(t, mock.ExpectationsWereMet())
}
