package ledger

import (
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/mystic/tarotconstellation/models"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	gdb, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	return gdb, mock
}

func userRows(id uint, balance int64) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "username", "coin_balance"}).
		AddRow(id, "mira", balance)
}

func TestApplyCreditsBalance(t *testing.T) {
	gdb, mock := newMockDB(t)

	mock.ExpectQuery("SELECT(.+)FROM `users`(.+)FOR UPDATE").
		WillReturnRows(userRows(1, 10))
	mock.ExpectExec("INSERT INTO `ledger_entries`").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("UPDATE `users` SET(.+)coin_balance(.+)").
		WillReturnResult(sqlmock.NewResult(0, 1))

	balance, err := Apply(gdb, 1, 5, models.EntryAdReward, "ad reward (1/5)", nil)
	require.NoError(t, err)
	assert.Equal(t, int64(15), balance)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestApplyRejectsOverdraft(t *testing.T) {
	gdb, mock := newMockDB(t)

	mock.ExpectQuery("SELECT(.+)FROM `users`(.+)FOR UPDATE").
		WillReturnRows(userRows(1, 3))

	_, err := Apply(gdb, 1, -10, models.EntryReadingCost, "reading: Daily Fortune", nil)
	assert.ErrorIs(t, err, ErrInsufficientFunds)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestApplyGuardedUpdateCatchesRace(t *testing.T) {
	gdb, mock := newMockDB(t)

	// The locked read sees enough coins but the guarded write is beaten to it.
	mock.ExpectQuery("SELECT(.+)FROM `users`(.+)FOR UPDATE").
		WillReturnRows(userRows(1, 10))
	mock.ExpectExec("INSERT INTO `ledger_entries`").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("UPDATE `users` SET(.+)").
		WillReturnResult(sqlmock.NewResult(0, 0))

	_, err := Apply(gdb, 1, -10, models.EntryReadingCost, "reading: Daily Fortune", nil)
	assert.ErrorIs(t, err, ErrInsufficientFunds)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestApplyUnknownUser(t *testing.T) {
	gdb, mock := newMockDB(t)

	mock.ExpectQuery("SELECT(.+)FROM `users`(.+)FOR UPDATE").
		WillReturnRows(sqlmock.NewRows([]string{"id", "username", "coin_balance"}))

	_, err := Apply(gdb, 99, 5, models.EntryDailyBonus, "daily login bonus (day 1)", nil)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestApplyDebitTracksTotalSpent(t *testing.T) {
	gdb, mock := newMockDB(t)

	mock.ExpectQuery("SELECT(.+)FROM `users`(.+)FOR UPDATE").
		WillReturnRows(userRows(1, 20))
	mock.ExpectExec("INSERT INTO `ledger_entries`").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("UPDATE `users` SET(.+)total_coins_spent(.+)").
		WillReturnResult(sqlmock.NewResult(0, 1))

	balance, err := Apply(gdb, 1, -8, models.EntryReadingCost, "reading: Love Compass", nil)
	require.NoError(t, err)
	assert.Equal(t, int64(12), balance)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCountTodayWindow(t *testing.T) {
	gdb, mock := newMockDB(t)

	now := time.Date(2025, 6, 10, 15, 30, 0, 0, time.UTC)
	mock.ExpectQuery("SELECT count(.+)FROM `ledger_entries`").
		WithArgs(uint(1), models.EntryAdReward,
			time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC),
			time.Date(2025, 6, 11, 0, 0, 0, 0, time.UTC)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))

	n, err := CountToday(gdb, 1, models.EntryAdReward, now)
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}
