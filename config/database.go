package config

import (
	"fmt"
	"log"
	"os"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/mystic/tarotconstellation/models"
)

var db *gorm.DB

// schemaVersion tracks the single incrementing schema version. Upgrades are
// additive and idempotent so re-running them against an upgraded database is
// safe.
type schemaVersion struct {
	ID        uint `gorm:"primaryKey"`
	Version   int  `gorm:"not null"`
	UpdatedAt time.Time
}

func (schemaVersion) TableName() string { return "schema_versions" }

const currentSchemaVersion = 3

// InitDatabase establishes a connection to MySQL using configuration values
// and brings the schema up to the current version.
func InitDatabase() *gorm.DB {
	if db != nil {
		return db
	}

	cfg := Get()
	var dsn string
	if cfg.DatabaseURI != "" {
		dsn = cfg.DatabaseURI
	} else {
		dsn = fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
			cfg.DBUser,
			cfg.DBPassword,
			cfg.DBHost,
			cfg.DBPort,
			cfg.DBName,
		)
	}

	gLogger := logger.New(
		log.New(os.Stdout, "", log.LstdFlags),
		logger.Config{
			SlowThreshold:             2 * time.Second,
			LogLevel:                  toGormLogLevel(cfg.LogLevel),
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)

	gormCfg := &gorm.Config{
		Logger: gLogger,
		DisableForeignKeyConstraintWhenMigrating: true,
		// Unique-key races (daily claims) must surface as gorm.ErrDuplicatedKey.
		TranslateError: true,
	}

	var err error
	db, err = gorm.Open(mysql.Open(dsn), gormCfg)
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		log.Fatalf("failed to get sql.DB: %v", err)
	}

	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetMaxOpenConns(20)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	sqlDB.SetConnMaxIdleTime(10 * time.Minute)

	if err := sqlDB.Ping(); err != nil {
		log.Fatalf("database ping failed: %v", err)
	}

	if err := migrateSchema(db); err != nil {
		log.Fatalf("schema migration failed: %v", err)
	}

	return db
}

// migrateSchema applies versioned upgrades. Each step only adds tables or
// columns that are absent, so every step can run against a database that is
// already past it.
func migrateSchema(db *gorm.DB) error {
	if err := db.AutoMigrate(&schemaVersion{}); err != nil {
		return err
	}

	var row schemaVersion
	if err := db.First(&row).Error; err != nil {
		if err != gorm.ErrRecordNotFound {
			return err
		}
		row = schemaVersion{Version: 0}
		if err := db.Create(&row).Error; err != nil {
			return err
		}
	}

	if row.Version >= currentSchemaVersion {
		return nil
	}

	// v1: base tables.
	if err := db.AutoMigrate(&models.User{}, &models.Menu{}, &models.ReadingRecord{}); err != nil {
		return err
	}

	// v2: premium and economy columns added after the initial release.
	// AutoMigrate creates them on fresh databases; older databases get the
	// additive column path.
	for _, col := range []string{"IsPremium", "PremiumExpiresAt", "StreakDays", "LastDailyBonus", "TotalReadings", "TotalCoinsSpent"} {
		if !db.Migrator().HasColumn(&models.User{}, col) {
			if err := db.Migrator().AddColumn(&models.User{}, col); err != nil {
				return err
			}
		}
	}
	for _, col := range []string{"QuestionType", "CardData", "Interpretation", "DetailedInterpretation", "SpreadType", "ShareCode"} {
		if !db.Migrator().HasColumn(&models.ReadingRecord{}, col) {
			if err := db.Migrator().AddColumn(&models.ReadingRecord{}, col); err != nil {
				return err
			}
		}
	}
	for _, col := range []string{"PremiumOnly", "Difficulty", "EstimatedTime", "IsActive"} {
		if !db.Migrator().HasColumn(&models.Menu{}, col) {
			if err := db.Migrator().AddColumn(&models.Menu{}, col); err != nil {
				return err
			}
		}
	}

	// v3: coin ledger and daily claims.
	if err := db.AutoMigrate(&models.LedgerEntry{}, &models.DailyClaim{}); err != nil {
		return err
	}

	if err := seedMenus(db); err != nil {
		return err
	}

	row.Version = currentSchemaVersion
	return db.Save(&row).Error
}

// seedMenus inserts the launch menu catalog when the table is empty.
func seedMenus(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.Menu{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	menus := []models.Menu{
		{Title: "Card of the Day", Position: 1, Category: "daily", Keyword: "daily", Description: "One card for the day ahead", IsFree: true, RequiredCoins: 0, SpreadType: "single", Difficulty: "beginner", EstimatedTime: 3, IsActive: true},
		{Title: "Today's Advice", Position: 2, Category: "daily", Keyword: "advice", Description: "The guidance you need today", IsFree: true, RequiredCoins: 0, SpreadType: "single", Difficulty: "beginner", EstimatedTime: 3, IsActive: true},
		{Title: "Weekly Outlook", Position: 3, Category: "daily", Keyword: "weekly", Description: "Past, present and future of your week", IsFree: true, RequiredCoins: 0, SpreadType: "three_card", Difficulty: "beginner", EstimatedTime: 5, IsActive: true},
		{Title: "Love Triangle", Position: 4, Category: "love", Keyword: "love", Description: "Where your relationship is heading", RequiredCoins: 8, SpreadType: "three_card", Difficulty: "intermediate", EstimatedTime: 8, IsActive: true},
		{Title: "How They See You", Position: 5, Category: "love", Keyword: "feelings", Description: "What the one you like thinks of you", RequiredCoins: 8, SpreadType: "three_card", Difficulty: "intermediate", EstimatedTime: 8, IsActive: true},
		{Title: "Career Crossroads", Position: 6, Category: "career", Keyword: "work", Description: "Guidance for work and study decisions", RequiredCoins: 5, SpreadType: "three_card", Difficulty: "intermediate", EstimatedTime: 10, IsActive: true},
		{Title: "Fortune Flow", Position: 7, Category: "money", Keyword: "money", Description: "Your financial currents this month", RequiredCoins: 5, SpreadType: "five_card", Difficulty: "intermediate", EstimatedTime: 8, IsActive: true},
		{Title: "Soulmate Deep Dive", Position: 8, Category: "love", Keyword: "soulmate", Description: "Is this person your destiny?", RequiredCoins: 10, SpreadType: "five_card", PremiumOnly: true, Difficulty: "advanced", EstimatedTime: 12, IsActive: true},
		{Title: "Reunion Reading", Position: 9, Category: "love", Keyword: "reunion", Description: "The full picture of a possible reunion", RequiredCoins: 12, SpreadType: "celtic_cross", PremiumOnly: true, Difficulty: "advanced", EstimatedTime: 15, IsActive: true},
	}
	return db.Create(&menus).Error
}

// toGormLogLevel maps application LogLevel to GORM's logger level.
func toGormLogLevel(level string) logger.LogLevel {
	switch level {
	case "debug":
		// GORM 'Info' shows SQL; use with caution
		return logger.Info
	case "info", "":
		return logger.Warn
	case "warn":
		return logger.Warn
	case "error":
		return logger.Error
	case "silent":
		return logger.Silent
	default:
		return logger.Warn
	}
}

// DB provides access to initialized gorm DB instance.
func DB() *gorm.DB {
	if db == nil {
		log.Fatal("database not initialized, call InitDatabase first")
	}
	return db
}
