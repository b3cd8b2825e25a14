package models

import "time"

// Menu describes one reading product shown in the app. RequiredCoins of zero
// means the reading is free; PremiumOnly menus additionally require an active
// subscription.
type Menu struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	Title         string    `gorm:"size:128;not null" json:"title"`
	Position      int       `gorm:"not null;default:0" json:"position"`
	Category      string    `gorm:"size:32;index" json:"category"`
	Keyword       string    `gorm:"size:32" json:"keyword"`
	Description   string    `gorm:"size:512" json:"description"`
	IsFree        bool      `gorm:"not null;default:false" json:"is_free"`
	RequiredCoins int64     `gorm:"not null;default:0" json:"required_coins"`
	SpreadType    string    `gorm:"size:32;default:single" json:"spread_type"`
	PremiumOnly   bool      `gorm:"not null;default:false" json:"premium_only"`
	Difficulty    string    `gorm:"size:20;default:beginner" json:"difficulty"`
	EstimatedTime int       `gorm:"default:5" json:"estimated_time"`
	IsActive      bool      `gorm:"not null;default:true" json:"is_active"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}
