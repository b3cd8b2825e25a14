package models

import "time"

// ReadingRecord stores one completed tarot reading. Immutable once written:
// the drawn cards and interpretations are persisted as they were generated,
// and CoinsUsed reflects the menu price at read time.
type ReadingRecord struct {
	ID                      uint      `gorm:"primaryKey" json:"id"`
	UserID                  uint      `gorm:"index;not null" json:"user_id"`
	MenuID                  uint      `gorm:"index;not null" json:"menu_id"`
	QuestionType            string    `gorm:"size:50;index" json:"question_type"`
	Question                string    `gorm:"size:512" json:"question"`
	SpreadType              string    `gorm:"size:32" json:"spread_type"`
	CardData                string    `gorm:"type:text" json:"card_data"`
	Interpretation          string    `gorm:"type:text" json:"interpretation"`
	DetailedInterpretation  string    `gorm:"type:text" json:"detailed_interpretation"`
	CoinsUsed               int64     `gorm:"not null;default:0" json:"coins_used"`
	ShareCode               string    `gorm:"size:36;index" json:"share_code"`
	CreatedAt               time.Time `gorm:"index" json:"created_at"`
}
