package models

import (
	"time"

	"gorm.io/gorm"
)

// SpinRecord is one wheel spin. The premium daily cap is counted from
// these rows, so they must be written in the same transaction as the
// balance change.
type SpinRecord struct {
	gorm.Model

	Identity     string    `gorm:"size:255;index" json:"identity"`
	SpinDate     time.Time `gorm:"index" json:"spin_date"`
	RewardTokens int64     `json:"reward_tokens"`
	IsPremium    bool      `gorm:"index" json:"is_premium"`
	UsedCredit   bool      `json:"used_credit"`
}
