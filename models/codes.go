package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	CodeActive   = "active"
	CodeRedeemed = "redeemed"
	CodeExpired  = "expired"
)

const (
	RewardCash  = "cash"
	RewardToken = "token"
)

// CampaignPrefixLen groups a batch of codes for one-per-user dedup.
const CampaignPrefixLen = 6

// GiftCode is a single-use reward token. Status transitions
// active -> redeemed exactly once; the row is locked for the transition.
type GiftCode struct {
	gorm.Model

	Code       string          `gorm:"uniqueIndex;size:64" json:"code"`
	RewardType string          `gorm:"size:8;default:cash" json:"reward_type"`
	Amount     decimal.Decimal `gorm:"type:decimal(12,2)" json:"amount"`
	Status     string          `gorm:"size:16;default:active;index" json:"status"`

	RedeemedBy string     `gorm:"size:255" json:"redeemed_by"`
	RedeemedAt *time.Time `json:"redeemed_at"`
}

// Prefix returns the code's campaign prefix.
func (g *GiftCode) Prefix() string {
	return CodePrefix(g.Code)
}

func CodePrefix(code string) string {
	if len(code) < CampaignPrefixLen {
		return code
	}
	return code[:CampaignPrefixLen]
}

// RedemptionRecord enforces one redemption per campaign per identity,
// independent of individual code status, and feeds fraud analysis with
// device/IP reuse data.
type RedemptionRecord struct {
	gorm.Model

	Code       string          `gorm:"size:64;index" json:"code"`
	CodePrefix string          `gorm:"size:16;index:idx_campaign_identity,unique" json:"code_prefix"`
	Identity   string          `gorm:"size:255;index:idx_campaign_identity,unique" json:"identity"`
	DeviceFP   string          `gorm:"size:128;index" json:"device_fingerprint"`
	IPAddress  string          `gorm:"size:64;index" json:"ip_address"`
	Amount     decimal.Decimal `gorm:"type:decimal(12,2)" json:"amount"`
}
