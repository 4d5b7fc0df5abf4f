package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Fraud flags escalate clean -> suspicious -> blocked and only an explicit
// admin reset moves them back.
const (
	FraudClean      = "clean"
	FraudSuspicious = "suspicious"
	FraudBlocked    = "blocked"
)

const (
	TierBronze   = "bronze"
	TierSilver   = "silver"
	TierGold     = "gold"
	TierPlatinum = "platinum"
)

// Account is the current-state projection of one identity's wallet. The
// ledger is the source of truth; this row must always be reproducible by
// replaying the identity's ledger entries.
type Account struct {
	gorm.Model

	Identity     string          `gorm:"uniqueIndex;size:255" json:"identity"`
	Balance      decimal.Decimal `gorm:"type:decimal(12,2)" json:"balance"`
	TokenBalance int64           `json:"token_balance"`
	PremiumSpins int64           `json:"premium_spins"`

	Streak           int64      `json:"streak"`
	LastDailyClaim   *time.Time `json:"last_daily_claim"`
	LastSpinDate     *time.Time `json:"last_spin_date"`
	SpinClaimedToday bool       `json:"spin_claimed_today"`

	LoyaltyTier  string         `gorm:"size:16;default:bronze" json:"loyalty_tier"`
	FraudFlag    string         `gorm:"size:16;default:clean;index" json:"fraud_flag"`
	FraudReasons datatypes.JSON `json:"fraud_reasons"`

	ReferralCode string `gorm:"uniqueIndex;size:32" json:"referral_code"`
	ReferredBy   string `gorm:"index;size:255" json:"referred_by"`
}

// FraudRank orders flags for monotonic escalation checks.
func FraudRank(flag string) int {
	switch flag {
	case FraudBlocked:
		return 2
	case FraudSuspicious:
		return 1
	default:
		return 0
	}
}

// TierForSpend derives the loyalty tier from lifetime spend. The stored
// column is a display cache only; this function is the authority.
func TierForSpend(spent decimal.Decimal) string {
	switch {
	case spent.GreaterThanOrEqual(decimal.NewFromInt(10000)):
		return TierPlatinum
	case spent.GreaterThanOrEqual(decimal.NewFromInt(5000)):
		return TierGold
	case spent.GreaterThanOrEqual(decimal.NewFromInt(1000)):
		return TierSilver
	default:
		return TierBronze
	}
}
