package models

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	DirectionCredit = "credit"
	DirectionDebit  = "debit"
)

// Ledger source tags. Every mutation names where the money moved.
const (
	SourceTopup       = "topup"
	SourceSpin        = "spin"
	SourceSpinReward  = "spin_reward"
	SourceDailyReward = "daily_reward"
	SourceRedeem      = "redeem"
	SourceTokenGift   = "token_gift"
	SourceReferral    = "referral"
	SourceAdminAdjust = "admin_adjustment"
	SourceVault       = "vault_redemption"
	SourceOrder       = "order"
	SourceMigration   = "migration"
)

// LedgerEntry is append-only. Rows are never updated or deleted; replaying
// CashAmount/TokenAmount deltas in order must reproduce the account's
// current balances exactly.
type LedgerEntry struct {
	gorm.Model

	Identity  string `gorm:"index;size:255" json:"identity"`
	Direction string `gorm:"size:8" json:"direction"`

	CashAmount  decimal.Decimal `gorm:"type:decimal(12,2)" json:"cash_amount"`
	TokenAmount int64           `json:"token_amount"`

	Source    string `gorm:"size:50;index" json:"source"`
	Reference string `gorm:"size:255" json:"reference"`
	RefID     string `gorm:"size:64;index" json:"ref_id"`

	BalanceAfter      decimal.Decimal `gorm:"type:decimal(12,2)" json:"balance_after"`
	TokenBalanceAfter int64           `json:"token_balance_after"`
}

// CashDelta returns the signed cash movement of the entry.
func (e *LedgerEntry) CashDelta() decimal.Decimal {
	if e.Direction == DirectionDebit {
		return e.CashAmount.Neg()
	}
	return e.CashAmount
}

// TokenDelta returns the signed token movement of the entry.
func (e *LedgerEntry) TokenDelta() int64 {
	if e.Direction == DirectionDebit {
		return -e.TokenAmount
	}
	return e.TokenAmount
}
