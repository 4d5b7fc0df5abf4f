package models

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// VaultItem is one catalog entry redeemable for vault tokens. The coupon
// it yields is issued by an external collaborator after the token debit
// commits.
type VaultItem struct {
	gorm.Model

	Name           string          `gorm:"size:128" json:"name"`
	TokenCost      int64           `json:"token_cost"`
	DiscountAmount decimal.Decimal `gorm:"type:decimal(12,2)" json:"discount_amount"`
	MinSpend       decimal.Decimal `gorm:"type:decimal(12,2)" json:"min_spend"`
	IsActive       bool            `gorm:"default:true" json:"is_active"`
}
