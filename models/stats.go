package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// UserStatistics tracks lifetime completed-order history per identity.
// TotalSpent drives the derived loyalty tier and the referral milestone.
type UserStatistics struct {
	gorm.Model

	Identity      string          `gorm:"uniqueIndex;size:255" json:"identity"`
	TotalSpent    decimal.Decimal `gorm:"type:decimal(12,2)" json:"total_spent"`
	TotalOrders   int64           `json:"total_orders"`
	LastOrderDate *time.Time      `json:"last_order_date"`
}
