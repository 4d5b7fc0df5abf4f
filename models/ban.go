package models

import "gorm.io/gorm"

// Ban namespaces. A match in any one of them blocks the request.
const (
	BanIP       = "ip"
	BanDevice   = "device"
	BanIdentity = "identity"
)

// BanEntry is one banned identifier. Membership is the whole check; rows
// are created and removed only by explicit admin action.
type BanEntry struct {
	gorm.Model

	Namespace string `gorm:"size:16;index:idx_ban_value,unique" json:"namespace"`
	Value     string `gorm:"size:255;index:idx_ban_value,unique" json:"value"`
	Note      string `gorm:"size:255" json:"note"`
}
