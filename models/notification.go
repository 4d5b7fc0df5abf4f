package models

import "gorm.io/gorm"

const (
	NotifyInfo    = "info"
	NotifySuccess = "success"
	NotifyWarning = "warning"
	NotifyError   = "error"
)

// Notification is an enqueued record for an external reader. Delivery is
// out of scope; the wallet only writes and lists them.
type Notification struct {
	gorm.Model

	Identity string `gorm:"size:255;index" json:"identity"`
	Type     string `gorm:"size:16;default:info" json:"type"`
	Title    string `gorm:"size:255" json:"title"`
	Message  string `gorm:"size:1024" json:"message"`
	IsRead   bool   `gorm:"default:false;index" json:"is_read"`
}
