package models

import "gorm.io/gorm"

// ActionEvent records one mutating request for the trailing-window rate
// limiter. Counted by identity or IP over the last hour.
type ActionEvent struct {
	gorm.Model

	Identity  string `gorm:"size:255;index" json:"identity"`
	IPAddress string `gorm:"size:64;index" json:"ip_address"`
	DeviceFP  string `gorm:"size:128" json:"device_fingerprint"`
	Kind      string `gorm:"size:32" json:"kind"`
}
