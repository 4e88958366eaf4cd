package models

import (
	"time"

	"gorm.io/gorm"
)

// Notification types, in increasing severity.
const (
	NotifyInfo    = "info"
	NotifySuccess = "success"
	NotifyWarning = "warning"
	NotifyError   = "error"
)

// Notification is a fire-and-forget message shown to a user. Delivery is a
// collaborator concern; the workflow engine never depends on it succeeding.
type Notification struct {
	NotificationID uint64     `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID         uint64     `gorm:"not null;index" json:"userId"`
	User           *User      `gorm:"foreignKey:UserID" json:"-"`
	Title          string     `gorm:"size:255;not null" json:"title"`
	Message        string     `gorm:"not null" json:"message"`
	Link           string     `gorm:"size:512" json:"link,omitempty"`
	Type           string     `gorm:"size:10;not null;default:info" json:"type"`
	IsRead         bool       `gorm:"not null;default:false" json:"isRead"`
	CreatedAt      time.Time  `json:"createdAt"`
	ExpiresAt      *time.Time `json:"expiresAt,omitempty"`
}

// BeforeCreate defaults the expiry to seven days out when unset.
func (n *Notification) BeforeCreate(tx *gorm.DB) error {
	if n.ExpiresAt == nil {
		t := time.Now().Add(7 * 24 * time.Hour)
		n.ExpiresAt = &t
	}
	return nil
}

// TableName overrides the table name for Notification
func (Notification) TableName() string {
	return "notifications"
}
