package domain

import (
	"time"
)

type RefreshToken struct {
	ID         uint         `json:"id" gorm:"primaryKey"`
	Token      string       `json:"-" gorm:"size:1024;uniqueIndex;not null"`
	AdminID    uint         `json:"adminId" gorm:"not null;index"`
	Admin      *EntityAdmin `json:"-" gorm:"foreignKey:AdminID;constraint:OnDelete:CASCADE"`
	ExpiryDate time.Time    `json:"expiryDate" gorm:"not null;index"`
}

type SuperAdminRefreshToken struct {
	ID           uint        `json:"id" gorm:"primaryKey"`
	Token        string      `json:"-" gorm:"size:1024;uniqueIndex;not null"`
	SuperAdminID uint        `json:"superAdminId" gorm:"not null;index"`
	SuperAdmin   *SuperAdmin `json:"-" gorm:"foreignKey:SuperAdminID;constraint:OnDelete:CASCADE"`
	ExpiryDate   time.Time   `json:"expiryDate" gorm:"not null;index"`
}

// IsExpired reports whether the token expired strictly before now.
func (t *RefreshToken) IsExpired(now time.Time) bool {
	return t.ExpiryDate.Before(now)
}

func (t *SuperAdminRefreshToken) IsExpired(now time.Time) bool {
	return t.ExpiryDate.Before(now)
}
