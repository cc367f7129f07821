package domain

import (
	"time"
)

const RoleEntityAdmin = "ENTITY_ADMIN"

// EntityAdmin administers a single organization.
type EntityAdmin struct {
	ID             uint          `json:"id" gorm:"primaryKey"`
	Username       string        `json:"username" gorm:"uniqueIndex;not null"`
	PasswordHash   string        `json:"-" gorm:"not null"`
	Email          string        `json:"email,omitempty"`
	Role           string        `json:"role" gorm:"not null"`
	OrganizationID *uint         `json:"organizationId,omitempty" gorm:"index"`
	Organization   *Organization `json:"organization,omitempty" gorm:"foreignKey:OrganizationID"`
	CreatedAt      time.Time     `json:"createdAt"`
	UpdatedAt      time.Time     `json:"updatedAt"`
}

type SuperAdmin struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	Username     string    `json:"username" gorm:"uniqueIndex;not null"`
	PasswordHash string    `json:"-" gorm:"not null"`
	Email        string    `json:"email,omitempty"`
	FirstName    string    `json:"firstName,omitempty"`
	LastName     string    `json:"lastName,omitempty"`
	IsActive     bool      `json:"isActive" gorm:"not null"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}
