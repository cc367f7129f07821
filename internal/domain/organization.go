package domain

import (
	"time"
)

type Organization struct {
	ID            uint          `json:"id" gorm:"primaryKey"`
	EntityID      string        `json:"entityId" gorm:"size:8;uniqueIndex;not null"`
	Name          string        `json:"name" gorm:"uniqueIndex;not null"`
	Address       string        `json:"address"`
	Latitude      *float64      `json:"latitude,omitempty"`
	Longitude     *float64      `json:"longitude,omitempty"`
	ContactPerson string        `json:"contactPerson,omitempty"`
	Email         string        `json:"email,omitempty"`
	IsActive      bool          `json:"isActive" gorm:"not null;index"`
	Admins        []EntityAdmin `json:"-" gorm:"foreignKey:OrganizationID"`
	CreatedAt     time.Time     `json:"createdAt"`
	UpdatedAt     time.Time     `json:"updatedAt"`
}

// OrganizationQuery filters a paginated organization listing. Page is
// zero-based.
type OrganizationQuery struct {
	ActiveOnly   bool
	NameContains string
	Page         int
	Size         int
}

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Normalize clamps page and size into their valid ranges.
func (q OrganizationQuery) Normalize() OrganizationQuery {
	if q.Page < 0 {
		q.Page = 0
	}
	if q.Size <= 0 {
		q.Size = DefaultPageSize
	}
	if q.Size > MaxPageSize {
		q.Size = MaxPageSize
	}
	return q
}

type Page[T any] struct {
	Items      []T   `json:"items"`
	Page       int   `json:"page"`
	Size       int   `json:"size"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"totalPages"`
}

func NewPage[T any](items []T, page, size int, total int64) *Page[T] {
	totalPages := 0
	if size > 0 {
		totalPages = int((total + int64(size) - 1) / int64(size))
	}
	if items == nil {
		items = []T{}
	}
	return &Page[T]{
		Items:      items,
		Page:       page,
		Size:       size,
		Total:      total,
		TotalPages: totalPages,
	}
}
