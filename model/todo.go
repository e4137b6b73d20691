package model

import "time"

type Todo struct {
	ID      string `gorm:"primaryKey" json:"id"`
	OwnerID string `gorm:"index;not null" json:"owner_id"`

	Title   string `gorm:"not null" json:"title"`
	Content string `json:"content"`
	Done    bool   `gorm:"default:false" json:"done"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
