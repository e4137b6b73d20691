package model

import "time"

type Attachment struct {
	ID     string `gorm:"primaryKey" json:"id"`
	PostID string `gorm:"index;not null" json:"post_id"`

	// Name the client uploaded the file under. Display only, the
	// payload on disk lives under StoredName
	OriginalName string `gorm:"not null" json:"original_name"`
	StoredName   string `gorm:"not null" json:"stored_name"`
	// Absolute path of the payload, scoped under the per-post directory
	Path     string `gorm:"not null" json:"-"`
	MimeType string `json:"mime_type"`
	Size     int64  `json:"size"`

	CreatedAt time.Time `json:"created_at"`
}
