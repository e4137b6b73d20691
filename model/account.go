// Package model defines database models
package model

import "time"

// Role is a closed set. Keeping it as a named type forces the
// authorization code to switch over it exhaustively instead of
// comparing loose strings.
type Role string

const (
	RoleAdmin     Role = "ADMIN"
	RoleModerator Role = "MODERATOR"
	RoleUser      Role = "USER"
)

func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleModerator, RoleUser:
		return true
	}
	return false
}

type Status string

const (
	StatusActive   Status = "ACTIVE"
	StatusInactive Status = "INACTIVE"
)

func (s Status) Valid() bool {
	return s == StatusActive || s == StatusInactive
}

type Account struct {
	ID           string `gorm:"primaryKey" json:"id"`
	Email        string `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string `gorm:"not null" json:"-"`
	DisplayName  string `json:"display_name"`
	Phone        *string    `json:"phone,omitempty"`
	BirthDate    *time.Time `json:"birth_date,omitempty"`
	Role         Role       `gorm:"type:varchar(16);not null" json:"role"`
	Status       Status     `gorm:"type:varchar(16);not null" json:"status"`

	// The single currently-valid refresh token. Replaced on every
	// refresh, nulled on logout. Never serialized outward
	RefreshToken *string `json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Todos []Todo `gorm:"foreignKey:OwnerID;constraint:OnDelete:CASCADE" json:"-"`
	Posts []Post `gorm:"foreignKey:OwnerID;constraint:OnDelete:CASCADE" json:"-"`
}
