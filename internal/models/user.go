package models

import (
	"time"
)

// User represents a registered wallet identity.
type User struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	Name      string     `gorm:"size:100;not null" json:"name"`
	Email     string     `gorm:"uniqueIndex;size:100;not null" json:"email"`
	Address   string     `gorm:"uniqueIndex;size:255;not null" json:"address"`
	Skills    StringList `gorm:"type:text" json:"skills"`
	CreatedAt time.Time  `json:"created_at"`
}

func (User) TableName() string { return "users" }

// UserProfile holds the optional free-form profile fields, one row per user.
// The row is created lazily on the first profile update and is removed with
// its user.
type UserProfile struct {
	UserID     uint      `gorm:"primaryKey" json:"user_id"`
	User       *User     `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	About      string    `gorm:"type:text" json:"about"`
	ImageURL   string    `gorm:"size:500" json:"image_url"`
	GithubURL  string    `gorm:"size:500" json:"github_url"`
	TelegramID string    `gorm:"size:100" json:"telegram_id"`
	DiscordID  string    `gorm:"size:100" json:"discord_id"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (UserProfile) TableName() string { return "user_profiles" }
