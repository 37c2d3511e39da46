package domain

import "time"

// User is a registered member of the site.
type User struct {
	ID           uint64    `gorm:"primaryKey" json:"id"`
	LoginID      string    `gorm:"size:64;uniqueIndex;not null" json:"login_id"`
	PasswordHash string    `gorm:"size:255;not null" json:"-"`
	UserName     string    `gorm:"size:64" json:"user_name"`
	CreatedAt    time.Time `json:"created_at"`
}

func (User) TableName() string { return "users" }

// DisplayName falls back to the login id when no name was given.
func (u User) DisplayName() string {
	if u.UserName != "" {
		return u.UserName
	}
	return u.LoginID
}
