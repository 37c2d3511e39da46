package domain

import "time"

// Comment is a reply under a post.
type Comment struct {
	ID         uint64    `gorm:"primaryKey" json:"id"`
	PostID     uint64    `gorm:"index;not null" json:"post_id"`
	UserID     *uint64   `gorm:"index" json:"user_id,omitempty"`
	AuthorName string    `gorm:"size:64" json:"author_name"`
	Content    string    `gorm:"type:text;not null" json:"content"`
	CreatedAt  time.Time `json:"created_at"`

	User *User `gorm:"foreignKey:UserID" json:"-"`
}

func (Comment) TableName() string { return "comments" }
