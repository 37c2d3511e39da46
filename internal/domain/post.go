package domain

import "time"

// Post is a meetup announcement on one of the category boards.
type Post struct {
	ID               uint64     `gorm:"primaryKey" json:"id"`
	Category         string     `gorm:"size:32;index" json:"category"`
	Title            string     `gorm:"size:255" json:"title"`
	Content          string     `gorm:"type:text" json:"content"`
	Location         string     `gorm:"size:255" json:"location"`
	MeetingStartTime *time.Time `json:"meeting_start_time,omitempty"`
	MeetingEndTime   *time.Time `json:"meeting_end_time,omitempty"`
	LimitCount       *int       `json:"limit_count,omitempty"`
	AuthorName       string     `gorm:"size:64" json:"author_name"`
	UserID           *uint64    `gorm:"index" json:"user_id,omitempty"`
	CreatedAt        time.Time  `gorm:"index" json:"created_at"`

	User *User `gorm:"foreignKey:UserID" json:"-"`
}

func (Post) TableName() string { return "posts" }

// IsAuthor reports whether userID wrote the post.
func (p Post) IsAuthor(userID uint64) bool {
	return p.UserID != nil && *p.UserID == userID
}

// Limit returns the participant limit, or 0 when none was set.
func (p Post) Limit() int {
	if p.LimitCount == nil {
		return 0
	}
	return *p.LimitCount
}

// PostInput carries the editable fields of a post.
type PostInput struct {
	Category         string
	Title            string
	Content          string
	Location         string
	MeetingStartTime *time.Time
	MeetingEndTime   *time.Time
	LimitCount       *int
}
